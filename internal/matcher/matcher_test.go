package matcher_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"generic-matcher/internal/matcher"
)

type entity struct {
	ID    string
	Name  string
	Email string
	Phone string
	SSN   string
	DOB   string
}

type matchType int

const (
	byID matchType = iota
	byName
	byEmail
	byPhone
	bySSN
	byDOB
	byAddress
)

func (m matchType) String() string {
	switch m {
	case byID:
		return "ID"
	case byName:
		return "Name"
	case byEmail:
		return "Email"
	case byPhone:
		return "Phone"
	case bySSN:
		return "SSN"
	case byDOB:
		return "DOB"
	default:
		return "Address"
	}
}

func testCriteria() []*matcher.Criterion[*entity, matchType] {
	return []*matcher.Criterion[*entity, matchType]{
		matcher.NewCriterion(byID, func(e *entity) string { return e.ID }),
		matcher.NewCriterion(byName, func(e *entity) string { return strings.ToLower(e.Name) }),
		matcher.NewCriterion(byEmail, func(e *entity) string { return strings.ToLower(e.Email) }),
		matcher.NewCriterion(byPhone, func(e *entity) string { return e.Phone }),
		matcher.NewCriterion(bySSN, func(e *entity) string { return e.SSN }),
		matcher.NewCriterion(byDOB, func(e *entity) string { return e.DOB }),
	}
}

func testEntities() []*entity {
	return []*entity{
		{ID: "1", Name: "John Doe", Email: "john@example.com", Phone: "555-0100", SSN: "100", DOB: "1990-01-01"},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Phone: "555-0101", SSN: "101", DOB: "1985-05-15"},
		{ID: "3", Name: "John Doe", Email: "jdoe@example.com", Phone: "555-0102", SSN: "102", DOB: "1990-01-01"},
		{ID: "4", Name: "Alice Jones", Email: "alice@example.com", Phone: "555-0103", SSN: "103", DOB: "1985-05-15"},
		{ID: "5", Name: "Bob Brown", Email: "bob@example.com", Phone: "555-0104", SSN: "104", DOB: "1979-12-31"},
	}
}

func newTestMatcher(t *testing.T, seeds []*entity, opts ...matcher.Option) *matcher.Matcher[*entity, matchType] {
	t.Helper()
	m, err := matcher.New(seeds, testCriteria(), opts...)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	seeds := testEntities()

	tests := []struct {
		name     string
		seeds    []*entity
		criteria []*matcher.Criterion[*entity, matchType]
		wantErr  error
	}{
		{
			name:     "valid",
			seeds:    seeds,
			criteria: testCriteria(),
		},
		{
			name:     "empty seeds are allowed",
			seeds:    []*entity{},
			criteria: testCriteria(),
		},
		{
			name:     "nil seeds",
			seeds:    nil,
			criteria: testCriteria(),
			wantErr:  matcher.ErrNilArgument,
		},
		{
			name:     "nil seed entity",
			seeds:    []*entity{seeds[0], nil},
			criteria: testCriteria(),
			wantErr:  matcher.ErrNilArgument,
		},
		{
			name:     "no criteria",
			seeds:    seeds,
			criteria: nil,
			wantErr:  matcher.ErrNoCriteria,
		},
		{
			name:     "nil criterion",
			seeds:    seeds,
			criteria: append(testCriteria(), nil),
			wantErr:  matcher.ErrNilArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := matcher.New(tt.seeds, tt.criteria)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
			for _, c := range tt.criteria {
				assert.True(t, c.IsSeeded())
			}
		})
	}
}

func TestNew_DuplicateMatchTypes(t *testing.T) {
	criteria := append(testCriteria(),
		matcher.NewCriterion(bySSN, func(e *entity) string { return e.SSN }),
		matcher.NewCriterion(byDOB, func(e *entity) string { return e.DOB }),
		matcher.NewCriterion(bySSN, func(e *entity) string { return e.SSN }),
	)

	_, err := matcher.New(testEntities(), criteria)
	require.Error(t, err)
	assert.ErrorIs(t, err, matcher.ErrDuplicateMatchTypes)

	var dupErr *matcher.DuplicateMatchTypesError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, []string{"DOB", "SSN"}, dupErr.Types)
	assert.Contains(t, err.Error(), "DOB, SSN")
}

func TestNew_CriterionReuse(t *testing.T) {
	criteria := testCriteria()
	_, err := matcher.New(testEntities(), criteria)
	require.NoError(t, err)

	_, err = matcher.New(testEntities(), criteria)
	assert.ErrorIs(t, err, matcher.ErrAlreadySeeded)
}

func TestNew_OwnedCriterionRejectsReseed(t *testing.T) {
	seeds := testEntities()
	m := newTestMatcher(t, seeds[:2])

	c, ok := m.Criterion(byID)
	require.True(t, ok)

	err := c.Seed([]*entity{{ID: "w"}, {ID: "x"}, {ID: "y"}, {ID: "z"}})
	assert.ErrorIs(t, err, matcher.ErrAlreadySeeded)

	got, err := m.FindMatches(&entity{ID: seeds[0].ID}, byID)
	require.NoError(t, err)
	assert.Equal(t, []*entity{seeds[0]}, got)

	got, err = m.FindMatches(&entity{ID: "z"}, byID)
	require.NoError(t, err)
	assert.Empty(t, got)

	matches, err := c.GetMatches(&entity{ID: seeds[1].ID})
	require.NoError(t, err)
	assert.Equal(t, []*entity{seeds[1]}, matches)
}

func TestNew_ZeroValueEntitiesAreAbsent(t *testing.T) {
	byValue := func() []*matcher.Criterion[string, matchType] {
		return []*matcher.Criterion[string, matchType]{
			matcher.NewCriterion(byName, strings.ToLower),
		}
	}

	_, err := matcher.New([]string{"Ann", ""}, byValue())
	assert.ErrorIs(t, err, matcher.ErrNilArgument)

	m, err := matcher.New([]string{"Ann", "Bob"}, byValue())
	require.NoError(t, err)

	got, err := m.FindMatches("ANN", byName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann"}, got)

	_, err = m.FindMatches("", byName)
	assert.ErrorIs(t, err, matcher.ErrNilArgument)
}

func TestNew_DeduplicatesSeeds(t *testing.T) {
	seeds := testEntities()
	m := newTestMatcher(t, append(seeds, seeds[0], seeds[3]))

	assert.Equal(t, seeds, m.Seeds())
	assert.Equal(t, []matchType{byID, byName, byEmail, byPhone, bySSN, byDOB}, m.MatchTypes())

	c, ok := m.Criterion(byDOB)
	require.True(t, ok)
	buckets, err := c.Buckets()
	require.NoError(t, err)
	assert.Equal(t, 3, buckets)

	_, ok = m.Criterion(byAddress)
	assert.False(t, ok)
}

func TestMatcher_FindMatches(t *testing.T) {
	seeds := testEntities()
	m := newTestMatcher(t, seeds)

	tests := []struct {
		name  string
		probe *entity
		types []matchType
		want  []*entity
	}{
		{
			name:  "single criterion",
			probe: &entity{ID: "2"},
			types: []matchType{byID},
			want:  []*entity{seeds[1]},
		},
		{
			name:  "several seeds share a key, returned in seed order",
			probe: &entity{DOB: "1985-05-15"},
			types: []matchType{byDOB},
			want:  []*entity{seeds[1], seeds[3]},
		},
		{
			name:  "intersection narrows",
			probe: &entity{Name: "JOHN DOE", DOB: "1990-01-01", Email: "jdoe@example.com"},
			types: []matchType{byName, byDOB, byEmail},
			want:  []*entity{seeds[2]},
		},
		{
			name:  "empty intersection",
			probe: &entity{Name: "John Doe", DOB: "1985-05-15"},
			types: []matchType{byName, byDOB},
			want:  []*entity{},
		},
		{
			name:  "absent key",
			probe: &entity{Email: "nobody@example.com"},
			types: []matchType{byEmail},
			want:  []*entity{},
		},
		{
			name:  "no match types never matches",
			probe: seeds[0],
			types: nil,
			want:  []*entity{},
		},
		{
			name:  "repeated type is harmless",
			probe: &entity{DOB: "1990-01-01"},
			types: []matchType{byDOB, byDOB},
			want:  []*entity{seeds[0], seeds[2]},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FindMatches(tt.probe, tt.types...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcher_FindMatchesErrors(t *testing.T) {
	m := newTestMatcher(t, testEntities())

	_, err := m.FindMatches(nil, byID)
	assert.ErrorIs(t, err, matcher.ErrNilArgument)

	_, err = m.FindMatches(&entity{ID: "1"}, byID, byAddress)
	assert.ErrorIs(t, err, matcher.ErrUnknownMatchType)

	var unknown *matcher.UnknownMatchTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Address", unknown.MatchType)
}

// Every result satisfies all requested criteria, and every seed satisfying all of
// them is returned.
func TestMatcher_FindMatchesIsExactIntersection(t *testing.T) {
	seeds := testEntities()
	m := newTestMatcher(t, seeds)
	types := []matchType{byID, byName, byEmail, byPhone, bySSN, byDOB}
	keys := map[matchType]func(e *entity) string{
		byID:    func(e *entity) string { return e.ID },
		byName:  func(e *entity) string { return strings.ToLower(e.Name) },
		byEmail: func(e *entity) string { return strings.ToLower(e.Email) },
		byPhone: func(e *entity) string { return e.Phone },
		bySSN:   func(e *entity) string { return e.SSN },
		byDOB:   func(e *entity) string { return e.DOB },
	}

	for _, probe := range seeds {
		for mask := 1; mask < 1<<len(types); mask++ {
			var requested []matchType
			for i, mt := range types {
				if mask&(1<<i) != 0 {
					requested = append(requested, mt)
				}
			}

			want := []*entity{}
			for _, s := range seeds {
				all := true
				for _, mt := range requested {
					if keys[mt](s) != keys[mt](probe) {
						all = false
						break
					}
				}
				if all {
					want = append(want, s)
				}
			}

			got, err := m.FindMatches(probe, requested...)
			require.NoError(t, err)
			assert.Equal(t, want, got, "probe %s types %v", probe.ID, requested)

			again, err := m.FindMatches(probe, requested...)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		}
	}
}

func TestMatcher_FindFirstMatchOrDefault(t *testing.T) {
	seeds := testEntities()
	m := newTestMatcher(t, seeds)

	got, ok, err := m.FindFirstMatchOrDefault(&entity{DOB: "1985-05-15"}, byDOB)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, []*entity{seeds[1], seeds[3]}, got)

	got, ok, err = m.FindFirstMatchOrDefault(&entity{DOB: "2000-01-01"}, byDOB)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	_, _, err = m.FindFirstMatchOrDefault(&entity{}, byAddress)
	assert.ErrorIs(t, err, matcher.ErrUnknownMatchType)
}

func TestMatcher_FindSingleMatch(t *testing.T) {
	seeds := testEntities()
	m := newTestMatcher(t, seeds)

	tests := []struct {
		name    string
		probe   *entity
		types   []matchType
		want    *entity
		wantErr error
	}{
		{name: "unique", probe: &entity{SSN: "104"}, types: []matchType{bySSN}, want: seeds[4]},
		{name: "none", probe: &entity{SSN: "999"}, types: []matchType{bySSN}, wantErr: matcher.ErrNoMatch},
		{name: "several", probe: &entity{Name: "john doe"}, types: []matchType{byName}, wantErr: matcher.ErrMoreThanOneMatch},
		{name: "nil probe", probe: nil, types: []matchType{bySSN}, wantErr: matcher.ErrNilArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FindSingleMatch(tt.probe, tt.types...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestMatcher_FindMatchesTiered(t *testing.T) {
	seeds := testEntities()
	m := newTestMatcher(t, seeds)

	tests := []struct {
		name      string
		probe     *entity
		tiers     [][]matchType
		wantTier  int
		wantTypes []matchType
		want      []*entity
	}{
		{
			name:      "first tier wins",
			probe:     &entity{SSN: "100", DOB: "1985-05-15"},
			tiers:     [][]matchType{{bySSN}, {byDOB}},
			wantTier:  0,
			wantTypes: []matchType{bySSN},
			want:      []*entity{seeds[0]},
		},
		{
			name:      "falls through to a later tier",
			probe:     &entity{SSN: "999", DOB: "1985-05-15"},
			tiers:     [][]matchType{{bySSN}, {byDOB}},
			wantTier:  1,
			wantTypes: []matchType{byDOB},
			want:      []*entity{seeds[1], seeds[3]},
		},
		{
			name:      "empty tier is skipped",
			probe:     &entity{Phone: "555-0103"},
			tiers:     [][]matchType{{}, {byPhone}},
			wantTier:  1,
			wantTypes: []matchType{byPhone},
			want:      []*entity{seeds[3]},
		},
		{
			name:     "no tier matches",
			probe:    &entity{SSN: "999", DOB: "2001-01-01"},
			tiers:    [][]matchType{{bySSN}, {byDOB}},
			wantTier: -1,
			want:     []*entity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FindMatchesTiered(tt.probe, tt.tiers...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTier, got.TierIndex)
			assert.Equal(t, tt.wantTypes, got.MatchTypes)
			assert.Equal(t, tt.want, got.Matches)
			assert.Equal(t, tt.wantTier >= 0, got.Found())

			// Earlier tiers must not match on their own.
			for i := 0; i < tt.wantTier; i++ {
				earlier, err := m.FindMatches(tt.probe, tt.tiers[i]...)
				require.NoError(t, err)
				assert.Empty(t, earlier)
			}
		})
	}
}

func TestMatcher_FindMatchesTieredErrors(t *testing.T) {
	m := newTestMatcher(t, testEntities())

	_, err := m.FindMatchesTiered(&entity{SSN: "100"})
	assert.ErrorIs(t, err, matcher.ErrEmptyTiers)

	res, err := m.FindMatchesTiered(&entity{SSN: "100"}, []matchType{bySSN}, []matchType{byAddress})
	assert.ErrorIs(t, err, matcher.ErrUnknownMatchType)
	assert.False(t, res.Found())

	_, err = m.FindMatchesTiered(nil, []matchType{bySSN})
	assert.ErrorIs(t, err, matcher.ErrNilArgument)
}
