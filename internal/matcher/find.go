package matcher

import (
	"cmp"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"generic-matcher/internal/pool"
)

// maxInlineBuckets bounds the stack-allocated bucket list used by intersect.
const maxInlineBuckets = 8

// FindMatches returns the seed entities that share probe's key under every
// requested match type, in seed order. Requesting no match types matches nothing.
func (m *Matcher[E, M]) FindMatches(probe E, types ...M) ([]E, error) {
	if isZero(probe) {
		return nil, ErrNilArgument
	}
	if err := m.validate(types); err != nil {
		return nil, err
	}

	var matches []E
	err := pool.WithBitmap(func(dst *roaring.Bitmap) error {
		found, err := m.intersect(probe, types, nil, dst)
		if err != nil {
			return err
		}
		if found {
			matches = materialize(m.seeds, dst)
		} else {
			matches = []E{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// FindFirstMatchOrDefault returns one matching seed entity, reporting false when
// there is none. When several match, callers must not rely on which is returned.
func (m *Matcher[E, M]) FindFirstMatchOrDefault(probe E, types ...M) (E, bool, error) {
	var zero E
	if isZero(probe) {
		return zero, false, ErrNilArgument
	}
	if err := m.validate(types); err != nil {
		return zero, false, err
	}

	dst := pool.GetBitmap()
	defer pool.PutBitmap(dst)

	found, err := m.intersect(probe, types, nil, dst)
	if err != nil || !found {
		return zero, false, err
	}
	return m.seeds[dst.Minimum()], true, nil
}

// FindSingleMatch returns the only matching seed entity. It fails with ErrNoMatch
// or ErrMoreThanOneMatch when the match is missing or not unique.
func (m *Matcher[E, M]) FindSingleMatch(probe E, types ...M) (E, error) {
	var zero E
	if isZero(probe) {
		return zero, ErrNilArgument
	}
	if err := m.validate(types); err != nil {
		return zero, err
	}

	dst := pool.GetBitmap()
	defer pool.PutBitmap(dst)

	found, err := m.intersect(probe, types, nil, dst)
	switch {
	case err != nil:
		return zero, err
	case !found:
		return zero, ErrNoMatch
	case dst.GetCardinality() > 1:
		return zero, ErrMoreThanOneMatch
	}
	return m.seeds[dst.Minimum()], nil
}

// FindMatchesTiered tries each tier in order and returns the matches of the first
// tier that matches anything. Lower-priority tiers are not evaluated once a tier
// matches. An empty tier never matches.
func (m *Matcher[E, M]) FindMatchesTiered(probe E, tiers ...[]M) (MatchResult[E, M], error) {
	if isZero(probe) {
		return noMatchResult[E, M](), ErrNilArgument
	}
	if err := m.validateTiers(tiers); err != nil {
		return noMatchResult[E, M](), err
	}

	dst := pool.GetBitmap()
	defer pool.PutBitmap(dst)

	for i, tier := range tiers {
		found, err := m.intersect(probe, tier, nil, dst)
		if err != nil {
			return noMatchResult[E, M](), err
		}
		if found {
			return MatchResult[E, M]{
				Matches:    materialize(m.seeds, dst),
				MatchTypes: slices.Clone(tier),
				TierIndex:  i,
			}, nil
		}
	}
	return noMatchResult[E, M](), nil
}

// intersect writes into dst the ordinals of seeds matching probe under every type,
// optionally restricted to within. It reports whether the result is non-empty.
// Buckets are shared and never mutated; dst is cleared first.
func (m *Matcher[E, M]) intersect(probe E, types []M, within *roaring.Bitmap, dst *roaring.Bitmap) (bool, error) {
	dst.Clear()
	if len(types) == 0 {
		return false, nil
	}
	if within != nil && within.IsEmpty() {
		return false, nil
	}

	var inline [maxInlineBuckets]*roaring.Bitmap
	buckets := inline[:0]
	for _, t := range types {
		c, ok := m.criteria[t]
		if !ok {
			return false, &UnknownMatchTypeError{MatchType: matchTypeName(t)}
		}
		b, err := c.bucket(probe)
		if err != nil {
			return false, err
		}
		if b == nil || b.IsEmpty() {
			return false, nil
		}
		buckets = append(buckets, b)
	}
	if within != nil {
		buckets = append(buckets, within)
	}

	slices.SortFunc(buckets, func(a, b *roaring.Bitmap) int {
		return cmp.Compare(a.GetCardinality(), b.GetCardinality())
	})

	dst.Or(buckets[0])
	for _, b := range buckets[1:] {
		dst.And(b)
		if dst.IsEmpty() {
			return false, nil
		}
	}
	return !dst.IsEmpty(), nil
}
