package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"generic-matcher/internal/matcher"
)

// DateLayout is the layout of date_of_birth values in every person source.
const DateLayout = "2006-01-02"

// Person is a member record loaded from a seed or other source.
// People are matched by pointer identity; two loaded rows are never the same Person.
type Person struct {
	MemberID    string    `json:"member_id" db:"member_id"`
	SSN         string    `json:"ssn" db:"ssn"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
	IsEmployee  bool      `json:"is_employee" db:"is_employee"`

	// Source is the base name of the file or database the record came from.
	Source string `json:"source" db:"-"`
}

func (p *Person) String() string {
	return fmt.Sprintf("%s(%s)", p.MemberID, p.Source)
}

// PersonMatchType names a person attribute that can be compared.
type PersonMatchType int

const (
	MatchMemberID PersonMatchType = iota + 1
	MatchSSN
	MatchName
	MatchEmail
	MatchPhone
	MatchDateOfBirth
	MatchIsEmployee
)

var matchTypeNames = map[PersonMatchType]string{
	MatchMemberID:    "member_id",
	MatchSSN:         "ssn",
	MatchName:        "name",
	MatchEmail:       "email",
	MatchPhone:       "phone",
	MatchDateOfBirth: "date_of_birth",
	MatchIsEmployee:  "is_employee",
}

func (t PersonMatchType) String() string {
	if name, ok := matchTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PersonMatchType(%d)", int(t))
}

// PersonMatchTypeNames returns every valid match type name in declaration order.
func PersonMatchTypeNames() []string {
	names := make([]string, 0, len(matchTypeNames))
	for t := MatchMemberID; t <= MatchIsEmployee; t++ {
		names = append(names, t.String())
	}
	return names
}

// ParsePersonMatchType resolves a match type by name, ignoring case and surrounding space.
func ParsePersonMatchType(name string) (PersonMatchType, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for t, n := range matchTypeNames {
		if n == want {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", matcher.ErrUnknownMatchType, name)
}

// ParsePersonTiers resolves tiers of match type names.
func ParsePersonTiers(tiers [][]string) ([][]PersonMatchType, error) {
	out := make([][]PersonMatchType, 0, len(tiers))
	for i, tier := range tiers {
		parsed := make([]PersonMatchType, 0, len(tier))
		for _, name := range tier {
			t, err := ParsePersonMatchType(name)
			if err != nil {
				return nil, fmt.Errorf("tier %d: %w", i, err)
			}
			parsed = append(parsed, t)
		}
		out = append(out, parsed)
	}
	return out, nil
}

// FormatPersonTiers is the inverse of ParsePersonTiers.
func FormatPersonTiers(tiers [][]PersonMatchType) [][]string {
	out := make([][]string, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, MatchTypeNames(tier))
	}
	return out
}

// MatchTypeNames converts a tier to its names.
func MatchTypeNames(tier []PersonMatchType) []string {
	names := make([]string, 0, len(tier))
	for _, t := range tier {
		names = append(names, t.String())
	}
	return names
}

// personKey is the comparable key of a text attribute. A blank value is keyed by
// the owning record so that people missing an attribute never match on it.
type personKey struct {
	value string
	blank *Person
}

func textKey(p *Person, value string) personKey {
	if value == "" {
		return personKey{blank: p}
	}
	return personKey{value: value}
}

type nameKey struct {
	first, last string
	blank       *Person
}

type dateKey struct {
	year  int
	month time.Month
	day   int
	blank *Person
}

// PersonCriteria returns a fresh criterion for every PersonMatchType.
// Criteria can only back one Matcher, so call it once per Matcher.
func PersonCriteria() []*matcher.Criterion[*Person, PersonMatchType] {
	return []*matcher.Criterion[*Person, PersonMatchType]{
		matcher.NewCriterion(MatchMemberID, func(p *Person) personKey {
			return textKey(p, strings.ToUpper(strings.TrimSpace(p.MemberID)))
		}),
		matcher.NewCriterion(MatchSSN, func(p *Person) personKey {
			return textKey(p, DigitsOnly(p.SSN))
		}),
		matcher.NewCriterion(MatchName, func(p *Person) nameKey {
			first, last := NormalizeText(p.FirstName), NormalizeText(p.LastName)
			if first == "" && last == "" {
				return nameKey{blank: p}
			}
			return nameKey{first: first, last: last}
		}),
		matcher.NewCriterion(MatchEmail, func(p *Person) personKey {
			return textKey(p, NormalizeText(p.Email))
		}),
		matcher.NewCriterion(MatchPhone, func(p *Person) personKey {
			return textKey(p, DigitsOnly(p.Phone))
		}),
		matcher.NewCriterion(MatchDateOfBirth, func(p *Person) dateKey {
			if p.DateOfBirth.IsZero() {
				return dateKey{blank: p}
			}
			y, m, d := p.DateOfBirth.Date()
			return dateKey{year: y, month: m, day: d}
		}),
		matcher.NewCriterion(MatchIsEmployee, func(p *Person) bool {
			return p.IsEmployee
		}),
	}
}

// NormalizeText lower-cases s, trims it and collapses inner whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
