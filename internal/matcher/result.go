package matcher

import "slices"

// MatchResult is the outcome of a single-probe tiered lookup.
type MatchResult[E comparable, M comparable] struct {
	// Matches holds the matching seed entities in seed order.
	Matches []E
	// MatchTypes is the tier grouping that produced Matches.
	MatchTypes []M
	// TierIndex is the position of the winning tier, or -1 if no tier matched.
	TierIndex int
}

// Found reports whether any tier matched.
func (r MatchResult[E, M]) Found() bool {
	return r.TierIndex >= 0 && len(r.Matches) > 0
}

func noMatchResult[E comparable, M comparable]() MatchResult[E, M] {
	return MatchResult[E, M]{Matches: []E{}, TierIndex: -1}
}

// MatchingResult is the counterpart of one entity in a two-way dictionary.
type MatchingResult[E comparable, M comparable] struct {
	// Match is the paired counterpart; the zero value of E when unmatched.
	Match E
	// MatchTypes is the tier grouping that produced the pairing.
	MatchTypes []M
	// TierIndex is the tier that produced the pairing, or -1 when unmatched.
	TierIndex int
	// Round is the 1-based round within the tier that claimed the pairing.
	Round int
	// Duplicate is set when the pairing was picked among several viable candidates.
	Duplicate bool
}

// NoMatch returns the sentinel stored for entities without a counterpart.
func NoMatch[E comparable, M comparable]() MatchingResult[E, M] {
	return MatchingResult[E, M]{TierIndex: -1}
}

// Matched reports whether the result carries a counterpart.
func (r MatchingResult[E, M]) Matched() bool {
	return !isZero(r.Match)
}

func newMatchingResult[E comparable, M comparable](match E, tier []M, tierIndex, round int, duplicate bool) MatchingResult[E, M] {
	return MatchingResult[E, M]{
		Match:      match,
		MatchTypes: slices.Clone(tier),
		TierIndex:  tierIndex,
		Round:      round,
		Duplicate:  duplicate,
	}
}
