package matcher

import "maps"

// TwoWayMatchDictionary is the result of a two-way build. Every seed and every
// other entity has an entry; unmatched entries hold NoMatch. Pairings are
// symmetric: if seed S maps to O then O maps to S.
type TwoWayMatchDictionary[E comparable, M comparable] struct {
	seeds       []E
	others      []E
	seedToOther map[E]MatchingResult[E, M]
	otherToSeed map[E]MatchingResult[E, M]
}

// FindMatchFromSeedToOther returns the counterpart recorded for a seed entity.
// The boolean is false when seed was not part of the build.
func (d *TwoWayMatchDictionary[E, M]) FindMatchFromSeedToOther(seed E) (MatchingResult[E, M], bool) {
	r, ok := d.seedToOther[seed]
	return r, ok
}

// FindMatchFromOtherToSeed returns the counterpart recorded for an other entity.
// The boolean is false when other was not part of the build.
func (d *TwoWayMatchDictionary[E, M]) FindMatchFromOtherToSeed(other E) (MatchingResult[E, M], bool) {
	r, ok := d.otherToSeed[other]
	return r, ok
}

// GetMatchFromEither looks e up on the seed side first, then on the other side.
func (d *TwoWayMatchDictionary[E, M]) GetMatchFromEither(e E) (E, bool) {
	if r, ok := d.seedToOther[e]; ok && r.Matched() {
		return r.Match, true
	}
	if r, ok := d.otherToSeed[e]; ok && r.Matched() {
		return r.Match, true
	}
	var zero E
	return zero, false
}

// HasMatch reports whether e is paired on either side.
func (d *TwoWayMatchDictionary[E, M]) HasMatch(e E) bool {
	_, ok := d.GetMatchFromEither(e)
	return ok
}

// SeedToOther returns a copy of the seed-side map, unmatched entries included.
func (d *TwoWayMatchDictionary[E, M]) SeedToOther() map[E]MatchingResult[E, M] {
	return maps.Clone(d.seedToOther)
}

// OtherToSeed returns a copy of the other-side map, unmatched entries included.
func (d *TwoWayMatchDictionary[E, M]) OtherToSeed() map[E]MatchingResult[E, M] {
	return maps.Clone(d.otherToSeed)
}

// MatchedSeedToOther returns only the paired seed entries.
func (d *TwoWayMatchDictionary[E, M]) MatchedSeedToOther() map[E]MatchingResult[E, M] {
	return matchedOnly(d.seedToOther)
}

// MatchedOtherToSeed returns only the paired other entries.
func (d *TwoWayMatchDictionary[E, M]) MatchedOtherToSeed() map[E]MatchingResult[E, M] {
	return matchedOnly(d.otherToSeed)
}

// UnmatchedSeeds returns the seed entities without a counterpart, in seed order.
func (d *TwoWayMatchDictionary[E, M]) UnmatchedSeeds() []E {
	return unmatched(d.seeds, d.seedToOther)
}

// UnmatchedOthers returns the other entities without a counterpart, in input order.
func (d *TwoWayMatchDictionary[E, M]) UnmatchedOthers() []E {
	return unmatched(d.others, d.otherToSeed)
}

// Seeds returns the seed entities in order.
func (d *TwoWayMatchDictionary[E, M]) Seeds() []E {
	return append([]E(nil), d.seeds...)
}

// Others returns the deduplicated other entities in input order.
func (d *TwoWayMatchDictionary[E, M]) Others() []E {
	return append([]E(nil), d.others...)
}

// Len returns the number of pairings.
func (d *TwoWayMatchDictionary[E, M]) Len() int {
	n := 0
	for _, r := range d.otherToSeed {
		if r.Matched() {
			n++
		}
	}
	return n
}

// Duplicates returns the number of pairings flagged as ambiguous.
func (d *TwoWayMatchDictionary[E, M]) Duplicates() int {
	n := 0
	for _, r := range d.otherToSeed {
		if r.Matched() && r.Duplicate {
			n++
		}
	}
	return n
}

func matchedOnly[E comparable, M comparable](src map[E]MatchingResult[E, M]) map[E]MatchingResult[E, M] {
	out := make(map[E]MatchingResult[E, M])
	for k, r := range src {
		if r.Matched() {
			out[k] = r
		}
	}
	return out
}

func unmatched[E comparable, M comparable](order []E, results map[E]MatchingResult[E, M]) []E {
	out := make([]E, 0)
	for _, e := range order {
		if !results[e].Matched() {
			out = append(out, e)
		}
	}
	return out
}
