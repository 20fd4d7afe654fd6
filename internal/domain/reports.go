package domain

import "time"

// MatchedPair is one seed/other pairing produced by the two-way build.
type MatchedPair struct {
	Seed       Person   `json:"seed"`
	Other      Person   `json:"other"`
	TierIndex  int      `json:"tier_index"`
	MatchTypes []string `json:"match_types"`
	Duplicate  bool     `json:"duplicate"`
}

// TierSummary counts the pairings each tier produced.
type TierSummary struct {
	TierIndex  int      `json:"tier_index"`
	MatchTypes []string `json:"match_types"`
	Matched    int      `json:"matched"`
	Duplicates int      `json:"duplicates"`
}

// UnmatchedPeople lists the people left without a counterpart on either side.
type UnmatchedPeople struct {
	Count                int                 `json:"count"`
	SeedMissingFromOther []Person            `json:"seed_missing_from_other"`
	OtherMissingFromSeed map[string][]Person `json:"other_missing_from_seed"`
}

// Summary provides high-level statistics of the reconciliation run.
type Summary struct {
	SeedSource             string   `json:"seed_source"`
	OtherSources           []string `json:"other_sources"`
	Strict                 bool     `json:"strict"`
	TotalSeedPeopleLoaded  int      `json:"total_seed_people_loaded"`
	TotalOtherPeopleLoaded int      `json:"total_other_people_loaded"`
	MatchedPeople          int      `json:"matched_people"`
	AmbiguousMatches       int      `json:"ambiguous_matches"`
	UnmatchedSeedPeople    int      `json:"unmatched_seed_people"`
	UnmatchedOtherPeople   int      `json:"unmatched_other_people"`
}

// ReconciliationReport is the top-level structure for the final JSON output.
type ReconciliationReport struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Summary     Summary         `json:"reconciliation_summary"`
	Tiers       []TierSummary   `json:"tiers"`
	Matched     []MatchedPair   `json:"matched"`
	Unmatched   UnmatchedPeople `json:"unmatched"`
}

// LookupResult is the outcome of matching one probe against the seed people.
type LookupResult struct {
	Probe      Person   `json:"probe"`
	Found      bool     `json:"found"`
	TierIndex  int      `json:"tier_index"`
	MatchTypes []string `json:"match_types,omitempty"`
	Matches    []Person `json:"matches"`
}
