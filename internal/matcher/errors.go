package matcher

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCriteria is returned when a Matcher is constructed without criteria.
	ErrNoCriteria = errors.New("at least one match criterion is required")

	// ErrDuplicateMatchTypes is matched by DuplicateMatchTypesError.
	ErrDuplicateMatchTypes = errors.New("duplicate match types")

	// ErrNotSeeded is returned when a criterion is queried before Seed.
	ErrNotSeeded = errors.New("match criterion is not yet seeded")

	// ErrAlreadySeeded is returned when a criterion seeded by another Matcher is reused.
	ErrAlreadySeeded = errors.New("match criterion has already been seeded")

	// ErrUnknownMatchType is matched by UnknownMatchTypeError.
	ErrUnknownMatchType = errors.New("unknown match type")

	// ErrNilArgument is returned when a required argument is absent.
	ErrNilArgument = errors.New("required argument is nil")

	// ErrEmptyTiers is returned when a tiered operation receives no tiers.
	ErrEmptyTiers = errors.New("tiered criteria cannot be empty")

	// ErrDuplicateKey is matched by DuplicateKeyError.
	ErrDuplicateKey = errors.New("found more than one match when only one was expected")

	// ErrNoMatch is returned by FindSingleMatch when nothing matches.
	ErrNoMatch = errors.New("no match found")

	// ErrMoreThanOneMatch is returned by FindSingleMatch when the match is not unique.
	ErrMoreThanOneMatch = errors.New("found more than one match")
)

// DuplicateMatchTypesError reports match types declared by more than one criterion.
type DuplicateMatchTypesError struct {
	Types []string
}

func (e *DuplicateMatchTypesError) Error() string {
	return fmt.Sprintf("duplicate match types found: %s", strings.Join(e.Types, ", "))
}

func (e *DuplicateMatchTypesError) Is(target error) bool { return target == ErrDuplicateMatchTypes }

// UnknownMatchTypeError reports a requested match type with no criterion.
type UnknownMatchTypeError struct {
	MatchType string
}

func (e *UnknownMatchTypeError) Error() string {
	return fmt.Sprintf("unknown match type: %s", e.MatchType)
}

func (e *UnknownMatchTypeError) Is(target error) bool { return target == ErrUnknownMatchType }

// DuplicateKeyError is returned by strict two-way builds when a pairing is ambiguous.
// Entity is the other-side entity being paired, Candidates the seed entities it
// could pair with, and Contenders the other-side entities competing for the same seeds.
type DuplicateKeyError[E comparable, M comparable] struct {
	Entity     E
	Candidates []E
	Contenders []E
	TierIndex  int
	MatchTypes []M
}

func (e *DuplicateKeyError[E, M]) Error() string {
	return fmt.Sprintf("%s: entity %v has candidates %v contended by %v in tier %d %v",
		ErrDuplicateKey, e.Entity, e.Candidates, e.Contenders, e.TierIndex, e.MatchTypes)
}

func (e *DuplicateKeyError[E, M]) Unwrap() error { return ErrDuplicateKey }

func matchTypeName[M comparable](m M) string {
	return fmt.Sprint(m)
}
