// Package matcher implements deterministic record matching over an in-memory
// seed collection.
//
// A Matcher is built from seed entities and one Criterion per match type. Each
// criterion indexes the seeds by its key on first use. Probes are answered by
// intersecting the buckets of the requested criteria, and two collections are
// paired one-to-one by applying criteria in priority tiers.
//
// Seed data and indices are read-only after construction, so probe queries may
// run concurrently.
package matcher

import (
	"slices"

	"go.uber.org/zap"
)

// Option configures a Matcher.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	parallelism int
}

// WithLogger sets the logger used for build diagnostics. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithParallelism sets the number of goroutines used for candidate discovery
// in two-way builds. Values below 2 keep discovery on the calling goroutine.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// Matcher answers match queries against a fixed seed collection.
type Matcher[E comparable, M comparable] struct {
	seeds      []E
	criteria   map[M]*Criterion[E, M]
	matchTypes []M

	logger      *zap.Logger
	parallelism int
}

// New creates a Matcher over seeds. Duplicate seeds are merged. Every criterion
// is seeded with the deduplicated seeds and belongs to the returned Matcher;
// it cannot be reseeded or passed to another New.
//
// Zero values of E are treated as absent and rejected with ErrNilArgument, so
// with value-typed entities 0 or "" can never be a seed or a probe.
func New[E comparable, M comparable](seeds []E, criteria []*Criterion[E, M], opts ...Option) (*Matcher[E, M], error) {
	if seeds == nil {
		return nil, ErrNilArgument
	}
	for _, s := range seeds {
		if isZero(s) {
			return nil, ErrNilArgument
		}
	}
	if len(criteria) == 0 {
		return nil, ErrNoCriteria
	}

	byType := make(map[M]*Criterion[E, M], len(criteria))
	matchTypes := make([]M, 0, len(criteria))
	var duplicates []string
	for _, c := range criteria {
		if c == nil {
			return nil, ErrNilArgument
		}
		mt := c.MatchType()
		if _, ok := byType[mt]; ok {
			name := matchTypeName(mt)
			if !slices.Contains(duplicates, name) {
				duplicates = append(duplicates, name)
			}
			continue
		}
		byType[mt] = c
		matchTypes = append(matchTypes, mt)
	}
	if len(duplicates) > 0 {
		slices.Sort(duplicates)
		return nil, &DuplicateMatchTypesError{Types: duplicates}
	}

	claimed := make([]*Criterion[E, M], 0, len(criteria))
	for _, c := range criteria {
		if !c.owned.CompareAndSwap(false, true) {
			for _, prev := range claimed {
				prev.owned.Store(false)
			}
			return nil, ErrAlreadySeeded
		}
		claimed = append(claimed, c)
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	unique := dedupe(seeds)
	for _, c := range criteria {
		c.seed(unique)
	}

	o.logger.Debug("matcher created",
		zap.Int("seeds", len(unique)),
		zap.Int("criteria", len(matchTypes)),
	)

	return &Matcher[E, M]{
		seeds:       unique,
		criteria:    byType,
		matchTypes:  matchTypes,
		logger:      o.logger,
		parallelism: o.parallelism,
	}, nil
}

// Seeds returns the deduplicated seed entities in their original order.
func (m *Matcher[E, M]) Seeds() []E {
	return slices.Clone(m.seeds)
}

// MatchTypes returns the match types this Matcher can evaluate, in criteria order.
func (m *Matcher[E, M]) MatchTypes() []M {
	return slices.Clone(m.matchTypes)
}

// Criterion returns the criterion registered for matchType.
func (m *Matcher[E, M]) Criterion(matchType M) (*Criterion[E, M], bool) {
	c, ok := m.criteria[matchType]
	return c, ok
}

func (m *Matcher[E, M]) validate(types []M) error {
	for _, t := range types {
		if _, ok := m.criteria[t]; !ok {
			return &UnknownMatchTypeError{MatchType: matchTypeName(t)}
		}
	}
	return nil
}

func (m *Matcher[E, M]) validateTiers(tiers [][]M) error {
	if len(tiers) == 0 {
		return ErrEmptyTiers
	}
	for _, tier := range tiers {
		if err := m.validate(tier); err != nil {
			return err
		}
	}
	return nil
}
