package matcher

import (
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
)

// keyIndex groups seeded entity ordinals by key.
type keyIndex[E comparable] interface {
	lookup(probe E) *roaring.Bitmap
	size() int
	each(fn func(bucket *roaring.Bitmap))
}

type typedIndex[E comparable, K comparable] struct {
	key     func(E) K
	buckets map[K]*roaring.Bitmap
}

func (ix *typedIndex[E, K]) lookup(probe E) *roaring.Bitmap {
	return ix.buckets[ix.key(probe)]
}

func (ix *typedIndex[E, K]) size() int {
	return len(ix.buckets)
}

func (ix *typedIndex[E, K]) each(fn func(bucket *roaring.Bitmap)) {
	for _, b := range ix.buckets {
		fn(b)
	}
}

// criterionState is one seeding of a criterion. The index is built on first use.
type criterionState[E comparable] struct {
	entities []E
	index    func() keyIndex[E]
}

// Criterion associates a match type with a key function and lazily indexes
// the entities it is seeded with by that key.
//
// Keys compare with Go equality. Callers that need case-insensitive or otherwise
// normalized comparison must normalize inside the key function.
type Criterion[E comparable, M comparable] struct {
	matchType M
	build     func(entities []E) keyIndex[E]
	equal     func(a, b E) bool

	state atomic.Pointer[criterionState[E]]
	owned atomic.Bool
}

// NewCriterion creates a criterion for matchType using key to extract the
// comparable key of an entity. key must be pure and must not panic on any
// non-zero entity.
//
// The zero value of E stands for an absent entity: it is never indexed and is
// rejected as a probe. Use pointer entities when 0 or "" are meaningful values.
func NewCriterion[E comparable, M comparable, K comparable](matchType M, key func(E) K) *Criterion[E, M] {
	if key == nil {
		return nil
	}
	return &Criterion[E, M]{
		matchType: matchType,
		build: func(entities []E) keyIndex[E] {
			buckets := make(map[K]*roaring.Bitmap)
			for i, e := range entities {
				k := key(e)
				b, ok := buckets[k]
				if !ok {
					b = roaring.New()
					buckets[k] = b
				}
				b.Add(uint32(i))
			}
			return &typedIndex[E, K]{key: key, buckets: buckets}
		},
		equal: func(a, b E) bool {
			return key(a) == key(b)
		},
	}
}

// MatchType returns the match type this criterion answers for.
func (c *Criterion[E, M]) MatchType() M {
	return c.matchType
}

// IsSeeded reports whether Seed has been called.
func (c *Criterion[E, M]) IsSeeded() bool {
	return c.state.Load() != nil
}

// Seed sets the entities this criterion indexes. Duplicates and zero values
// are dropped, keeping the first occurrence. Any previously built index is
// discarded and rebuilt on the next lookup.
//
// A criterion owned by a Matcher keeps the seeds it was given by New; Seed
// returns ErrAlreadySeeded for it.
func (c *Criterion[E, M]) Seed(entities []E) error {
	if c.owned.Load() {
		return ErrAlreadySeeded
	}
	c.seed(entities)
	return nil
}

func (c *Criterion[E, M]) seed(entities []E) {
	deduped := dedupe(entities)
	st := &criterionState[E]{entities: deduped}
	st.index = sync.OnceValue(func() keyIndex[E] {
		return c.build(deduped)
	})
	c.state.Store(st)
}

// GetMatches returns the seeded entities sharing probe's key, in seed order.
// The result is empty when no seeded entity has that key.
func (c *Criterion[E, M]) GetMatches(probe E) ([]E, error) {
	st, err := c.seeded()
	if err != nil {
		return nil, err
	}
	if isZero(probe) {
		return nil, ErrNilArgument
	}
	bucket := st.index().lookup(probe)
	if bucket == nil {
		return []E{}, nil
	}
	return materialize(st.entities, bucket), nil
}

// EntitiesMatch reports whether a and b have equal keys.
func (c *Criterion[E, M]) EntitiesMatch(a, b E) (bool, error) {
	if _, err := c.seeded(); err != nil {
		return false, err
	}
	if isZero(a) || isZero(b) {
		return false, ErrNilArgument
	}
	return c.equal(a, b), nil
}

// AllEntitiesMatch reports whether every entity has the same key as the first.
// It is true for zero or one entity.
func (c *Criterion[E, M]) AllEntitiesMatch(entities ...E) (bool, error) {
	if _, err := c.seeded(); err != nil {
		return false, err
	}
	if len(entities) < 2 {
		return true, nil
	}
	first := entities[0]
	for _, e := range entities[1:] {
		ok, err := c.EntitiesMatch(first, e)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Buckets returns the number of distinct keys among the seeded entities.
func (c *Criterion[E, M]) Buckets() (int, error) {
	st, err := c.seeded()
	if err != nil {
		return 0, err
	}
	return st.index().size(), nil
}

func (c *Criterion[E, M]) seeded() (*criterionState[E], error) {
	st := c.state.Load()
	if st == nil {
		return nil, ErrNotSeeded
	}
	return st, nil
}

// bucket returns the shared, read-only ordinal set for probe. nil means no match.
func (c *Criterion[E, M]) bucket(probe E) (*roaring.Bitmap, error) {
	st, err := c.seeded()
	if err != nil {
		return nil, err
	}
	return st.index().lookup(probe), nil
}

func dedupe[E comparable](entities []E) []E {
	seen := make(map[E]struct{}, len(entities))
	out := make([]E, 0, len(entities))
	for _, e := range entities {
		if isZero(e) {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func materialize[E comparable](entities []E, ordinals *roaring.Bitmap) []E {
	out := make([]E, 0, ordinals.GetCardinality())
	it := ordinals.Iterator()
	for it.HasNext() {
		out = append(out, entities[it.Next()])
	}
	return out
}

func isZero[E comparable](e E) bool {
	var zero E
	return e == zero
}
