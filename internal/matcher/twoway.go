package matcher

import (
	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"generic-matcher/internal/pool"
)

// parallelThreshold is the minimum number of pending entities for which
// discovery is fanned out across goroutines.
const parallelThreshold = 256

// CreateTwoWayMatchDictionary pairs others with the seed entities using a single
// tier of requirements. See CreateTieredTwoWayMatchDictionary.
func (m *Matcher[E, M]) CreateTwoWayMatchDictionary(others []E, requirements []M, strict bool) (*TwoWayMatchDictionary[E, M], error) {
	return m.CreateTieredTwoWayMatchDictionary(others, [][]M{requirements}, strict)
}

// CreateStrictTwoWayMatchDictionary is CreateTwoWayMatchDictionary in strict mode.
func (m *Matcher[E, M]) CreateStrictTwoWayMatchDictionary(others []E, requirements ...M) (*TwoWayMatchDictionary[E, M], error) {
	return m.CreateTwoWayMatchDictionary(others, requirements, true)
}

// CreateTieredTwoWayMatchDictionary builds a one-to-one pairing between the seed
// entities and others. Tiers are applied in order, each only to entities left
// unclaimed by earlier tiers, and are never revisited.
//
// Within a tier, rounds repeat until a round claims nothing. A pairing is clean
// when the other entity has exactly one unclaimed candidate and no other entity
// competes for that seed in the round. Anything else is ambiguous: in strict mode
// the build fails with a *DuplicateKeyError and no dictionary is returned;
// otherwise the first candidate in seed order is claimed and flagged Duplicate.
//
// Every seed and every other entity is present in the result, unmatched
// entities carrying NoMatch.
func (m *Matcher[E, M]) CreateTieredTwoWayMatchDictionary(others []E, tiers [][]M, strict bool) (*TwoWayMatchDictionary[E, M], error) {
	if others == nil {
		return nil, ErrNilArgument
	}
	for _, o := range others {
		if isZero(o) {
			return nil, ErrNilArgument
		}
	}
	if err := m.validateTiers(tiers); err != nil {
		return nil, err
	}

	b := newTwoWayBuild(m, dedupe(others), strict)
	defer b.release()

	for i, tier := range tiers {
		if b.remainingOther.IsEmpty() || b.remainingSeed.IsEmpty() {
			break
		}
		if err := b.runTier(i, tier); err != nil {
			m.logger.Debug("two-way build aborted", zap.Int("tier", i), zap.Error(err))
			return nil, err
		}
	}

	d := b.dictionary()
	m.logger.Debug("two-way build completed",
		zap.Int("seeds", len(d.seeds)),
		zap.Int("others", len(d.others)),
		zap.Int("matched", b.matched),
		zap.Int("duplicates", b.duplicates),
		zap.Bool("strict", strict),
	)
	return d, nil
}

// twoWayBuild holds the state of one two-way build. Ordinals index m.seeds and
// others respectively.
type twoWayBuild[E comparable, M comparable] struct {
	m      *Matcher[E, M]
	others []E
	strict bool

	remainingSeed  *roaring.Bitmap
	remainingOther *roaring.Bitmap

	seedToOther []MatchingResult[E, M]
	otherToSeed []MatchingResult[E, M]

	matched    int
	duplicates int
}

func newTwoWayBuild[E comparable, M comparable](m *Matcher[E, M], others []E, strict bool) *twoWayBuild[E, M] {
	b := &twoWayBuild[E, M]{
		m:              m,
		others:         others,
		strict:         strict,
		remainingSeed:  pool.GetBitmap(),
		remainingOther: pool.GetBitmap(),
		seedToOther:    make([]MatchingResult[E, M], len(m.seeds)),
		otherToSeed:    make([]MatchingResult[E, M], len(others)),
	}
	b.remainingSeed.AddRange(0, uint64(len(m.seeds)))
	b.remainingOther.AddRange(0, uint64(len(others)))
	for i := range b.seedToOther {
		b.seedToOther[i] = NoMatch[E, M]()
	}
	for i := range b.otherToSeed {
		b.otherToSeed[i] = NoMatch[E, M]()
	}
	return b
}

func (b *twoWayBuild[E, M]) release() {
	pool.PutBitmap(b.remainingSeed)
	pool.PutBitmap(b.remainingOther)
	b.remainingSeed, b.remainingOther = nil, nil
}

func (b *twoWayBuild[E, M]) runTier(tierIndex int, tier []M) error {
	log := b.m.logger.With(zap.Int("tier", tierIndex))
	if len(tier) == 0 {
		log.Debug("empty tier skipped")
		return nil
	}

	matchedBefore, dupBefore := b.matched, b.duplicates
	rounds := 0
	for {
		rounds++
		claimed, err := b.runRound(tierIndex, rounds, tier)
		if err != nil {
			return err
		}
		if claimed == 0 {
			break
		}
		if b.remainingOther.IsEmpty() || b.remainingSeed.IsEmpty() {
			break
		}
	}

	log.Debug("tier exhausted",
		zap.Int("rounds", rounds),
		zap.Int("claimed", b.matched-matchedBefore),
		zap.Int("duplicates", b.duplicates-dupBefore),
		zap.Uint64("remaining_seeds", b.remainingSeed.GetCardinality()),
		zap.Uint64("remaining_others", b.remainingOther.GetCardinality()),
	)
	return nil
}

// runRound discovers candidates for every remaining other entity against the
// remaining seeds, then claims pairings serially in input order.
func (b *twoWayBuild[E, M]) runRound(tierIndex, round int, tier []M) (int, error) {
	pending := b.remainingOther.ToArray()

	candidates, err := b.discover(pending, tier)
	if err != nil {
		return 0, err
	}
	defer func() {
		for _, c := range candidates {
			pool.PutOrdinals(c)
		}
	}()

	claimants := make(map[uint32]int)
	for _, c := range candidates {
		for _, s := range *c {
			claimants[s]++
		}
	}

	scratch := pool.GetOrdinals(0)
	defer pool.PutOrdinals(scratch)

	claimed := 0
	for i, o := range pending {
		live := (*scratch)[:0]
		for _, s := range *candidates[i] {
			if b.remainingSeed.Contains(s) {
				live = append(live, s)
			}
		}
		*scratch = live
		if len(live) == 0 {
			continue
		}

		ambiguous := len(live) > 1 || claimants[live[0]] > 1
		if ambiguous && b.strict {
			return claimed, b.duplicateKeyError(o, live, pending, candidates, tierIndex, tier)
		}

		b.claim(live[0], o, tierIndex, round, tier, ambiguous)
		claimed++
	}
	return claimed, nil
}

// discover computes, for each pending other ordinal, the remaining seed ordinals
// it matches under tier. The remaining sets are only read here.
func (b *twoWayBuild[E, M]) discover(pending []uint32, tier []M) ([]*[]uint32, error) {
	out := make([]*[]uint32, len(pending))

	work := func(i int) error {
		dst := pool.GetBitmap()
		defer pool.PutBitmap(dst)

		found, err := b.m.intersect(b.others[pending[i]], tier, b.remainingSeed, dst)
		if err != nil {
			return err
		}
		buf := pool.GetOrdinals(int(dst.GetCardinality()))
		if found {
			it := dst.Iterator()
			for it.HasNext() {
				*buf = append(*buf, it.Next())
			}
		}
		out[i] = buf
		return nil
	}

	workers := b.m.parallelism
	var err error
	if workers < 2 || len(pending) < parallelThreshold {
		for i := range pending {
			if err = work(i); err != nil {
				break
			}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		chunk := (len(pending) + workers - 1) / workers
		for start := 0; start < len(pending); start += chunk {
			end := min(start+chunk, len(pending))
			g.Go(func() error {
				for i := start; i < end; i++ {
					if err := work(i); err != nil {
						return err
					}
				}
				return nil
			})
		}
		err = g.Wait()
	}

	if err != nil {
		for _, c := range out {
			pool.PutOrdinals(c)
		}
		return nil, err
	}
	return out, nil
}

func (b *twoWayBuild[E, M]) claim(seed, other uint32, tierIndex, round int, tier []M, duplicate bool) {
	b.remainingSeed.Remove(seed)
	b.remainingOther.Remove(other)

	b.otherToSeed[other] = newMatchingResult(b.m.seeds[seed], tier, tierIndex, round, duplicate)
	b.seedToOther[seed] = newMatchingResult(b.others[other], tier, tierIndex, round, duplicate)

	b.matched++
	if duplicate {
		b.duplicates++
	}
}

func (b *twoWayBuild[E, M]) duplicateKeyError(other uint32, live []uint32, pending []uint32, candidates []*[]uint32, tierIndex int, tier []M) error {
	contested := make(map[uint32]struct{}, len(live))
	cands := make([]E, 0, len(live))
	for _, s := range live {
		contested[s] = struct{}{}
		cands = append(cands, b.m.seeds[s])
	}

	var contenders []E
	for i, o := range pending {
		if o == other {
			continue
		}
		for _, s := range *candidates[i] {
			if _, ok := contested[s]; ok {
				contenders = append(contenders, b.others[o])
				break
			}
		}
	}

	return &DuplicateKeyError[E, M]{
		Entity:     b.others[other],
		Candidates: cands,
		Contenders: contenders,
		TierIndex:  tierIndex,
		MatchTypes: append([]M(nil), tier...),
	}
}

func (b *twoWayBuild[E, M]) dictionary() *TwoWayMatchDictionary[E, M] {
	d := &TwoWayMatchDictionary[E, M]{
		seeds:       b.m.seeds,
		others:      b.others,
		seedToOther: make(map[E]MatchingResult[E, M], len(b.m.seeds)),
		otherToSeed: make(map[E]MatchingResult[E, M], len(b.others)),
	}
	for i, s := range b.m.seeds {
		d.seedToOther[s] = b.seedToOther[i]
	}
	for i, o := range b.others {
		d.otherToSeed[o] = b.otherToSeed[i]
	}
	return d
}
