package usecase

import (
	"context"
	"fmt"
	"generic-matcher/internal/domain"
	"generic-matcher/internal/matcher"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReconcileRequest describes one reconciliation run.
type ReconcileRequest struct {
	SeedPath   string
	OtherPaths []string
	// Tiers are applied in order; earlier tiers take priority.
	Tiers       [][]domain.PersonMatchType
	Strict      bool
	Parallelism int
}

// LookupRequest describes a batch of probe lookups against the seed people.
type LookupRequest struct {
	SeedPath  string
	ProbePath string
	Tiers     [][]domain.PersonMatchType
}

// ReconciliationUseCase orchestrates the reconciliation process.
type ReconciliationUseCase struct {
	repo   PersonRepository
	logger *zap.Logger

	now      func() time.Time
	newRunID func() string
}

// NewReconciliationUseCase creates a new instance of the usecase. A nil logger disables logging.
func NewReconciliationUseCase(repo PersonRepository, logger *zap.Logger) *ReconciliationUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationUseCase{
		repo:     repo,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newRunID: uuid.NewString,
	}
}

// Reconcile pairs every other person with at most one seed person and reports
// the pairings and leftovers on both sides.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, req ReconcileRequest) (*domain.ReconciliationReport, error) {
	runID := uc.newRunID()
	log := uc.logger.With(zap.String("run_id", runID))

	// Step 1: Data Ingestion
	seeds, others, err := uc.load(ctx, req.SeedPath, func(ctx context.Context) ([]*domain.Person, error) {
		people, err := uc.repo.GetOtherPeople(ctx, req.OtherPaths)
		if err != nil {
			return nil, fmt.Errorf("could not get other people: %w", err)
		}
		return people, nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("people loaded", zap.Int("seed", len(seeds)), zap.Int("other", len(others)))

	// Step 2: Tiered two-way matching
	m, err := matcher.New(seeds, domain.PersonCriteria(),
		matcher.WithLogger(log),
		matcher.WithParallelism(req.Parallelism),
	)
	if err != nil {
		return nil, fmt.Errorf("could not build matcher: %w", err)
	}

	dict, err := m.CreateTieredTwoWayMatchDictionary(others, req.Tiers, req.Strict)
	if err != nil {
		return nil, fmt.Errorf("could not match people: %w", err)
	}

	// Step 3: Report
	report := uc.buildReport(runID, req, dict)
	log.Info("reconciliation completed",
		zap.Int("matched", report.Summary.MatchedPeople),
		zap.Int("ambiguous", report.Summary.AmbiguousMatches),
		zap.Int("unmatched", report.Unmatched.Count),
	)
	return report, nil
}

// Lookup matches every probe person against the seed people, one tier at a time.
func (uc *ReconciliationUseCase) Lookup(ctx context.Context, req LookupRequest) ([]domain.LookupResult, error) {
	if len(req.Tiers) == 0 {
		return nil, fmt.Errorf("could not look up people: %w", matcher.ErrEmptyTiers)
	}

	seeds, probes, err := uc.load(ctx, req.SeedPath, func(ctx context.Context) ([]*domain.Person, error) {
		people, err := uc.repo.GetOtherPeople(ctx, []string{req.ProbePath})
		if err != nil {
			return nil, fmt.Errorf("could not get probe people: %w", err)
		}
		return people, nil
	})
	if err != nil {
		return nil, err
	}

	m, err := matcher.New(seeds, domain.PersonCriteria(), matcher.WithLogger(uc.logger))
	if err != nil {
		return nil, fmt.Errorf("could not build matcher: %w", err)
	}

	results := make([]domain.LookupResult, 0, len(probes))
	for _, probe := range probes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := m.FindMatchesTiered(probe, req.Tiers...)
		if err != nil {
			return nil, fmt.Errorf("could not look up %s: %w", probe, err)
		}

		result := domain.LookupResult{
			Probe:     *probe,
			Found:     res.Found(),
			TierIndex: res.TierIndex,
			Matches:   make([]domain.Person, 0, len(res.Matches)),
		}
		if res.Found() {
			result.MatchTypes = domain.MatchTypeNames(res.MatchTypes)
		}
		for _, p := range res.Matches {
			result.Matches = append(result.Matches, *p)
		}
		results = append(results, result)
	}

	uc.logger.Info("lookup completed", zap.Int("probes", len(probes)), zap.Int("seed", len(seeds)))
	return results, nil
}

// load reads the seed people and a second population concurrently.
func (uc *ReconciliationUseCase) load(ctx context.Context, seedPath string, second func(context.Context) ([]*domain.Person, error)) ([]*domain.Person, []*domain.Person, error) {
	var seeds, others []*domain.Person
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		people, err := uc.repo.GetSeedPeople(gctx, seedPath)
		if err != nil {
			return fmt.Errorf("could not get seed people: %w", err)
		}
		seeds = people
		return nil
	})
	g.Go(func() error {
		people, err := second(gctx)
		if err != nil {
			return err
		}
		others = people
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if seeds == nil {
		seeds = []*domain.Person{}
	}
	if others == nil {
		others = []*domain.Person{}
	}
	return seeds, others, nil
}

func (uc *ReconciliationUseCase) buildReport(runID string, req ReconcileRequest, dict *matcher.TwoWayMatchDictionary[*domain.Person, domain.PersonMatchType]) *domain.ReconciliationReport {
	seeds, others := dict.Seeds(), dict.Others()

	report := &domain.ReconciliationReport{
		RunID:       runID,
		GeneratedAt: uc.now(),
		Summary: domain.Summary{
			SeedSource:             req.SeedPath,
			OtherSources:           req.OtherPaths,
			Strict:                 req.Strict,
			TotalSeedPeopleLoaded:  len(seeds),
			TotalOtherPeopleLoaded: len(others),
		},
		Tiers:   make([]domain.TierSummary, len(req.Tiers)),
		Matched: make([]domain.MatchedPair, 0),
		Unmatched: domain.UnmatchedPeople{
			SeedMissingFromOther: make([]domain.Person, 0),
			OtherMissingFromSeed: make(map[string][]domain.Person),
		},
	}
	for i, tier := range req.Tiers {
		report.Tiers[i] = domain.TierSummary{TierIndex: i, MatchTypes: domain.MatchTypeNames(tier)}
	}

	for _, seed := range seeds {
		res, _ := dict.FindMatchFromSeedToOther(seed)
		if !res.Matched() {
			report.Unmatched.SeedMissingFromOther = append(report.Unmatched.SeedMissingFromOther, *seed)
			continue
		}
		report.Matched = append(report.Matched, domain.MatchedPair{
			Seed:       *seed,
			Other:      *res.Match,
			TierIndex:  res.TierIndex,
			MatchTypes: domain.MatchTypeNames(res.MatchTypes),
			Duplicate:  res.Duplicate,
		})
		report.Tiers[res.TierIndex].Matched++
		if res.Duplicate {
			report.Tiers[res.TierIndex].Duplicates++
			report.Summary.AmbiguousMatches++
		}
	}

	for _, other := range dict.UnmatchedOthers() {
		report.Unmatched.OtherMissingFromSeed[other.Source] = append(report.Unmatched.OtherMissingFromSeed[other.Source], *other)
	}

	report.Summary.MatchedPeople = len(report.Matched)
	report.Summary.UnmatchedSeedPeople = len(report.Unmatched.SeedMissingFromOther)
	report.Summary.UnmatchedOtherPeople = len(others) - len(report.Matched)
	report.Unmatched.Count = report.Summary.UnmatchedSeedPeople + report.Summary.UnmatchedOtherPeople
	return report
}
