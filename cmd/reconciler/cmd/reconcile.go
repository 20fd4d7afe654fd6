package cmd

import (
	"errors"
	"fmt"
	"generic-matcher/internal/usecase"

	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var (
		seed        string
		others      []string
		strict      bool
		parallelism int
	)

	c := &cobra.Command{
		Use:   "reconcile",
		Short: "Pair people from other sources with the seed people",
		Long: "Runs the configured match tiers in order. Every other person is paired with at most one seed person.\n" +
			"With --strict the run fails on the first ambiguous pairing; otherwise ambiguous pairings are flagged as duplicates.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == "" || len(others) == 0 {
				return errors.New("--seed and --other are required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strict") {
				cfg.Strict = strict
			}
			if cmd.Flags().Changed("parallelism") {
				cfg.Parallelism = parallelism
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			tiers, err := cfg.PersonTiers()
			if err != nil {
				return err
			}
			uc, log, err := wire(cfg)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			report, err := uc.Reconcile(cmd.Context(), usecase.ReconcileRequest{
				SeedPath:    seed,
				OtherPaths:  others,
				Tiers:       tiers,
				Strict:      cfg.Strict,
				Parallelism: cfg.Parallelism,
			})
			if err != nil {
				return fmt.Errorf("reconciliation failed: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	c.Flags().StringVar(&seed, "seed", "", "Path to the seed people CSV or SQLite file (required)")
	c.Flags().StringSliceVar(&others, "other", nil, "Comma-separated paths to other people CSV or SQLite files (required)")
	c.Flags().BoolVar(&strict, "strict", false, "Fail on ambiguous pairings (overrides config)")
	c.Flags().IntVar(&parallelism, "parallelism", 0, "Candidate discovery goroutines (overrides config)")
	return c
}
