package cmd

import (
	"errors"
	"fmt"
	"generic-matcher/internal/usecase"

	"github.com/spf13/cobra"
)

func newLookupCmd() *cobra.Command {
	var seed, probe string

	c := &cobra.Command{
		Use:   "lookup",
		Short: "Find the seed people matching each probe person",
		Long:  "For every probe person, reports the seed people matched by the first tier that matches anything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == "" || probe == "" {
				return errors.New("--seed and --probe are required")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
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

			results, err := uc.Lookup(cmd.Context(), usecase.LookupRequest{
				SeedPath:  seed,
				ProbePath: probe,
				Tiers:     tiers,
			})
			if err != nil {
				return fmt.Errorf("lookup failed: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	c.Flags().StringVar(&seed, "seed", "", "Path to the seed people CSV or SQLite file (required)")
	c.Flags().StringVar(&probe, "probe", "", "Path to the probe people CSV or SQLite file (required)")
	return c
}
