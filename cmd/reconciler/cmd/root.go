package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"generic-matcher/internal/config"
	"generic-matcher/internal/gateway"
	"generic-matcher/internal/logger"
	"generic-matcher/internal/usecase"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the reconciler command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reconciler",
		Short:         "Reconcile person records across sources",
		Long:          "Pairs people from a seed source with people from other CSV or SQLite sources using prioritized match tiers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to a YAML run configuration")
	root.PersistentFlags().String("tiers", "", `Match tiers, e.g. "ssn;name,date_of_birth" (overrides config)`)
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")

	root.AddCommand(newReconcileCmd())
	root.AddCommand(newLookupCmd())
	return root
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig reads the configuration named by --config, or the default, and
// applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if tiers, _ := cmd.Flags().GetString("tiers"); tiers != "" {
		cfg.Tiers = config.ParseTiers(tiers)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// wire builds the usecase the same way for every sub-command.
func wire(cfg config.Config) (*usecase.ReconciliationUseCase, *zap.Logger, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	repo := gateway.NewPersonRepository()
	return usecase.NewReconciliationUseCase(repo, log), log, nil
}

func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
