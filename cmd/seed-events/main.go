package main

import (
	"context"
	"os"
	"time"

	"github.com/okian/eventboard/internal/seeding"
	"github.com/spf13/cobra"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRunTime = 5 * time.Minute
)

func main() {
	if err := command().Execute(); err != nil {
		os.Exit(1)
	}
}

func command() *cobra.Command {
	cfg := &seeding.Config{}

	cmd := &cobra.Command{
		Use:   "seed-events",
		Short: "Seed an eventboard server from a YAML fixture",
		Long: `Submit the range requests of a fixture to a running eventboard server,
then verify that every multi-day request shows up as one spanning calendar item.

Examples:
  # Seed the built-in sample
  seed-events --url http://localhost:9080

  # Seed a custom fixture with per-request logging
  seed-events --fixture calendar.yaml --verbose`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			closer, err := seeding.SetupLogging(cfg.LogFile, cfg.Verbose)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTime)
			defer cancel()

			_, err = seeding.Run(ctx, cfg)
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	cmd.Flags().StringVar(&cfg.FixturePath, "fixture", "", "YAML fixture with range requests (default: built-in sample)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	cmd.Flags().StringVar(&cfg.LogFile, "log", "", "Log file (default: seed_log_TIMESTAMP.log)")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Log every submission")
	return cmd
}
