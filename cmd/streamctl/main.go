package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"streamhub/proj/internal/config"
	"streamhub/proj/internal/lib/logger"
	"streamhub/proj/internal/services/stats"
	"streamhub/proj/internal/storage/postgres"
	"streamhub/proj/internal/storage/postgres/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "streamctl",
		Short:         "Operational commands for the streamhub backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config/local.yml", "path to config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "command timeout")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*config.Config, *postgres.PostgresDB, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DB.Dsn == "" {
		return nil, nil, fmt.Errorf("db.dsn is empty, nothing to connect to")
	}
	db, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			_, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			color.Green("schema applied")
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard stats as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			cfg, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			m := models.New(db)
			aggregator := stats.New(logger.SetupLogger(cfg.Debug), m.Account, m.Content, m.ViewLog)
			result, err := aggregator.Compute(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
