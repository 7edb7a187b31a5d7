package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dolgo/server/internal/config"
	"github.com/dolgo/server/internal/persist"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command of the dolgo CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dolgo",
		Short:         "dolgo - game-server world core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file path (default $"+config.EnvPath+" or "+config.DefaultPath+")")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the world loop until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			return serve(cmd.Context(), cfg, log)
		},
	}
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			db, err := persist.NewDB(ctx, cfg.Database, log)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			defer db.Close()
			if err := persist.RunMigrations(ctx, db.Pool); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			log.Info("migrations applied")
			return nil
		},
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	path := config.ResolvePath(configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("config loaded", zap.String("path", path), zap.String("server", cfg.Server.Name))
	return cfg, log, nil
}
