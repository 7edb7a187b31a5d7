package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dolgo/server/internal/config"
	"github.com/dolgo/server/internal/metrics"
	"github.com/dolgo/server/internal/persist"
	"github.com/dolgo/server/internal/system"
)

func serve(parent context.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		srv *metrics.Server
		m   *metrics.Metrics
	)
	if cfg.Metrics.Enabled {
		srv = metrics.NewServer(cfg.Metrics.Addr, log)
		m = srv.Metrics()
	} else {
		m = metrics.New(prometheus.NewRegistry())
	}

	var (
		bases  BaseStore
		writer system.CombatLogWriter
	)
	if cfg.Persist.Enabled {
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		err = persist.RunMigrations(dbCtx, db.Pool)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		bases = persist.NewPropertyRepo(db.Pool, log)
		writer = persist.NewCombatLogRepo(db.Pool)
	}

	g, err := newGame(cfg, log, m, bases, writer)
	if err != nil {
		return err
	}

	n, err := g.populate(ctx, cfg.World.Livings, bases)
	if err != nil {
		return err
	}
	log.Info("livings spawned", zap.Int("count", n), zap.Int("regions", len(cfg.World.Regions)))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return g.loop(egCtx)
	})
	if srv != nil {
		eg.Go(func() error {
			if err := srv.Run(egCtx); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	runErr := eg.Wait()

	saveCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := g.shutdown(saveCtx); err != nil {
		log.Error("shutdown save failed", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	log.Info("server stopped")
	return runErr
}
