package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/vesta/internal/symbols"
	"mercator-hq/vesta/pkg/config"
	"mercator-hq/vesta/pkg/engine"
	"mercator-hq/vesta/pkg/journal"
	"mercator-hq/vesta/pkg/stats"
	"mercator-hq/vesta/pkg/telemetry/logging"
	"mercator-hq/vesta/pkg/telemetry/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the engine daemon",
	Long: `Run starts the engine with the configured symbol population and keeps it
resident: adaptive statistics are restored from disk and flushed on a
schedule, the verdict journal records every finalized scan, the metrics
endpoint serves Prometheus exposition, and (when enabled) the configuration
file is watched for hot reloads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEngine()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runEngine() error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, logErr := logging.Setup(level, cfg.Telemetry.Logging.Format, os.Stderr)
	if logErr != nil {
		logger.Warn("invalid logging configuration, using defaults", "error", logErr)
	}
	logger.Info("starting vesta", "version", Version, "config", cfgFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Adaptive statistics: restore persisted estimates so ordering
	// heuristics survive restarts.
	statsStore := stats.NewStore(cfg.Stats.Alpha)
	var statsBackend *stats.SQLiteBackend
	if cfg.Stats.SQLitePath != "" {
		statsBackend, err = stats.NewSQLiteBackend(cfg.Stats.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open stats backend: %w", err)
		}
		defer statsBackend.Close()

		snapshots, err := statsBackend.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load persisted stats: %w", err)
		}
		statsStore.Restore(snapshots)
		logger.Info("adaptive stats restored", "symbols", len(snapshots))
	}

	// Verdict journal.
	var recorder *journal.Recorder
	var pruner *journal.Pruner
	if cfg.Journal.Enabled {
		store, err := journal.NewSQLiteStore(cfg.Journal.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer store.Close()

		recorder = journal.NewRecorder(store, cfg.Journal.AsyncBuffer, logger)
		defer recorder.Close()

		retention := time.Duration(cfg.Journal.RetentionDays) * 24 * time.Hour
		pruner = journal.NewPruner(store, retention, cfg.Journal.PruneSchedule, logger)
		if err := pruner.Start(ctx); err != nil {
			return fmt.Errorf("failed to start journal pruner: %w", err)
		}
		defer pruner.Stop()
	}

	// Metrics endpoint.
	var collector *metrics.Collector
	var metricsSrv *http.Server
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.Config{
			Namespace: cfg.Telemetry.Metrics.Namespace,
			Subsystem: cfg.Telemetry.Metrics.Subsystem,
		}, nil)

		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.Telemetry.Metrics.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics endpoint listening", "address", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	eng, err := engine.New(engine.Options{
		Build:   symbols.Default(),
		Config:  cfg,
		Stats:   statsStore,
		Metrics: collector,
		Journal: recorder,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}

	maint := engine.NewMaintenance(statsStore, statsBackend, cfg.Stats, logger)
	if err := maint.Start(ctx); err != nil {
		return fmt.Errorf("failed to start maintenance: %w", err)
	}
	defer maint.Stop(context.Background())

	var watcher *engine.Watcher
	if cfg.Watch.Enabled {
		watcher = engine.NewWatcher(cfgFile, cfg.Watch.DebounceInterval, logger)
		go func() {
			err := watcher.Watch(ctx, func() error {
				next, err := config.LoadConfigWithEnvOverrides(cfgFile)
				if err != nil {
					return err
				}
				return eng.Reload(next)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("configuration watcher stopped", "error", err)
			}
		}()
	}

	logger.Info("engine ready",
		"generation", eng.Generation().Seq,
		"symbols", eng.Generation().Registry.Len(),
		"deadline", cfg.Engine.MessageDeadline,
	)

	// Block until shutdown is requested.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	cancel()
	if watcher != nil {
		watcher.Stop()
	}
	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}
