package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"mercator-hq/vesta/pkg/config"
	"mercator-hq/vesta/pkg/stats"
)

// Maintenance runs the engine's periodic jobs on cron schedules: flushing
// adaptive statistics to their backend and aging fire-rate estimates so
// stale signal loses ordering influence.
type Maintenance struct {
	store   *stats.Store
	backend *stats.SQLiteBackend
	cfg     config.StatsConfig
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	logger  *slog.Logger
}

// NewMaintenance creates the maintenance runner. backend may be nil, in
// which case only decay is scheduled.
func NewMaintenance(store *stats.Store, backend *stats.SQLiteBackend, cfg config.StatsConfig, logger *slog.Logger) *Maintenance {
	if logger == nil {
		logger = slog.Default()
	}
	return &Maintenance{
		store:   store,
		backend: backend,
		cfg:     cfg,
		cron:    cron.New(),
		logger:  logger.With("component", "engine.maintenance"),
	}
}

// Start schedules the configured jobs.
func (m *Maintenance) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("maintenance already running")
	}

	if m.backend != nil && m.cfg.FlushSchedule != "" {
		if _, err := m.cron.AddFunc(m.cfg.FlushSchedule, func() {
			if err := m.backend.Save(ctx, m.store); err != nil {
				m.logger.Error("stats flush failed", "error", err)
				return
			}
			m.logger.Debug("stats flushed")
		}); err != nil {
			return fmt.Errorf("failed to schedule stats flush: %w", err)
		}
	}

	if m.cfg.DecaySchedule != "" {
		if _, err := m.cron.AddFunc(m.cfg.DecaySchedule, func() {
			m.store.Decay(m.cfg.DecayFactor)
			m.logger.Debug("stats decayed", "factor", m.cfg.DecayFactor)
		}); err != nil {
			return fmt.Errorf("failed to schedule stats decay: %w", err)
		}
	}

	m.cron.Start()
	m.running = true
	m.logger.Info("maintenance started",
		"flush_schedule", m.cfg.FlushSchedule,
		"decay_schedule", m.cfg.DecaySchedule,
	)
	return nil
}

// Stop halts the schedules, waits for in-flight jobs, and performs a final
// stats flush when a backend is configured.
func (m *Maintenance) Stop(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	<-m.cron.Stop().Done()
	m.running = false

	if m.backend != nil {
		if err := m.backend.Save(ctx, m.store); err != nil {
			m.logger.Error("final stats flush failed", "error", err)
		}
	}
	m.logger.Info("maintenance stopped")
}
