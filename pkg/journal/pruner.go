package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner deletes journal records older than the configured retention window
// on a cron schedule.
type Pruner struct {
	store     *SQLiteStore
	retention time.Duration
	schedule  string
	cron      *cron.Cron
	mu        sync.Mutex
	running   bool
	logger    *slog.Logger
}

// NewPruner creates a pruner. Schedule uses standard cron syntax, for
// example "0 3 * * *" for daily at 3 AM; an empty schedule disables the
// pruner.
func NewPruner(store *SQLiteStore, retention time.Duration, schedule string, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:     store,
		retention: retention,
		schedule:  schedule,
		cron:      cron.New(),
		logger:    logger.With("component", "journal.pruner"),
	}
}

// Start begins scheduled pruning. It is a no-op when no schedule is
// configured.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.schedule == "" {
		p.logger.Info("prune schedule not configured, skipping pruner")
		return nil
	}
	if p.running {
		return fmt.Errorf("pruner already running")
	}

	if _, err := cron.ParseStandard(p.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.schedule, err)
	}

	if _, err := p.cron.AddFunc(p.schedule, func() {
		p.runOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true
	p.logger.Info("journal pruner started", "schedule", p.schedule, "retention", p.retention)
	return nil
}

// Stop halts scheduled pruning and waits for an in-flight run to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	<-p.cron.Stop().Done()
	p.running = false
	p.logger.Info("journal pruner stopped")
}

// RunOnce prunes immediately, outside the schedule.
func (p *Pruner) RunOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-p.retention)
	return p.store.PruneOlderThan(ctx, cutoff)
}

func (p *Pruner) runOnce(ctx context.Context) {
	n, err := p.RunOnce(ctx)
	if err != nil {
		p.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	p.logger.Info("scheduled pruning completed", "removed", n)
}
