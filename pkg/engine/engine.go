// Package engine assembles configuration generations (symbol registry plus
// dependency graph) and exposes the scan entry point. A generation is built
// once and swapped atomically on reload; in-flight scans keep the
// generation they started with.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"mercator-hq/vesta/pkg/config"
	"mercator-hq/vesta/pkg/journal"
	"mercator-hq/vesta/pkg/message"
	"mercator-hq/vesta/pkg/scheduler"
	"mercator-hq/vesta/pkg/scoring"
	"mercator-hq/vesta/pkg/stats"
	"mercator-hq/vesta/pkg/symbol/graph"
	"mercator-hq/vesta/pkg/symbol/registry"
	"mercator-hq/vesta/pkg/telemetry/logging"
	"mercator-hq/vesta/pkg/telemetry/metrics"
)

// Builder produces a fresh, unfrozen registry with every known symbol
// registered. It is invoked once per configuration generation; the engine
// applies configured overrides, freezes the registry, and derives the
// dependency graph.
type Builder func() (*registry.Registry, error)

// Generation is one immutable configuration generation. Scans reference the
// generation they were created against even across reloads.
type Generation struct {
	Registry   *registry.Registry
	Graph      *graph.Graph
	Thresholds scoring.Thresholds
	Deadline   time.Duration
	Settings   string
	Seq        uint64
}

// Options configures a new Engine.
type Options struct {
	// Build produces the symbol population. Required.
	Build Builder

	// Config is the engine configuration. Required.
	Config *config.Config

	// Stats is the shared adaptive statistics store. Optional; a fresh
	// store is created when nil.
	Stats *stats.Store

	// Metrics receives scan instrumentation. Optional.
	Metrics *metrics.Collector

	// Journal receives finalized scan records. Optional.
	Journal *journal.Recorder

	// Logger defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// Engine is the long-lived scan orchestrator.
type Engine struct {
	mu    sync.Mutex // serializes reloads
	gen   atomic.Pointer[Generation]
	seq   atomic.Uint64
	build Builder

	sched   *scheduler.Scheduler
	metrics *metrics.Collector
	journal *journal.Recorder
	logger  *slog.Logger
}

// New creates an engine and builds its first generation. A failed initial
// build is fatal: there is no previous generation to keep serving.
func New(opts Options) (*Engine, error) {
	if opts.Build == nil {
		return nil, fmt.Errorf("engine requires a symbol builder")
	}
	if opts.Config == nil {
		return nil, fmt.Errorf("engine requires a configuration")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	statsStore := opts.Stats
	if statsStore == nil {
		statsStore = stats.NewStore(opts.Config.Stats.Alpha)
	}

	e := &Engine{
		build:   opts.Build,
		sched:   scheduler.New(statsStore, logger),
		metrics: opts.Metrics,
		journal: opts.Journal,
		logger:  logger.With("component", "engine"),
	}

	if err := e.Reload(opts.Config); err != nil {
		return nil, fmt.Errorf("failed to build initial generation: %w", err)
	}
	return e, nil
}

// Reload builds a new generation from the given configuration and swaps it
// in atomically. On any error the previous generation, if one exists, keeps
// serving.
func (e *Engine) Reload(cfg *config.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	reg, err := e.build()
	if err != nil {
		e.observeReload(false, 0)
		return fmt.Errorf("symbol registration failed: %w", err)
	}

	if err := reg.ApplyOverrides(convertOverrides(cfg.Symbols)); err != nil {
		e.observeReload(false, 0)
		return fmt.Errorf("symbol overrides failed: %w", err)
	}
	reg.Freeze()

	g, err := graph.Build(reg.All())
	if err != nil {
		e.observeReload(false, 0)
		return fmt.Errorf("dependency graph build failed: %w", err)
	}

	gen := &Generation{
		Registry: reg,
		Graph:    g,
		Thresholds: scoring.Thresholds{
			StopSpam:      cfg.Scoring.StopSpam,
			StopHam:       cfg.Scoring.StopHam,
			SpamScore:     cfg.Scoring.SpamScore,
			ProbableScore: cfg.Scoring.ProbableScore,
			SymbolMin:     cfg.Scoring.SymbolMin,
			SymbolMax:     cfg.Scoring.SymbolMax,
		},
		Deadline: cfg.Engine.MessageDeadline,
		Settings: cfg.Engine.DefaultSettings,
		Seq:      e.seq.Add(1),
	}
	if err := gen.Thresholds.Validate(); err != nil {
		e.observeReload(false, 0)
		return fmt.Errorf("invalid scoring thresholds: %w", err)
	}

	e.gen.Store(gen)
	e.observeReload(true, gen.Seq)
	e.logger.Info("configuration generation activated",
		"generation", gen.Seq,
		"symbols", reg.Len(),
	)
	return nil
}

func (e *Engine) observeReload(ok bool, generation uint64) {
	if e.metrics != nil {
		e.metrics.ObserveReload(ok, generation)
	}
}

// Generation returns the active generation.
func (e *Engine) Generation() *Generation {
	return e.gen.Load()
}

// Stats returns the shared adaptive statistics store.
func (e *Engine) Stats() *stats.Store {
	return e.sched.Stats()
}

// ScanOptions adjusts a single scan.
type ScanOptions struct {
	// Settings overrides the configured default settings profile.
	Settings string

	// Deadline overrides the configured per-message deadline. Zero keeps
	// the default.
	Deadline time.Time
}

// Scan runs every applicable symbol against the message and returns the
// finalized verdict. The scan runs against the generation active at entry;
// a concurrent reload does not affect it.
func (e *Engine) Scan(ctx context.Context, msg *message.Message, opts ScanOptions) (*scheduler.Verdict, error) {
	gen := e.gen.Load()
	if gen == nil {
		return nil, fmt.Errorf("engine has no active generation")
	}

	settings := gen.Settings
	if opts.Settings != "" {
		settings = opts.Settings
	}
	deadline := opts.Deadline
	if deadline.IsZero() && gen.Deadline > 0 {
		deadline = time.Now().Add(gen.Deadline)
	}

	exec := scheduler.NewExecution(gen.Registry, gen.Graph, msg, scheduler.Options{
		Deadline:   deadline,
		Settings:   settings,
		Thresholds: gen.Thresholds,
	})

	// Handlers see the scan identity on their context; log lines and
	// downstream lookups can correlate on it.
	ctx = logging.WithScanID(ctx, exec.ScanID.String())
	ctx = logging.WithQueueID(ctx, msg.QueueID)
	if settings != "" {
		ctx = logging.WithSettings(ctx, settings)
	}

	verdict, err := e.sched.Run(ctx, exec)
	if verdict != nil {
		verdict.Generation = gen.Seq
		e.observeScan(verdict)
		e.record(msg, verdict)
	}
	return verdict, err
}

func (e *Engine) observeScan(v *scheduler.Verdict) {
	if e.metrics == nil {
		return
	}
	e.metrics.ObserveScan(string(v.Category), v.Elapsed, v.EarlyExit, v.Degraded, v.FatalSymbol)
	for i := range v.Results {
		r := &v.Results[i]
		e.metrics.ObserveSymbol(r.Symbol, r.Outcome.String(), r.Elapsed, r.Ran())
	}
}

func (e *Engine) record(msg *message.Message, v *scheduler.Verdict) {
	if e.journal == nil {
		return
	}
	rec := &journal.Record{
		ScanID:      v.ScanID.String(),
		QueueID:     msg.QueueID,
		Score:       v.Score,
		Category:    string(v.Category),
		EarlyExit:   v.EarlyExit,
		Degraded:    v.Degraded,
		FatalSymbol: v.FatalSymbol,
		Generation:  v.Generation,
		Elapsed:     v.Elapsed,
		Symbols:     make([]journal.SymbolRecord, 0, len(v.Results)),
	}
	for i := range v.Results {
		r := &v.Results[i]
		sr := journal.SymbolRecord{
			Symbol:      r.Symbol,
			Outcome:     r.Outcome.String(),
			Score:       r.Score,
			Description: r.Description,
			ElapsedUS:   r.Elapsed.Microseconds(),
		}
		if r.Err != nil {
			sr.Error = r.Err.Error()
		}
		rec.Symbols = append(rec.Symbols, sr)
	}
	e.journal.Record(rec)
}

// convertOverrides maps the configuration's symbols section onto the
// registry's override form.
func convertOverrides(settings map[string]config.SymbolSettings) map[string]registry.Override {
	if len(settings) == 0 {
		return nil
	}
	out := make(map[string]registry.Override, len(settings))
	for name, s := range settings {
		out[name] = registry.Override{
			Weight:   s.Weight,
			Priority: s.Priority,
			Enabled:  s.Enabled,
		}
	}
	return out
}

// Validate builds a registry and graph from the configuration without
// activating them. It backs the lint command.
func Validate(build Builder, cfg *config.Config) error {
	reg, err := build()
	if err != nil {
		return fmt.Errorf("symbol registration failed: %w", err)
	}
	if err := reg.ApplyOverrides(convertOverrides(cfg.Symbols)); err != nil {
		return fmt.Errorf("symbol overrides failed: %w", err)
	}
	reg.Freeze()
	if _, err := graph.Build(reg.All()); err != nil {
		return fmt.Errorf("dependency graph build failed: %w", err)
	}
	return nil
}
