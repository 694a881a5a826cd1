// Package config defines the engine configuration: scan budgets, scoring
// thresholds, per-symbol overrides, persistence paths, and telemetry
// settings. Configuration is loaded from YAML with optional environment
// variable overrides and validated before use.
package config

import "time"

// Config is the root configuration structure for Vesta.
type Config struct {
	// Engine contains scan-level settings: the per-message deadline and
	// the default settings profile.
	Engine EngineConfig `yaml:"engine"`

	// Scoring contains score thresholds: early-exit stops, verdict class
	// boundaries, and per-symbol clamps.
	Scoring ScoringConfig `yaml:"scoring"`

	// Symbols contains per-symbol overrides keyed by symbol name.
	Symbols map[string]SymbolSettings `yaml:"symbols"`

	// Stats configures the adaptive statistics store and its persistence.
	Stats StatsConfig `yaml:"stats"`

	// Journal configures the per-scan verdict journal.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch controls hot reload of this configuration file.
	Watch WatchConfig `yaml:"watch"`
}

// EngineConfig contains scan-level settings.
type EngineConfig struct {
	// MessageDeadline is the absolute time budget per message.
	// Default: 10s
	MessageDeadline time.Duration `yaml:"message_deadline"`

	// DefaultSettings names the settings profile applied when a scan does
	// not specify one. Default: "" (no profile)
	DefaultSettings string `yaml:"default_settings"`
}

// ScoringConfig contains score thresholds.
type ScoringConfig struct {
	// StopSpam is the evaluative score at or above which scheduling stops
	// early with a spam-class verdict locked in. Must be positive.
	// Default: 20
	StopSpam float64 `yaml:"stop_spam"`

	// StopHam is the evaluative score at or below which scheduling stops
	// early with a ham-class verdict locked in. Must be negative.
	// Default: -10
	StopHam float64 `yaml:"stop_ham"`

	// SpamScore is the final-score boundary for the spam class.
	// Default: 15
	SpamScore float64 `yaml:"spam_score"`

	// ProbableScore is the final-score boundary for the probable-spam
	// class. Default: 6
	ProbableScore float64 `yaml:"probable_score"`

	// SymbolMin and SymbolMax clamp any single symbol's contribution.
	// Defaults: -10, 10
	SymbolMin float64 `yaml:"symbol_min"`
	SymbolMax float64 `yaml:"symbol_max"`
}

// SymbolSettings overrides one registered symbol. Nil fields keep the
// declared value.
type SymbolSettings struct {
	// Weight replaces the declared base weight.
	Weight *float64 `yaml:"weight"`

	// Priority replaces the declared static priority.
	Priority *int `yaml:"priority"`

	// Enabled set to false removes the symbol from the generation.
	Enabled *bool `yaml:"enabled"`
}

// StatsConfig configures the adaptive statistics store.
type StatsConfig struct {
	// Alpha is the EWMA smoothing factor in (0, 1]. Default: 0.1
	Alpha float64 `yaml:"alpha"`

	// SQLitePath is the statistics database path. Empty disables
	// persistence. Default: "data/stats.db"
	SQLitePath string `yaml:"sqlite_path"`

	// FlushSchedule is a cron expression for persisting estimates.
	// Default: "*/5 * * * *"
	FlushSchedule string `yaml:"flush_schedule"`

	// DecaySchedule is a cron expression for aging fire-rate estimates.
	// Default: "0 * * * *"
	DecaySchedule string `yaml:"decay_schedule"`

	// DecayFactor is the per-tick aging factor in (0, 1). Default: 0.05
	DecayFactor float64 `yaml:"decay_factor"`
}

// JournalConfig configures the verdict journal.
type JournalConfig struct {
	// Enabled turns journaling on. Default: true
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the journal database path. Default: "data/journal.db"
	SQLitePath string `yaml:"sqlite_path"`

	// AsyncBuffer is the recorder queue depth. Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// RetentionDays is how long records are kept. Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for retention pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Default: "info"
	Level string `yaml:"level"`

	// Format is "text" or "json". Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on. Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the metrics HTTP listen address.
	// Default: "127.0.0.1:9155"
	ListenAddress string `yaml:"listen_address"`

	// Namespace and Subsystem prefix metric names.
	// Defaults: "vesta", "engine"
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// WatchConfig controls configuration hot reload.
type WatchConfig struct {
	// Enabled turns the file watcher on. Default: false
	Enabled bool `yaml:"enabled"`

	// DebounceInterval is how long to wait after a change before
	// reloading, to absorb editor write storms. Default: 200ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}
