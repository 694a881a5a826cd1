package config

import "time"

// Default values for configuration fields.
const (
	// Engine defaults
	DefaultMessageDeadline = 10 * time.Second

	// Scoring defaults
	DefaultStopSpam      = 20.0
	DefaultStopHam       = -10.0
	DefaultSpamScore     = 15.0
	DefaultProbableScore = 6.0
	DefaultSymbolMin     = -10.0
	DefaultSymbolMax     = 10.0

	// Stats defaults
	DefaultStatsAlpha         = 0.1
	DefaultStatsSQLitePath    = "data/stats.db"
	DefaultStatsFlushSchedule = "*/5 * * * *"
	DefaultStatsDecaySchedule = "0 * * * *"
	DefaultStatsDecayFactor   = 0.05

	// Journal defaults
	DefaultJournalEnabled       = true
	DefaultJournalSQLitePath    = "data/journal.db"
	DefaultJournalAsyncBuffer   = 1000
	DefaultJournalRetentionDays = 30
	DefaultJournalPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "text"
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9155"
	DefaultMetricsNamespace     = "vesta"
	DefaultMetricsSubsystem     = "engine"

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond
)

// ApplyDefaults fills zero-valued fields with their defaults. It never
// overrides a value the user set explicitly.
func ApplyDefaults(cfg *Config) {
	if cfg.Engine.MessageDeadline == 0 {
		cfg.Engine.MessageDeadline = DefaultMessageDeadline
	}

	if cfg.Scoring.StopSpam == 0 {
		cfg.Scoring.StopSpam = DefaultStopSpam
	}
	if cfg.Scoring.StopHam == 0 {
		cfg.Scoring.StopHam = DefaultStopHam
	}
	if cfg.Scoring.SpamScore == 0 {
		cfg.Scoring.SpamScore = DefaultSpamScore
	}
	if cfg.Scoring.ProbableScore == 0 {
		cfg.Scoring.ProbableScore = DefaultProbableScore
	}
	if cfg.Scoring.SymbolMin == 0 {
		cfg.Scoring.SymbolMin = DefaultSymbolMin
	}
	if cfg.Scoring.SymbolMax == 0 {
		cfg.Scoring.SymbolMax = DefaultSymbolMax
	}

	if cfg.Stats.Alpha == 0 {
		cfg.Stats.Alpha = DefaultStatsAlpha
	}
	if cfg.Stats.SQLitePath == "" {
		cfg.Stats.SQLitePath = DefaultStatsSQLitePath
	}
	if cfg.Stats.FlushSchedule == "" {
		cfg.Stats.FlushSchedule = DefaultStatsFlushSchedule
	}
	if cfg.Stats.DecaySchedule == "" {
		cfg.Stats.DecaySchedule = DefaultStatsDecaySchedule
	}
	if cfg.Stats.DecayFactor == 0 {
		cfg.Stats.DecayFactor = DefaultStatsDecayFactor
	}

	if cfg.Journal.SQLitePath == "" {
		cfg.Journal.SQLitePath = DefaultJournalSQLitePath
	}
	if cfg.Journal.AsyncBuffer == 0 {
		cfg.Journal.AsyncBuffer = DefaultJournalAsyncBuffer
	}
	if cfg.Journal.RetentionDays == 0 {
		cfg.Journal.RetentionDays = DefaultJournalRetentionDays
	}
	if cfg.Journal.PruneSchedule == "" {
		cfg.Journal.PruneSchedule = DefaultJournalPruneSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultWatchDebounce
	}
}

// NewDefault returns a configuration with every field at its default.
func NewDefault() *Config {
	cfg := &Config{
		Journal: JournalConfig{Enabled: DefaultJournalEnabled},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
