package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "scoring.stop_spam").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access to
// all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:", len(e.Errors)))
	for _, fe := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(fe.Error())
	}
	return sb.String()
}

// Validate checks the configuration for consistency. It returns a
// ValidationError listing every problem found, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.Engine.MessageDeadline <= 0 {
		add("engine.message_deadline", "must be positive, got %s", cfg.Engine.MessageDeadline)
	}

	if cfg.Scoring.StopSpam <= 0 {
		add("scoring.stop_spam", "must be positive, got %g", cfg.Scoring.StopSpam)
	}
	if cfg.Scoring.StopHam >= 0 {
		add("scoring.stop_ham", "must be negative, got %g", cfg.Scoring.StopHam)
	}
	if cfg.Scoring.ProbableScore > cfg.Scoring.SpamScore {
		add("scoring.probable_score", "must not exceed spam_score (%g > %g)",
			cfg.Scoring.ProbableScore, cfg.Scoring.SpamScore)
	}
	if cfg.Scoring.SymbolMin > cfg.Scoring.SymbolMax {
		add("scoring.symbol_min", "must not exceed symbol_max (%g > %g)",
			cfg.Scoring.SymbolMin, cfg.Scoring.SymbolMax)
	}

	if cfg.Stats.Alpha <= 0 || cfg.Stats.Alpha > 1 {
		add("stats.alpha", "must be in (0, 1], got %g", cfg.Stats.Alpha)
	}
	if cfg.Stats.DecayFactor <= 0 || cfg.Stats.DecayFactor >= 1 {
		add("stats.decay_factor", "must be in (0, 1), got %g", cfg.Stats.DecayFactor)
	}
	validateSchedule(&errs, "stats.flush_schedule", cfg.Stats.FlushSchedule)
	validateSchedule(&errs, "stats.decay_schedule", cfg.Stats.DecaySchedule)

	if cfg.Journal.Enabled {
		if cfg.Journal.SQLitePath == "" {
			add("journal.sqlite_path", "cannot be empty when journal is enabled")
		}
		if cfg.Journal.RetentionDays <= 0 {
			add("journal.retention_days", "must be positive, got %d", cfg.Journal.RetentionDays)
		}
		validateSchedule(&errs, "journal.prune_schedule", cfg.Journal.PruneSchedule)
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		add("telemetry.logging.level", "must be one of debug, info, warn, error; got %q",
			cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "text", "json":
	default:
		add("telemetry.logging.format", "must be text or json, got %q",
			cfg.Telemetry.Logging.Format)
	}

	if cfg.Telemetry.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Telemetry.Metrics.ListenAddress); err != nil {
			add("telemetry.metrics.listen_address", "invalid address %q: %v",
				cfg.Telemetry.Metrics.ListenAddress, err)
		}
	}

	if cfg.Watch.Enabled && cfg.Watch.DebounceInterval <= 0 {
		add("watch.debounce_interval", "must be positive, got %s", cfg.Watch.DebounceInterval)
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateSchedule(errs *[]FieldError, field, schedule string) {
	if schedule == "" {
		return
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		*errs = append(*errs, FieldError{
			Field:   field,
			Message: fmt.Sprintf("invalid cron expression %q: %v", schedule, err),
		})
	}
}
