package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	cfg.Journal.Enabled = DefaultJournalEnabled
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention VESTA_SECTION_FIELD (e.g., VESTA_ENGINE_MESSAGE_DEADLINE) and
// always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("VESTA_ENGINE_MESSAGE_DEADLINE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Engine.MessageDeadline = d
		}
	}
	if val := os.Getenv("VESTA_ENGINE_DEFAULT_SETTINGS"); val != "" {
		cfg.Engine.DefaultSettings = val
	}

	if val := os.Getenv("VESTA_SCORING_STOP_SPAM"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Scoring.StopSpam = f
		}
	}
	if val := os.Getenv("VESTA_SCORING_STOP_HAM"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Scoring.StopHam = f
		}
	}
	if val := os.Getenv("VESTA_SCORING_SPAM_SCORE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Scoring.SpamScore = f
		}
	}
	if val := os.Getenv("VESTA_SCORING_PROBABLE_SCORE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Scoring.ProbableScore = f
		}
	}

	if val := os.Getenv("VESTA_STATS_SQLITE_PATH"); val != "" {
		cfg.Stats.SQLitePath = val
	}
	if val := os.Getenv("VESTA_JOURNAL_SQLITE_PATH"); val != "" {
		cfg.Journal.SQLitePath = val
	}
	if val := os.Getenv("VESTA_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}

	if val := os.Getenv("VESTA_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("VESTA_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("VESTA_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("VESTA_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}

	if val := os.Getenv("VESTA_WATCH_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watch.Enabled = b
		}
	}
}

// SymbolOverrides converts the symbols section into the registry's override
// form. The registry package stays independent of YAML concerns.
func (c *Config) SymbolOverrides() map[string]SymbolSettings {
	return c.Symbols
}
