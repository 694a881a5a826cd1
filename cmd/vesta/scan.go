package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/vesta/internal/symbols"
	"mercator-hq/vesta/pkg/config"
	"mercator-hq/vesta/pkg/engine"
	"mercator-hq/vesta/pkg/message"
	"mercator-hq/vesta/pkg/telemetry/logging"
)

var (
	scanSettings string
	scanQueueID  string
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] FILE...",
	Short: "Scan raw message files and print verdicts",
	Long: `Scan runs the configured symbol population against one or more raw
RFC 5322 message files and prints one JSON verdict per message to stdout.

Persistence and telemetry are left disabled; scan is meant for rule
development and spot checks, not production traffic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(args)
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanSettings, "settings", "", "settings profile to apply")
	scanCmd.Flags().StringVar(&scanQueueID, "queue-id", "", "queue identifier to attach to the message")
	rootCmd.AddCommand(scanCmd)
}

func runScan(paths []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, _ := logging.Setup(level, cfg.Telemetry.Logging.Format, os.Stderr)

	eng, err := engine.New(engine.Options{
		Build:  symbols.Default(),
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	ctx := context.Background()
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read message %q: %w", path, err)
		}

		queueID := scanQueueID
		if queueID == "" {
			queueID = path
		}
		msg, err := message.FromRaw(queueID, raw)
		if err != nil {
			return fmt.Errorf("failed to parse message %q: %w", path, err)
		}

		verdict, err := eng.Scan(ctx, msg, engine.ScanOptions{Settings: scanSettings})
		if err != nil {
			return fmt.Errorf("scan of %q failed: %w", path, err)
		}
		if err := enc.Encode(verdict); err != nil {
			return fmt.Errorf("failed to encode verdict: %w", err)
		}
	}
	return nil
}
