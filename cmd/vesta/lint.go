package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/vesta/internal/symbols"
	"mercator-hq/vesta/pkg/config"
	"mercator-hq/vesta/pkg/engine"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate configuration and the symbol dependency graph",
	Long: `Lint loads the configuration, applies its symbol overrides, and builds
the dependency graph without activating anything. It fails on invalid
configuration values, unknown override targets, dependencies on
unregistered symbols, and dependency cycles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := engine.Validate(symbols.Default(), cfg); err != nil {
			return err
		}
		fmt.Printf("configuration %s is valid\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
