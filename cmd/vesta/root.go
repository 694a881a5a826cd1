package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vesta",
	Short: "Vesta - mail content-inspection engine",
	Long: `Vesta runs an extensible set of detection symbols against each message
and combines their outputs into a weighted verdict.

The scheduler respects declared symbol dependencies, orders ready symbols by
priority and adaptive cost statistics, enforces a per-message deadline, and
exits early once the accumulated score settles the verdict class.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
