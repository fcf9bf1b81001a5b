// Package cmd - mvp90 CLI commands
package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	// shared flags
	cfgFile  string
	verbose  bool
	logLevel string
	asJSON   bool
)

// rootCmd root command
var rootCmd = &cobra.Command{
	Use:   "mvp90",
	Short: "MVP90 startup signals - CLI",
	Long: `MVP90 startup signals - CLI

Usage:
    go run ./cmd/mvp90 [command]

Commands:
    signals              - tracked startups with filters and sorting
    signal <id>          - one startup signal
    metric <name>        - a metric, live with --entity
    breakdown <id>       - how a score is composed
    status               - integrations and cache counters
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "env file to load before the environment (default is .env)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.BoolVar(&asJSON, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(signalCmd)
	rootCmd.AddCommand(metricCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.Version = version
}

// initConfig loads an explicit env file; .env itself is read by config.Load
func initConfig() error {
	if verbose {
		logLevel = "debug"
	}
	if cfgFile == "" {
		return nil
	}
	if err := godotenv.Load(cfgFile); err != nil {
		return fmt.Errorf("load %s: %w", cfgFile, err)
	}
	return nil
}
