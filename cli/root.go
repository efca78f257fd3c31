// Package cli implements the estate command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"estate_browser/config"
	"estate_browser/logging"
)

var formatFlag string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "estate",
	Short:         "Browse, filter and bookmark property listings",
	Long:          "Search and filter property listings from a static file, SQLite, Postgres or the hosted record service, keep a saved set with notes, and serve it all over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if formatFlag != "json" && formatFlag != "text" {
			return fmt.Errorf("unknown format %q (want json or text)", formatFlag)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and routes logs to stderr so stdout carries
// only command output.
func loadConfig() (*config.Config, *logging.RotatingWriter, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logFile, err := logging.Setup(logging.Options{
		Path:    cfg.LogPath,
		Level:   cfg.LogLevel,
		Console: os.Stderr,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("set up logging: %w", err)
	}
	return cfg, logFile, nil
}
