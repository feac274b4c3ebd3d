package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"truemark-hq/callisto/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "callisto",
	Short: "Callisto - rate-limited GIS MT marking API client",
	Long: `Callisto is a command-line client for the GIS MT (Честный знак)
marking API.

All API calls pass through a fixed-window admission gate, so concurrent use
never exceeds the request rate granted by the API contract. Each submission
is recorded in a local journal with content hashes for audit.

Commands:
  - submit document-creation requests with detached signatures
  - run the certificate-based authentication flow
  - inspect and prune the submission journal`,
	Version: Version,
}

// Execute runs the root command. The exit code classifies the failure so
// scripts can tell an interrupted wait from a rejected token.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
