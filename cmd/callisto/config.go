package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"truemark-hq/callisto/pkg/cli"
	"truemark-hq/callisto/pkg/config"
)

var configFlags struct {
	format string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate configuration",
	Long: `Inspect and validate the configuration file.

Examples:
  # Validate the default config file
  callisto config validate

  # Validate a specific file
  callisto config validate --config production.yaml

  # Show the effective configuration with env overrides applied
  callisto config show --format json`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE:  validateConfig,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  showConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd, configShowCmd)

	configShowCmd.Flags().StringVar(&configFlags.format, "format", "text", "output format: text, json")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	period, err := cfg.RateLimit.Period()
	if err != nil {
		return cli.NewConfigError("rate_limit.unit", err.Error())
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  API:        %s (timeout %s)\n", cfg.API.BaseURL, cfg.API.Timeout())
	fmt.Printf("  Rate limit: %d requests per %s\n", cfg.RateLimit.Capacity, period)
	if cfg.Journal.Enabled {
		fmt.Printf("  Journal:    %s (%s)\n", cfg.Journal.Backend, cfg.Journal.Path)
	} else {
		fmt.Println("  Journal:    disabled")
	}
	if cfg.Metrics.Enabled {
		fmt.Printf("  Metrics:    %s\n", cfg.Metrics.ListenAddress)
	}
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	format := cli.FormatText
	if configFlags.format == "json" {
		format = cli.FormatJSON
	}
	formatter := cli.NewFormatter(format)
	return formatter.FormatTo(os.Stdout, cfg)
}
