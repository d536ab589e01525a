package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"prismatic-hq/prism/pkg/cli"
	"prismatic-hq/prism/pkg/config"
	"prismatic-hq/prism/pkg/scoring"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate the configuration file without starting the server.

Checks the YAML syntax, applies defaults and environment overrides, and
runs all semantic validation. When a scoring profile is configured, the
profile file is loaded and checked as well.

Examples:
  # Validate the default config
  prism validate

  # Validate a specific config file
  prism validate --config /etc/prism/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("config invalid: %v", err))
	}
	cfg := config.GetConfig()

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  admission: %d req / %s, queue %d\n",
		cfg.Admission.MaxRequests, cfg.Admission.TimeWindow, cfg.Admission.MaxQueueSize)
	fmt.Printf("  history: enabled=%t\n", cfg.History.Enabled)
	fmt.Printf("  providers: %d configured\n", len(cfg.Providers))

	if cfg.Scoring.ProfilePath != "" {
		profile, err := scoring.LoadProfile(cfg.Scoring.ProfilePath)
		if err != nil {
			return cli.NewConfigError("scoring.profile_path", err.Error())
		}
		fmt.Printf("✓ Scoring profile valid: %s (%d weight overrides)\n",
			cfg.Scoring.ProfilePath, len(profile.Weights))
	}

	return nil
}
