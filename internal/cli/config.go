package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/lumi/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after defaults, config file, and
environment variables are merged. Secrets are redacted.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		fmt.Printf("Warning: configuration is invalid: %v\n\n", err)
	}

	fmt.Println(cfg.String())
	return nil
}
