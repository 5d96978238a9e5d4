package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/lumi/internal/config"
	"github.com/harper/lumi/internal/daemon"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Lumi planning daemon",
	Long: `Run the Lumi daemon in the foreground. The daemon serves the
lesson-plan and session-plan endpoints and blocks until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	d, err := daemon.New(cfg, cfgFile)
	if err != nil {
		return fmt.Errorf("failed to initialize daemon: %w", err)
	}
	return d.Run()
}
