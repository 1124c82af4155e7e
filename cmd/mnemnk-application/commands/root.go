package commands

import (
	"fmt"
	"os"

	"github.com/bryanchriswhite/mnemnk-application/internal/agent"
	"github.com/spf13/cobra"
)

var (
	configJSON string
	rootCmd    = &cobra.Command{
		Use:   agent.Name,
		Short: "mnemnk-application - report the focused application window",
		Long: `mnemnk-application is a mnemnk agent that samples the focused application
window on a fixed interval and reports changes to its parent process.

Protocol:
  stdout  CONFIG <json>                 once, at startup
  stdout  STORE application <json>      whenever the focused window changes
  stdin   QUIT                          exit immediately

Logs go to stderr. Set MNEMNK_APPLICATION_LOG_LEVEL (debug, info, warn, error)
and MNEMNK_APPLICATION_LOG_PRETTY=true to tune them.`,
		Example: `  # Run with platform defaults (10s interval)
  mnemnk-application

  # Sample every 5 seconds and ignore the lock screen
  mnemnk-application --config '{"interval": 5, "ignore": ["LockApp.exe"]}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAgent,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configJSON, "config", "c", "", "JSON config string")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
