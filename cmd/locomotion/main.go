// Command locomotion creates environment configurations, rolls out
// policies in the Hopper and Walker2D environments, and summarizes the
// forward progress of recorded episodes.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "locomotion",
})

func main() {
	rootCmd := &cobra.Command{
		Use:           "locomotion",
		Short:         "MuJoCo locomotion environments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newConfigCmd(), newRolloutCmd(), newSummarizeCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}
