package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "mpm",
	Short: "Membry Project Management - four-phase workflow scheduler",
	Long: `Membry Project Management (mpm) coordinates make-to-order projects through
four workflow phases: sales, design, manufacturing, and construction.

It generates the standard task set for each phase, decomposes tasks into
subtasks, tracks dependency-aware progress, gates phase transitions,
computes the critical path, and recommends task assignments against the
Membry team roster.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mpm %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
