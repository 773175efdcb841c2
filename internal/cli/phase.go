package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/pkg/models"
)

var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Inspect phase status and advance the workflow",
}

var phaseStatusCmd = &cobra.Command{
	Use:   "status <project-id>",
	Short: "Show per-phase progress, status, and the critical path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("showing phase status: %w", err)
		}
		PhaseMgr.RefreshPhases(project)

		current := PhaseMgr.CurrentPhase(project)
		for _, phase := range models.AllPhases() {
			info := project.Phases[phase]
			marker := "  "
			if phase == current {
				marker = "> "
			}
			started := ""
			if info.StartDate != nil {
				started = "started " + info.StartDate.Format("2006-01-02")
			}
			fmt.Printf("%s%-14s %s %3d%%  %-12s %s\n",
				marker, phase, progressBar(info.Progress, 20), info.Progress, info.Status, started)
		}
		fmt.Printf("\nOverall: %d%%\n", PhaseMgr.OverallProgress(project))

		if path := core.CriticalPath(project.Tasks); len(path) > 0 {
			fmt.Printf("\nCritical path (%d tasks):\n", len(path))
			for _, t := range path {
				fmt.Printf("  %s  %s\n", t.ID, t.Title)
			}
		}
		return nil
	},
}

var phaseAdvanceCmd = &cobra.Command{
	Use:   "advance <project-id>",
	Short: "Advance the project to the next phase",
	Long: `Attempt to advance the project from its current phase to the next one.

The transition succeeds only when every task in the current phase is
completed. When the workflow requires approval and approvers are configured
for the target phase, confirmation is requested before the transition.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("advancing phase: %w", err)
		}

		current := PhaseMgr.CurrentPhase(project)
		result, err := PhaseMgr.Advance(cmd.Context(), project, current)
		if err != nil {
			return fmt.Errorf("advancing phase: %w", err)
		}

		if !result.Success {
			fmt.Printf("Transition not performed: %s\n", result.Message)
			return nil
		}

		PhaseMgr.RefreshPhases(project)
		if err := Projects.Save(); err != nil {
			return fmt.Errorf("advancing phase: %w", err)
		}

		logEvent("phase.advanced", project.ID, "phase advanced", map[string]any{
			"from": string(current),
			"to":   string(result.NextPhase),
		})

		fmt.Printf("Advanced %s: %s -> %s\n", project.ID, current, result.NextPhase)
		return nil
	},
}

func init() {
	phaseCmd.AddCommand(phaseStatusCmd)
	phaseCmd.AddCommand(phaseAdvanceCmd)
	rootCmd.AddCommand(phaseCmd)
}
