package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membry/mpm/pkg/models"
)

var (
	reportSend bool
	reportJSON bool
)

var reportCmd = &cobra.Command{
	Use:   "report <project-id>",
	Short: "Generate a progress report (optionally send it to Membry)",
	Long: `Assemble the structured per-phase progress report for a project: phase
progress and status, overall progress, the critical path, and member
workload. Use --send to post it to the configured notification webhook,
or --json to print the raw structure.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil || Reports == nil {
			return fmt.Errorf("report builder not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("building report: %w", err)
		}
		PhaseMgr.RefreshPhases(project)

		var members []*models.Member
		if Team != nil {
			members, err = Team.GetAllMembers()
			if err != nil {
				return fmt.Errorf("building report: %w", err)
			}
		}

		report := Reports.Build(project, members)

		if reportJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("building report: %w", err)
			}
			fmt.Println(string(data))
		} else {
			fmt.Printf("Progress report: %s (%s)\n", report.ProjectName, report.ProjectID)
			fmt.Printf("Overall: %s %3d%%\n\n", progressBar(report.OverallProgress, 20), report.OverallProgress)
			for _, ps := range report.Phases {
				fmt.Printf("  %-14s %s %3d%%  %-12s %d/%d done",
					ps.Phase, progressBar(ps.Progress, 20), ps.Progress, ps.Status, ps.CompletedTasks, ps.TotalTasks)
				if ps.BlockedTasks > 0 {
					fmt.Printf("  (%d blocked)", ps.BlockedTasks)
				}
				fmt.Println()
			}
			if len(report.CriticalPath) > 0 {
				fmt.Printf("\nCritical path: %d task(s)\n", len(report.CriticalPath))
			}
			if len(report.Workload) > 0 {
				fmt.Println("\nWorkload:")
				for _, w := range report.Workload {
					fmt.Printf("  %-20s %5.1f/%4.0fh (%d%%)\n", w.Name, w.CurrentLoad, w.Availability, w.LoadPercent)
				}
			}
		}

		if reportSend {
			if Notifier == nil {
				return fmt.Errorf("sending report: notifications not configured")
			}
			if err := Notifier.SendProgressReport(report); err != nil {
				return fmt.Errorf("sending report: %w", err)
			}
			logEvent("report.sent", project.ID, "progress report sent", nil)
			fmt.Println("\nReport sent to Membry.")
		}

		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportSend, "send", false, "Send the report to the notification webhook")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(reportCmd)
}
