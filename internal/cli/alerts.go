package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/membry/mpm/pkg/models"
)

var alertsNotify bool

var alertsCmd = &cobra.Command{
	Use:   "alerts <project-id>",
	Short: "Evaluate and display alerts for a project",
	Long: `Evaluate alert conditions against a project and the team: approaching or
passed deadlines, blocked tasks, overdue phases, tasks started before their
dependencies completed, and overloaded members.

Use --notify to forward deadline alerts to the notification webhook.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil || AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("evaluating alerts: %w", err)
		}
		PhaseMgr.RefreshPhases(project)

		var members []*models.Member
		if Team != nil {
			members, err = Team.GetAllMembers()
			if err != nil {
				return fmt.Errorf("evaluating alerts: %w", err)
			}
		}

		alerts := AlertEngine.Evaluate(project, members, time.Now().UTC())
		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return nil
		}

		for _, a := range alerts {
			fmt.Printf("[%s] %s\n", strings.ToUpper(string(a.Severity)), a.Message)
		}
		fmt.Printf("\n%d alert(s).\n", len(alerts))

		if alertsNotify && Notifier != nil {
			for _, a := range alerts {
				if a.Condition != "deadline_approaching" {
					continue
				}
				if err := Notifier.DeadlineApproaching(project, a.DaysRemaining); err != nil {
					fmt.Printf("Warning: deadline notification failed: %v\n", err)
				}
			}
		}

		return nil
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Forward deadline alerts to the notification webhook")
	rootCmd.AddCommand(alertsCmd)
}
