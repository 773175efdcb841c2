package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <project-id>",
	Short: "Greedily assign every unassigned task to its best candidate",
	Long: `Run a greedy load-balancing pass: for every currently unassigned task in
order, the single best-scoring member is assigned immediately, with member
load updated live so later tasks see the reduced capacity. There is no
backtracking or global optimization.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil || Team == nil {
			return fmt.Errorf("stores not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("balancing load: %w", err)
		}
		members, err := Team.GetAllMembers()
		if err != nil {
			return fmt.Errorf("balancing load: %w", err)
		}

		results := Recommender.BalanceLoad(project.Tasks, members, time.Now().UTC())

		assigned := 0
		for _, r := range results {
			if r.Assigned {
				assigned++
				logEvent("assignment.created", project.ID, "task assigned by balancing", map[string]any{
					"task_id":   r.TaskID,
					"member_id": r.MemberID,
					"score":     r.Score,
				})
				fmt.Printf("%-28s -> %-20s score %3d\n", r.TaskID, r.MemberName, r.Score)
			} else {
				fmt.Printf("%-28s -> (skipped: %s)\n", r.TaskID, r.Reason)
			}
		}

		if assigned > 0 {
			if err := Projects.Save(); err != nil {
				return fmt.Errorf("balancing load: %w", err)
			}
			if err := Team.Save(); err != nil {
				return fmt.Errorf("balancing load: %w", err)
			}
		}

		fmt.Printf("\nAssigned %d of %d unassigned task(s).\n", assigned, len(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
