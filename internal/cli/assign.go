package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Recommend, set, and remove task assignments",
}

var assignRecommendTop int

var assignRecommendCmd = &cobra.Command{
	Use:   "recommend <project-id> <task-id>",
	Short: "Rank team members for a task by skill match and load",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil || Team == nil {
			return fmt.Errorf("stores not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("recommending assignees: %w", err)
		}
		task := project.FindTask(args[1])
		if task == nil {
			return fmt.Errorf("task %s not found in project %s", args[1], args[0])
		}

		members, err := Team.GetAllMembers()
		if err != nil {
			return fmt.Errorf("recommending assignees: %w", err)
		}

		recs := Recommender.Recommend(task, members, time.Now().UTC(), assignRecommendTop)
		if len(recs) == 0 {
			fmt.Println("No suitable candidates found.")
			return nil
		}

		fmt.Printf("Candidates for %s (%s):\n", task.ID, task.Title)
		for i, r := range recs {
			fmt.Printf("%d. %-20s score %3d  est. completion %s\n",
				i+1, r.Member.Name, r.Score, r.EstimatedCompletion.Format("2006-01-02"))
			fmt.Printf("   %s\n", r.Reason)
		}
		return nil
	},
}

var assignSetCmd = &cobra.Command{
	Use:   "set <project-id> <task-id> <member-id>",
	Short: "Assign a task to a member",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil || Team == nil {
			return fmt.Errorf("stores not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("assigning task: %w", err)
		}
		task := project.FindTask(args[1])
		if task == nil {
			return fmt.Errorf("task %s not found in project %s", args[1], args[0])
		}
		member, err := Team.GetMember(args[2])
		if err != nil {
			return fmt.Errorf("assigning task: %w", err)
		}

		if task.AssigneeID != "" {
			return fmt.Errorf("assigning task: task %s is already assigned to %s", task.ID, task.AssigneeID)
		}

		Recommender.Assign(task, member)

		if err := Projects.Save(); err != nil {
			return fmt.Errorf("assigning task: %w", err)
		}
		if err := Team.Save(); err != nil {
			return fmt.Errorf("assigning task: %w", err)
		}

		logEvent("assignment.created", project.ID, "task assigned", map[string]any{
			"task_id":   task.ID,
			"member_id": member.ID,
		})

		fmt.Printf("Assigned %s to %s (load now %.1fh of %.1fh)\n",
			task.ID, member.Name, member.CurrentLoad, member.Availability)
		return nil
	},
}

var assignRemoveCmd = &cobra.Command{
	Use:   "remove <project-id> <task-id>",
	Short: "Remove a task's assignment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil || Team == nil {
			return fmt.Errorf("stores not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("unassigning task: %w", err)
		}
		task := project.FindTask(args[1])
		if task == nil {
			return fmt.Errorf("task %s not found in project %s", args[1], args[0])
		}
		if task.AssigneeID == "" {
			return fmt.Errorf("unassigning task: task %s has no assignee", task.ID)
		}

		member, err := Team.GetMember(task.AssigneeID)
		if err != nil {
			return fmt.Errorf("unassigning task: %w", err)
		}

		Recommender.Unassign(task, member)

		if err := Projects.Save(); err != nil {
			return fmt.Errorf("unassigning task: %w", err)
		}
		if err := Team.Save(); err != nil {
			return fmt.Errorf("unassigning task: %w", err)
		}

		logEvent("assignment.removed", project.ID, "task unassigned", map[string]any{
			"task_id":   task.ID,
			"member_id": member.ID,
		})

		fmt.Printf("Unassigned %s from %s\n", task.ID, member.Name)
		return nil
	},
}

func init() {
	assignRecommendCmd.Flags().IntVar(&assignRecommendTop, "top", 3, "Number of candidates to show")

	assignCmd.AddCommand(assignRecommendCmd)
	assignCmd.AddCommand(assignSetCmd)
	assignCmd.AddCommand(assignRemoveCmd)
	rootCmd.AddCommand(assignCmd)
}
