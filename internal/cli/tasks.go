package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/pkg/models"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and update a project's tasks",
}

var (
	tasksListPhase  string
	tasksListStatus string
)

var tasksListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List tasks, optionally filtered by phase or status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}

		fmt.Printf("%-28s %-26s %-14s %-12s %4s %8s  %s\n",
			"ID", "TITLE", "PHASE", "STATUS", "PROG", "PRIORITY", "ASSIGNEE")
		shown := 0
		for _, t := range project.Tasks {
			if tasksListPhase != "" && string(t.Phase) != tasksListPhase {
				continue
			}
			if tasksListStatus != "" && string(t.Status) != tasksListStatus {
				continue
			}
			assignee := t.AssigneeName
			if assignee == "" {
				assignee = "-"
			}
			fmt.Printf("%-28s %-26s %-14s %-12s %3d%% %8s  %s\n",
				t.ID, truncate(t.Title, 26), t.Phase, t.Status, t.Progress, t.Priority, assignee)
			shown++
		}
		if shown == 0 {
			fmt.Println("No tasks matched.")
		}
		return nil
	},
}

var (
	tasksStatusReason   string
	tasksStatusProgress int
)

var tasksStatusCmd = &cobra.Command{
	Use:   "status <project-id> <task-id> <status>",
	Short: "Update a task's status (and optionally progress)",
	Long: `Update a task or subtask's status. Subtask IDs contain the parent ID
("-sub-" segments); updating a subtask rolls status and progress back up to
the parent. Completing or blocking a task sends a notification when the
notifier is configured.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		projectID, taskID := args[0], args[1]
		status := models.TaskStatus(args[2])
		if !status.IsValid() {
			return fmt.Errorf("invalid status %q: must be one of not_started, in_progress, blocked, completed, cancelled", args[2])
		}

		project, err := Projects.GetProject(projectID)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}

		task, parent := findTask(project, taskID)
		if task == nil {
			return fmt.Errorf("task %s not found in project %s", taskID, projectID)
		}

		previous := task.Status
		task.Status = status
		if cmd.Flags().Changed("progress") {
			task.Progress = tasksStatusProgress
		} else if status == models.StatusCompleted {
			task.Progress = 100
		}

		if parent != nil {
			core.RollupStatus(parent)
			core.RollupProgress(parent)
		}
		PhaseMgr.RefreshPhases(project)

		if err := Projects.Save(); err != nil {
			return fmt.Errorf("updating task: %w", err)
		}

		logEvent("task.status_changed", projectID, "task status changed", map[string]any{
			"task_id":    taskID,
			"old_status": string(previous),
			"new_status": string(status),
		})

		fmt.Printf("Task %s: %s -> %s\n", taskID, previous, status)

		// Notifications are fire-and-forget; a failed send is reported but
		// the state change above stands.
		notified := task
		if parent != nil {
			notified = parent
		}
		switch status {
		case models.StatusCompleted:
			logEvent("task.completed", projectID, "task completed", map[string]any{"task_id": taskID})
			if Notifier != nil {
				if err := Notifier.TaskCompleted(notified); err != nil {
					fmt.Printf("Warning: completion notification failed: %v\n", err)
				}
			}
		case models.StatusBlocked:
			if Notifier != nil {
				if err := Notifier.TaskBlocked(notified, tasksStatusReason); err != nil {
					fmt.Printf("Warning: blocked notification failed: %v\n", err)
				}
			}
		}

		if unmet := core.UnmetDependencies(task, project.Tasks); len(unmet) > 0 && status == models.StatusInProgress {
			fmt.Printf("Note: %d dependency(ies) incomplete: %s\n", len(unmet), strings.Join(unmet, ", "))
		}

		return nil
	},
}

var tasksDecomposeDepth int

var tasksDecomposeCmd = &cobra.Command{
	Use:   "decompose <project-id> <task-id>",
	Short: "Expand a task into its subtask chain",
	Long: `Expand a task into an ordered chain of subtasks with proportional effort
estimates. A task that already has subtasks is left unchanged. Use --depth
to decompose recursively.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}
		if Decomposer == nil {
			return fmt.Errorf("decomposer not initialized")
		}

		projectID, taskID := args[0], args[1]
		project, err := Projects.GetProject(projectID)
		if err != nil {
			return fmt.Errorf("decomposing task: %w", err)
		}

		for i, t := range project.Tasks {
			if t.ID != taskID {
				continue
			}
			depth := tasksDecomposeDepth
			if depth <= 0 {
				depth = 1
			}
			enriched := Decomposer.DecomposeRecursive(t, depth)
			project.Tasks[i] = enriched

			if err := Projects.Save(); err != nil {
				return fmt.Errorf("decomposing task: %w", err)
			}

			logEvent("task.decomposed", projectID, "task decomposed", map[string]any{
				"task_id":  taskID,
				"subtasks": len(enriched.Subtasks),
			})

			fmt.Printf("Decomposed %s into %d subtask(s)\n", taskID, len(enriched.Subtasks))
			for _, sub := range enriched.Subtasks {
				fmt.Printf("  %-32s %-26s %6.1fh  %s\n", sub.ID, truncate(sub.Title, 26), sub.EstimatedHours, sub.Priority)
			}
			return nil
		}

		return fmt.Errorf("task %s not found in project %s", taskID, projectID)
	},
}

// findTask locates a task by ID among a project's top-level tasks and their
// subtasks. For a subtask it also returns the owning parent.
func findTask(project *models.Project, id string) (task *models.Task, parent *models.Task) {
	for _, t := range project.Tasks {
		if t.ID == id {
			return t, nil
		}
		for _, sub := range t.Subtasks {
			if sub.ID == id {
				return sub, t
			}
		}
	}
	return nil, nil
}

func init() {
	tasksListCmd.Flags().StringVar(&tasksListPhase, "phase", "", "Filter by phase (sales, design, manufacturing, construction)")
	tasksListCmd.Flags().StringVar(&tasksListStatus, "status", "", "Filter by status")

	tasksStatusCmd.Flags().StringVar(&tasksStatusReason, "reason", "", "Blocking reason (sent with blocked notifications)")
	tasksStatusCmd.Flags().IntVar(&tasksStatusProgress, "progress", 0, "Set progress (0-100) alongside the status")

	tasksDecomposeCmd.Flags().IntVar(&tasksDecomposeDepth, "depth", 1, "Maximum decomposition depth")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksStatusCmd)
	tasksCmd.AddCommand(tasksDecomposeCmd)
	rootCmd.AddCommand(tasksCmd)
}
