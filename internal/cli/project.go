package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/pkg/models"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects (create, show, list)",
	Long: `Project management commands.

Create a new four-phase project with its standard task set, inspect a
project's phase breakdown, or list all projects.`,
}

var (
	projectCreateID       string
	projectCreateCustomer string
	projectCreateStart    string
	projectCreateEnd      string
)

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project with the standard task set",
	Long: `Create a new project shell with all four phase slots and generate the
canonical task list: templated tasks per phase, chained by dependencies
within each phase, with phases serialized end to end.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		name := args[0]
		id := projectCreateID
		if id == "" {
			id = fmt.Sprintf("PRJ-%d", time.Now().UTC().Unix())
		}

		start := time.Now().UTC()
		if projectCreateStart != "" {
			parsed, err := time.Parse("2006-01-02", projectCreateStart)
			if err != nil {
				return fmt.Errorf("parsing --start: %w", err)
			}
			start = parsed
		}
		end := start.AddDate(0, 6, 0)
		if projectCreateEnd != "" {
			parsed, err := time.Parse("2006-01-02", projectCreateEnd)
			if err != nil {
				return fmt.Errorf("parsing --end: %w", err)
			}
			end = parsed
		}

		project := models.NewProject(id, name, start, end)
		project.CustomerName = projectCreateCustomer
		project.Tasks = core.GenerateStandardTasks(project.ID)
		PhaseMgr.RefreshPhases(project)

		if err := Projects.AddProject(project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		if err := Projects.Save(); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		logEvent("project.created", project.ID, "project created", map[string]any{
			"name":  project.Name,
			"tasks": len(project.Tasks),
		})

		fmt.Printf("Created project %s\n", project.ID)
		fmt.Printf("  Name:   %s\n", project.Name)
		fmt.Printf("  Start:  %s\n", project.StartDate.Format("2006-01-02"))
		fmt.Printf("  Target: %s\n", project.TargetEndDate.Format("2006-01-02"))
		fmt.Printf("  Tasks:  %d across %d phases\n", len(project.Tasks), len(models.AllPhases()))
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project's phase breakdown and progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		project, err := Projects.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("showing project: %w", err)
		}
		PhaseMgr.RefreshPhases(project)

		fmt.Printf("%s  %s\n", project.ID, project.Name)
		if project.CustomerName != "" {
			fmt.Printf("Customer: %s\n", project.CustomerName)
		}
		fmt.Printf("Period:   %s to %s\n",
			project.StartDate.Format("2006-01-02"),
			project.TargetEndDate.Format("2006-01-02"))
		fmt.Printf("Overall:  %s %3d%%\n", progressBar(PhaseMgr.OverallProgress(project), 20), PhaseMgr.OverallProgress(project))
		fmt.Println()

		for _, phase := range models.AllPhases() {
			info := project.Phases[phase]
			fmt.Printf("  %-14s %s %3d%%  %s\n",
				phase, progressBar(info.Progress, 20), info.Progress, info.Status)
		}
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		projects, err := Projects.GetAllProjects()
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}
		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		fmt.Printf("%-20s %-30s %-14s %8s\n", "ID", "NAME", "PHASE", "PROGRESS")
		for _, p := range projects {
			fmt.Printf("%-20s %-30s %-14s %7d%%\n",
				p.ID, truncate(p.Name, 30), PhaseMgr.CurrentPhase(p), PhaseMgr.OverallProgress(p))
		}
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectCreateID, "id", "", "Explicit project ID (default: generated)")
	projectCreateCmd.Flags().StringVar(&projectCreateCustomer, "customer", "", "Customer name")
	projectCreateCmd.Flags().StringVar(&projectCreateStart, "start", "", "Start date (YYYY-MM-DD, default today)")
	projectCreateCmd.Flags().StringVar(&projectCreateEnd, "end", "", "Target end date (YYYY-MM-DD, default start+6 months)")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectListCmd)
	rootCmd.AddCommand(projectCmd)
}
