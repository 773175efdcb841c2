// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the workflow engine as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/internal/storage"
	"github.com/membry/mpm/pkg/models"
)

// Server wraps the engine services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	projects    storage.ProjectStore
	team        storage.TeamStore
	phases      core.PhaseManager
	recommender core.AssignmentRecommender
}

// NewServer creates a new MCP server with the given service dependencies.
func NewServer(projects storage.ProjectStore, team storage.TeamStore, phases core.PhaseManager, recommender core.AssignmentRecommender, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		projects:    projects,
		team:        team,
		phases:      phases,
		recommender: recommender,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "mpm", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,the unique project identifier"`
}

type phaseOutput struct {
	Phase     string `json:"phase"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type projectOutput struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Status          string        `json:"status"`
	OverallProgress int           `json:"overall_progress"`
	StartDate       string        `json:"start_date"`
	TargetEndDate   string        `json:"target_end_date"`
	Phases          []phaseOutput `json:"phases"`
	TaskCount       int           `json:"task_count"`
}

type listTasksInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,the unique project identifier"`
	Phase     string `json:"phase,omitempty" jsonschema:"filter tasks by phase (sales, design, manufacturing, construction)"`
	Status    string `json:"status,omitempty" jsonschema:"filter tasks by status (not_started, in_progress, blocked, completed, cancelled)"`
}

type taskOutput struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Phase          string   `json:"phase"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Progress       int      `json:"progress"`
	AssigneeID     string   `json:"assignee_id,omitempty"`
	AssigneeName   string   `json:"assignee_name,omitempty"`
	EstimatedHours float64  `json:"estimated_hours,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
	SubtaskCount   int      `json:"subtask_count"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type phaseProgressInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,the unique project identifier"`
	Phase     string `json:"phase" jsonschema:"required,the phase to inspect (sales, design, manufacturing, construction)"`
}

type phaseProgressOutput struct {
	Phase    string `json:"phase"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

type criticalPathInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,the unique project identifier"`
}

type criticalPathOutput struct {
	TaskIDs []string `json:"task_ids"`
	Length  int      `json:"length"`
}

type recommendInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,the unique project identifier"`
	TaskID    string `json:"task_id" jsonschema:"required,the task to find assignees for"`
	TopN      int    `json:"top_n,omitempty" jsonschema:"maximum number of candidates to return (default 3)"`
}

type recommendationOutput struct {
	MemberID            string `json:"member_id"`
	Name                string `json:"name"`
	Score               int    `json:"score"`
	Reason              string `json:"reason"`
	EstimatedCompletion string `json:"estimated_completion"`
}

type recommendOutput struct {
	Recommendations []recommendationOutput `json:"recommendations"`
	Count           int                    `json:"count"`
}

type advancePhaseInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,the unique project identifier"`
}

type advancePhaseOutput struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	NextPhase string `json:"next_phase,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_project",
		Description: "Get a project's overall state: phases, progress, status, and task count.",
	}, s.handleGetProject)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List a project's tasks with optional phase and status filters.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "phase_progress",
		Description: "Get the derived progress and status of one workflow phase.",
	}, s.handlePhaseProgress)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "critical_path",
		Description: "Compute the approximate longest dependency chain through a project's tasks.",
	}, s.handleCriticalPath)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "recommend_assignees",
		Description: "Rank team members for a task by skill match and current load.",
	}, s.handleRecommend)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "advance_phase",
		Description: "Attempt to advance the project from its current phase to the next one. Fails when tasks are incomplete.",
	}, s.handleAdvancePhase)
}

// --- Tool handlers ---

func (s *Server) handleGetProject(_ context.Context, _ *gomcp.CallToolRequest, input getProjectInput) (*gomcp.CallToolResult, projectOutput, error) {
	if input.ProjectID == "" {
		return errorResult("project_id is required"), projectOutput{}, nil
	}

	project, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting project %s: %s", input.ProjectID, err)), projectOutput{}, nil
	}

	s.phases.RefreshPhases(project)

	out := projectOutput{
		ID:              project.ID,
		Name:            project.Name,
		Status:          string(project.Status),
		OverallProgress: s.phases.OverallProgress(project),
		StartDate:       project.StartDate.Format("2006-01-02"),
		TargetEndDate:   project.TargetEndDate.Format("2006-01-02"),
		TaskCount:       len(project.Tasks),
	}
	for _, phase := range models.AllPhases() {
		info := project.Phases[phase]
		po := phaseOutput{
			Phase:    string(phase),
			Status:   string(info.Status),
			Progress: info.Progress,
		}
		if info.StartDate != nil {
			po.StartDate = info.StartDate.Format(time.RFC3339)
		}
		if info.EndDate != nil {
			po.EndDate = info.EndDate.Format(time.RFC3339)
		}
		out.Phases = append(out.Phases, po)
	}

	return nil, out, nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	if input.ProjectID == "" {
		return errorResult("project_id is required"), listTasksOutput{}, nil
	}

	project, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting project %s: %s", input.ProjectID, err)), listTasksOutput{}, nil
	}

	var out listTasksOutput
	for _, t := range project.Tasks {
		if input.Phase != "" && string(t.Phase) != input.Phase {
			continue
		}
		if input.Status != "" && string(t.Status) != input.Status {
			continue
		}
		out.Tasks = append(out.Tasks, taskToOutput(t))
	}
	out.Count = len(out.Tasks)

	return nil, out, nil
}

func (s *Server) handlePhaseProgress(_ context.Context, _ *gomcp.CallToolRequest, input phaseProgressInput) (*gomcp.CallToolResult, phaseProgressOutput, error) {
	if input.ProjectID == "" {
		return errorResult("project_id is required"), phaseProgressOutput{}, nil
	}
	phase := models.Phase(input.Phase)
	if !phase.IsValid() {
		return errorResult(fmt.Sprintf("invalid phase %q: must be one of sales, design, manufacturing, construction", input.Phase)), phaseProgressOutput{}, nil
	}

	project, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting project %s: %s", input.ProjectID, err)), phaseProgressOutput{}, nil
	}

	out := phaseProgressOutput{
		Phase:    input.Phase,
		Status:   string(s.phases.DerivePhaseStatus(phase, project.Tasks)),
		Progress: s.phases.PhaseProgress(phase, project.Tasks),
	}
	return nil, out, nil
}

func (s *Server) handleCriticalPath(_ context.Context, _ *gomcp.CallToolRequest, input criticalPathInput) (*gomcp.CallToolResult, criticalPathOutput, error) {
	if input.ProjectID == "" {
		return errorResult("project_id is required"), criticalPathOutput{}, nil
	}

	project, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting project %s: %s", input.ProjectID, err)), criticalPathOutput{}, nil
	}

	var out criticalPathOutput
	for _, t := range core.CriticalPath(project.Tasks) {
		out.TaskIDs = append(out.TaskIDs, t.ID)
	}
	out.Length = len(out.TaskIDs)

	return nil, out, nil
}

func (s *Server) handleRecommend(_ context.Context, _ *gomcp.CallToolRequest, input recommendInput) (*gomcp.CallToolResult, recommendOutput, error) {
	if input.ProjectID == "" {
		return errorResult("project_id is required"), recommendOutput{}, nil
	}
	if input.TaskID == "" {
		return errorResult("task_id is required"), recommendOutput{}, nil
	}

	project, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting project %s: %s", input.ProjectID, err)), recommendOutput{}, nil
	}
	task := project.FindTask(input.TaskID)
	if task == nil {
		return errorResult(fmt.Sprintf("task %s not found in project %s", input.TaskID, input.ProjectID)), recommendOutput{}, nil
	}

	members, err := s.team.GetAllMembers()
	if err != nil {
		return errorResult(fmt.Sprintf("listing members: %s", err)), recommendOutput{}, nil
	}

	topN := input.TopN
	if topN <= 0 {
		topN = 3
	}

	recs := s.recommender.Recommend(task, members, time.Now().UTC(), topN)
	out := recommendOutput{Count: len(recs)}
	for _, r := range recs {
		out.Recommendations = append(out.Recommendations, recommendationOutput{
			MemberID:            r.Member.ID,
			Name:                r.Member.Name,
			Score:               r.Score,
			Reason:              r.Reason,
			EstimatedCompletion: r.EstimatedCompletion.Format("2006-01-02"),
		})
	}

	return nil, out, nil
}

func (s *Server) handleAdvancePhase(ctx context.Context, _ *gomcp.CallToolRequest, input advancePhaseInput) (*gomcp.CallToolResult, advancePhaseOutput, error) {
	if input.ProjectID == "" {
		return errorResult("project_id is required"), advancePhaseOutput{}, nil
	}

	project, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting project %s: %s", input.ProjectID, err)), advancePhaseOutput{}, nil
	}

	current := s.phases.CurrentPhase(project)
	result, err := s.phases.Advance(ctx, project, current)
	if err != nil {
		return errorResult(fmt.Sprintf("advancing project %s: %s", input.ProjectID, err)), advancePhaseOutput{}, nil
	}

	if result.Success {
		s.phases.RefreshPhases(project)
		if err := s.projects.Save(); err != nil {
			return errorResult(fmt.Sprintf("saving project %s: %s", input.ProjectID, err)), advancePhaseOutput{}, nil
		}
	}

	out := advancePhaseOutput{
		Success:   result.Success,
		Message:   result.Message,
		NextPhase: string(result.NextPhase),
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t *models.Task) taskOutput {
	return taskOutput{
		ID:             t.ID,
		Title:          t.Title,
		Phase:          string(t.Phase),
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		Progress:       t.Progress,
		AssigneeID:     t.AssigneeID,
		AssigneeName:   t.AssigneeName,
		EstimatedHours: t.EstimatedHours,
		Dependencies:   t.Dependencies,
		SubtaskCount:   len(t.Subtasks),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
