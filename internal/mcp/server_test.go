package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/internal/storage"
	"github.com/membry/mpm/pkg/models"
)

// --- Test helpers ---

func sampleProject() *models.Project {
	p := models.NewProject("PRJ-1", "Warehouse extension",
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC))
	p.Tasks = []*models.Task{
		{
			ID:             "PRJ-1-sales-1",
			Title:          "Initial inquiry intake",
			Phase:          models.PhaseSales,
			Status:         models.StatusCompleted,
			Priority:       models.PriorityMedium,
			Progress:       100,
			EstimatedHours: 4,
		},
		{
			ID:             "PRJ-1-sales-2",
			Title:          "Customer hearing",
			Phase:          models.PhaseSales,
			Status:         models.StatusInProgress,
			Priority:       models.PriorityMedium,
			Progress:       50,
			EstimatedHours: 6,
			Dependencies:   []string{"PRJ-1-sales-1"},
		},
		{
			ID:             "PRJ-1-design-1",
			Title:          "Site survey",
			Phase:          models.PhaseDesign,
			Status:         models.StatusNotStarted,
			Priority:       models.PriorityMedium,
			EstimatedHours: 8,
			Dependencies:   []string{"PRJ-1-sales-2"},
		},
	}
	return p
}

func newTestServer(t *testing.T, projects ...*models.Project) *Server {
	t.Helper()

	dir := t.TempDir()
	projectStore := storage.NewProjectStore(dir)
	for _, p := range projects {
		if err := projectStore.AddProject(p); err != nil {
			t.Fatalf("AddProject: %v", err)
		}
	}

	teamStore := storage.NewTeamStore(dir)
	members := []*models.Member{
		{ID: "m1", Name: "Aoi Tanaka", Skills: []models.Skill{models.SkillSales, models.SkillProjectManagement}, Availability: 40},
		{ID: "m2", Name: "Ben Ortiz", Skills: []models.Skill{models.SkillDesign}, Availability: 40, CurrentLoad: 36},
	}
	for _, m := range members {
		if err := teamStore.UpsertMember(m); err != nil {
			t.Fatalf("UpsertMember: %v", err)
		}
	}

	pm := core.NewPhaseManager(models.WorkflowConfig{}, nil)
	return NewServer(projectStore, teamStore, pm, core.NewAssignmentRecommender(), "test")
}

// callTool connects an in-memory client to the server and invokes one tool.
func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()

	ctx := context.Background()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	t1, t2 := gomcp.NewInMemoryTransports()

	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}

	return result
}

func extractText(result *gomcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// decodeOutput parses a tool result into out, preferring the structured
// content when the text content is not plain JSON.
func decodeOutput(t *testing.T, result *gomcp.CallToolResult, out any) {
	t.Helper()
	text := extractText(result)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		if result.StructuredContent == nil {
			t.Fatalf("unmarshalling output: %v (text was: %s)", err, text)
		}
		data, _ := json.Marshal(result.StructuredContent)
		if err2 := json.Unmarshal(data, out); err2 != nil {
			t.Fatalf("unmarshalling structured output: %v (text was: %s)", err2, text)
		}
	}
}

// --- Tests ---

func TestGetProject(t *testing.T) {
	srv := newTestServer(t, sampleProject())

	result := callTool(t, srv, "get_project", map[string]any{"project_id": "PRJ-1"})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractText(result))
	}

	var out projectOutput
	decodeOutput(t, result, &out)

	if out.ID != "PRJ-1" || out.Name != "Warehouse extension" {
		t.Errorf("project identity = %s/%s", out.ID, out.Name)
	}
	if out.TaskCount != 3 {
		t.Errorf("task count = %d, want 3", out.TaskCount)
	}
	if len(out.Phases) != 4 {
		t.Fatalf("expected 4 phase entries, got %d", len(out.Phases))
	}
	if out.Phases[0].Phase != "sales" || out.Phases[0].Progress != 75 {
		t.Errorf("sales phase = %+v", out.Phases[0])
	}
}

func TestGetProjectNotFound(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "get_project", map[string]any{"project_id": "nope"})
	if !result.IsError {
		t.Fatal("expected error result for an unknown project")
	}
	if !strings.Contains(extractText(result), "not found") {
		t.Errorf("error text = %s", extractText(result))
	}
}

func TestListTasksFiltered(t *testing.T) {
	srv := newTestServer(t, sampleProject())

	result := callTool(t, srv, "list_tasks", map[string]any{
		"project_id": "PRJ-1",
		"phase":      "sales",
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractText(result))
	}

	var out listTasksOutput
	decodeOutput(t, result, &out)
	if out.Count != 2 {
		t.Fatalf("expected 2 sales tasks, got %d", out.Count)
	}
	for _, task := range out.Tasks {
		if task.Phase != "sales" {
			t.Errorf("task %s leaked through the phase filter", task.ID)
		}
	}

	result = callTool(t, srv, "list_tasks", map[string]any{
		"project_id": "PRJ-1",
		"status":     "in_progress",
	})
	decodeOutput(t, result, &out)
	if out.Count != 1 || out.Tasks[0].ID != "PRJ-1-sales-2" {
		t.Fatalf("status filter returned %+v", out)
	}
}

func TestPhaseProgress(t *testing.T) {
	srv := newTestServer(t, sampleProject())

	result := callTool(t, srv, "phase_progress", map[string]any{
		"project_id": "PRJ-1",
		"phase":      "sales",
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractText(result))
	}

	var out phaseProgressOutput
	decodeOutput(t, result, &out)
	if out.Progress != 75 {
		t.Errorf("sales progress = %d, want 75", out.Progress)
	}
	if out.Status != "in_progress" {
		t.Errorf("sales status = %s, want in_progress", out.Status)
	}
}

func TestPhaseProgressInvalidPhase(t *testing.T) {
	srv := newTestServer(t, sampleProject())

	result := callTool(t, srv, "phase_progress", map[string]any{
		"project_id": "PRJ-1",
		"phase":      "shipping",
	})
	if !result.IsError {
		t.Fatal("expected error result for an invalid phase")
	}
}

func TestCriticalPath(t *testing.T) {
	srv := newTestServer(t, sampleProject())

	result := callTool(t, srv, "critical_path", map[string]any{"project_id": "PRJ-1"})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractText(result))
	}

	var out criticalPathOutput
	decodeOutput(t, result, &out)
	want := []string{"PRJ-1-sales-1", "PRJ-1-sales-2", "PRJ-1-design-1"}
	if out.Length != len(want) {
		t.Fatalf("critical path = %v, want %v", out.TaskIDs, want)
	}
	for i := range want {
		if out.TaskIDs[i] != want[i] {
			t.Fatalf("critical path = %v, want %v", out.TaskIDs, want)
		}
	}
}

func TestRecommendAssignees(t *testing.T) {
	srv := newTestServer(t, sampleProject())

	result := callTool(t, srv, "recommend_assignees", map[string]any{
		"project_id": "PRJ-1",
		"task_id":    "PRJ-1-sales-2",
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractText(result))
	}

	var out recommendOutput
	decodeOutput(t, result, &out)
	if out.Count == 0 {
		t.Fatal("expected at least one recommendation")
	}
	// m1 holds both required sales-phase skills; m2 is nearly fully loaded.
	if out.Recommendations[0].MemberID != "m1" {
		t.Errorf("best candidate = %s, want m1", out.Recommendations[0].MemberID)
	}
	if out.Recommendations[0].Score <= 0 || out.Recommendations[0].Score > 100 {
		t.Errorf("score out of range: %d", out.Recommendations[0].Score)
	}
	if out.Recommendations[0].Reason == "" {
		t.Error("recommendation should carry a reason")
	}
}

func TestRecommendAssigneesUnknownTask(t *testing.T) {
	srv := newTestServer(t, sampleProject())

	result := callTool(t, srv, "recommend_assignees", map[string]any{
		"project_id": "PRJ-1",
		"task_id":    "ghost",
	})
	if !result.IsError {
		t.Fatal("expected error result for an unknown task")
	}
}

func TestAdvancePhaseBlocked(t *testing.T) {
	srv := newTestServer(t, sampleProject())

	// The sales phase still has an in-progress task.
	result := callTool(t, srv, "advance_phase", map[string]any{"project_id": "PRJ-1"})
	if result.IsError {
		t.Fatalf("expected a tool-level result, got error: %v", extractText(result))
	}

	var out advancePhaseOutput
	decodeOutput(t, result, &out)
	if out.Success {
		t.Fatal("expected the transition to be refused")
	}
	if !strings.Contains(out.Message, "incomplete") {
		t.Errorf("message = %s", out.Message)
	}
}

func TestAdvancePhaseSucceeds(t *testing.T) {
	project := sampleProject()
	for _, task := range project.Tasks {
		if task.Phase == models.PhaseSales {
			task.Status = models.StatusCompleted
			task.Progress = 100
		}
	}
	srv := newTestServer(t, project)

	result := callTool(t, srv, "advance_phase", map[string]any{"project_id": "PRJ-1"})
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractText(result))
	}

	var out advancePhaseOutput
	decodeOutput(t, result, &out)
	if !out.Success {
		t.Fatalf("expected success, got message: %s", out.Message)
	}
	if out.NextPhase != "design" {
		t.Errorf("next phase = %s, want design", out.NextPhase)
	}
}
