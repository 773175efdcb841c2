package core

import (
	"fmt"
	"testing"

	"github.com/membry/mpm/pkg/models"
)

func TestGenerateStandardTasks_Count(t *testing.T) {
	tasks := GenerateStandardTasks("PRJ-1")

	want := 0
	for _, phase := range models.AllPhases() {
		want += len(PhaseTemplates(phase))
	}
	if len(tasks) != want {
		t.Fatalf("expected %d tasks, got %d", want, len(tasks))
	}
}

func TestGenerateStandardTasks_IDFormat(t *testing.T) {
	tasks := GenerateStandardTasks("PRJ-1")

	if tasks[0].ID != "PRJ-1-sales-1" {
		t.Fatalf("expected first ID PRJ-1-sales-1, got %s", tasks[0].ID)
	}

	// IDs are 1-based per phase, in phase order.
	seen := make(map[string]bool)
	counters := make(map[models.Phase]int)
	for _, task := range tasks {
		counters[task.Phase]++
		want := fmt.Sprintf("PRJ-1-%s-%d", task.Phase, counters[task.Phase])
		if task.ID != want {
			t.Fatalf("expected ID %s, got %s", want, task.ID)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate ID %s", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestGenerateStandardTasks_IntraPhaseDependencies(t *testing.T) {
	tasks := GenerateStandardTasks("P")

	var previous *models.Task
	for _, task := range tasks {
		if previous != nil && task.Phase == previous.Phase {
			if len(task.Dependencies) != 1 || task.Dependencies[0] != previous.ID {
				t.Fatalf("task %s should depend on %s, got %v", task.ID, previous.ID, task.Dependencies)
			}
		}
		previous = task
	}
}

func TestGenerateStandardTasks_CrossPhaseDependencies(t *testing.T) {
	tasks := GenerateStandardTasks("P")

	byID := make(map[string]*models.Task)
	for _, task := range tasks {
		byID[task.ID] = task
	}

	// The first task of every phase after sales depends on the last task of
	// the preceding phase, serializing the workflow.
	cases := []struct {
		first string
		dep   string
	}{
		{"P-design-1", "P-sales-5"},
		{"P-manufacturing-1", "P-design-5"},
		{"P-construction-1", "P-manufacturing-4"},
	}
	for _, tc := range cases {
		task := byID[tc.first]
		if task == nil {
			t.Fatalf("task %s not generated", tc.first)
		}
		if len(task.Dependencies) != 1 || task.Dependencies[0] != tc.dep {
			t.Fatalf("task %s should depend on %s, got %v", tc.first, tc.dep, task.Dependencies)
		}
	}

	// The very first task has no dependencies.
	if len(byID["P-sales-1"].Dependencies) != 0 {
		t.Fatalf("P-sales-1 should have no dependencies, got %v", byID["P-sales-1"].Dependencies)
	}
}

func TestGenerateStandardTasks_Deterministic(t *testing.T) {
	first := GenerateStandardTasks("PRJ-42")
	second := GenerateStandardTasks("PRJ-42")

	if len(first) != len(second) {
		t.Fatalf("runs produced different task counts: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("run mismatch at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
		if len(first[i].Dependencies) != len(second[i].Dependencies) {
			t.Fatalf("dependency count mismatch for %s", first[i].ID)
		}
		for j := range first[i].Dependencies {
			if first[i].Dependencies[j] != second[i].Dependencies[j] {
				t.Fatalf("dependency mismatch for %s", first[i].ID)
			}
		}
	}
}

func TestGenerateStandardTasks_InitialState(t *testing.T) {
	for _, task := range GenerateStandardTasks("P") {
		if task.Status != models.StatusNotStarted {
			t.Fatalf("task %s should start not_started, got %s", task.ID, task.Status)
		}
		if task.Progress != 0 {
			t.Fatalf("task %s should start at 0%%, got %d", task.ID, task.Progress)
		}
		if task.EstimatedHours <= 0 {
			t.Fatalf("task %s should carry a template estimate", task.ID)
		}
	}
}
