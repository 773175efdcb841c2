package core

import (
	"fmt"
	"math"

	"github.com/membry/mpm/pkg/models"
)

// DefaultEstimateHours is applied when a task is decomposed without an
// estimate of its own.
const DefaultEstimateHours = 8

// TaskDecomposer expands tasks into ordered subtask chains with proportional
// effort estimates.
type TaskDecomposer interface {
	// Decompose returns an enriched copy of the task with subtasks populated
	// and progress recalculated. A task that already has subtasks is
	// returned unchanged, making a second pass a no-op.
	Decompose(task *models.Task) *models.Task

	// DecomposeRecursive applies Decompose depth-first, expanding every
	// subtask's own subtasks in turn, down to maxDepth levels. A depth of
	// zero returns the task unmodified.
	DecomposeRecursive(task *models.Task, maxDepth int) *models.Task
}

// templateDecomposer implements TaskDecomposer using the phase and title
// specific subtask templates, falling back to the generic four-step split.
type templateDecomposer struct {
	defaultEstimate float64
}

// NewTaskDecomposer creates a TaskDecomposer. defaultEstimateHours is used
// for tasks without an estimate; zero or negative falls back to
// DefaultEstimateHours.
func NewTaskDecomposer(defaultEstimateHours float64) TaskDecomposer {
	if defaultEstimateHours <= 0 {
		defaultEstimateHours = DefaultEstimateHours
	}
	return &templateDecomposer{defaultEstimate: defaultEstimateHours}
}

func (d *templateDecomposer) Decompose(task *models.Task) *models.Task {
	if len(task.Subtasks) > 0 {
		return task
	}

	parentEstimate := task.EstimatedHours
	if parentEstimate <= 0 {
		parentEstimate = d.defaultEstimate
	}

	templates, ok := SubtaskTemplatesFor(task.Phase, task.Title)
	if !ok {
		templates = make([]SubtaskTemplate, len(genericSubtaskTemplates))
		copy(templates, genericSubtaskTemplates)
	}

	enriched := *task
	enriched.Subtasks = make([]*models.Task, 0, len(templates))

	var previousID string
	for i, tmpl := range templates {
		hours := tmpl.EstimatedHours
		if hours <= 0 {
			hours = parentEstimate * tmpl.Portion
		}
		sub := &models.Task{
			ID:             fmt.Sprintf("%s-sub-%d", task.ID, i+1),
			Title:          tmpl.Title,
			Description:    tmpl.Description,
			Phase:          task.Phase,
			Status:         models.StatusNotStarted,
			Priority:       subtaskPriority(task.Priority, i, len(templates)),
			EstimatedHours: hours,
			CreatedAt:      task.CreatedAt,
			UpdatedAt:      task.UpdatedAt,
		}
		if i > 0 {
			sub.Dependencies = append(sub.Dependencies, previousID)
		}
		previousID = sub.ID
		enriched.Subtasks = append(enriched.Subtasks, sub)
	}

	RollupProgress(&enriched)
	return &enriched
}

func (d *templateDecomposer) DecomposeRecursive(task *models.Task, maxDepth int) *models.Task {
	if maxDepth <= 0 {
		return task
	}
	enriched := d.Decompose(task)
	for i, sub := range enriched.Subtasks {
		enriched.Subtasks[i] = d.DecomposeRecursive(sub, maxDepth-1)
	}
	RollupProgress(enriched)
	return enriched
}

// subtaskPriority derives a subtask's priority from the parent's. A critical
// parent cascades to every subtask; otherwise the first subtask inherits the
// parent's priority, the final subtask is forced to low, and interior
// subtasks inherit.
func subtaskPriority(parent models.Priority, index, count int) models.Priority {
	if parent == models.PriorityCritical {
		return models.PriorityCritical
	}
	if index == 0 {
		return parent
	}
	if index == count-1 {
		return models.PriorityLow
	}
	return parent
}

// RollupProgress recomputes a parent task's progress as the rounded mean of
// its subtasks' progress. A task without subtasks keeps its progress.
func RollupProgress(task *models.Task) {
	if len(task.Subtasks) == 0 {
		return
	}
	sum := 0
	for _, sub := range task.Subtasks {
		sum += sub.Progress
	}
	task.Progress = roundMean(sum, len(task.Subtasks))
}

// RollupStatus recomputes a parent task's status from its subtasks:
// completed when every subtask is completed, blocked when any subtask is
// blocked, in-progress when any subtask is in progress, otherwise unchanged.
func RollupStatus(task *models.Task) {
	if len(task.Subtasks) == 0 {
		return
	}

	allCompleted := true
	anyBlocked := false
	anyInProgress := false
	for _, sub := range task.Subtasks {
		if sub.Status != models.StatusCompleted {
			allCompleted = false
		}
		if sub.Status == models.StatusBlocked {
			anyBlocked = true
		}
		if sub.Status == models.StatusInProgress {
			anyInProgress = true
		}
	}

	switch {
	case allCompleted:
		task.Status = models.StatusCompleted
	case anyBlocked:
		task.Status = models.StatusBlocked
	case anyInProgress:
		task.Status = models.StatusInProgress
	}
}

// roundMean returns round(sum/count), or 0 when count is zero.
func roundMean(sum, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}
