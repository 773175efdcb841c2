package core

import (
	"context"
	"fmt"
	"time"

	"github.com/membry/mpm/pkg/models"
)

// TransitionResult reports the outcome of a phase-transition attempt.
// Business failures (terminal phase, incomplete tasks, approval rejection)
// are expected outcomes and surface here rather than as errors.
type TransitionResult struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	NextPhase models.Phase `json:"next_phase,omitempty"`
}

// Approver decides whether a phase transition may proceed. It is the
// engine's only suspension point: implementations typically defer to a human
// or an external system. Approve returns false to reject the transition; an
// error indicates the decision could not be obtained at all.
type Approver interface {
	Approve(ctx context.Context, target models.Phase, approverIDs []string) (bool, error)
}

// PhaseManager aggregates task progress into phase and project progress,
// derives phase statuses, and gates phase transitions.
type PhaseManager interface {
	PhaseProgress(phase models.Phase, tasks []*models.Task) int
	DerivePhaseStatus(phase models.Phase, tasks []*models.Task) models.TaskStatus
	CanAdvance(phase models.Phase, tasks []*models.Task) bool
	Advance(ctx context.Context, project *models.Project, current models.Phase) (TransitionResult, error)
	OverallProgress(project *models.Project) int
	CurrentPhase(project *models.Project) models.Phase
	RefreshPhases(project *models.Project)
}

// workflowPhaseManager implements PhaseManager with the workflow
// configuration and an injected approver.
type workflowPhaseManager struct {
	config   models.WorkflowConfig
	approver Approver
}

// NewPhaseManager creates a PhaseManager. approver may be nil when the
// workflow does not require approvals.
func NewPhaseManager(config models.WorkflowConfig, approver Approver) PhaseManager {
	return &workflowPhaseManager{config: config, approver: approver}
}

// PhaseProgress returns the rounded mean progress of the tasks in the given
// phase, or 0 when the phase has no tasks.
func (pm *workflowPhaseManager) PhaseProgress(phase models.Phase, tasks []*models.Task) int {
	sum, count := 0, 0
	for _, t := range tasks {
		if t.Phase != phase {
			continue
		}
		sum += t.Progress
		count++
	}
	return roundMean(sum, count)
}

// DerivePhaseStatus aggregates the statuses of a phase's tasks. A phase with
// some completed tasks but no active work still counts as in progress.
func (pm *workflowPhaseManager) DerivePhaseStatus(phase models.Phase, tasks []*models.Task) models.TaskStatus {
	total := 0
	completed := 0
	anyInProgress := false
	anyBlocked := false
	for _, t := range tasks {
		if t.Phase != phase {
			continue
		}
		total++
		switch t.Status {
		case models.StatusCompleted:
			completed++
		case models.StatusInProgress:
			anyInProgress = true
		case models.StatusBlocked:
			anyBlocked = true
		}
	}

	switch {
	case total > 0 && completed == total:
		return models.StatusCompleted
	case anyInProgress:
		return models.StatusInProgress
	case anyBlocked:
		return models.StatusBlocked
	case completed > 0:
		return models.StatusInProgress
	default:
		return models.StatusNotStarted
	}
}

// CanAdvance reports whether every task currently in the phase is completed.
func (pm *workflowPhaseManager) CanAdvance(phase models.Phase, tasks []*models.Task) bool {
	for _, t := range tasks {
		if t.Phase == phase && t.Status != models.StatusCompleted {
			return false
		}
	}
	return true
}

// Advance attempts to move the project from the current phase to the next
// one. On success the target phase's start date is stamped; the project's
// task list is never altered. An approver error is returned as an error;
// every other failure is a non-success TransitionResult.
func (pm *workflowPhaseManager) Advance(ctx context.Context, project *models.Project, current models.Phase) (TransitionResult, error) {
	next, ok := current.Next()
	if !ok {
		return TransitionResult{
			Message: fmt.Sprintf("phase %s is the final phase; no further transition is possible", current),
		}, nil
	}

	if !pm.CanAdvance(current, project.Tasks) {
		return TransitionResult{
			Message: fmt.Sprintf("phase %s has incomplete tasks; complete all tasks before advancing", current),
		}, nil
	}

	if pm.config.ApprovalRequired {
		approverIDs := pm.config.Approvers[next]
		if len(approverIDs) > 0 {
			if pm.approver == nil {
				return TransitionResult{}, fmt.Errorf("advancing to %s: approval required but no approver configured", next)
			}
			approved, err := pm.approver.Approve(ctx, next, approverIDs)
			if err != nil {
				return TransitionResult{}, fmt.Errorf("requesting approval for %s: %w", next, err)
			}
			if !approved {
				return TransitionResult{
					Message: fmt.Sprintf("transition to %s was not approved", next),
				}, nil
			}
		}
	}

	now := time.Now().UTC()
	if info := project.Phases[next]; info != nil {
		info.StartDate = &now
	}
	project.UpdatedAt = now

	return TransitionResult{
		Success:   true,
		Message:   fmt.Sprintf("advanced to phase %s", next),
		NextPhase: next,
	}, nil
}

// OverallProgress returns the rounded mean of the four phases' progress.
func (pm *workflowPhaseManager) OverallProgress(project *models.Project) int {
	phases := models.AllPhases()
	sum := 0
	for _, phase := range phases {
		sum += pm.PhaseProgress(phase, project.Tasks)
	}
	return roundMean(sum, len(phases))
}

// CurrentPhase returns the phase the project currently occupies: the latest
// phase in workflow order whose start date has been stamped by a transition.
// A project that has never advanced is in the sales phase.
func (pm *workflowPhaseManager) CurrentPhase(project *models.Project) models.Phase {
	phases := models.AllPhases()
	current := phases[0]
	for _, phase := range phases {
		if info := project.Phases[phase]; info != nil && info.StartDate != nil {
			current = phase
		}
	}
	return current
}

// RefreshPhases recomputes every PhaseInfo's progress and status from the
// project's tasks. PhaseInfo values are derived state and never set
// independently.
func (pm *workflowPhaseManager) RefreshPhases(project *models.Project) {
	project.Normalize()
	for _, phase := range models.AllPhases() {
		info := project.Phases[phase]
		info.Progress = pm.PhaseProgress(phase, project.Tasks)
		info.Status = pm.DerivePhaseStatus(phase, project.Tasks)
	}
}

// UnmetDependencies returns the IDs of a task's dependencies that are not
// yet completed, in dependency order. Dependencies referencing unknown tasks
// are included, since a missing prerequisite can never be satisfied.
func UnmetDependencies(task *models.Task, tasks []*models.Task) []string {
	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	var unmet []string
	for _, dep := range task.Dependencies {
		if t, ok := byID[dep]; !ok || t.Status != models.StatusCompleted {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}
