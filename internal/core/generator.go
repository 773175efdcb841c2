package core

import (
	"fmt"
	"time"

	"github.com/membry/mpm/pkg/models"
)

// GenerateStandardTasks produces the canonical task list for the four-phase
// workflow. Task IDs are deterministic ({projectID}-{phase}-{n}, 1-based
// within each phase). Within a phase each task depends on the task before
// it; the first task of every phase after the first depends on the last task
// of the preceding phase, serializing the phases.
//
// The function is pure with respect to projectID and the phase templates: it
// returns a new list and mutates nothing. The caller assigns the result to
// the project.
func GenerateStandardTasks(projectID string) []*models.Task {
	now := time.Now().UTC()
	var tasks []*models.Task
	var lastOfPreviousPhase string

	for _, phase := range models.AllPhases() {
		templates := PhaseTemplates(phase)
		var previousID string
		for i, tmpl := range templates {
			task := &models.Task{
				ID:             fmt.Sprintf("%s-%s-%d", projectID, phase, i+1),
				Title:          tmpl.Title,
				Description:    tmpl.Description,
				Phase:          phase,
				Status:         models.StatusNotStarted,
				Priority:       models.PriorityMedium,
				EstimatedHours: tmpl.EstimatedHours,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if i > 0 {
				task.Dependencies = append(task.Dependencies, previousID)
			} else if lastOfPreviousPhase != "" {
				task.Dependencies = append(task.Dependencies, lastOfPreviousPhase)
			}
			previousID = task.ID
			tasks = append(tasks, task)
		}
		if previousID != "" {
			lastOfPreviousPhase = previousID
		}
	}

	return tasks
}
