package models

import "time"

// PhaseInfo holds the aggregated state of one workflow phase within a
// project. Progress and Status are always recomputed from the phase's tasks,
// never set independently.
type PhaseInfo struct {
	Status     TaskStatus `yaml:"status" json:"status"`
	Progress   int        `yaml:"progress" json:"progress"`
	StartDate  *time.Time `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate    *time.Time `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	AssigneeID string     `yaml:"assignee_id,omitempty" json:"assignee_id,omitempty"`
}

// Project represents a four-phase make-to-order project. The project
// exclusively owns all of its task nodes; task dependencies are
// references-by-id into the Tasks list.
type Project struct {
	ID            string               `yaml:"id" json:"id"`
	Name          string               `yaml:"name" json:"name"`
	CustomerName  string               `yaml:"customer_name,omitempty" json:"customer_name,omitempty"`
	StartDate     time.Time            `yaml:"start_date" json:"start_date"`
	TargetEndDate time.Time            `yaml:"target_end_date" json:"target_end_date"`
	Phases        map[Phase]*PhaseInfo `yaml:"phases" json:"phases"`
	Tasks         []*Task              `yaml:"tasks" json:"tasks"`
	Status        TaskStatus           `yaml:"status" json:"status"`
	CreatedAt     time.Time            `yaml:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `yaml:"updated_at" json:"updated_at"`
}

// NewProject creates a project shell with all four phase slots initialized
// and no tasks.
func NewProject(id, name string, start, targetEnd time.Time) *Project {
	now := time.Now().UTC()
	p := &Project{
		ID:            id,
		Name:          name,
		StartDate:     start,
		TargetEndDate: targetEnd,
		Phases:        make(map[Phase]*PhaseInfo, 4),
		Status:        StatusNotStarted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.Normalize()
	return p
}

// Normalize ensures the project carries exactly one PhaseInfo per workflow
// phase. Missing slots are created as not-started; extra keys are left alone
// so a forward-compatible file does not lose data on load.
func (p *Project) Normalize() {
	if p.Phases == nil {
		p.Phases = make(map[Phase]*PhaseInfo, 4)
	}
	for _, phase := range AllPhases() {
		if p.Phases[phase] == nil {
			p.Phases[phase] = &PhaseInfo{Status: StatusNotStarted}
		}
	}
	if p.Status == "" {
		p.Status = StatusNotStarted
	}
}

// TasksInPhase returns the top-level tasks belonging to the given phase,
// in their stored order.
func (p *Project) TasksInPhase(phase Phase) []*Task {
	var tasks []*Task
	for _, t := range p.Tasks {
		if t.Phase == phase {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// FindTask returns the top-level task with the given ID, or nil if absent.
func (p *Project) FindTask(id string) *Task {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
