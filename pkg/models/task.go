package models

import "time"

// TaskStatus represents the current lifecycle state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// IsValid reports whether s is a defined task status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusBlocked, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid reports whether p is a defined priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task represents a unit of work within a workflow phase. Dependencies are
// references to other task IDs, never to the tasks themselves; subtasks are
// owned exclusively by their parent and never appear in a project's top-level
// task list.
type Task struct {
	ID             string     `yaml:"id" json:"id"`
	Title          string     `yaml:"title" json:"title"`
	Description    string     `yaml:"description,omitempty" json:"description,omitempty"`
	Phase          Phase      `yaml:"phase" json:"phase"`
	Status         TaskStatus `yaml:"status" json:"status"`
	Priority       Priority   `yaml:"priority" json:"priority"`
	AssigneeID     string     `yaml:"assignee_id,omitempty" json:"assignee_id,omitempty"`
	AssigneeName   string     `yaml:"assignee_name,omitempty" json:"assignee_name,omitempty"`
	Dependencies   []string   `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Subtasks       []*Task    `yaml:"subtasks,omitempty" json:"subtasks,omitempty"`
	Progress       int        `yaml:"progress" json:"progress"`
	EstimatedHours float64    `yaml:"estimated_hours,omitempty" json:"estimated_hours,omitempty"`
	ActualHours    float64    `yaml:"actual_hours,omitempty" json:"actual_hours,omitempty"`
	Tags           []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt      time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `yaml:"updated_at" json:"updated_at"`
}
