package models

// Member represents a team member from the Membry roster, enriched with
// scheduling attributes. CurrentLoad equals the sum of estimated hours of the
// member's currently assigned tasks and is mutated only by assignment and
// unassignment operations.
type Member struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Email           string   `yaml:"email,omitempty" json:"email,omitempty"`
	Title           string   `yaml:"title,omitempty" json:"title,omitempty"`
	Department      string   `yaml:"department,omitempty" json:"department,omitempty"`
	AvatarURL       string   `yaml:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Skills          []Skill  `yaml:"skills,omitempty" json:"skills,omitempty"`
	Availability    float64  `yaml:"availability" json:"availability"`
	CurrentLoad     float64  `yaml:"current_load" json:"current_load"`
	AssignedTaskIDs []string `yaml:"assigned_task_ids,omitempty" json:"assigned_task_ids,omitempty"`
}

// LoadRatio returns the member's committed hours divided by weekly
// availability. A member with no availability is treated as fully loaded.
func (m *Member) LoadRatio() float64 {
	if m.Availability <= 0 {
		return 1.0
	}
	return m.CurrentLoad / m.Availability
}

// HasSkill reports whether the member holds the given skill.
func (m *Member) HasSkill(skill Skill) bool {
	for _, s := range m.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
