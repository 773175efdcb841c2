package models

// Phase represents one of the four fixed workflow stages a project moves
// through. Phases are strictly ordered: sales, design, manufacturing,
// construction.
type Phase string

const (
	PhaseSales         Phase = "sales"
	PhaseDesign        Phase = "design"
	PhaseManufacturing Phase = "manufacturing"
	PhaseConstruction  Phase = "construction"
)

// phaseOrder is the canonical workflow sequence.
var phaseOrder = []Phase{
	PhaseSales,
	PhaseDesign,
	PhaseManufacturing,
	PhaseConstruction,
}

// AllPhases returns the four workflow phases in canonical order.
// The returned slice is a copy and safe to modify.
func AllPhases() []Phase {
	phases := make([]Phase, len(phaseOrder))
	copy(phases, phaseOrder)
	return phases
}

// Next returns the phase that follows p in the workflow sequence.
// It returns false if p is the terminal phase or not a valid phase.
func (p Phase) Next() (Phase, bool) {
	for i, phase := range phaseOrder {
		if phase == p {
			if i == len(phaseOrder)-1 {
				return "", false
			}
			return phaseOrder[i+1], true
		}
	}
	return "", false
}

// IsValid reports whether p is one of the four workflow phases.
func (p Phase) IsValid() bool {
	for _, phase := range phaseOrder {
		if phase == p {
			return true
		}
	}
	return false
}

// Skill represents a competency a team member can hold.
type Skill string

const (
	SkillSales             Skill = "sales"
	SkillDesign            Skill = "design"
	SkillManufacturing     Skill = "manufacturing"
	SkillConstruction      Skill = "construction"
	SkillProjectManagement Skill = "project_management"
	SkillQualityAssurance  Skill = "quality_assurance"
)

// AllSkills returns every defined skill.
func AllSkills() []Skill {
	return []Skill{
		SkillSales,
		SkillDesign,
		SkillManufacturing,
		SkillConstruction,
		SkillProjectManagement,
		SkillQualityAssurance,
	}
}

// IsValid reports whether s is a defined skill.
func (s Skill) IsValid() bool {
	for _, skill := range AllSkills() {
		if skill == s {
			return true
		}
	}
	return false
}
