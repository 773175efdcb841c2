package observability

import (
	"math"
	"time"

	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/pkg/models"
)

// PhaseSummary is the aggregated state of one phase for reporting.
type PhaseSummary struct {
	Phase          models.Phase      `json:"phase"`
	Status         models.TaskStatus `json:"status"`
	Progress       int               `json:"progress"`
	TotalTasks     int               `json:"total_tasks"`
	CompletedTasks int               `json:"completed_tasks"`
	BlockedTasks   int               `json:"blocked_tasks"`
}

// MemberLoad is one member's workload line in a report.
type MemberLoad struct {
	MemberID     string  `json:"member_id"`
	Name         string  `json:"name"`
	CurrentLoad  float64 `json:"current_load"`
	Availability float64 `json:"availability"`
	LoadPercent  int     `json:"load_percent"`
}

// ProgressReport is the structured per-phase progress summary consumed by
// the notifier, the report command, the dashboard, and the MCP surface.
// Renderers format it; they make no decisions of their own.
type ProgressReport struct {
	ProjectID       string         `json:"project_id"`
	ProjectName     string         `json:"project_name"`
	GeneratedAt     time.Time      `json:"generated_at"`
	OverallProgress int            `json:"overall_progress"`
	Phases          []PhaseSummary `json:"phases"`
	CriticalPath    []string       `json:"critical_path,omitempty"`
	Workload        []MemberLoad   `json:"workload,omitempty"`
}

// ReportBuilder assembles progress reports from project and team state.
type ReportBuilder interface {
	Build(project *models.Project, members []*models.Member) *ProgressReport
}

type reportBuilder struct {
	phases core.PhaseManager
}

// NewReportBuilder creates a ReportBuilder that aggregates with the given
// phase manager.
func NewReportBuilder(phases core.PhaseManager) ReportBuilder {
	return &reportBuilder{phases: phases}
}

func (b *reportBuilder) Build(project *models.Project, members []*models.Member) *ProgressReport {
	report := &ProgressReport{
		ProjectID:       project.ID,
		ProjectName:     project.Name,
		GeneratedAt:     time.Now().UTC(),
		OverallProgress: b.phases.OverallProgress(project),
	}

	for _, phase := range models.AllPhases() {
		summary := PhaseSummary{
			Phase:    phase,
			Status:   b.phases.DerivePhaseStatus(phase, project.Tasks),
			Progress: b.phases.PhaseProgress(phase, project.Tasks),
		}
		for _, t := range project.Tasks {
			if t.Phase != phase {
				continue
			}
			summary.TotalTasks++
			switch t.Status {
			case models.StatusCompleted:
				summary.CompletedTasks++
			case models.StatusBlocked:
				summary.BlockedTasks++
			}
		}
		report.Phases = append(report.Phases, summary)
	}

	for _, t := range core.CriticalPath(project.Tasks) {
		report.CriticalPath = append(report.CriticalPath, t.ID)
	}

	for _, m := range members {
		report.Workload = append(report.Workload, MemberLoad{
			MemberID:     m.ID,
			Name:         m.Name,
			CurrentLoad:  m.CurrentLoad,
			Availability: m.Availability,
			LoadPercent:  int(math.Round(m.LoadRatio() * 100)),
		})
	}

	return report
}
