package observability

import (
	"fmt"
	"math"
	"time"

	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`

	// DaysRemaining is set for deadline_approaching alerts so the notifier
	// can forward the countdown.
	DaysRemaining int `json:"days_remaining,omitempty"`
}

// AlertThresholds configures when alerts fire.
type AlertThresholds struct {
	DeadlineWarningDays int     `yaml:"deadline_warning_days" json:"deadline_warning_days"`
	OverloadRatio       float64 `yaml:"overload_ratio" json:"overload_ratio"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		DeadlineWarningDays: 7,
		OverloadRatio:       1.0,
	}
}

// AlertEngine evaluates alert conditions against project and team state.
type AlertEngine interface {
	Evaluate(project *models.Project, members []*models.Member, now time.Time) []Alert
}

type projectAlertEngine struct {
	thresholds AlertThresholds
}

// NewAlertEngine creates an AlertEngine with the given thresholds.
func NewAlertEngine(thresholds AlertThresholds) AlertEngine {
	return &projectAlertEngine{thresholds: thresholds}
}

// Evaluate checks all alert conditions. Aggregation never fails: a project
// with no data produces no alerts.
func (ae *projectAlertEngine) Evaluate(project *models.Project, members []*models.Member, now time.Time) []Alert {
	var alerts []Alert
	alerts = append(alerts, ae.checkDeadline(project, now)...)
	alerts = append(alerts, ae.checkBlockedTasks(project, now)...)
	alerts = append(alerts, ae.checkOverduePhases(project, now)...)
	alerts = append(alerts, ae.checkPrematureStarts(project, now)...)
	alerts = append(alerts, ae.checkOverloadedMembers(members, now)...)
	return alerts
}

// checkDeadline fires when the target end date is within the warning window
// and the project is not complete.
func (ae *projectAlertEngine) checkDeadline(project *models.Project, now time.Time) []Alert {
	if project.TargetEndDate.IsZero() || project.Status == models.StatusCompleted {
		return nil
	}
	remaining := project.TargetEndDate.Sub(now)
	if remaining < 0 {
		return []Alert{{
			ID:          fmt.Sprintf("deadline-%s", project.ID),
			Condition:   "deadline_passed",
			Severity:    SeverityHigh,
			Message:     fmt.Sprintf("project %s has passed its target end date %s", project.ID, project.TargetEndDate.Format("2006-01-02")),
			TriggeredAt: now,
		}}
	}
	days := int(math.Ceil(remaining.Hours() / 24))
	if days > ae.thresholds.DeadlineWarningDays {
		return nil
	}
	return []Alert{{
		ID:            fmt.Sprintf("deadline-%s", project.ID),
		Condition:     "deadline_approaching",
		Severity:      SeverityMedium,
		Message:       fmt.Sprintf("project %s is due in %d day(s)", project.ID, days),
		TriggeredAt:   now,
		DaysRemaining: days,
	}}
}

// checkBlockedTasks fires one alert per blocked top-level task.
func (ae *projectAlertEngine) checkBlockedTasks(project *models.Project, now time.Time) []Alert {
	var alerts []Alert
	for _, t := range project.Tasks {
		if t.Status != models.StatusBlocked {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("blocked-%s", t.ID),
			Condition:   "task_blocked",
			Severity:    SeverityHigh,
			Message:     fmt.Sprintf("task %s (%s) is blocked", t.ID, t.Title),
			TriggeredAt: now,
		})
	}
	return alerts
}

// checkOverduePhases fires when a phase's planned end date has passed but
// its tasks are not all complete.
func (ae *projectAlertEngine) checkOverduePhases(project *models.Project, now time.Time) []Alert {
	var alerts []Alert
	for _, phase := range models.AllPhases() {
		info := project.Phases[phase]
		if info == nil || info.EndDate == nil || !info.EndDate.Before(now) {
			continue
		}
		if info.Status == models.StatusCompleted {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("phase-overdue-%s-%s", project.ID, phase),
			Condition:   "phase_overdue",
			Severity:    SeverityMedium,
			Message:     fmt.Sprintf("phase %s of project %s is past its planned end date", phase, project.ID),
			TriggeredAt: now,
		})
	}
	return alerts
}

// checkPrematureStarts flags tasks marked in progress or completed while a
// dependency is still outstanding. The engine does not reject such status
// changes, so the condition is surfaced here instead.
func (ae *projectAlertEngine) checkPrematureStarts(project *models.Project, now time.Time) []Alert {
	var alerts []Alert
	for _, t := range project.Tasks {
		if t.Status != models.StatusInProgress && t.Status != models.StatusCompleted {
			continue
		}
		unmet := core.UnmetDependencies(t, project.Tasks)
		if len(unmet) == 0 {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("premature-%s", t.ID),
			Condition:   "unmet_dependencies",
			Severity:    SeverityLow,
			Message:     fmt.Sprintf("task %s is %s but %d dependency(ies) are incomplete", t.ID, t.Status, len(unmet)),
			TriggeredAt: now,
		})
	}
	return alerts
}

// checkOverloadedMembers fires when a member's load ratio reaches the
// overload threshold.
func (ae *projectAlertEngine) checkOverloadedMembers(members []*models.Member, now time.Time) []Alert {
	var alerts []Alert
	for _, m := range members {
		if m.LoadRatio() < ae.thresholds.OverloadRatio {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          fmt.Sprintf("overload-%s", m.ID),
			Condition:   "member_overloaded",
			Severity:    SeverityMedium,
			Message:     fmt.Sprintf("%s is at %d%% of weekly capacity", m.Name, int(math.Round(m.LoadRatio()*100))),
			TriggeredAt: now,
		})
	}
	return alerts
}
