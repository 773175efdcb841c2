package observability

import (
	"testing"
	"time"

	"github.com/membry/mpm/pkg/models"
)

var alertNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func alertsByCondition(alerts []Alert) map[string][]Alert {
	grouped := make(map[string][]Alert)
	for _, a := range alerts {
		grouped[a.Condition] = append(grouped[a.Condition], a)
	}
	return grouped
}

func TestAlertEngine_NoData(t *testing.T) {
	engine := NewAlertEngine(DefaultAlertThresholds())
	project := models.NewProject("P1", "Quiet project", time.Time{}, time.Time{})

	if alerts := engine.Evaluate(project, nil, alertNow); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %v", alerts)
	}
}

func TestAlertEngine_DeadlineApproaching(t *testing.T) {
	engine := NewAlertEngine(DefaultAlertThresholds())
	project := models.NewProject("P1", "Due soon", alertNow.AddDate(0, -1, 0), alertNow.AddDate(0, 0, 3))

	alerts := alertsByCondition(engine.Evaluate(project, nil, alertNow))
	got := alerts["deadline_approaching"]
	if len(got) != 1 {
		t.Fatalf("expected one deadline alert, got %v", alerts)
	}
	if got[0].Severity != SeverityMedium {
		t.Errorf("severity = %s, want %s", got[0].Severity, SeverityMedium)
	}
	if got[0].DaysRemaining != 3 {
		t.Errorf("days remaining = %d, want 3", got[0].DaysRemaining)
	}
}

func TestAlertEngine_DeadlineOutsideWindow(t *testing.T) {
	engine := NewAlertEngine(DefaultAlertThresholds())
	project := models.NewProject("P1", "Plenty of time", alertNow, alertNow.AddDate(0, 2, 0))

	alerts := alertsByCondition(engine.Evaluate(project, nil, alertNow))
	if len(alerts["deadline_approaching"]) != 0 {
		t.Fatal("deadline alert should not fire outside the warning window")
	}
}

func TestAlertEngine_DeadlinePassed(t *testing.T) {
	engine := NewAlertEngine(DefaultAlertThresholds())
	project := models.NewProject("P1", "Late", alertNow.AddDate(0, -7, 0), alertNow.AddDate(0, 0, -2))

	alerts := alertsByCondition(engine.Evaluate(project, nil, alertNow))
	got := alerts["deadline_passed"]
	if len(got) != 1 {
		t.Fatalf("expected a deadline_passed alert, got %v", alerts)
	}
	if got[0].Severity != SeverityHigh {
		t.Errorf("severity = %s, want %s", got[0].Severity, SeverityHigh)
	}
}

func TestAlertEngine_CompletedProjectHasNoDeadlineAlert(t *testing.T) {
	engine := NewAlertEngine(DefaultAlertThresholds())
	project := models.NewProject("P1", "Done", alertNow.AddDate(0, -7, 0), alertNow.AddDate(0, 0, -2))
	project.Status = models.StatusCompleted

	alerts := alertsByCondition(engine.Evaluate(project, nil, alertNow))
	if len(alerts["deadline_passed"]) != 0 {
		t.Fatal("completed projects should not raise deadline alerts")
	}
}

func TestAlertEngine_BlockedTasks(t *testing.T) {
	engine := NewAlertEngine(DefaultAlertThresholds())
	project := models.NewProject("P1", "Stuck", time.Time{}, time.Time{})
	project.Tasks = []*models.Task{
		{ID: "t1", Title: "Fabrication", Phase: models.PhaseManufacturing, Status: models.StatusBlocked},
		{ID: "t2", Title: "Inspection", Phase: models.PhaseManufacturing, Status: models.StatusBlocked},
		{ID: "t3", Title: "Handover", Phase: models.PhaseConstruction, Status: models.StatusNotStarted},
	}

	alerts := alertsByCondition(engine.Evaluate(project, nil, alertNow))
	got := alerts["task_blocked"]
	if len(got) != 2 {
		t.Fatalf("expected 2 blocked-task alerts, got %d", len(got))
	}
	for _, a := range got {
		if a.Severity != SeverityHigh {
			t.Errorf("severity = %s, want %s", a.Severity, SeverityHigh)
		}
	}
}

func TestAlertEngine_OverduePhase(t *testing.T) {
	engine := NewAlertEngine(DefaultAlertThresholds())
	project := models.NewProject("P1", "Slipping", time.Time{}, time.Time{})
	past := alertNow.AddDate(0, 0, -5)
	project.Phases[models.PhaseDesign].EndDate = &past
	project.Phases[models.PhaseDesign].Status = models.StatusInProgress

	done := alertNow.AddDate(0, 0, -10)
	project.Phases[models.PhaseSales].EndDate = &done
	project.Phases[models.PhaseSales].Status = models.StatusCompleted

	alerts := alertsByCondition(engine.Evaluate(project, nil, alertNow))
	got := alerts["phase_overdue"]
	if len(got) != 1 {
		t.Fatalf("expected one overdue-phase alert, got %v", got)
	}
}

func TestAlertEngine_PrematureStarts(t *testing.T) {
	engine := NewAlertEngine(DefaultAlertThresholds())
	project := models.NewProject("P1", "Out of order", time.Time{}, time.Time{})
	project.Tasks = []*models.Task{
		{ID: "t1", Status: models.StatusInProgress},
		{ID: "t2", Status: models.StatusInProgress, Dependencies: []string{"t1"}},
		{ID: "t3", Status: models.StatusNotStarted, Dependencies: []string{"t1"}},
	}

	alerts := alertsByCondition(engine.Evaluate(project, nil, alertNow))
	got := alerts["unmet_dependencies"]
	if len(got) != 1 {
		t.Fatalf("expected one premature-start alert, got %v", got)
	}
	if got[0].Severity != SeverityLow {
		t.Errorf("severity = %s, want %s", got[0].Severity, SeverityLow)
	}
}

func TestAlertEngine_OverloadedMembers(t *testing.T) {
	engine := NewAlertEngine(DefaultAlertThresholds())
	project := models.NewProject("P1", "Busy", time.Time{}, time.Time{})
	members := []*models.Member{
		{ID: "m1", Name: "Overworked", Availability: 40, CurrentLoad: 44},
		{ID: "m2", Name: "Fine", Availability: 40, CurrentLoad: 20},
	}

	alerts := alertsByCondition(engine.Evaluate(project, members, alertNow))
	got := alerts["member_overloaded"]
	if len(got) != 1 {
		t.Fatalf("expected one overload alert, got %v", got)
	}
	if got[0].ID != "overload-m1" {
		t.Errorf("alert ID = %s, want overload-m1", got[0].ID)
	}
}

func TestAlertEngine_OverloadThreshold(t *testing.T) {
	engine := NewAlertEngine(AlertThresholds{DeadlineWarningDays: 7, OverloadRatio: 0.8})
	members := []*models.Member{
		{ID: "m1", Name: "At 85 percent", Availability: 40, CurrentLoad: 34},
	}
	project := models.NewProject("P1", "", time.Time{}, time.Time{})

	alerts := alertsByCondition(engine.Evaluate(project, members, alertNow))
	if len(alerts["member_overloaded"]) != 1 {
		t.Fatal("a lowered threshold should catch an 85 percent loaded member")
	}
}
