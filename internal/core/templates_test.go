package core

import (
	"testing"

	"github.com/membry/mpm/pkg/models"
)

func TestPhaseTemplates(t *testing.T) {
	wantCounts := map[models.Phase]int{
		models.PhaseSales:         5,
		models.PhaseDesign:        5,
		models.PhaseManufacturing: 4,
		models.PhaseConstruction:  5,
	}
	for phase, want := range wantCounts {
		templates := PhaseTemplates(phase)
		if len(templates) != want {
			t.Errorf("phase %s has %d templates, want %d", phase, len(templates), want)
		}
		for _, tmpl := range templates {
			if tmpl.Title == "" || tmpl.EstimatedHours <= 0 {
				t.Errorf("phase %s template %q is incomplete", phase, tmpl.Title)
			}
		}
	}
}

func TestPhaseTemplates_ReturnsCopy(t *testing.T) {
	first := PhaseTemplates(models.PhaseSales)
	first[0].Title = "mutated"
	if PhaseTemplates(models.PhaseSales)[0].Title == "mutated" {
		t.Fatal("PhaseTemplates should return a copy")
	}
}

func TestSubtaskTemplatesFor(t *testing.T) {
	tests := []struct {
		phase models.Phase
		title string
		found bool
		count int
	}{
		{models.PhaseDesign, "Detail drawings", true, 3},
		{models.PhaseManufacturing, "Fabrication", true, 3},
		{models.PhaseConstruction, "Installation", true, 3},
		{models.PhaseSales, "Customer hearing", false, 0},
		{models.PhaseDesign, "Unknown title", false, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase)+"/"+tt.title, func(t *testing.T) {
			templates, ok := SubtaskTemplatesFor(tt.phase, tt.title)
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			if len(templates) != tt.count {
				t.Fatalf("template count = %d, want %d", len(templates), tt.count)
			}
		})
	}
}

func TestGenericSubtaskPortionsSumToOne(t *testing.T) {
	sum := 0.0
	for _, tmpl := range genericSubtaskTemplates {
		sum += tmpl.Portion
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("generic portions sum to %v, want 1.0", sum)
	}
}
