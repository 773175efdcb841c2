package storage

import (
	"testing"

	"github.com/membry/mpm/pkg/models"
)

func sampleMember(id string) *models.Member {
	return &models.Member{
		ID:           id,
		Name:         "Member " + id,
		Email:        id + "@example.com",
		Title:        "Designer",
		Department:   "Design",
		Skills:       []models.Skill{models.SkillDesign},
		Availability: 40,
	}
}

func TestTeamStore_UpsertInsertsAndGets(t *testing.T) {
	store := NewTeamStore(t.TempDir())

	if err := store.UpsertMember(sampleMember("m1")); err != nil {
		t.Fatalf("UpsertMember: %v", err)
	}

	got, err := store.GetMember("m1")
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if got.Name != "Member m1" || got.Availability != 40 {
		t.Errorf("member = %+v", got)
	}

	if _, err := store.GetMember("missing"); err == nil {
		t.Fatal("expected an error for an unknown member")
	}
}

func TestTeamStore_UpsertRejectsEmptyID(t *testing.T) {
	store := NewTeamStore(t.TempDir())
	if err := store.UpsertMember(&models.Member{Name: "Nameless"}); err == nil {
		t.Fatal("expected an error for an empty ID")
	}
}

func TestTeamStore_UpsertPreservesSchedulingState(t *testing.T) {
	store := NewTeamStore(t.TempDir())
	if err := store.UpsertMember(sampleMember("m1")); err != nil {
		t.Fatalf("UpsertMember: %v", err)
	}

	// Simulate assignments accumulated between roster syncs.
	existing, err := store.GetMember("m1")
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	existing.CurrentLoad = 22
	existing.AssignedTaskIDs = []string{"P1-design-1"}

	update := sampleMember("m1")
	update.Name = "Renamed m1"
	update.Title = "Senior Designer"
	update.Skills = []models.Skill{models.SkillDesign, models.SkillQualityAssurance}
	update.Availability = 32
	if err := store.UpsertMember(update); err != nil {
		t.Fatalf("UpsertMember update: %v", err)
	}

	got, err := store.GetMember("m1")
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if got.Name != "Renamed m1" || got.Title != "Senior Designer" {
		t.Errorf("roster fields should update, got %+v", got)
	}
	if len(got.Skills) != 2 {
		t.Errorf("skills should update, got %v", got.Skills)
	}
	if got.Availability != 32 {
		t.Errorf("availability = %v, want 32", got.Availability)
	}
	if got.CurrentLoad != 22 {
		t.Errorf("load should survive a re-sync, got %v", got.CurrentLoad)
	}
	if len(got.AssignedTaskIDs) != 1 || got.AssignedTaskIDs[0] != "P1-design-1" {
		t.Errorf("assignments should survive a re-sync, got %v", got.AssignedTaskIDs)
	}
}

func TestTeamStore_UpsertKeepsAvailabilityWhenUnset(t *testing.T) {
	store := NewTeamStore(t.TempDir())
	if err := store.UpsertMember(sampleMember("m1")); err != nil {
		t.Fatalf("UpsertMember: %v", err)
	}

	update := sampleMember("m1")
	update.Availability = 0
	if err := store.UpsertMember(update); err != nil {
		t.Fatalf("UpsertMember update: %v", err)
	}

	got, err := store.GetMember("m1")
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if got.Availability != 40 {
		t.Errorf("zero availability in an update should not clobber, got %v", got.Availability)
	}
}

func TestTeamStore_GetAllSorted(t *testing.T) {
	store := NewTeamStore(t.TempDir())
	for _, id := range []string{"m3", "m1", "m2"} {
		if err := store.UpsertMember(sampleMember(id)); err != nil {
			t.Fatalf("UpsertMember(%s): %v", id, err)
		}
	}

	members, err := store.GetAllMembers()
	if err != nil {
		t.Fatalf("GetAllMembers: %v", err)
	}
	want := []string{"m1", "m2", "m3"}
	for i, id := range want {
		if members[i].ID != id {
			t.Errorf("member %d = %s, want %s", i, members[i].ID, id)
		}
	}
}

func TestTeamStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store := NewTeamStore(dir)
	m := sampleMember("m1")
	m.CurrentLoad = 12
	m.AssignedTaskIDs = []string{"P1-design-1"}
	if err := store.UpsertMember(m); err != nil {
		t.Fatalf("UpsertMember: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewTeamStore(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := reloaded.GetMember("m1")
	if err != nil {
		t.Fatalf("GetMember after reload: %v", err)
	}
	if got.CurrentLoad != 12 || len(got.AssignedTaskIDs) != 1 {
		t.Errorf("scheduling state lost in round trip: %+v", got)
	}
	if len(got.Skills) != 1 || got.Skills[0] != models.SkillDesign {
		t.Errorf("skills lost in round trip: %v", got.Skills)
	}
}

func TestTeamStore_Remove(t *testing.T) {
	store := NewTeamStore(t.TempDir())
	if err := store.UpsertMember(sampleMember("m1")); err != nil {
		t.Fatalf("UpsertMember: %v", err)
	}

	if err := store.RemoveMember("m1"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if err := store.RemoveMember("m1"); err == nil {
		t.Fatal("removing a missing member should fail")
	}
}
