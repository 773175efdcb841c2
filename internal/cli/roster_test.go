package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/membry/mpm/internal/integration"
	"github.com/membry/mpm/internal/storage"
	"github.com/membry/mpm/pkg/models"
)

// rosterMock serves a fixed roster without any HTTP.
type rosterMock struct {
	members []integration.RosterMember
	err     error
}

func (m *rosterMock) FetchMembers(ctx context.Context) ([]integration.RosterMember, error) {
	return m.members, m.err
}

func TestRosterSyncCommand(t *testing.T) {
	stubServices(t)
	Team = storage.NewTeamStore(BasePath)
	Roster = &rosterMock{members: []integration.RosterMember{
		{ID: "m1", Name: "Dana Drafter", Email: "dana@example.com", Title: "Designer", Department: "Design"},
		{ID: "m2", Name: "Sol Seller", Email: "sol@example.com", Title: "Sales Manager", Department: "Sales"},
	}}
	Config = &models.Config{}
	Config.Defaults.Availability = 32

	if err := rosterSyncCmd.RunE(rosterSyncCmd, nil); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	members, err := Team.GetAllMembers()
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	dana, err := Team.GetMember("m1")
	if err != nil {
		t.Fatalf("m1: %v", err)
	}
	if !dana.HasSkill(models.SkillDesign) {
		t.Errorf("m1 skills = %v, want design inferred from title", dana.Skills)
	}
	if dana.Availability != 32 {
		t.Errorf("Availability = %.0f, want configured 32", dana.Availability)
	}

	// The synced roster is persisted.
	fresh := storage.NewTeamStore(BasePath)
	if err := fresh.Load(); err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if _, err := fresh.GetMember("m2"); err != nil {
		t.Errorf("m2 not persisted: %v", err)
	}
}

func TestRosterSyncCommandPreservesLoad(t *testing.T) {
	stubServices(t)
	Team = storage.NewTeamStore(BasePath)
	if err := Team.UpsertMember(&models.Member{
		ID:              "m1",
		Name:            "Old Name",
		Availability:    40,
		CurrentLoad:     12,
		AssignedTaskIDs: []string{"PRJ-1-sales-1"},
	}); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	Roster = &rosterMock{members: []integration.RosterMember{
		{ID: "m1", Name: "New Name", Title: "Designer"},
	}}

	if err := rosterSyncCmd.RunE(rosterSyncCmd, nil); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	member, err := Team.GetMember("m1")
	if err != nil {
		t.Fatalf("m1: %v", err)
	}
	if member.Name != "New Name" {
		t.Errorf("Name = %s, want roster value", member.Name)
	}
	if member.CurrentLoad != 12 || len(member.AssignedTaskIDs) != 1 {
		t.Errorf("scheduling state clobbered: load %.1f tasks %v", member.CurrentLoad, member.AssignedTaskIDs)
	}
}

func TestRosterSyncCommandErrors(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		stubServices(t)
		Team = storage.NewTeamStore(BasePath)
		err := rosterSyncCmd.RunE(rosterSyncCmd, nil)
		if err == nil || !strings.Contains(err.Error(), "not configured") {
			t.Errorf("err = %v, want not configured", err)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		stubServices(t)
		Team = storage.NewTeamStore(BasePath)
		Roster = &rosterMock{err: fmt.Errorf("membry unreachable")}
		err := rosterSyncCmd.RunE(rosterSyncCmd, nil)
		if err == nil || !strings.Contains(err.Error(), "membry unreachable") {
			t.Errorf("err = %v, want fetch failure", err)
		}
	})
}

func TestRosterListCommand(t *testing.T) {
	stubServices(t)
	Team = storage.NewTeamStore(BasePath)
	seedTeam(t)

	if err := rosterListCmd.RunE(rosterListCmd, nil); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	Team = nil
	if err := rosterListCmd.RunE(rosterListCmd, nil); err == nil {
		t.Error("expected not initialized error")
	}
}
