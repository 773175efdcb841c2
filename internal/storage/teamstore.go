package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/membry/mpm/pkg/models"
)

// TeamFile represents the top-level structure of team.yaml.
type TeamFile struct {
	Version string                    `yaml:"version"`
	Members map[string]*models.Member `yaml:"members"`
}

// TeamStore defines the interface for persisting the team roster and its
// load counters. As with ProjectStore, member pointers are shared with the
// caller and mutated in place.
type TeamStore interface {
	UpsertMember(member *models.Member) error
	GetMember(id string) (*models.Member, error)
	GetAllMembers() ([]*models.Member, error)
	RemoveMember(id string) error
	Load() error
	Save() error
}

type fileTeamStore struct {
	basePath string
	data     TeamFile
}

// NewTeamStore creates a TeamStore backed by a team.yaml file in the given
// base directory.
func NewTeamStore(basePath string) TeamStore {
	return &fileTeamStore{
		basePath: basePath,
		data: TeamFile{
			Version: "1.0",
			Members: make(map[string]*models.Member),
		},
	}
}

func (s *fileTeamStore) filePath() string {
	return filepath.Join(s.basePath, "team.yaml")
}

// UpsertMember inserts or updates a roster member. An existing member keeps
// its scheduling state (skills stay roster-derived, but load counters and
// assignments survive a roster re-sync).
func (s *fileTeamStore) UpsertMember(member *models.Member) error {
	if member.ID == "" {
		return fmt.Errorf("upserting member: ID must not be empty")
	}
	if existing, ok := s.data.Members[member.ID]; ok {
		existing.Name = member.Name
		existing.Email = member.Email
		existing.Title = member.Title
		existing.Department = member.Department
		existing.AvatarURL = member.AvatarURL
		existing.Skills = member.Skills
		if member.Availability > 0 {
			existing.Availability = member.Availability
		}
		return nil
	}
	s.data.Members[member.ID] = member
	return nil
}

func (s *fileTeamStore) GetMember(id string) (*models.Member, error) {
	member, exists := s.data.Members[id]
	if !exists {
		return nil, fmt.Errorf("member %s not found", id)
	}
	return member, nil
}

func (s *fileTeamStore) GetAllMembers() ([]*models.Member, error) {
	members := make([]*models.Member, 0, len(s.data.Members))
	for _, m := range s.data.Members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].ID < members[j].ID
	})
	return members, nil
}

func (s *fileTeamStore) RemoveMember(id string) error {
	if _, exists := s.data.Members[id]; !exists {
		return fmt.Errorf("removing member: member %s not found", id)
	}
	delete(s.data.Members, id)
	return nil
}

func (s *fileTeamStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			s.data = TeamFile{
				Version: "1.0",
				Members: make(map[string]*models.Member),
			}
			return nil
		}
		return fmt.Errorf("loading team: %w", err)
	}

	var tf TeamFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("loading team: parsing YAML: %w", err)
	}
	if tf.Members == nil {
		tf.Members = make(map[string]*models.Member)
	}
	s.data = tf
	return nil
}

func (s *fileTeamStore) Save() error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("saving team: creating directory: %w", err)
	}
	data, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("saving team: marshaling YAML: %w", err)
	}
	if err := os.WriteFile(s.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving team: writing file: %w", err)
	}
	return nil
}
