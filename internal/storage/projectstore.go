// Package storage provides YAML-file-backed stores for project and team
// state. Stores are explicitly owned: one instance per process or per test,
// passed to the engine functions that need them.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/membry/mpm/pkg/models"
)

// ProjectFile represents the top-level structure of projects.yaml.
type ProjectFile struct {
	Version  string                     `yaml:"version"`
	Projects map[string]*models.Project `yaml:"projects"`
}

// ProjectStore defines the interface for persisting projects. Callers
// mutate the returned project pointers in place and call Save to persist;
// the store does not copy.
type ProjectStore interface {
	AddProject(project *models.Project) error
	GetProject(id string) (*models.Project, error)
	GetAllProjects() ([]*models.Project, error)
	RemoveProject(id string) error
	Load() error
	Save() error
}

type fileProjectStore struct {
	basePath string
	data     ProjectFile
}

// NewProjectStore creates a ProjectStore backed by a projects.yaml file in
// the given base directory.
func NewProjectStore(basePath string) ProjectStore {
	return &fileProjectStore{
		basePath: basePath,
		data: ProjectFile{
			Version:  "1.0",
			Projects: make(map[string]*models.Project),
		},
	}
}

func (s *fileProjectStore) filePath() string {
	return filepath.Join(s.basePath, "projects.yaml")
}

func (s *fileProjectStore) AddProject(project *models.Project) error {
	if project.ID == "" {
		return fmt.Errorf("adding project: ID must not be empty")
	}
	if _, exists := s.data.Projects[project.ID]; exists {
		return fmt.Errorf("adding project: project %s already exists", project.ID)
	}
	project.Normalize()
	s.data.Projects[project.ID] = project
	return nil
}

func (s *fileProjectStore) GetProject(id string) (*models.Project, error) {
	project, exists := s.data.Projects[id]
	if !exists {
		return nil, fmt.Errorf("project %s not found", id)
	}
	return project, nil
}

func (s *fileProjectStore) GetAllProjects() ([]*models.Project, error) {
	projects := make([]*models.Project, 0, len(s.data.Projects))
	for _, p := range s.data.Projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ID < projects[j].ID
	})
	return projects, nil
}

func (s *fileProjectStore) RemoveProject(id string) error {
	if _, exists := s.data.Projects[id]; !exists {
		return fmt.Errorf("removing project: project %s not found", id)
	}
	delete(s.data.Projects, id)
	return nil
}

func (s *fileProjectStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			s.data = ProjectFile{
				Version:  "1.0",
				Projects: make(map[string]*models.Project),
			}
			return nil
		}
		return fmt.Errorf("loading projects: %w", err)
	}

	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("loading projects: parsing YAML: %w", err)
	}
	if pf.Projects == nil {
		pf.Projects = make(map[string]*models.Project)
	}
	// Older files may lack phase slots; normalization restores the
	// all-four-phases invariant on every load.
	for _, p := range pf.Projects {
		p.Normalize()
	}
	s.data = pf
	return nil
}

func (s *fileProjectStore) Save() error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("saving projects: creating directory: %w", err)
	}
	data, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("saving projects: marshaling YAML: %w", err)
	}
	if err := os.WriteFile(s.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving projects: writing file: %w", err)
	}
	return nil
}
