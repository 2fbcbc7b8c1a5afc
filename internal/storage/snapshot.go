package storage

import (
	"fmt"
	"path/filepath"

	"github.com/taskdeck/taskdeck/pkg/models"
)

// ProjectSnapshot is the persisted projection of the project store's state:
// the collection and the current selection only.
type ProjectSnapshot struct {
	Projects []models.Project `yaml:"projects"`
	Current  *models.Project  `yaml:"current,omitempty"`
}

// TaskSnapshot is the persisted projection of the task store's state.
type TaskSnapshot struct {
	Tasks   []models.Task `yaml:"tasks"`
	Current *models.Task  `yaml:"current,omitempty"`
}

// ProjectStateStorage persists the project store's snapshot.
type ProjectStateStorage interface {
	Load() (ProjectSnapshot, error)
	Save(snap ProjectSnapshot) error
}

// TaskStateStorage persists the task store's snapshot.
type TaskStateStorage interface {
	Load() (TaskSnapshot, error)
	Save(snap TaskSnapshot) error
}

type fileProjectStateStorage struct {
	path string
}

// NewProjectStateStorage creates storage backed by projects.yaml in the
// given base directory.
func NewProjectStateStorage(basePath string) ProjectStateStorage {
	return &fileProjectStateStorage{path: filepath.Join(basePath, "projects.yaml")}
}

func (s *fileProjectStateStorage) Load() (ProjectSnapshot, error) {
	var snap ProjectSnapshot
	if err := loadYAML(s.path, &snap); err != nil {
		return ProjectSnapshot{}, fmt.Errorf("loading project snapshot: %w", err)
	}
	return snap, nil
}

func (s *fileProjectStateStorage) Save(snap ProjectSnapshot) error {
	if err := saveYAML(s.path, &snap); err != nil {
		return fmt.Errorf("saving project snapshot: %w", err)
	}
	return nil
}

type fileTaskStateStorage struct {
	path string
}

// NewTaskStateStorage creates storage backed by tasks.yaml in the given
// base directory.
func NewTaskStateStorage(basePath string) TaskStateStorage {
	return &fileTaskStateStorage{path: filepath.Join(basePath, "tasks.yaml")}
}

func (s *fileTaskStateStorage) Load() (TaskSnapshot, error) {
	var snap TaskSnapshot
	if err := loadYAML(s.path, &snap); err != nil {
		return TaskSnapshot{}, fmt.Errorf("loading task snapshot: %w", err)
	}
	return snap, nil
}

func (s *fileTaskStateStorage) Save(snap TaskSnapshot) error {
	if err := saveYAML(s.path, &snap); err != nil {
		return fmt.Errorf("saving task snapshot: %w", err)
	}
	return nil
}
