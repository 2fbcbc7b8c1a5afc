// Package storage implements durable client storage: YAML snapshot files
// that outlive a single process run. Each file is written by exactly one
// store and holds only the persisted projection of that store's state,
// never the transient loading/error fields.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskdeck/taskdeck/pkg/models"
	"gopkg.in/yaml.v3"
)

// SessionSnapshot is the persisted projection of the auth store's state.
type SessionSnapshot struct {
	User            *models.User `yaml:"user,omitempty"`
	Token           string       `yaml:"token,omitempty"`
	IsAuthenticated bool         `yaml:"is_authenticated"`
}

// SessionStorage persists the session snapshot and doubles as the API
// client's token source: Token reads from disk on every call, so clearing
// the file is honored by the very next request.
type SessionStorage interface {
	Load() (SessionSnapshot, error)
	Save(snap SessionSnapshot) error
	Clear() error
	Token() (string, error)
}

type fileSessionStorage struct {
	path string
}

// NewSessionStorage creates a SessionStorage backed by session.yaml in the
// given base directory.
func NewSessionStorage(basePath string) SessionStorage {
	return &fileSessionStorage{path: filepath.Join(basePath, "session.yaml")}
}

// Load reads the persisted session. A missing file is an empty session.
func (s *fileSessionStorage) Load() (SessionSnapshot, error) {
	var snap SessionSnapshot
	if err := loadYAML(s.path, &snap); err != nil {
		return SessionSnapshot{}, fmt.Errorf("loading session: %w", err)
	}
	return snap, nil
}

// Save writes the session snapshot to disk.
func (s *fileSessionStorage) Save(snap SessionSnapshot) error {
	if err := saveYAML(s.path, &snap); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. A missing file is not an error.
func (s *fileSessionStorage) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Token returns the persisted bearer token, or empty when no session exists.
func (s *fileSessionStorage) Token() (string, error) {
	snap, err := s.Load()
	if err != nil {
		return "", err
	}
	return snap.Token, nil
}

func loadYAML(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing files load as zero values.
		}
		return err
	}
	return yaml.Unmarshal(data, target)
}

func saveYAML(path string, source any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := yaml.Marshal(source)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
