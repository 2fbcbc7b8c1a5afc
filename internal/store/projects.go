package store

import (
	"context"
	"sync"

	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/storage"
	"github.com/taskdeck/taskdeck/pkg/models"
)

// ProjectState is the full state the project store exposes to the
// presentation layer.
type ProjectState struct {
	Projects []models.Project
	Current  *models.Project
	Loading  bool
	Err      string
}

// ProjectStore owns the in-memory project collection and the current
// selection, and keeps both synchronized with the backend. Operations
// return their error and also record its message on the store's error
// field; a failed operation leaves the collection unchanged.
type ProjectStore interface {
	FetchAll(ctx context.Context) error
	Fetch(ctx context.Context, id string) error
	Create(ctx context.Context, req models.CreateProjectRequest) error
	Update(ctx context.Context, id string, req models.UpdateProjectRequest) error
	Delete(ctx context.Context, id string) error
	ClearError()
	SetCurrent(project *models.Project)
	State() ProjectState
}

type projectStore struct {
	api     projectAPI
	storage storage.ProjectStateStorage
	events  observability.EventLog

	mu       sync.Mutex
	projects []models.Project
	current  *models.Project
	loading  bool
	err      string
}

// NewProjectStore creates a ProjectStore seeded from the persisted snapshot.
// A missing or unreadable snapshot starts the store empty. events may be nil.
func NewProjectStore(apiClient projectAPI, stateStorage storage.ProjectStateStorage, events observability.EventLog) ProjectStore {
	s := &projectStore{
		api:     apiClient,
		storage: stateStorage,
		events:  events,
	}
	if snap, err := stateStorage.Load(); err == nil {
		s.projects = snap.Projects
		s.current = snap.Current
	}
	return s
}

// State returns a copy of the full store state.
func (s *projectStore) State() ProjectState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := ProjectState{
		Projects: make([]models.Project, len(s.projects)),
		Loading:  s.loading,
		Err:      s.err,
	}
	copy(state.Projects, s.projects)
	if s.current != nil {
		current := *s.current
		state.Current = &current
	}
	return state
}

// FetchAll replaces the entire collection with the server's result.
func (s *projectStore) FetchAll(ctx context.Context) error {
	s.begin()

	projects, err := s.api.Projects(ctx)
	if err != nil {
		return s.fail("project.fetch_failed", err)
	}

	s.mu.Lock()
	s.projects = projects
	s.loading = false
	s.mu.Unlock()

	s.persist()
	return nil
}

// Fetch replaces only the current selection, independent of the collection.
func (s *projectStore) Fetch(ctx context.Context, id string) error {
	s.begin()

	project, err := s.api.Project(ctx, id)
	if err != nil {
		return s.fail("project.fetch_failed", err)
	}

	s.mu.Lock()
	s.current = project
	s.loading = false
	s.mu.Unlock()

	s.persist()
	return nil
}

// Create appends the server-returned entity to the end of the collection,
// preserving server creation order.
func (s *projectStore) Create(ctx context.Context, req models.CreateProjectRequest) error {
	s.begin()

	project, err := s.api.CreateProject(ctx, req)
	if err != nil {
		return s.fail("project.create_failed", err)
	}

	s.mu.Lock()
	s.projects = append(s.projects, *project)
	s.loading = false
	s.mu.Unlock()

	s.persist()
	observability.Emit(s.events, "project.created", project.Name, map[string]any{"project_id": project.ID})
	return nil
}

// Update replaces the matching entity in place by id. If the updated entity
// is also the current selection, that reference is refreshed to the same
// new value.
func (s *projectStore) Update(ctx context.Context, id string, req models.UpdateProjectRequest) error {
	s.begin()

	project, err := s.api.UpdateProject(ctx, id, req)
	if err != nil {
		return s.fail("project.update_failed", err)
	}

	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i] = *project
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		current := *project
		s.current = &current
	}
	s.loading = false
	s.mu.Unlock()

	s.persist()
	observability.Emit(s.events, "project.updated", project.Name, map[string]any{"project_id": id})
	return nil
}

// Delete removes the matching entity by id. If it was the current selection,
// the selection is cleared in the same operation.
func (s *projectStore) Delete(ctx context.Context, id string) error {
	s.begin()

	if err := s.api.DeleteProject(ctx, id); err != nil {
		return s.fail("project.delete_failed", err)
	}

	s.mu.Lock()
	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.loading = false
	s.mu.Unlock()

	s.persist()
	observability.Emit(s.events, "project.deleted", "", map[string]any{"project_id": id})
	return nil
}

// ClearError clears the error field. Nothing else clears it except the
// start of the next operation.
func (s *projectStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// SetCurrent sets or clears the current selection directly.
func (s *projectStore) SetCurrent(project *models.Project) {
	s.mu.Lock()
	if project == nil {
		s.current = nil
	} else {
		current := *project
		s.current = &current
	}
	s.mu.Unlock()
	s.persist()
}

func (s *projectStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *projectStore) fail(eventType string, err error) error {
	s.mu.Lock()
	s.err = errorMessage(err)
	s.loading = false
	s.mu.Unlock()
	observability.Emit(s.events, eventType, errorMessage(err), nil)
	return err
}

func (s *projectStore) persist() {
	state := s.State()
	snap := storage.ProjectSnapshot{Projects: state.Projects, Current: state.Current}
	if err := s.storage.Save(snap); err != nil {
		observability.Emit(s.events, "project.persist_failed", err.Error(), nil)
	}
}
