package store

import (
	"context"
	"sync"

	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/storage"
	"github.com/taskdeck/taskdeck/pkg/models"
)

// TaskState is the full state the task store exposes to the presentation layer.
type TaskState struct {
	Tasks   []models.Task
	Current *models.Task
	Loading bool
	Err     string
}

// TaskStore owns the in-memory task collection (optionally scoped to a
// project by the fetch variants) and the current selection. The filtered
// fetch operations replace the collection with the filtered subset; they
// never merge with existing state.
type TaskStore interface {
	FetchAll(ctx context.Context) error
	Fetch(ctx context.Context, id string) error
	FetchByProject(ctx context.Context, projectID string) error
	FetchByStatus(ctx context.Context, status models.TaskStatus) error
	FetchByPriority(ctx context.Context, priority models.TaskPriority) error
	FetchUpcoming(ctx context.Context, days int) error
	FetchOverdue(ctx context.Context) error
	Create(ctx context.Context, req models.CreateTaskRequest) error
	Update(ctx context.Context, id string, req models.UpdateTaskRequest) error
	UpdateStatus(ctx context.Context, id string, status models.TaskStatus) error
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, taskID, content string) error
	FetchComments(ctx context.Context, taskID string) error
	ClearError()
	SetCurrent(task *models.Task)
	State() TaskState
}

type taskStore struct {
	api     taskAPI
	storage storage.TaskStateStorage
	events  observability.EventLog

	mu      sync.Mutex
	tasks   []models.Task
	current *models.Task
	loading bool
	err     string
}

// NewTaskStore creates a TaskStore seeded from the persisted snapshot.
// A missing or unreadable snapshot starts the store empty. events may be nil.
func NewTaskStore(apiClient taskAPI, stateStorage storage.TaskStateStorage, events observability.EventLog) TaskStore {
	s := &taskStore{
		api:     apiClient,
		storage: stateStorage,
		events:  events,
	}
	if snap, err := stateStorage.Load(); err == nil {
		s.tasks = snap.Tasks
		s.current = snap.Current
	}
	return s
}

// State returns a copy of the full store state.
func (s *taskStore) State() TaskState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := TaskState{
		Tasks:   make([]models.Task, len(s.tasks)),
		Loading: s.loading,
		Err:     s.err,
	}
	copy(state.Tasks, s.tasks)
	if s.current != nil {
		current := *s.current
		state.Current = &current
	}
	return state
}

// FetchAll replaces the entire collection with the server's result.
func (s *taskStore) FetchAll(ctx context.Context) error {
	s.begin()
	tasks, err := s.api.Tasks(ctx)
	if err != nil {
		return s.fail("task.fetch_failed", err)
	}
	s.replaceCollection(tasks)
	return nil
}

// Fetch replaces only the current selection, independent of the collection.
func (s *taskStore) Fetch(ctx context.Context, id string) error {
	s.begin()

	task, err := s.api.Task(ctx, id)
	if err != nil {
		return s.fail("task.fetch_failed", err)
	}

	s.mu.Lock()
	s.current = task
	s.loading = false
	s.mu.Unlock()

	s.persist()
	return nil
}

// FetchByProject replaces the collection with only the given project's
// tasks. The backend has no dedicated filter endpoint for this, so the full
// set is fetched and filtered client-side.
func (s *taskStore) FetchByProject(ctx context.Context, projectID string) error {
	s.begin()

	all, err := s.api.Tasks(ctx)
	if err != nil {
		return s.fail("task.fetch_failed", err)
	}

	var tasks []models.Task
	for _, t := range all {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	s.replaceCollection(tasks)
	return nil
}

// FetchByStatus replaces the collection with the server-filtered subset.
func (s *taskStore) FetchByStatus(ctx context.Context, status models.TaskStatus) error {
	s.begin()
	tasks, err := s.api.TasksByStatus(ctx, status)
	if err != nil {
		return s.fail("task.fetch_failed", err)
	}
	s.replaceCollection(tasks)
	return nil
}

// FetchByPriority replaces the collection with the server-filtered subset.
func (s *taskStore) FetchByPriority(ctx context.Context, priority models.TaskPriority) error {
	s.begin()
	tasks, err := s.api.TasksByPriority(ctx, priority)
	if err != nil {
		return s.fail("task.fetch_failed", err)
	}
	s.replaceCollection(tasks)
	return nil
}

// FetchUpcoming replaces the collection with tasks due inside the next
// `days` days. days <= 0 uses the server's default window.
func (s *taskStore) FetchUpcoming(ctx context.Context, days int) error {
	s.begin()
	tasks, err := s.api.UpcomingTasks(ctx, days)
	if err != nil {
		return s.fail("task.fetch_failed", err)
	}
	s.replaceCollection(tasks)
	return nil
}

// FetchOverdue replaces the collection with tasks past their deadline.
func (s *taskStore) FetchOverdue(ctx context.Context) error {
	s.begin()
	tasks, err := s.api.OverdueTasks(ctx)
	if err != nil {
		return s.fail("task.fetch_failed", err)
	}
	s.replaceCollection(tasks)
	return nil
}

// Create appends the server-returned entity to the end of the collection.
func (s *taskStore) Create(ctx context.Context, req models.CreateTaskRequest) error {
	s.begin()

	task, err := s.api.CreateTask(ctx, req)
	if err != nil {
		return s.fail("task.create_failed", err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, *task)
	s.loading = false
	s.mu.Unlock()

	s.persist()
	observability.Emit(s.events, "task.created", task.Title, map[string]any{"task_id": task.ID})
	return nil
}

// Update replaces the matching entity in place by id and refreshes the
// current selection when it points at the same entity.
func (s *taskStore) Update(ctx context.Context, id string, req models.UpdateTaskRequest) error {
	s.begin()

	task, err := s.api.UpdateTask(ctx, id, req)
	if err != nil {
		return s.fail("task.update_failed", err)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = *task
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		current := *task
		s.current = &current
	}
	s.loading = false
	s.mu.Unlock()

	s.persist()
	observability.Emit(s.events, "task.updated", task.Title, map[string]any{"task_id": id})
	return nil
}

// UpdateStatus changes a task's status through the narrow endpoint. Only
// the status (and the server's updated timestamp) change locally; all other
// fields of the entry are left untouched.
func (s *taskStore) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) error {
	s.begin()

	updated, err := s.api.UpdateTaskStatus(ctx, id, status)
	if err != nil {
		return s.fail("task.status_change_failed", err)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Status = updated.Status
			s.tasks[i].UpdatedAt = updated.UpdatedAt
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		current := *s.current
		current.Status = updated.Status
		current.UpdatedAt = updated.UpdatedAt
		s.current = &current
	}
	s.loading = false
	s.mu.Unlock()

	s.persist()
	observability.Emit(s.events, "task.status_changed", "", map[string]any{
		"task_id":    id,
		"new_status": string(updated.Status),
	})
	return nil
}

// Delete removes the matching entity by id and clears the current selection
// when it pointed at the deleted entity.
func (s *taskStore) Delete(ctx context.Context, id string) error {
	s.begin()

	if err := s.api.DeleteTask(ctx, id); err != nil {
		return s.fail("task.delete_failed", err)
	}

	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.loading = false
	s.mu.Unlock()

	s.persist()
	observability.Emit(s.events, "task.deleted", "", map[string]any{"task_id": id})
	return nil
}

// AddComment submits a comment. The submission endpoint does not return the
// updated task, so when the commented task is the current selection it is
// re-fetched to pick up the server-side comment list. The matching entry in
// the general collection is NOT updated with the new comment; only the
// current selection reflects it until the next fetch.
func (s *taskStore) AddComment(ctx context.Context, taskID, content string) error {
	s.begin()

	if err := s.api.AddComment(ctx, taskID, content); err != nil {
		return s.fail("task.comment_failed", err)
	}

	s.mu.Lock()
	isCurrent := s.current != nil && s.current.ID == taskID
	s.mu.Unlock()

	if isCurrent {
		task, err := s.api.Task(ctx, taskID)
		if err != nil {
			return s.fail("task.comment_failed", err)
		}
		s.mu.Lock()
		s.current = task
		s.loading = false
		s.mu.Unlock()
		s.persist()
	} else {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}

	observability.Emit(s.events, "task.comment_added", "", map[string]any{"task_id": taskID})
	return nil
}

// FetchComments refreshes the current selection's comment list when the
// current selection is the given task; otherwise only the loading bracket runs.
func (s *taskStore) FetchComments(ctx context.Context, taskID string) error {
	s.begin()

	comments, err := s.api.Comments(ctx, taskID)
	if err != nil {
		return s.fail("task.fetch_failed", err)
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == taskID {
		current := *s.current
		current.Comments = comments
		s.current = &current
	}
	s.loading = false
	s.mu.Unlock()

	s.persist()
	return nil
}

// ClearError clears the error field. Nothing else clears it except the
// start of the next operation.
func (s *taskStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// SetCurrent sets or clears the current selection directly.
func (s *taskStore) SetCurrent(task *models.Task) {
	s.mu.Lock()
	if task == nil {
		s.current = nil
	} else {
		current := *task
		s.current = &current
	}
	s.mu.Unlock()
	s.persist()
}

func (s *taskStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *taskStore) fail(eventType string, err error) error {
	s.mu.Lock()
	s.err = errorMessage(err)
	s.loading = false
	s.mu.Unlock()
	observability.Emit(s.events, eventType, errorMessage(err), nil)
	return err
}

func (s *taskStore) replaceCollection(tasks []models.Task) {
	s.mu.Lock()
	s.tasks = tasks
	s.loading = false
	s.mu.Unlock()
	s.persist()
}

func (s *taskStore) persist() {
	state := s.State()
	snap := storage.TaskSnapshot{Tasks: state.Tasks, Current: state.Current}
	if err := s.storage.Save(snap); err != nil {
		observability.Emit(s.events, "task.persist_failed", err.Error(), nil)
	}
}
