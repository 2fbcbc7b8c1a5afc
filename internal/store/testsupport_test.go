package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/storage"
	"github.com/taskdeck/taskdeck/pkg/models"
)

// memSessionStorage is an in-memory SessionStorage for tests.
type memSessionStorage struct {
	snap     storage.SessionSnapshot
	saveErr  error
	clearErr error
	saves    int
}

func (m *memSessionStorage) Load() (storage.SessionSnapshot, error) { return m.snap, nil }

func (m *memSessionStorage) Save(snap storage.SessionSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap
	m.saves++
	return nil
}

func (m *memSessionStorage) Clear() error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.snap = storage.SessionSnapshot{}
	return nil
}

func (m *memSessionStorage) Token() (string, error) { return m.snap.Token, nil }

// memProjectStorage is an in-memory ProjectStateStorage for tests.
type memProjectStorage struct {
	snap  storage.ProjectSnapshot
	saves int
}

func (m *memProjectStorage) Load() (storage.ProjectSnapshot, error) { return m.snap, nil }

func (m *memProjectStorage) Save(snap storage.ProjectSnapshot) error {
	m.snap = snap
	m.saves++
	return nil
}

// memTaskStorage is an in-memory TaskStateStorage for tests.
type memTaskStorage struct {
	snap  storage.TaskSnapshot
	saves int
}

func (m *memTaskStorage) Load() (storage.TaskSnapshot, error) { return m.snap, nil }

func (m *memTaskStorage) Save(snap storage.TaskSnapshot) error {
	m.snap = snap
	m.saves++
	return nil
}

// sessionSnapshotFor builds a persisted authenticated session for seeding.
func sessionSnapshotFor(token, userID, username string) storage.SessionSnapshot {
	return storage.SessionSnapshot{
		User:            &models.User{ID: userID, Username: username},
		Token:           token,
		IsAuthenticated: true,
	}
}

// serverError builds the typed failure a real API call would produce.
func serverError(message string) *api.Error {
	return &api.Error{Kind: api.KindApplication, Status: 200, Message: message}
}

// fakeAuthAPI implements authAPI against fixed responses.
type fakeAuthAPI struct {
	loginData    *models.AuthData
	loginErr     error
	registerData *models.AuthData
	registerErr  error
	profileUser  *models.User
	profileErr   error
}

func (f *fakeAuthAPI) Login(_ context.Context, _ models.LoginRequest) (*models.AuthData, error) {
	return f.loginData, f.loginErr
}

func (f *fakeAuthAPI) Register(_ context.Context, _ models.RegisterRequest) (*models.AuthData, error) {
	return f.registerData, f.registerErr
}

func (f *fakeAuthAPI) Profile(_ context.Context) (*models.User, error) {
	return f.profileUser, f.profileErr
}

// fakeProjectAPI implements projectAPI as a tiny in-memory backend keeping
// server-side order.
type fakeProjectAPI struct {
	projects []models.Project
	nextID   int
	failWith error
}

func (f *fakeProjectAPI) Projects(_ context.Context) ([]models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.Project, len(f.projects))
	copy(out, f.projects)
	return out, nil
}

func (f *fakeProjectAPI) Project(_ context.Context, id string) (*models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, p := range f.projects {
		if p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, serverError(fmt.Sprintf("project %s not found", id))
}

func (f *fakeProjectAPI) CreateProject(_ context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.nextID++
	p := models.Project{
		ID:          "p" + strconv.Itoa(f.nextID),
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	f.projects = append(f.projects, p)
	copied := p
	return &copied, nil
}

func (f *fakeProjectAPI) UpdateProject(_ context.Context, id string, req models.UpdateProjectRequest) (*models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.projects {
		if f.projects[i].ID == id {
			if req.Name != "" {
				f.projects[i].Name = req.Name
			}
			if req.Description != "" {
				f.projects[i].Description = req.Description
			}
			if req.Deadline != nil {
				f.projects[i].Deadline = req.Deadline
			}
			f.projects[i].UpdatedAt = time.Now().UTC()
			copied := f.projects[i]
			return &copied, nil
		}
	}
	return nil, serverError(fmt.Sprintf("project %s not found", id))
}

func (f *fakeProjectAPI) DeleteProject(_ context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	for i := range f.projects {
		if f.projects[i].ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return nil
		}
	}
	return serverError(fmt.Sprintf("project %s not found", id))
}

// fakeTaskAPI implements taskAPI as a tiny in-memory backend.
type fakeTaskAPI struct {
	tasks    []models.Task
	comments map[string][]models.TaskComment
	nextID   int
	failWith error

	addCommentCalls int
	taskCalls       int
}

func newFakeTaskAPI(tasks ...models.Task) *fakeTaskAPI {
	return &fakeTaskAPI{tasks: tasks, comments: make(map[string][]models.TaskComment)}
}

func (f *fakeTaskAPI) Tasks(_ context.Context) ([]models.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeTaskAPI) Task(_ context.Context, id string) (*models.Task, error) {
	f.taskCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, t := range f.tasks {
		if t.ID == id {
			copied := t
			copied.Comments = append([]models.TaskComment(nil), f.comments[id]...)
			return &copied, nil
		}
	}
	return nil, serverError(fmt.Sprintf("task %s not found", id))
}

func (f *fakeTaskAPI) TasksByStatus(_ context.Context, status models.TaskStatus) ([]models.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []models.Task
	for _, t := range f.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskAPI) TasksByPriority(_ context.Context, priority models.TaskPriority) ([]models.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []models.Task
	for _, t := range f.tasks {
		if t.Priority == priority {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskAPI) UpcomingTasks(_ context.Context, days int) ([]models.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if days <= 0 {
		days = 7
	}
	cutoff := time.Now().UTC().AddDate(0, 0, days)
	var out []models.Task
	for _, t := range f.tasks {
		if t.Deadline != nil && t.Deadline.Before(cutoff) && t.Deadline.After(time.Now().UTC()) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskAPI) OverdueTasks(_ context.Context) ([]models.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []models.Task
	for _, t := range f.tasks {
		if t.Deadline != nil && t.Deadline.Before(time.Now().UTC()) && t.Status != models.StatusFinished {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskAPI) CreateTask(_ context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.nextID++
	t := models.Task{
		ID:          "t" + strconv.Itoa(f.nextID),
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusBacklog,
		Priority:    req.Priority,
		ProjectID:   req.ProjectID,
		Deadline:    req.Deadline,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	f.tasks = append(f.tasks, t)
	copied := t
	return &copied, nil
}

func (f *fakeTaskAPI) UpdateTask(_ context.Context, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			if req.Title != "" {
				f.tasks[i].Title = req.Title
			}
			if req.Description != "" {
				f.tasks[i].Description = req.Description
			}
			if req.Priority != "" {
				f.tasks[i].Priority = req.Priority
			}
			if req.ProjectID != "" {
				f.tasks[i].ProjectID = req.ProjectID
			}
			if req.Deadline != nil {
				f.tasks[i].Deadline = req.Deadline
			}
			f.tasks[i].UpdatedAt = time.Now().UTC()
			copied := f.tasks[i]
			return &copied, nil
		}
	}
	return nil, serverError(fmt.Sprintf("task %s not found", id))
}

func (f *fakeTaskAPI) UpdateTaskStatus(_ context.Context, id string, status models.TaskStatus) (*models.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Status = status
			f.tasks[i].UpdatedAt = time.Now().UTC()
			copied := f.tasks[i]
			return &copied, nil
		}
	}
	return nil, serverError(fmt.Sprintf("task %s not found", id))
}

func (f *fakeTaskAPI) DeleteTask(_ context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return serverError(fmt.Sprintf("task %s not found", id))
}

func (f *fakeTaskAPI) AddComment(_ context.Context, taskID, content string) error {
	f.addCommentCalls++
	if f.failWith != nil {
		return f.failWith
	}
	for _, t := range f.tasks {
		if t.ID == taskID {
			f.comments[taskID] = append(f.comments[taskID], models.TaskComment{
				ID:        fmt.Sprintf("c%d", len(f.comments[taskID])+1),
				Content:   content,
				CreatedAt: time.Now().UTC(),
			})
			return nil
		}
	}
	return serverError(fmt.Sprintf("task %s not found", taskID))
}

func (f *fakeTaskAPI) Comments(_ context.Context, taskID string) ([]models.TaskComment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]models.TaskComment(nil), f.comments[taskID]...), nil
}
