// Package store implements the client-side state containers that mediate
// between the presentation layer and the backend API. Each store owns its
// collection exclusively, brackets every operation with a loading flag and
// a cleared error, and persists the collection + current selection (never
// the transient fields) to durable client storage after successful changes.
//
// Stores provide no operation-level mutual exclusion: overlapping calls to
// the same store resolve last-write-wins, matching the single-submission
// discipline of the consuming surfaces.
package store

import (
	"context"
	"errors"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/pkg/models"
)

// authAPI is the subset of the API client the auth store needs.
type authAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthData, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthData, error)
	Profile(ctx context.Context) (*models.User, error)
}

// projectAPI is the subset of the API client the project store needs.
type projectAPI interface {
	Projects(ctx context.Context) ([]models.Project, error)
	Project(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, req models.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// taskAPI is the subset of the API client the task store needs.
type taskAPI interface {
	Tasks(ctx context.Context) ([]models.Task, error)
	Task(ctx context.Context, id string) (*models.Task, error)
	TasksByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error)
	TasksByPriority(ctx context.Context, priority models.TaskPriority) ([]models.Task, error)
	UpcomingTasks(ctx context.Context, days int) ([]models.Task, error)
	OverdueTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	AddComment(ctx context.Context, taskID, content string) error
	Comments(ctx context.Context, taskID string) ([]models.TaskComment, error)
}

// errorMessage extracts the human-readable message surfaced on a store's
// error field. API errors already carry the server-provided message.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
