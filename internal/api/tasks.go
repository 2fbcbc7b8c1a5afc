package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/taskdeck/taskdeck/pkg/models"
)

// Tasks fetches all tasks of the authenticated user.
func (c *Client) Tasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Task fetches a single task by id, including its comments.
func (c *Client) Task(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+id, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TasksByStatus fetches the server-filtered subset of tasks with the given status.
func (c *Client) TasksByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/filter/status/"+string(status), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TasksByPriority fetches the server-filtered subset of tasks with the given priority.
func (c *Client) TasksByPriority(ctx context.Context, priority models.TaskPriority) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/filter/priority/"+string(priority), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpcomingTasks fetches tasks with deadlines inside the next `days` days.
// days <= 0 requests the server's default window.
func (c *Client) UpcomingTasks(ctx context.Context, days int) ([]models.Task, error) {
	path := "/api/tasks/upcoming"
	if days > 0 {
		path += "/" + strconv.Itoa(days)
	}
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// OverdueTasks fetches tasks whose deadline has passed without completion.
func (c *Client) OverdueTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/overdue", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task and returns the server-assigned entity.
func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask updates a task and returns the full updated entity.
func (c *Client) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus changes only the status of a task through the narrow
// PATCH endpoint and returns the updated entity.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (*models.Task, error) {
	var task models.Task
	req := models.UpdateTaskStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id+"/status", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

// AddComment appends a comment to a task. The endpoint does not return the
// updated task; callers that need fresh comments must re-fetch.
func (c *Client) AddComment(ctx context.Context, taskID, content string) error {
	req := models.CreateCommentRequest{Content: content}
	return c.do(ctx, http.MethodPost, "/api/tasks/"+taskID+"/comments", req, nil)
}

// Comments fetches the ordered comment list of a task.
func (c *Client) Comments(ctx context.Context, taskID string) ([]models.TaskComment, error) {
	var comments []models.TaskComment
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+taskID+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
