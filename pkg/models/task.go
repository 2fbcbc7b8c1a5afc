package models

import "time"

// TaskStatus represents the current lifecycle state of a task. Transitions
// are unconstrained on the client; the server is the authority.
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "backlog"
	StatusInProgress TaskStatus = "in_progress"
	StatusFinished   TaskStatus = "finished"
)

// Valid reports whether the status is one of the values the backend accepts.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusFinished:
		return true
	}
	return false
}

// TaskPriority represents the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is one of the values the backend accepts.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of work owned by a user, optionally scoped to a
// project. All fields are server-authoritative.
type Task struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Status      TaskStatus    `json:"status" yaml:"status"`
	Priority    TaskPriority  `json:"priority" yaml:"priority"`
	ProjectID   string        `json:"projectId,omitempty" yaml:"project_id,omitempty"`
	Deadline    *time.Time    `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	UserID      string        `json:"userId" yaml:"user_id"`
	CreatedAt   time.Time     `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" yaml:"updated_at"`
	Comments    []TaskComment `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// TaskComment is a single comment on a task. Comments are append-only from
// the client's perspective; no edit or delete operation exists.
type TaskComment struct {
	ID        string    `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	UserID    string    `json:"userId" yaml:"user_id"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority,omitempty"`
	ProjectID   string       `json:"projectId,omitempty"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
}

// UpdateTaskRequest is the payload for updating a task. Zero-valued fields
// are omitted and left unchanged server-side.
type UpdateTaskRequest struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty"`
	ProjectID   string       `json:"projectId,omitempty"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
}

// UpdateTaskStatusRequest is the payload for the narrow status endpoint.
type UpdateTaskStatusRequest struct {
	Status TaskStatus `json:"status"`
}

// CreateCommentRequest is the payload for adding a comment to a task.
type CreateCommentRequest struct {
	Content string `json:"content"`
}
