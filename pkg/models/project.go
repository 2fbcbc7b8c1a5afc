package models

import "time"

// Project represents a project owned by a user. Progress is computed by the
// server from task completion; the client never writes it back.
type Project struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Deadline    *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Progress    int        `json:"progress" yaml:"progress"`
	TaskIDs     []string   `json:"taskIds,omitempty" yaml:"task_ids,omitempty"`
	UserID      string     `json:"userId" yaml:"user_id"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updated_at"`
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateProjectRequest is the payload for updating a project. Zero-valued
// fields are omitted and left unchanged server-side.
type UpdateProjectRequest struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}
