// Package mcp provides an MCP (Model Context Protocol) server that exposes
// taskdeck projects, tasks, and metrics as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/pkg/models"
)

// Server wraps the taskdeck stores and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	projects    store.ProjectStore
	tasks       store.TaskStore
	metricsCalc observability.MetricsCalculator
}

// NewServer creates a new MCP server with the given store dependencies.
// metricsCalc may be nil if the event log is unavailable.
func NewServer(projects store.ProjectStore, tasks store.TaskStore, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		projects:    projects,
		tasks:       tasks,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "taskdeck", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listProjectsInput struct{}

type projectOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Progress    int    `json:"progress"`
	Deadline    string `json:"deadline,omitempty"`
	TaskCount   int    `json:"task_count"`
	Updated     string `json:"updated"`
}

type listProjectsOutput struct {
	Projects []projectOutput `json:"projects"`
	Count    int             `json:"count"`
}

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
}

type taskOutput struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	ProjectID   string          `json:"project_id,omitempty"`
	Deadline    string          `json:"deadline,omitempty"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	Comments    []commentOutput `json:"comments,omitempty"`
}

type commentOutput struct {
	Content string `json:"content"`
	Created string `json:"created"`
}

type listTasksInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter tasks by status (backlog, in_progress, finished)"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type createTaskInput struct {
	Title       string `json:"title" jsonschema:"required,the task title"`
	Description string `json:"description,omitempty" jsonschema:"optional task description"`
	Priority    string `json:"priority,omitempty" jsonschema:"task priority (low, medium, high)"`
	ProjectID   string `json:"project_id,omitempty" jsonschema:"project to attach the task to"`
}

type updateTaskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Status string `json:"status" jsonschema:"required,the new status (backlog, in_progress, finished)"`
}

type updateTaskStatusOutput struct {
	Message string `json:"message"`
}

type addCommentInput struct {
	TaskID  string `json:"task_id" jsonschema:"required,the unique task identifier"`
	Content string `json:"content" jsonschema:"required,the comment text"`
}

type addCommentOutput struct {
	Message string `json:"message"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	Logins          int            `json:"logins"`
	ProjectsCreated int            `json:"projects_created"`
	TasksCreated    int            `json:"tasks_created"`
	TasksFinished   int            `json:"tasks_finished"`
	StatusChanges   map[string]int `json:"status_changes"`
	Failures        int            `json:"failures"`
	EventCount      int            `json:"event_count"`
	OldestEvent     string         `json:"oldest_event,omitempty"`
	NewestEvent     string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with their progress and task counts.",
	}, s.handleListProjects)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get task details by ID, including comments.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with an optional status filter. Returns an array of task summaries.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_task",
		Description: "Create a new task with a title and optional description, priority, and project.",
	}, s.handleCreateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task_status",
		Description: "Update a task's lifecycle status. Valid statuses: backlog, in_progress, finished.",
	}, s.handleUpdateTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_comment",
		Description: "Add a comment to a task.",
	}, s.handleAddComment)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated usage metrics from the operation log: logins, creations, status changes, failures.",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleListProjects(ctx context.Context, _ *gomcp.CallToolRequest, _ listProjectsInput) (*gomcp.CallToolResult, listProjectsOutput, error) {
	if err := s.projects.FetchAll(ctx); err != nil {
		return errorResult(fmt.Sprintf("listing projects: %s", err)), listProjectsOutput{}, nil
	}

	projects := s.projects.State().Projects
	out := listProjectsOutput{
		Projects: make([]projectOutput, len(projects)),
		Count:    len(projects),
	}
	for i, p := range projects {
		out.Projects[i] = projectOutput{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Progress:    p.Progress,
			TaskCount:   len(p.TaskIDs),
			Updated:     p.UpdatedAt.Format(time.RFC3339),
		}
		if p.Deadline != nil {
			out.Projects[i].Deadline = p.Deadline.Format(time.RFC3339)
		}
	}

	return nil, out, nil
}

func (s *Server) handleGetTask(ctx context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	if err := s.tasks.Fetch(ctx, input.TaskID); err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}

	task := s.tasks.State().Current
	if task == nil {
		return errorResult(fmt.Sprintf("task %s not found", input.TaskID)), taskOutput{}, nil
	}

	return nil, taskToOutput(*task), nil
}

func (s *Server) handleListTasks(ctx context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	var err error
	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		if !status.Valid() {
			return errorResult(fmt.Sprintf("invalid status %q: must be one of backlog, in_progress, finished", input.Status)), listTasksOutput{}, nil
		}
		err = s.tasks.FetchByStatus(ctx, status)
	} else {
		err = s.tasks.FetchAll(ctx)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	tasks := s.tasks.State().Tasks
	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}

	return nil, out, nil
}

func (s *Server) handleCreateTask(ctx context.Context, _ *gomcp.CallToolRequest, input createTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.Title == "" {
		return errorResult("title is required"), taskOutput{}, nil
	}
	if input.Priority != "" && !models.TaskPriority(input.Priority).Valid() {
		return errorResult(fmt.Sprintf("invalid priority %q: must be one of low, medium, high", input.Priority)), taskOutput{}, nil
	}

	req := models.CreateTaskRequest{
		Title:       input.Title,
		Description: input.Description,
		Priority:    models.TaskPriority(input.Priority),
		ProjectID:   input.ProjectID,
	}
	if err := s.tasks.Create(ctx, req); err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), taskOutput{}, nil
	}

	tasks := s.tasks.State().Tasks
	if len(tasks) == 0 {
		return errorResult("task created but not present in collection"), taskOutput{}, nil
	}
	return nil, taskToOutput(tasks[len(tasks)-1]), nil
}

func (s *Server) handleUpdateTaskStatus(ctx context.Context, _ *gomcp.CallToolRequest, input updateTaskStatusInput) (*gomcp.CallToolResult, updateTaskStatusOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), updateTaskStatusOutput{}, nil
	}
	if input.Status == "" {
		return errorResult("status is required"), updateTaskStatusOutput{}, nil
	}

	status := models.TaskStatus(input.Status)
	if !status.Valid() {
		return errorResult(fmt.Sprintf("invalid status %q: must be one of backlog, in_progress, finished", input.Status)), updateTaskStatusOutput{}, nil
	}

	if err := s.tasks.UpdateStatus(ctx, input.TaskID, status); err != nil {
		return errorResult(fmt.Sprintf("updating task %s status: %s", input.TaskID, err)), updateTaskStatusOutput{}, nil
	}

	out := updateTaskStatusOutput{
		Message: fmt.Sprintf("task %s status updated to %s", input.TaskID, input.Status),
	}
	return nil, out, nil
}

func (s *Server) handleAddComment(ctx context.Context, _ *gomcp.CallToolRequest, input addCommentInput) (*gomcp.CallToolResult, addCommentOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), addCommentOutput{}, nil
	}
	if input.Content == "" {
		return errorResult("content is required"), addCommentOutput{}, nil
	}

	if err := s.tasks.AddComment(ctx, input.TaskID, input.Content); err != nil {
		return errorResult(fmt.Sprintf("adding comment to task %s: %s", input.TaskID, err)), addCommentOutput{}, nil
	}

	out := addCommentOutput{
		Message: fmt.Sprintf("comment added to task %s", input.TaskID),
	}
	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		Logins:          metrics.Logins,
		ProjectsCreated: metrics.ProjectsCreated,
		TasksCreated:    metrics.TasksCreated,
		TasksFinished:   metrics.TasksFinished,
		StatusChanges:   metrics.StatusChanges,
		Failures:        metrics.Failures,
		EventCount:      metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	out := taskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		ProjectID:   t.ProjectID,
		Created:     t.CreatedAt.Format(time.RFC3339),
		Updated:     t.UpdatedAt.Format(time.RFC3339),
	}
	if t.Deadline != nil {
		out.Deadline = t.Deadline.Format(time.RFC3339)
	}
	for _, c := range t.Comments {
		out.Comments = append(out.Comments, commentOutput{
			Content: c.Content,
			Created: c.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{StatusChanges: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
