package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks (list, show, create, update, status, delete, comment)",
	Long: `Task management commands.

Filtered listings ("task list --status", "--priority", "--project",
"--upcoming", "--overdue") replace the local collection with the filtered
subset; a plain "task list" restores the full collection.`,
}

var (
	taskListStatus   string
	taskListPriority string
	taskListProject  string
	taskListUpcoming int
	taskListOverdue  bool
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}
		ctx := cmd.Context()

		filters := 0
		for _, set := range []bool{
			taskListStatus != "",
			taskListPriority != "",
			taskListProject != "",
			cmd.Flags().Changed("upcoming"),
			taskListOverdue,
		} {
			if set {
				filters++
			}
		}
		if filters > 1 {
			return fmt.Errorf("at most one of --status, --priority, --project, --upcoming, --overdue may be given")
		}

		var err error
		switch {
		case taskListStatus != "":
			status := models.TaskStatus(taskListStatus)
			if !status.Valid() {
				return fmt.Errorf("invalid status %q: expected backlog, in_progress, or finished", taskListStatus)
			}
			err = Tasks.FetchByStatus(ctx, status)
		case taskListPriority != "":
			priority := models.TaskPriority(taskListPriority)
			if !priority.Valid() {
				return fmt.Errorf("invalid priority %q: expected low, medium, or high", taskListPriority)
			}
			err = Tasks.FetchByPriority(ctx, priority)
		case taskListProject != "":
			err = Tasks.FetchByProject(ctx, taskListProject)
		case cmd.Flags().Changed("upcoming"):
			err = Tasks.FetchUpcoming(ctx, taskListUpcoming)
		case taskListOverdue:
			err = Tasks.FetchOverdue(ctx)
		default:
			err = Tasks.FetchAll(ctx)
		}
		if err != nil {
			return fmt.Errorf("fetching tasks: %w", err)
		}

		state := Tasks.State()
		if len(state.Tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		fmt.Printf("%-26s %-32s %-12s %-8s %10s\n", "ID", "TITLE", "STATUS", "PRIORITY", "DEADLINE")
		for _, t := range state.Tasks {
			marker := " "
			if state.Current != nil && state.Current.ID == t.ID {
				marker = "*"
			}
			fmt.Printf("%s%-25s %-32s %-12s %-8s %10s\n",
				marker, t.ID, t.Title, t.Status, t.Priority, formatDeadline(t.Deadline))
		}
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show a task and select it as current",
	Long: `Fetch a single task and make it the current selection. The current task
is persisted, marked in "task list" output, and is the one "task comment
add" refreshes after submitting.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		if err := Tasks.Fetch(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("fetching task: %w", err)
		}

		t := Tasks.State().Current
		if t == nil {
			return fmt.Errorf("task %s not found", args[0])
		}

		fmt.Printf("Task %s\n", t.ID)
		fmt.Printf("  Title:       %s\n", t.Title)
		if t.Description != "" {
			fmt.Printf("  Description: %s\n", t.Description)
		}
		fmt.Printf("  Status:      %s\n", t.Status)
		fmt.Printf("  Priority:    %s\n", t.Priority)
		if t.ProjectID != "" {
			fmt.Printf("  Project:     %s\n", t.ProjectID)
		}
		fmt.Printf("  Deadline:    %s\n", formatDeadline(t.Deadline))
		fmt.Printf("  Updated:     %s\n", t.UpdatedAt.Format("2006-01-02 15:04 UTC"))

		if len(t.Comments) > 0 {
			fmt.Printf("\n  Comments (%d):\n", len(t.Comments))
			for _, c := range t.Comments {
				fmt.Printf("    [%s] %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.Content)
			}
		}
		return nil
	},
}

var (
	taskCreateDescription string
	taskCreatePriority    string
	taskCreateProject     string
	taskCreateDeadline    string
)

var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		if taskCreatePriority != "" && !models.TaskPriority(taskCreatePriority).Valid() {
			return fmt.Errorf("invalid priority %q: expected low, medium, or high", taskCreatePriority)
		}
		deadline, err := parseDeadline(taskCreateDeadline)
		if err != nil {
			return err
		}

		req := models.CreateTaskRequest{
			Title:       args[0],
			Description: taskCreateDescription,
			Priority:    models.TaskPriority(taskCreatePriority),
			ProjectID:   taskCreateProject,
			Deadline:    deadline,
		}
		if err := Tasks.Create(cmd.Context(), req); err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		state := Tasks.State()
		created := state.Tasks[len(state.Tasks)-1]
		fmt.Printf("Created task %s (%s)\n", created.Title, created.ID)
		return nil
	},
}

var (
	taskUpdateTitle       string
	taskUpdateDescription string
	taskUpdatePriority    string
	taskUpdateProject     string
	taskUpdateDeadline    string
)

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update a task's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		if taskUpdatePriority != "" && !models.TaskPriority(taskUpdatePriority).Valid() {
			return fmt.Errorf("invalid priority %q: expected low, medium, or high", taskUpdatePriority)
		}
		deadline, err := parseDeadline(taskUpdateDeadline)
		if err != nil {
			return err
		}

		req := models.UpdateTaskRequest{
			Title:       taskUpdateTitle,
			Description: taskUpdateDescription,
			Priority:    models.TaskPriority(taskUpdatePriority),
			ProjectID:   taskUpdateProject,
			Deadline:    deadline,
		}
		if err := Tasks.Update(cmd.Context(), args[0], req); err != nil {
			return fmt.Errorf("updating task: %w", err)
		}

		fmt.Printf("Updated task %s\n", args[0])
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <task-id> <status>",
	Short: "Change a task's status",
	Long: `Change a task's lifecycle status through the dedicated status endpoint.
Valid statuses: backlog, in_progress, finished.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		status := models.TaskStatus(args[1])
		if !status.Valid() {
			return fmt.Errorf("invalid status %q: expected backlog, in_progress, or finished", args[1])
		}

		if err := Tasks.UpdateStatus(cmd.Context(), args[0], status); err != nil {
			return fmt.Errorf("changing task status: %w", err)
		}

		fmt.Printf("Task %s is now %s\n", args[0], status)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		if err := Tasks.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}

		fmt.Printf("Deleted task %s\n", args[0])
		return nil
	},
}

var taskCommentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage task comments",
}

var taskCommentAddCmd = &cobra.Command{
	Use:   "add <task-id> <content>",
	Short: "Add a comment to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		if err := Tasks.AddComment(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("adding comment: %w", err)
		}

		fmt.Printf("Comment added to task %s\n", args[0])
		return nil
	},
}

var taskCommentListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List a task's comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}
		ctx := cmd.Context()

		// Select the task first so the fetched comments land on the
		// current selection.
		if err := Tasks.Fetch(ctx, args[0]); err != nil {
			return fmt.Errorf("fetching task: %w", err)
		}
		if err := Tasks.FetchComments(ctx, args[0]); err != nil {
			return fmt.Errorf("fetching comments: %w", err)
		}

		current := Tasks.State().Current
		if current == nil || len(current.Comments) == 0 {
			fmt.Println("No comments.")
			return nil
		}

		for _, c := range current.Comments {
			fmt.Printf("[%s] %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.Content)
		}
		return nil
	},
}

func init() {
	taskListCmd.Flags().StringVar(&taskListStatus, "status", "", "Filter by status (backlog, in_progress, finished)")
	taskListCmd.Flags().StringVar(&taskListPriority, "priority", "", "Filter by priority (low, medium, high)")
	taskListCmd.Flags().StringVar(&taskListProject, "project", "", "Filter by project id")
	taskListCmd.Flags().IntVar(&taskListUpcoming, "upcoming", 0, "Tasks due within N days (0 uses the server default)")
	taskListCmd.Flags().BoolVar(&taskListOverdue, "overdue", false, "Tasks past their deadline")

	taskCreateCmd.Flags().StringVar(&taskCreateDescription, "description", "", "Task description")
	taskCreateCmd.Flags().StringVar(&taskCreatePriority, "priority", "", "Task priority (low, medium, high)")
	taskCreateCmd.Flags().StringVar(&taskCreateProject, "project", "", "Project id to attach the task to")
	taskCreateCmd.Flags().StringVar(&taskCreateDeadline, "deadline", "", "Deadline (YYYY-MM-DD or RFC 3339)")

	taskUpdateCmd.Flags().StringVar(&taskUpdateTitle, "title", "", "New task title")
	taskUpdateCmd.Flags().StringVar(&taskUpdateDescription, "description", "", "New task description")
	taskUpdateCmd.Flags().StringVar(&taskUpdatePriority, "priority", "", "New priority (low, medium, high)")
	taskUpdateCmd.Flags().StringVar(&taskUpdateProject, "project", "", "New project id")
	taskUpdateCmd.Flags().StringVar(&taskUpdateDeadline, "deadline", "", "New deadline (YYYY-MM-DD or RFC 3339)")

	taskCommentCmd.AddCommand(taskCommentAddCmd)
	taskCommentCmd.AddCommand(taskCommentListCmd)

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskCommentCmd)

	rootCmd.AddCommand(taskCmd)
}
