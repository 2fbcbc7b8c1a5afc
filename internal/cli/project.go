package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/pkg/models"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects (list, show, create, update, delete)",
	Long: `Project management commands.

Every command synchronizes the local snapshot with the backend before
printing, so the output always reflects server state.`,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		if err := Projects.FetchAll(cmd.Context()); err != nil {
			return fmt.Errorf("fetching projects: %w", err)
		}

		state := Projects.State()
		if len(state.Projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}

		fmt.Printf("%-26s %-24s %8s %10s  %s\n", "ID", "NAME", "PROGRESS", "DEADLINE", "TASKS")
		for _, p := range state.Projects {
			marker := " "
			if state.Current != nil && state.Current.ID == p.ID {
				marker = "*"
			}
			fmt.Printf("%s%-25s %-24s %7d%% %10s  %d\n",
				marker, p.ID, p.Name, p.Progress, formatDeadline(p.Deadline), len(p.TaskIDs))
		}
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project and select it as current",
	Long: `Fetch a single project and make it the current selection. The current
project is persisted and marked in "project list" output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		if err := Projects.Fetch(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("fetching project: %w", err)
		}

		p := Projects.State().Current
		if p == nil {
			return fmt.Errorf("project %s not found", args[0])
		}

		fmt.Printf("Project %s\n", p.ID)
		fmt.Printf("  Name:        %s\n", p.Name)
		if p.Description != "" {
			fmt.Printf("  Description: %s\n", p.Description)
		}
		fmt.Printf("  Progress:    %d%%\n", p.Progress)
		fmt.Printf("  Deadline:    %s\n", formatDeadline(p.Deadline))
		fmt.Printf("  Tasks:       %d\n", len(p.TaskIDs))
		fmt.Printf("  Updated:     %s\n", p.UpdatedAt.Format("2006-01-02 15:04 UTC"))
		return nil
	},
}

var projectCreateDescription string
var projectCreateDeadline string

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		deadline, err := parseDeadline(projectCreateDeadline)
		if err != nil {
			return err
		}

		req := models.CreateProjectRequest{
			Name:        args[0],
			Description: projectCreateDescription,
			Deadline:    deadline,
		}
		if err := Projects.Create(cmd.Context(), req); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		state := Projects.State()
		created := state.Projects[len(state.Projects)-1]
		fmt.Printf("Created project %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var projectUpdateName string
var projectUpdateDescription string
var projectUpdateDeadline string

var projectUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Update a project's name, description, or deadline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		deadline, err := parseDeadline(projectUpdateDeadline)
		if err != nil {
			return err
		}

		req := models.UpdateProjectRequest{
			Name:        projectUpdateName,
			Description: projectUpdateDescription,
			Deadline:    deadline,
		}
		if err := Projects.Update(cmd.Context(), args[0], req); err != nil {
			return fmt.Errorf("updating project: %w", err)
		}

		fmt.Printf("Updated project %s\n", args[0])
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project store not initialized")
		}

		if err := Projects.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting project: %w", err)
		}

		fmt.Printf("Deleted project %s\n", args[0])
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectCreateDescription, "description", "", "Project description")
	projectCreateCmd.Flags().StringVar(&projectCreateDeadline, "deadline", "", "Deadline (YYYY-MM-DD or RFC 3339)")

	projectUpdateCmd.Flags().StringVar(&projectUpdateName, "name", "", "New project name")
	projectUpdateCmd.Flags().StringVar(&projectUpdateDescription, "description", "", "New project description")
	projectUpdateCmd.Flags().StringVar(&projectUpdateDeadline, "deadline", "", "New deadline (YYYY-MM-DD or RFC 3339)")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)

	rootCmd.AddCommand(projectCmd)
}
