package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/taskdeck/taskdeck/pkg/models"
)

// Dashboard panel indices.
const (
	panelProjects = iota
	panelTasks
	panelMetrics
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	projects    []projectSnapshot
	taskCounts  map[string]int
	metricsData *metricsSnapshot

	// State.
	loading bool
	err     error
}

type projectSnapshot struct {
	name     string
	progress int
	tasks    int
}

type metricsSnapshot struct {
	logins          int
	projectsCreated int
	tasksCreated    int
	tasksFinished   int
	failures        int
	eventCount      int
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	projects   []projectSnapshot
	taskCounts map[string]int
	metrics    *metricsSnapshot
	err        error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusFinished   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusBacklog    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelProjects,
		loading:     true,
		taskCounts:  make(map[string]int),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.projects = msg.projects
		m.taskCounts = msg.taskCounts
		m.metricsData = msg.metrics
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" taskdeck ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	projectsPanel := m.renderProjectsPanel()
	tasksPanel := m.renderTasksPanel()
	metricsPanel := m.renderMetricsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		projectsPanel = m.applyPanelStyle(panelProjects, projectsPanel, colWidth-4)
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, colWidth-4)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, projectsPanel, tasksPanel, metricsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		projectsPanel = m.applyPanelStyle(panelProjects, projectsPanel, panelWidth)
		tasksPanel = m.applyPanelStyle(panelTasks, tasksPanel, panelWidth)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, projectsPanel, tasksPanel, metricsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderProjectsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Projects"))
	b.WriteString("\n")

	if len(m.projects) == 0 {
		b.WriteString("  No projects found.")
		return b.String()
	}

	for _, p := range m.projects {
		b.WriteString(fmt.Sprintf("  %-20s %s %3d%%  (%d tasks)\n",
			truncate(p.name, 20), progressBar(p.progress, 10), p.progress, p.tasks))
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", len(m.projects)))

	return b.String()
}

func (m dashboardModel) renderTasksPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tasks"))
	b.WriteString("\n")

	if len(m.taskCounts) == 0 {
		b.WriteString("  No tasks found.")
		return b.String()
	}

	// Display in lifecycle order.
	order := []string{"in_progress", "backlog", "finished"}
	for _, status := range order {
		count, ok := m.taskCounts[status]
		if !ok || count == 0 {
			continue
		}
		label := fmt.Sprintf("  %-14s %d", status, count)
		b.WriteString(styleForStatus(status).Render(label))
		b.WriteString("\n")
	}

	total := 0
	for _, c := range m.taskCounts {
		total += c
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", total))

	return b.String()
}

func (m dashboardModel) renderMetricsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Metrics (7d)"))
	b.WriteString("\n")

	if m.metricsData == nil {
		b.WriteString("  No metrics available.")
		return b.String()
	}

	md := m.metricsData
	lines := []struct {
		label string
		value int
	}{
		{"Events", md.eventCount},
		{"Logins", md.logins},
		{"Projects", md.projectsCreated},
		{"Tasks", md.tasksCreated},
		{"Finished", md.tasksFinished},
		{"Failures", md.failures},
	}

	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %-14s %d\n", l.label, l.value))
	}

	return b.String()
}

func styleForStatus(status string) lipgloss.Style {
	switch status {
	case "in_progress":
		return statusInProgress
	case "finished":
		return statusFinished
	case "backlog":
		return statusBacklog
	default:
		return lipgloss.NewStyle()
	}
}

// progressBar renders a fixed-width bar like [####------].
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func loadData() tea.Msg {
	result := dataLoadedMsg{
		taskCounts: make(map[string]int),
	}
	ctx := context.Background()

	// Load projects and tasks together so project task counts reflect the
	// same snapshot the task panel shows.
	var tasks []models.Task
	if Tasks != nil {
		if err := Tasks.FetchAll(ctx); err != nil {
			result.err = fmt.Errorf("loading tasks: %w", err)
			return result
		}
		tasks = Tasks.State().Tasks
		for _, t := range tasks {
			result.taskCounts[string(t.Status)]++
		}
	}

	if Projects != nil {
		if err := Projects.FetchAll(ctx); err != nil {
			result.err = fmt.Errorf("loading projects: %w", err)
			return result
		}
		for _, p := range Projects.State().Projects {
			count := 0
			for _, t := range tasks {
				if t.ProjectID == p.ID {
					count++
				}
			}
			result.projects = append(result.projects, projectSnapshot{
				name:     p.Name,
				progress: p.Progress,
				tasks:    count,
			})
		}
	}

	// Load metrics from Metrics.
	if Metrics != nil {
		since := time.Now().UTC().AddDate(0, 0, -7)
		metrics, err := Metrics.Calculate(since)
		if err != nil {
			result.err = fmt.Errorf("loading metrics: %w", err)
			return result
		}
		result.metrics = &metricsSnapshot{
			logins:          metrics.Logins,
			projectsCreated: metrics.ProjectsCreated,
			tasksCreated:    metrics.TasksCreated,
			tasksFinished:   metrics.TasksFinished,
			failures:        metrics.Failures,
			eventCount:      metrics.EventCount,
		}
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for projects, tasks, and metrics",
	Long: `Launch an interactive terminal dashboard showing project progress,
task counts by status, and usage metrics in a live view.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil || Tasks == nil {
			return fmt.Errorf("stores not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
