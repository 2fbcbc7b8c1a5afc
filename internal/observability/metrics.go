package observability

import (
	"fmt"
	"strings"
	"time"
)

// Metrics holds aggregates derived from the operation event log.
type Metrics struct {
	Logins          int            `json:"logins"`
	ProjectsCreated int            `json:"projects_created"`
	TasksCreated    int            `json:"tasks_created"`
	TasksFinished   int            `json:"tasks_finished"`
	StatusChanges   map[string]int `json:"status_changes"`
	Failures        int            `json:"failures"`
	EventCount      int            `json:"event_count"`
	OldestEvent     *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent     *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{StatusChanges: make(map[string]int)}
	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "auth.login":
			m.Logins++
		case "project.created":
			m.ProjectsCreated++
		case "task.created":
			m.TasksCreated++
		case "task.status_changed":
			if status, ok := event.Data["new_status"].(string); ok {
				m.StatusChanges[status]++
				if status == "finished" {
					m.TasksFinished++
				}
			}
		}

		if strings.HasSuffix(event.Type, "_failed") {
			m.Failures++
		}
	}

	return m, nil
}
