package cli

import (
	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Service instances, set during app initialization in internal/app.go.
var (
	BasePath string
	Auth     store.AuthStore
	Projects store.ProjectStore
	Tasks    store.TaskStore
	Metrics  observability.MetricsCalculator
)
