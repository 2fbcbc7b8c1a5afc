// Package internal provides the App struct that wires all components of the
// taskdeck client together and initializes the CLI layer.
package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cli"
	"github.com/taskdeck/taskdeck/internal/core"
	"github.com/taskdeck/taskdeck/internal/observability"
	"github.com/taskdeck/taskdeck/internal/storage"
	"github.com/taskdeck/taskdeck/internal/store"
)

// App holds all service dependencies for the taskdeck client. It is
// constructed exactly once at process start; nothing in the system relies
// on package-level singletons for state.
type App struct {
	BasePath string
	Config   *core.Config

	// Durable client storage
	Session  storage.SessionStorage
	Projects storage.ProjectStateStorage
	Tasks    storage.TaskStateStorage

	// API client
	API *api.Client

	// Stores
	AuthStore    store.AuthStore
	ProjectStore store.ProjectStore
	TaskStore    store.TaskStore

	// Observability
	EventLog observability.EventLog
	Metrics  observability.MetricsCalculator
}

// NewApp creates and wires all components of the taskdeck client, validates
// a persisted session token if one exists, and hands the stores to the CLI
// layer.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	configMgr := core.NewConfigurationManager(basePath)
	cfg, err := configMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := configMgr.Validate(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// --- Durable client storage ---
	app.Session = storage.NewSessionStorage(cfg.DataDir)
	app.Projects = storage.NewProjectStateStorage(cfg.DataDir)
	app.Tasks = storage.NewTaskStateStorage(cfg.DataDir)

	// --- Observability ---
	eventLog, err := observability.NewJSONLEventLog(filepath.Join(cfg.DataDir, "events.jsonl"))
	if err == nil {
		app.EventLog = eventLog
		app.Metrics = observability.NewMetricsCalculator(eventLog)
	}
	// A failed event log leaves app.EventLog nil; stores tolerate that.

	// --- API client ---
	app.API = api.NewClient(cfg.BaseURL, &http.Client{Timeout: cfg.RequestTimeout}, app.Session)

	// --- Stores ---
	app.AuthStore = store.NewAuthStore(app.API, app.Session, app.EventLog)
	app.ProjectStore = store.NewProjectStore(app.API, app.Projects, app.EventLog)
	app.TaskStore = store.NewTaskStore(app.API, app.Tasks, app.EventLog)

	// Validate any persisted token once at process start. Degrades to
	// anonymous silently; never fails.
	app.AuthStore.Initialize(context.Background())

	// --- CLI layer ---
	cli.BasePath = basePath
	cli.Auth = app.AuthStore
	cli.Projects = app.ProjectStore
	cli.Tasks = app.TaskStore
	cli.Metrics = app.Metrics

	return app, nil
}

// ResolveBasePath determines the data directory: $TASKDECK_HOME when set,
// otherwise the nearest ancestor directory containing .taskdeck.yaml,
// otherwise ~/.taskdeck.
func ResolveBasePath() string {
	if home := os.Getenv("TASKDECK_HOME"); home != "" {
		return home
	}

	dir, err := os.Getwd()
	if err == nil {
		for {
			if _, err := os.Stat(filepath.Join(dir, ".taskdeck.yaml")); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".taskdeck")
}
