// Package internal provides the App struct that wires all components of the
// Membry Project Management system together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/membry/mpm/internal/cli"
	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/internal/integration"
	"github.com/membry/mpm/internal/observability"
	"github.com/membry/mpm/internal/storage"
	"github.com/membry/mpm/pkg/models"
)

// App holds all service dependencies for the mpm system.
type App struct {
	BasePath string
	Config   *models.Config

	// Storage layer
	Projects storage.ProjectStore
	Team     storage.TeamStore

	// Core services
	PhaseMgr    core.PhaseManager
	Decomposer  core.TaskDecomposer
	Recommender core.AssignmentRecommender

	// Integration services
	Roster integration.MemberSource

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	Notifier    observability.Notifier
	Reports     observability.ReportBuilder
}

// NewApp creates and wires all components of the mpm system. basePath is the
// root directory where project and team state is stored (typically the
// directory containing .mpmconfig).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	cfgMgr := core.NewConfigurationManager(basePath)
	cfg, err := cfgMgr.Load()
	if err != nil {
		// Use defaults if the config file is unreadable.
		cfg = core.DefaultConfig()
	}
	app.Config = cfg

	// --- Storage layer ---
	app.Projects = storage.NewProjectStore(basePath)
	_ = app.Projects.Load() // Non-fatal: empty store on first use.
	app.Team = storage.NewTeamStore(basePath)
	_ = app.Team.Load() // Non-fatal: empty store on first use.

	// --- Core services ---
	app.PhaseMgr = core.NewPhaseManager(cfg.Workflow, cli.NewPromptApprover())
	app.Decomposer = core.NewTaskDecomposer(cfg.Defaults.EstimateHours)
	app.Recommender = core.NewAssignmentRecommender()

	// --- Integration services ---
	if cfg.Roster.BaseURL != "" {
		roster, rosterErr := integration.NewMembryMemberSource(cfg.Roster)
		if rosterErr == nil {
			app.Roster = roster
		}
	}

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".mpm_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable journaling if the log can't be created.
		app.EventLog = nil
	}

	thresholds := observability.DefaultAlertThresholds()
	if cfg.Notification.DeadlineWarningDays > 0 {
		thresholds.DeadlineWarningDays = cfg.Notification.DeadlineWarningDays
	}
	app.AlertEngine = observability.NewAlertEngine(thresholds)

	if cfg.Notification.Enabled && cfg.Notification.WebhookURL != "" {
		app.Notifier = observability.NewWebhookNotifier(cfg.Notification.WebhookURL)
	}

	app.Reports = observability.NewReportBuilder(app.PhaseMgr)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = app.Config
	cli.Projects = app.Projects
	cli.Team = app.Team
	cli.PhaseMgr = app.PhaseMgr
	cli.Decomposer = app.Decomposer
	cli.Recommender = app.Recommender
	cli.Roster = app.Roster
	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.Notifier = app.Notifier
	cli.Reports = app.Reports

	return app, nil
}

// Close releases resources held by the App, such as the event log file
// handle. It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the mpm data directory. It
// checks the MPM_HOME env var, then walks up from the current directory
// looking for .mpmconfig, falling back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("MPM_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".mpmconfig")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
