package cli

import (
	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/internal/integration"
	"github.com/membry/mpm/internal/observability"
	"github.com/membry/mpm/internal/storage"
	"github.com/membry/mpm/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	Config   *models.Config

	Projects storage.ProjectStore
	Team     storage.TeamStore

	PhaseMgr    core.PhaseManager
	Decomposer  core.TaskDecomposer
	Recommender core.AssignmentRecommender

	Roster integration.MemberSource

	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	Notifier    observability.Notifier
	Reports     observability.ReportBuilder
)
