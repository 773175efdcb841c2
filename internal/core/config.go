package core

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/membry/mpm/pkg/models"
)

// ConfigurationManager loads the .mpmconfig configuration file.
type ConfigurationManager interface {
	Load() (*models.Config, error)
}

// viperConfigManager implements ConfigurationManager using Viper to read
// YAML configuration from the base path.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .mpmconfig relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *models.Config {
	return &models.Config{
		Workflow: models.WorkflowConfig{
			AutoTransition:   false,
			ApprovalRequired: false,
		},
		Notification: models.NotificationConfig{
			Enabled:             false,
			DeadlineWarningDays: 7,
		},
		Roster: models.RosterConfig{
			PageSize: 50,
		},
		Defaults: models.DefaultsConfig{
			EstimateHours: DefaultEstimateHours,
			Availability:  40,
		},
	}
}

// Load reads .mpmconfig from the base path. A missing file yields the
// defaults; a malformed file is an error.
func (cm *viperConfigManager) Load() (*models.Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(".mpmconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("workflow.auto_transition", cfg.Workflow.AutoTransition)
	v.SetDefault("workflow.approval_required", cfg.Workflow.ApprovalRequired)
	v.SetDefault("notification.enabled", cfg.Notification.Enabled)
	v.SetDefault("notification.webhook_url", cfg.Notification.WebhookURL)
	v.SetDefault("notification.deadline_warning_days", cfg.Notification.DeadlineWarningDays)
	v.SetDefault("roster.base_url", cfg.Roster.BaseURL)
	v.SetDefault("roster.token", cfg.Roster.Token)
	v.SetDefault("roster.page_size", cfg.Roster.PageSize)
	v.SetDefault("defaults.estimate_hours", cfg.Defaults.EstimateHours)
	v.SetDefault("defaults.availability", cfg.Defaults.Availability)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .mpmconfig: %w", err)
	}

	cfg.Workflow.AutoTransition = v.GetBool("workflow.auto_transition")
	cfg.Workflow.ApprovalRequired = v.GetBool("workflow.approval_required")
	cfg.Notification.Enabled = v.GetBool("notification.enabled")
	cfg.Notification.WebhookURL = v.GetString("notification.webhook_url")
	cfg.Notification.DeadlineWarningDays = v.GetInt("notification.deadline_warning_days")
	cfg.Roster.BaseURL = v.GetString("roster.base_url")
	cfg.Roster.Token = v.GetString("roster.token")
	cfg.Roster.PageSize = v.GetInt("roster.page_size")
	cfg.Defaults.EstimateHours = v.GetFloat64("defaults.estimate_hours")
	cfg.Defaults.Availability = v.GetFloat64("defaults.availability")

	// Approvers are keyed by phase name; unknown phases are rejected so a
	// typo does not silently disable an approval gate.
	rawApprovers := v.GetStringMapStringSlice("workflow.approvers")
	if len(rawApprovers) > 0 {
		cfg.Workflow.Approvers = make(map[models.Phase][]string, len(rawApprovers))
		for name, ids := range rawApprovers {
			phase := models.Phase(name)
			if !phase.IsValid() {
				return nil, fmt.Errorf("reading .mpmconfig: workflow.approvers key %q is not a valid phase", name)
			}
			cfg.Workflow.Approvers[phase] = ids
		}
	}

	if cfg.Defaults.EstimateHours <= 0 {
		cfg.Defaults.EstimateHours = DefaultEstimateHours
	}
	if cfg.Defaults.Availability <= 0 {
		cfg.Defaults.Availability = 40
	}
	if cfg.Roster.PageSize <= 0 {
		cfg.Roster.PageSize = 50
	}

	return cfg, nil
}
