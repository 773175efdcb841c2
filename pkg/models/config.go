package models

// WorkflowConfig controls phase-transition behavior.
type WorkflowConfig struct {
	AutoTransition   bool               `yaml:"auto_transition" mapstructure:"auto_transition"`
	ApprovalRequired bool               `yaml:"approval_required" mapstructure:"approval_required"`
	Approvers        map[Phase][]string `yaml:"approvers,omitempty" mapstructure:"approvers"`
}

// NotificationConfig holds settings for the Membry webhook notifier.
type NotificationConfig struct {
	Enabled             bool   `yaml:"enabled" mapstructure:"enabled"`
	WebhookURL          string `yaml:"webhook_url,omitempty" mapstructure:"webhook_url"`
	DeadlineWarningDays int    `yaml:"deadline_warning_days" mapstructure:"deadline_warning_days"`
}

// RosterConfig holds connection settings for the Membry roster provider.
type RosterConfig struct {
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Token    string `yaml:"token,omitempty" mapstructure:"token"`
	PageSize int    `yaml:"page_size" mapstructure:"page_size"`
}

// DefaultsConfig holds fallback values applied when tasks or members omit
// scheduling attributes.
type DefaultsConfig struct {
	EstimateHours float64 `yaml:"estimate_hours" mapstructure:"estimate_hours"`
	Availability  float64 `yaml:"availability" mapstructure:"availability"`
}

// Config is the full configuration read from .mpmconfig via Viper.
type Config struct {
	Workflow     WorkflowConfig     `yaml:"workflow" mapstructure:"workflow"`
	Notification NotificationConfig `yaml:"notification" mapstructure:"notification"`
	Roster       RosterConfig       `yaml:"roster" mapstructure:"roster"`
	Defaults     DefaultsConfig     `yaml:"defaults" mapstructure:"defaults"`
}
