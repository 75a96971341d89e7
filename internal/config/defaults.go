// Package config handles the tracker's user configuration.
package config

const (
	// ConfigFileName is the name of the config file within the data root.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 4

	// DefaultUrgentWindow is how long before the target a task turns urgent.
	DefaultUrgentWindow = "1h"
	// DefaultHistoryDays is the length of the completion history chart.
	DefaultHistoryDays = 30
	// DefaultTitleWidth is the content column width in the board and tables.
	DefaultTitleWidth = 48
	// DefaultNotificationEnabled is the notification flag for new tasks.
	DefaultNotificationEnabled = true
	// MaxTagPresets bounds tags.presets.
	MaxTagPresets = 10
)
