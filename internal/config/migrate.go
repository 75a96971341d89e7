package config

import "fmt"

// upgrades[i] fills in the fields introduced by version i+2. The driver in
// migrate bumps Version after each step.
var upgrades = []func(*Config){
	// v2: status derivation became configurable.
	func(cfg *Config) {
		if cfg.Status.UrgentWindow == "" {
			cfg.Status.UrgentWindow = DefaultUrgentWindow
		}
	},
	// v3: stats history length and board column width.
	func(cfg *Config) {
		if cfg.Stats.HistoryDays == 0 {
			cfg.Stats.HistoryDays = DefaultHistoryDays
		}
		if cfg.TUI.TitleWidth == 0 {
			cfg.TUI.TitleWidth = DefaultTitleWidth
		}
	},
	// v4: tag presets.
	func(cfg *Config) {
		if cfg.Tags.Presets == nil {
			cfg.Tags.Presets = []string{}
		}
	},
}

// migrate brings cfg up to CurrentVersion one version at a time and
// reports whether anything changed.
func migrate(cfg *Config) (bool, error) {
	switch {
	case cfg.Version == CurrentVersion:
		return false, nil
	case cfg.Version > CurrentVersion:
		return false, fmt.Errorf("%w: config version %d is newer than supported version %d (upgrade tasktory)",
			ErrInvalid, cfg.Version, CurrentVersion)
	case cfg.Version < 1:
		return false, fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		step := cfg.Version - 1
		if step >= len(upgrades) {
			return false, fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		upgrades[step](cfg)
		cfg.Version++
	}
	return true, nil
}
