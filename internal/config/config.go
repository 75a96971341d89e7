package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"go.yaml.in/yaml/v3"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no config file found")
	ErrInvalid  = errors.New("invalid config")

	ErrUnknownPreset = errors.New("unknown tag preset")
)

// Config represents the tracker configuration stored in <root>/config.yml.
type Config struct {
	Version  int            `yaml:"version"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Status   StatusConfig   `yaml:"status"`
	Stats    StatsConfig    `yaml:"stats"`
	TUI      TUIConfig      `yaml:"tui,omitempty"`
	Tags     TagsConfig     `yaml:"tags"`

	// dir is the absolute path to the data root (not serialized).
	dir string `yaml:"-"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	NotificationEnabled bool `yaml:"notification_enabled"`
}

// StatusConfig tunes status derivation.
type StatusConfig struct {
	UrgentWindow string `yaml:"urgent_window"`
}

// StatsConfig tunes the completion history.
type StatsConfig struct {
	HistoryDays int `yaml:"history_days"`
}

// TUIConfig holds board display settings.
type TUIConfig struct {
	TitleWidth int `yaml:"title_width,omitempty"`
}

// TagsConfig holds the tag presets offered when adding tasks.
type TagsConfig struct {
	Presets []string `yaml:"presets"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:  CurrentVersion,
		Defaults: DefaultsConfig{NotificationEnabled: DefaultNotificationEnabled},
		Status:   StatusConfig{UrgentWindow: DefaultUrgentWindow},
		Stats:    StatsConfig{HistoryDays: DefaultHistoryDays},
		TUI:      TUIConfig{TitleWidth: DefaultTitleWidth},
		Tags:     TagsConfig{Presets: []string{}},
	}
}

// Dir returns the absolute path to the data root.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the data root path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	d, err := time.ParseDuration(c.Status.UrgentWindow)
	if err != nil {
		return fmt.Errorf("%w: invalid status.urgent_window %q: %w", ErrInvalid, c.Status.UrgentWindow, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: status.urgent_window must be positive", ErrInvalid)
	}
	const maxHistoryDays = 366
	if c.Stats.HistoryDays < 1 || c.Stats.HistoryDays > maxHistoryDays {
		return fmt.Errorf("%w: stats.history_days must be between 1 and %d", ErrInvalid, maxHistoryDays)
	}
	const minTitleWidth, maxTitleWidth = 10, 200
	if c.TUI.TitleWidth != 0 && (c.TUI.TitleWidth < minTitleWidth || c.TUI.TitleWidth > maxTitleWidth) {
		return fmt.Errorf("%w: tui.title_width must be between %d and %d",
			ErrInvalid, minTitleWidth, maxTitleWidth)
	}
	return validatePresets(c.Tags.Presets)
}

func validatePresets(presets []string) error {
	if len(presets) > MaxTagPresets {
		return fmt.Errorf("%w: at most %d tag presets allowed", ErrInvalid, MaxTagPresets)
	}
	seen := make(map[string]bool, len(presets))
	for _, p := range presets {
		tag := presetTag(p)
		switch {
		case tag == "#":
			return fmt.Errorf("%w: empty tag preset", ErrInvalid)
		case strings.ContainsFunc(tag, unicode.IsSpace):
			return fmt.Errorf("%w: tag preset %q contains whitespace", ErrInvalid, p)
		case seen[tag]:
			return fmt.Errorf("%w: duplicate tag preset %q", ErrInvalid, p)
		}
		seen[tag] = true
	}
	return nil
}

// presetTag returns p as a tag with exactly one leading '#'.
func presetTag(p string) string {
	return "#" + strings.TrimLeft(strings.TrimSpace(p), "#")
}

// ApplyPresets appends the tag of each named preset to tags, skipping tags
// already present. Names match with or without the leading '#'.
func (c *Config) ApplyPresets(tags string, names ...string) (string, error) {
	fields := strings.Fields(tags)
	for _, name := range names {
		want := presetTag(name)
		if !slices.ContainsFunc(c.Tags.Presets, func(p string) bool { return presetTag(p) == want }) {
			return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		if !slices.Contains(fields, want) {
			fields = append(fields, want)
		}
	}
	return strings.Join(fields, " "), nil
}

// UrgentWindow returns status.urgent_window as a duration.
// Falls back to the default if the value is unparseable.
func (c *Config) UrgentWindow() time.Duration {
	d, err := time.ParseDuration(c.Status.UrgentWindow)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultUrgentWindow)
	}
	return d
}

// HistoryDays returns the configured history length.
func (c *Config) HistoryDays() int {
	if c.Stats.HistoryDays < 1 {
		return DefaultHistoryDays
	}
	return c.Stats.HistoryDays
}

// TitleWidth returns the configured content column width.
// Returns DefaultTitleWidth if the value is unset (zero).
func (c *Config) TitleWidth() int {
	if c.TUI.TitleWidth == 0 {
		return DefaultTitleWidth
	}
	return c.TUI.TitleWidth
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(c.dir, dirMode); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads, migrates and validates the config in dir.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	migrated, err := migrate(&cfg)
	if err != nil {
		return nil, err
	}
	if migrated {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrInit loads the config in dir, writing a default one first if none
// exists yet.
func LoadOrInit(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg = NewDefault()
	cfg.SetDir(absDir)
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}
