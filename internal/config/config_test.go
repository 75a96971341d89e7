package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingIsNotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadOrInit_WritesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrInit(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ConfigFileName))
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, time.Hour, cfg.UrgentWindow())
	assert.Equal(t, DefaultHistoryDays, cfg.HistoryDays())
	assert.True(t, cfg.Defaults.NotificationEnabled)

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Stats, again.Stats)
}

func TestLoad_MigratesV1(t *testing.T) {
	dir := t.TempDir()
	v1 := "version: 1\ndefaults:\n  notification_enabled: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultUrgentWindow, cfg.Status.UrgentWindow)
	assert.Equal(t, DefaultTitleWidth, cfg.TitleWidth())
	assert.False(t, cfg.Defaults.NotificationEnabled)

	// The migrated file is persisted.
	raw, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "version: 4")
	assert.Contains(t, string(raw), "presets: []")
}

func TestLoad_RejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 99\n"), 0o600))

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad window", func(c *Config) { c.Status.UrgentWindow = "soon" }},
		{"negative window", func(c *Config) { c.Status.UrgentWindow = "-5m" }},
		{"zero history", func(c *Config) { c.Stats.HistoryDays = 0 }},
		{"narrow title", func(c *Config) { c.TUI.TitleWidth = 3 }},
		{"too many presets", func(c *Config) {
			for i := range MaxTagPresets + 1 {
				c.Tags.Presets = append(c.Tags.Presets, fmt.Sprintf("t%d", i))
			}
		}},
		{"duplicate preset", func(c *Config) { c.Tags.Presets = []string{"work", "#work"} }},
		{"blank preset", func(c *Config) { c.Tags.Presets = []string{" "} }},
		{"spaced preset", func(c *Config) { c.Tags.Presets = []string{"deep work"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	assert.NoError(t, NewDefault().Validate())
}

func TestUrgentWindow_FallsBackToDefault(t *testing.T) {
	cfg := NewDefault()
	cfg.Status.UrgentWindow = "15m"
	assert.Equal(t, 15*time.Minute, cfg.UrgentWindow())

	cfg.Status.UrgentWindow = "garbage"
	assert.Equal(t, time.Hour, cfg.UrgentWindow())
}

func TestApplyPresets(t *testing.T) {
	cfg := NewDefault()
	cfg.Tags.Presets = []string{"work", "#home"}
	require.NoError(t, cfg.Validate())

	tags, err := cfg.ApplyPresets("", "work")
	require.NoError(t, err)
	assert.Equal(t, "#work", tags)

	tags, err = cfg.ApplyPresets("#urgent #work", "#work", "home")
	require.NoError(t, err)
	assert.Equal(t, "#urgent #work #home", tags)

	_, err = cfg.ApplyPresets("#a", "gym")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestLoad_KeepsPresets(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOrInit(dir)
	require.NoError(t, err)
	cfg.Tags.Presets = []string{"work", "home"}
	require.NoError(t, cfg.Save())

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "home"}, again.Tags.Presets)
}
