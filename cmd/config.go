package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/clierr"
	"github.com/planyist/tasktory/internal/config"
	"github.com/planyist/tasktory/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configKey is one readable (and optionally writable) config setting.
// set is nil for read-only keys.
type configKey struct {
	name string
	get  func(*config.Config) any
	set  func(*config.Config, string) error
}

// configKeys lists the settings in display order.
var configKeys = []configKey{
	{name: "version", get: func(c *config.Config) any { return c.Version }},
	{name: "root", get: func(c *config.Config) any { return c.Dir() }},
	{
		name: "defaults.notification_enabled",
		get:  func(c *config.Config) any { return c.Defaults.NotificationEnabled },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput,
					"invalid defaults.notification_enabled %q: must be true or false", v)
			}
			c.Defaults.NotificationEnabled = b
			return nil
		},
	},
	{
		name: "status.urgent_window",
		get:  func(c *config.Config) any { return c.Status.UrgentWindow },
		set:  func(c *config.Config, v string) error { c.Status.UrgentWindow = v; return nil },
	},
	{
		name: "stats.history_days",
		get:  func(c *config.Config) any { return c.Stats.HistoryDays },
		set:  intSetter("stats.history_days", func(c *config.Config, n int) { c.Stats.HistoryDays = n }),
	},
	{
		name: "tui.title_width",
		get:  func(c *config.Config) any { return c.TitleWidth() },
		set:  intSetter("tui.title_width", func(c *config.Config, n int) { c.TUI.TitleWidth = n }),
	},
	{
		name: "tags.presets",
		get:  func(c *config.Config) any { return c.Tags.Presets },
		set: func(c *config.Config, v string) error {
			// Comma- or space-separated; an empty value clears the list.
			c.Tags.Presets = strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
			if c.Tags.Presets == nil {
				c.Tags.Presets = []string{}
			}
			return nil
		},
	},
}

func findConfigKey(name string) (configKey, error) {
	for _, k := range configKeys {
		if k.name == name {
			return k, nil
		}
	}
	return configKey{}, clierr.Newf(clierr.InvalidInput, "unknown config key %q", name)
}

// intSetter parses v as an integer; range checks are left to Validate.
func intSetter(key string, assign func(*config.Config, int)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be an integer", key, v)
		}
		assign(c, n)
		return nil
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(configKeys))
		for _, k := range configKeys {
			m[k.name] = k.get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}
	for _, k := range configKeys {
		fmt.Fprintf(os.Stdout, "%-30s %v\n", k.name, k.get(cfg))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	k, err := findConfigKey(args[0])
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, k.get(cfg))
	}
	fmt.Fprintln(os.Stdout, k.get(cfg))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	k, err := findConfigKey(args[0])
	if err != nil {
		return err
	}
	if k.set == nil {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", k.name)
	}

	if err := k.set(cfg, args[1]); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": k.name, "value": k.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %v", k.name, k.get(cfg))
	return nil
}
