package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/planyist/tasktory/internal/clierr"
	"github.com/planyist/tasktory/internal/config"
	"github.com/planyist/tasktory/internal/output"
	"github.com/planyist/tasktory/internal/task"
	"github.com/planyist/tasktory/internal/tracker"
)

var addCmd = &cobra.Command{
	Use:     "add CONTENT",
	Aliases: []string{"create", "new"},
	Short:   "Add a new task",
	Long: `Adds a task with a start and target time ("YYYY-MM-DD HH:MM").

Content can be given as arguments or via --content. The task is appended to
the end of the active list unless --position is set.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("content", "", "task text (alternative to positional arguments)")
	addCmd.Flags().String("tags", "", "free-form tags, e.g. \"#work #home\"")
	addCmd.Flags().StringSlice("preset", nil, "add a tag from tags.presets (repeatable)")
	addCmd.Flags().String("start", "", "start date and time (YYYY-MM-DD HH:MM)")
	addCmd.Flags().String("target", "", "target date and time (YYYY-MM-DD HH:MM)")
	addCmd.Flags().Int("position", 0, "1-based position among active tasks (default: last)")
	addCmd.Flags().Bool("no-notify", false, "disable reminders for this task")
	addCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "tag":
			name = "tags"
		case "due":
			name = "target"
		}
		return pflag.NormalizedName(name)
	})
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	content, err := resolveAddContent(cmd, args)
	if err != nil {
		return err
	}

	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	in := tracker.AddInput{Content: content}
	if in.Tags, err = resolveAddTags(cmd, cfg); err != nil {
		return err
	}
	in.Start, _ = cmd.Flags().GetString("start")
	in.Target, _ = cmd.Flags().GetString("target")
	in.Position, _ = cmd.Flags().GetInt("position")
	if cmd.Flags().Changed("no-notify") {
		off, _ := cmd.Flags().GetBool("no-notify")
		notify := !off
		in.Notify = &notify
	}

	res, err := svc.Add(in)
	if err != nil {
		return err
	}
	warnUnlogged(res)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}

	t := res.Task
	output.Messagef(os.Stdout, "Added task %s: %s", task.ShortID(t.ID), t.Content)
	output.Messagef(os.Stdout, "  %s -> %s | Status: %s", t.StartDateTime, t.TargetDateTime, t.Status)
	if t.Tags != "" {
		output.Messagef(os.Stdout, "  Tags: %s", t.Tags)
	}
	return nil
}

// resolveAddContent returns the task text from either the arguments or --content.
func resolveAddContent(cmd *cobra.Command, args []string) (string, error) {
	flagContent, _ := cmd.Flags().GetString("content")
	positional := strings.TrimSpace(strings.Join(args, " "))

	switch {
	case positional != "" && flagContent != "":
		return "", clierr.New(clierr.InvalidInput,
			"content provided both as arguments and --content flag; use one or the other")
	case positional != "":
		return positional, nil
	default:
		return flagContent, nil
	}
}

// resolveAddTags returns --tags with the tag of every --preset appended.
func resolveAddTags(cmd *cobra.Command, cfg *config.Config) (string, error) {
	tags, _ := cmd.Flags().GetString("tags")
	presets, _ := cmd.Flags().GetStringSlice("preset")
	if len(presets) == 0 {
		return tags, nil
	}
	tags, err := cfg.ApplyPresets(tags, presets...)
	if errors.Is(err, config.ErrUnknownPreset) {
		return "", clierr.Newf(clierr.InvalidInput, "%v (configured: %s)", err, strings.Join(cfg.Tags.Presets, ", "))
	}
	return tags, err
}
