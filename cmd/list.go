package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/board"
	"github.com/planyist/tasktory/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks in list order: active tasks first, then completed ones when
--all is given. Statuses are derived from the current time.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolP("all", "a", false, "include completed tasks")
	listCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	listCmd.Flags().String("tag", "", "filter by tag")
	listCmd.Flags().StringP("search", "s", "", "search content and tags (case-insensitive)")
	listCmd.Flags().Bool("highlighted", false, "show only highlighted tasks")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	opts, err := listOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	all, err := svc.List()
	if err != nil {
		return err
	}
	tasks := board.List(all, opts)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks)
	default:
		output.TaskTable(os.Stdout, tasks, cfg.TitleWidth())
	}
	return nil
}

func listOptionsFromFlags(cmd *cobra.Command) (board.ListOptions, error) {
	var opts board.ListOptions
	names, _ := cmd.Flags().GetStringSlice("status")
	statuses, err := board.ParseStatuses(names)
	if err != nil {
		return opts, err
	}
	opts.Filter.Statuses = statuses
	opts.Filter.IncludeCompleted, _ = cmd.Flags().GetBool("all")
	opts.Filter.Tag, _ = cmd.Flags().GetString("tag")
	opts.Filter.Search, _ = cmd.Flags().GetString("search")
	if cmd.Flags().Changed("highlighted") {
		v, _ := cmd.Flags().GetBool("highlighted")
		opts.Filter.Highlighted = &v
	}
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	return opts, nil
}
