package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Displays every field of a single task, including time left until its target.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}

	t, err := svc.Get(args[0])
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t)
	default:
		output.TaskDetail(os.Stdout, t, time.Now())
	}
	return nil
}
