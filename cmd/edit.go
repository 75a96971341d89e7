package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/output"
	"github.com/planyist/tasktory/internal/task"
	"github.com/planyist/tasktory/internal/tracker"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
The start/target pair is re-validated when either one changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("content", "", "new task text")
	editCmd.Flags().String("tags", "", "new tags (empty string clears)")
	editCmd.Flags().String("start", "", "new start date and time (YYYY-MM-DD HH:MM)")
	editCmd.Flags().String("target", "", "new target date and time (YYYY-MM-DD HH:MM)")
	editCmd.Flags().Int("position", 0, "move to this 1-based position among active tasks")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}

	res, err := svc.Edit(args[0], editInputFromFlags(cmd))
	if err != nil {
		return err
	}
	warnUnlogged(res)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	output.Messagef(os.Stdout, "Updated task %s: %s", task.ShortID(res.Task.ID), res.Task.Content)
	return nil
}

// editInputFromFlags sets only the fields whose flags were given.
func editInputFromFlags(cmd *cobra.Command) tracker.EditInput {
	var in tracker.EditInput
	str := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	in.Content = str("content")
	in.Tags = str("tags")
	in.Start = str("start")
	in.Target = str("target")
	if cmd.Flags().Changed("position") {
		v, _ := cmd.Flags().GetInt("position")
		in.Position = &v
	}
	return in
}
