package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/planyist/tasktory/internal/board"
	"github.com/planyist/tasktory/internal/clierr"
	"github.com/planyist/tasktory/internal/output"
	"github.com/planyist/tasktory/internal/task"
	"github.com/planyist/tasktory/internal/tracker"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete tasks",
	Long: `Removes tasks from the list and records a DELETE entry holding the task
as it was. Prompts for confirmation in interactive mode.
Multiple IDs require --yes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	deleteCmd.Flags().String("details", "", "note recorded with the deletion")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := board.ParseIDs(args)
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}
	details, _ := cmd.Flags().GetString("details")
	remove := func(id string) (tracker.Result, error) { return svc.Delete(id, details) }

	if len(ids) > 1 {
		return runBatch("Deleted", ids, remove)
	}
	return deleteSingleTask(svc, ids[0], yes, remove)
}

// deleteSingleTask confirms on a terminal unless --yes, then deletes.
func deleteSingleTask(svc *tracker.Service, id string, yes bool, remove func(string) (tracker.Result, error)) error {
	t, err := svc.Get(id)
	if err != nil {
		return err
	}

	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task %s %q? [y/N] ", task.ShortID(t.ID), t.Content)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	res, err := remove(t.ID)
	if err != nil {
		return err
	}
	warnUnlogged(res)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	output.Messagef(os.Stdout, "Deleted task %s: %s", task.ShortID(res.Task.ID), res.Task.Content)
	return nil
}
