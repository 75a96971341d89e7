package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/planyist/tasktory/internal/activity"
	"github.com/planyist/tasktory/internal/date"
	"github.com/planyist/tasktory/internal/output"
	"github.com/planyist/tasktory/internal/task"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Inspect the daily activity log",
}

var logPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the log file path for a day",
	Args:  cobra.NoArgs,
	RunE:  runLogPath,
}

var logShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the activity records of a day",
	Long: `Prints every record logged on a day in file order. Records in older
JSON and fixed-width log files for the same day are included. Malformed
lines are skipped with a warning on stderr.`,
	Args: cobra.NoArgs,
	RunE: runLogShow,
}

func init() {
	for _, c := range []*cobra.Command{logPathCmd, logShowCmd} {
		c.Flags().String("date", "", "day to inspect (YYYY-MM-DD, default today)")
		logCmd.AddCommand(c)
	}
	rootCmd.AddCommand(logCmd)
}

// logDate returns --date or today.
func logDate(cmd *cobra.Command, today date.Date) (date.Date, error) {
	v, _ := cmd.Flags().GetString("date")
	if v == "" {
		return today, nil
	}
	d, err := date.Parse(v)
	if err != nil {
		return date.Date{}, task.ValidateDate("date", v, err)
	}
	return d, nil
}

func runLogPath(cmd *cobra.Command, _ []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	d, err := logDate(cmd, svc.Today())
	if err != nil {
		return err
	}
	path := svc.Log().PathFor(d)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"date": d.String(), "path": path})
	}
	fmt.Fprintln(os.Stdout, path)
	return nil
}

func runLogShow(cmd *cobra.Command, _ []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	d, err := logDate(cmd, svc.Today())
	if err != nil {
		return err
	}

	records, warnings := svc.Log().Records(d)
	printWarnings(warnings)

	switch outputFormat() {
	case output.FormatJSON:
		if records == nil {
			records = []activity.Record{}
		}
		return output.JSON(os.Stdout, records)
	case output.FormatCompact:
		output.RecordCompact(os.Stdout, records)
	default:
		output.RecordTable(os.Stdout, records)
	}
	return nil
}

// printWarnings writes log read warnings to stderr.
func printWarnings(warnings []activity.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed line: %v\n", w)
	}
}
