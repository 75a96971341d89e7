// Package cmd implements the tasktory CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planyist/tasktory/internal/clierr"
	"github.com/planyist/tasktory/internal/config"
	"github.com/planyist/tasktory/internal/output"
	"github.com/planyist/tasktory/internal/paths"
	"github.com/planyist/tasktory/internal/tracker"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagNoColor bool
	flagVerbose bool
)

// logger receives warnings that never fail a command, such as a log
// record that could not be written.
var logger = slog.New(slog.DiscardHandler)

var rootCmd = &cobra.Command{
	Use:   "tasktory",
	Short: "Personal task tracker with a daily activity log",
	Long: `tasktory keeps an ordered to-do list and records every change in a
day-partitioned activity log, from which it counts completed tasks per day.
Run tasktory without arguments to open the interactive board.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().String("root", "", "data root directory (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug details to stderr")

	viper.SetEnvPrefix("TASKTORY")
	_ = viper.BindEnv("root")
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	cliErr := clierr.From(err)
	if outputFormat() == output.FormatJSON {
		output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
		os.Exit(cliErr.ExitCode())
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var coded *clierr.Error
	if errors.As(err, &coded) {
		os.Exit(coded.ExitCode())
	}
	os.Exit(1)
}

// resolveRoot returns the data root: --root, then TASKTORY_ROOT, then the
// user config directory.
func resolveRoot() (string, error) {
	if root := viper.GetString("root"); root != "" {
		return root, nil
	}
	return paths.DefaultRoot()
}

// loadConfig loads <root>/config.yml, writing defaults on first use.
func loadConfig() (*config.Config, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}
	return config.LoadOrInit(root)
}

// newService opens the tracker over the resolved root.
func newService() (*tracker.Service, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	svc, err := tracker.New(cfg.Dir(), tracker.WithConfig(cfg), tracker.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// warnUnlogged reports a saved mutation whose activity record was lost.
func warnUnlogged(res tracker.Result) {
	if w := res.Warning(); w != "" {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(verb string, ids []string, fn func(string) (tracker.Result, error)) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		res, err := fn(id)
		if err != nil {
			anyFailed = true
			cliErr := clierr.From(err)
			results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			continue
		}
		results = append(results, output.BatchResult{ID: res.Task.ID, OK: true, Logged: res.Logged, Warning: res.Warning()})
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			switch {
			case !r.OK:
				fmt.Fprintf(os.Stderr, "Error: task %s: %s\n", r.ID, r.Error)
			case r.Warning != "":
				succeeded++
				fmt.Fprintf(os.Stderr, "Warning: task %s: %s\n", r.ID, r.Warning)
			default:
				succeeded++
			}
		}
		output.Messagef(os.Stdout, "%s %d/%d tasks", verb, succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
