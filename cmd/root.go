// Package cmd implements the todolist CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/logging"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagConfig  string
	flagFile    string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "todolist",
	Short: "A small todo list with a web page, JSON API, CLI and TUI",
	Long: `todolist keeps a flat list of tasks in a JSON file.
Run "todolist serve" for the web page and API, or use the commands below.
Without a subcommand the list is printed.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runList,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to todolist.yml or todolist.toml")
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "data file (overrides data_file)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError: exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	cliErr, structured := clierr.As(err)
	if outputFormat() == output.FormatJSON {
		if structured {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error: wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, "Error:", err)
	if structured {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(2) //nolint:mnd // storage and other unexpected failures
}

// loadConfig resolves the config file, .env and environment, then applies
// the --file flag on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(config.Options{ConfigPath: flagConfig})
	if err != nil {
		return nil, configError(err, flagConfig)
	}
	if flagFile != "" {
		abs, err := filepath.Abs(flagFile)
		if err != nil {
			return nil, fmt.Errorf("resolving --file: %w", err)
		}
		cfg.DataFile = abs
	}
	return cfg, nil
}

// configError maps config sentinel errors to their CLI codes.
func configError(err error, path string) error {
	switch {
	case errors.Is(err, config.ErrNotFound):
		return clierr.Newf(clierr.ConfigNotFound, "config file not found: %s", path).
			WithDetails(map[string]any{"path": path})
	case errors.Is(err, config.ErrInvalid):
		return clierr.Wrap(clierr.ConfigInvalid, err)
	default:
		return err
	}
}

// newLogger builds the stderr logger from the log section.
func newLogger(cfg *config.Config) *log.Logger {
	return logging.New(os.Stderr, logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Prefix: "todolist",
	})
}

// openService opens the configured store and wraps it in a Service that
// records activity as source. The returned func closes the store.
func openService(cfg *config.Config, logger *log.Logger, source string) (*service.Service, func(), error) {
	st, err := store.Open(store.Options{
		Driver:     cfg.Storage.Driver,
		DataFile:   cfg.DataPath(),
		SQLitePath: cfg.SQLitePath(),
		Warn: func(err error) {
			logger.Warn("ignoring unreadable data file", "file", cfg.DataPath(), "err", err)
		},
	})
	if err != nil {
		return nil, nil, clierr.Wrap(clierr.ConfigInvalid, err)
	}

	opts := []service.Option{
		service.WithIDStrategy(cfg.IDStrategy()),
		service.WithSource(source),
	}
	if cfg.ActivityEnabled() {
		opts = append(opts, service.WithActivity(activity.New(cfg.DataPath(), cfg.Activity.MaxEntries)))
	}

	closeFn := func() {
		if err := store.Close(st); err != nil {
			logger.Warn("closing store", "err", err)
		}
	}
	return service.New(st, opts...), closeFn, nil
}

// withService loads config, opens the service for a CLI command and
// closes it when fn returns.
func withService(fn func(*config.Config, *service.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, closeFn, err := openService(cfg, newLogger(cfg), activity.SourceCLI)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(cfg, svc)
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// parseIDs splits a comma-separated ID string into deduplicated int IDs.
func parseIDs(arg string) ([]int, error) {
	return todo.ParseIDs(arg)
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []int, verb string, fn func(int) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		err := fn(id)
		if err != nil {
			anyFailed = true
			if cliErr, ok := clierr.As(err); ok {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, output.BatchResult{ID: id, OK: false, Error: err.Error()})
			}
		} else {
			results = append(results, output.BatchResult{ID: id, OK: true})
		}
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
				output.Messagef(os.Stdout, "%s task #%d", verb, r.ID)
			} else {
				fmt.Fprintf(os.Stderr, "Error: task #%d: %s\n", r.ID, r.Error)
			}
		}
		if len(ids) > 1 {
			output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
		}
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
