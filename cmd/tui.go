package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
	"github.com/twiced-technology-gmbh/todolist/internal/tui"
	"github.com/twiced-technology-gmbh/todolist/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task list",
	Long: `Opens a full-screen list of tasks. Changes made elsewhere (the web page,
another terminal) appear as soon as the data file is rewritten.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen; keep only errors.
	logger := newLogger(cfg)
	logger.SetLevel(log.ErrorLevel)
	svc, closeFn, err := openService(cfg, logger, activity.SourceTUI)
	if err != nil {
		return err
	}
	defer closeFn()

	model := tui.NewList(svc, tui.Options{
		ShowCreated: cfg.ShowCreated(),
		WatchPaths:  watchPaths(cfg),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.List, p *tea.Program) {
	paths := model.WatchPaths()
	if len(paths) == 0 {
		return
	}
	w, err := watcher.New(paths, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}

// watchPaths returns the files a storage driver rewrites on save.
func watchPaths(cfg *config.Config) []string {
	switch cfg.Storage.Driver {
	case store.DriverMemory:
		return nil
	case store.DriverSQLite:
		return []string{cfg.SQLitePath(), cfg.SQLitePath() + "-wal"}
	default:
		return []string{cfg.DataPath()}
	}
}
