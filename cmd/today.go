package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/watcher"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Summarize today's progress",
	Long: `Shows how many tasks were completed today, which ones, and what is still open.
The report is rendered as Markdown; use --json for scripts.`,
	Args: cobra.NoArgs,
	RunE: runToday,
}

func init() {
	todayCmd.Flags().BoolP("watch", "w", false, "re-render whenever the data file changes")
	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, _ []string) error {
	watch, _ := cmd.Flags().GetBool("watch")

	return withService(func(cfg *config.Config, svc *service.Service) error {
		if err := renderToday(svc); err != nil {
			return err
		}
		if !watch {
			return nil
		}
		return watchToday(cfg, svc)
	})
}

func renderToday(svc *service.Service) error {
	summary, err := svc.Today(context.Background())
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.TodayCompact(os.Stdout, summary)
		return nil
	default:
		return output.TodayReport(os.Stdout, summary)
	}
}

func watchToday(cfg *config.Config, svc *service.Service) error {
	paths := watchPaths(cfg)
	if len(paths) == 0 {
		return fmt.Errorf("nothing to watch with the %q storage driver", cfg.Storage.Driver)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(paths, func() {
		if outputFormat() != output.FormatJSON {
			clearScreen()
		}
		if renderErr := renderToday(svc); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering report: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
