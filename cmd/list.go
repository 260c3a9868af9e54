package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks in stored order with optional filtering and output format control.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().Bool("today", false, "show only tasks completed today")
	listCmd.Flags().Bool("open", false, "show only open tasks")
	listCmd.Flags().Bool("done", false, "show only completed tasks")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

// listFilter narrows the collection for "todolist list".
type listFilter struct {
	today                         date.Date
	onlyToday, onlyOpen, onlyDone bool
	limit                         int
}

func (f listFilter) apply(tasks []todo.Task) []todo.Task {
	if f.onlyToday {
		tasks = todo.CompletedOn(tasks, f.today)
	}
	out := make([]todo.Task, 0, len(tasks))
	for _, t := range tasks {
		if (f.onlyOpen && t.Completed) || (f.onlyDone && !t.Completed) {
			continue
		}
		out = append(out, t)
	}
	if f.limit > 0 && len(out) > f.limit {
		out = out[:f.limit]
	}
	return out
}

func runList(cmd *cobra.Command, _ []string) error {
	var f listFilter
	// The root command shares this RunE but has no list flags.
	if cmd.Flags().Lookup("today") != nil {
		f.onlyToday, _ = cmd.Flags().GetBool("today")
		f.onlyOpen, _ = cmd.Flags().GetBool("open")
		f.onlyDone, _ = cmd.Flags().GetBool("done")
		f.limit, _ = cmd.Flags().GetInt("limit")
	}
	if f.onlyOpen && f.onlyDone {
		return clierr.New(clierr.InvalidInput, "--open and --done are mutually exclusive")
	}

	return withService(func(_ *config.Config, svc *service.Service) error {
		tasks, err := svc.List(context.Background())
		if err != nil {
			return err
		}
		f.today = date.Of(svc.Now())
		return outputTaskList(f.apply(tasks), svc)
	})
}

func outputTaskList(tasks []todo.Task, svc *service.Service) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks)
		return nil
	default:
		output.TaskTable(os.Stdout, tasks, svc.Now())
		return nil
	}
}
