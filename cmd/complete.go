package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

var completeCmd = &cobra.Command{
	Use:     "complete ID[,ID,...]",
	Aliases: []string{"done"},
	Short:   "Mark tasks as completed",
	Long: `Marks each task as completed now. Completing a completed task refreshes
its completion time. Unknown IDs change nothing and are reported as TASK_NOT_FOUND.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runSetState(args[0], "Completed", (*service.Service).Complete)
	},
}

var uncompleteCmd = &cobra.Command{
	Use:     "uncomplete ID[,ID,...]",
	Aliases: []string{"reopen"},
	Short:   "Reopen completed tasks",
	Long:    `Marks each task as open again and clears its completion time.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runSetState(args[0], "Reopened", (*service.Service).Uncomplete)
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(uncompleteCmd)
}

func runSetState(arg, verb string, op func(*service.Service, context.Context, int) (bool, error)) error {
	ids, err := parseIDs(arg)
	if err != nil {
		return err
	}

	return withService(func(_ *config.Config, svc *service.Service) error {
		return runBatch(ids, verb, func(id int) error {
			found, err := op(svc, context.Background(), id)
			if err != nil {
				return err
			}
			if !found {
				return todo.NotFound(id)
			}
			return nil
		})
	})
}
