package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Displays a single task with its creation and completion times.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	id, err := todo.ParseID(args[0])
	if err != nil {
		return err
	}

	return withService(func(_ *config.Config, svc *service.Service) error {
		t, err := svc.Get(context.Background(), id)
		if err != nil {
			return err
		}

		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, t)
		case output.FormatCompact:
			output.TaskDetailCompact(os.Stdout, t)
			return nil
		default:
			output.TaskDetail(os.Stdout, t, svc.Now())
			return nil
		}
	})
}
