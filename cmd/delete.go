package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/service"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete tasks",
	Long: `Removes every task with the given ID. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq,
			"batch delete requires --yes")
	}

	return withService(func(_ *config.Config, svc *service.Service) error {
		if len(ids) == 1 {
			return deleteSingleTask(svc, ids[0], yes)
		}
		return runBatch(ids, "Deleted", func(id int) error {
			return executeDelete(svc, id)
		})
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(svc *service.Service, id int, yes bool) error {
	ctx := context.Background()
	t, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}

	// Require confirmation in TTY mode unless --yes.
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task #%d %q? [y/N] ", t.ID, t.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	removed, err := svc.Delete(ctx, id)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":  "deleted",
			"id":      t.ID,
			"title":   t.Title,
			"removed": removed,
		})
	}

	output.Messagef(os.Stdout, "Deleted task #%d: %s", t.ID, t.Title)
	if removed > 1 {
		output.Messagef(os.Stdout, "  %d tasks shared this ID", removed)
	}
	return nil
}

// executeDelete removes id without prompting and reports an unknown id.
func executeDelete(svc *service.Service, id int) error {
	removed, err := svc.Delete(context.Background(), id)
	if err != nil {
		return err
	}
	if removed == 0 {
		return todo.NotFound(id)
	}
	return nil
}
