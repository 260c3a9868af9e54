package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent changes",
	Long:  `Prints the activity log: one line per add, complete, uncomplete, delete or API update.`,
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)") //nolint:mnd // default page
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("limit")

	entries, err := activity.New(cfg.DataPath(), cfg.Activity.MaxEntries).Read(n)
	if err != nil {
		return fmt.Errorf("reading activity log: %w", err)
	}
	if entries == nil {
		entries = []activity.Entry{}
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, "%s %s #%d %s\n", e.Timestamp.Format(time.DateTime), e.Action, e.TaskID, e.Detail)
		}
		return nil
	default:
		output.ActivityTable(os.Stdout, entries)
		return nil
	}
}
