package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Write a default todolist.yml",
	Long:  `Creates todolist.yml with default settings in DIR (default: the current directory).`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("data-file", "", "data file, relative to the config directory")
	initCmd.Flags().String("storage", "", "storage driver (json, sqlite, memory)")
	initCmd.Flags().String("ids", "", "id strategy (length, max)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	dataFile, _ := cmd.Flags().GetString("data-file")
	driver, _ := cmd.Flags().GetString("storage")
	ids, _ := cmd.Flags().GetString("ids")
	apply := func(c *config.Config) {
		if dataFile != "" {
			c.DataFile = dataFile
		}
		if driver != "" {
			c.Storage.Driver = driver
		}
		if ids != "" {
			c.IDs = ids
		}
	}

	// Reject bad flag values before anything is written.
	probe := config.NewDefault(dir)
	apply(probe)
	if err := probe.Validate(); err != nil {
		return clierr.Wrap(clierr.ConfigInvalid, err)
	}

	const dirMode = 0o750
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfg, err := config.Init(dir)
	if err != nil {
		return err
	}
	if dataFile != "" || driver != "" || ids != "" {
		apply(cfg)
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"config":  cfg.Path(),
			"data":    cfg.DataPath(),
			"storage": cfg.Storage.Driver,
		})
	}

	output.Messagef(os.Stdout, "Initialized %s", cfg.Path())
	output.Messagef(os.Stdout, "  Data:    %s", cfg.DataPath())
	output.Messagef(os.Stdout, "  Storage: %s", cfg.Storage.Driver)
	output.Messagef(os.Stdout, "  Hint:    Start the web page with: todolist serve")
	return nil
}
