package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/schema"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Check a data file against the JSON Schema",
	Long: `Validates the data file (or FILE) against the embedded JSON Schema and
lists every violation. Duplicate IDs are reported as warnings.
Exits with status 1 when the file is invalid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if d := cfg.Storage.Driver; d != "" && d != store.DriverJSON {
			return clierr.Newf(clierr.InvalidInput,
				"validate checks JSON data files; storage driver is %q", d)
		}
		path = cfg.DataPath()
	}

	res, err := schema.ValidateFile(path)
	if err != nil {
		return clierr.Wrap(clierr.SchemaInvalid, err).
			WithDetails(map[string]any{"file": path})
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, res); err != nil {
			return err
		}
	} else {
		printValidation(res)
	}

	if !res.Valid {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

func printValidation(res schema.Result) {
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	if res.Valid {
		output.Messagef(os.Stdout, "%s: valid", res.File)
		return
	}
	output.Messagef(os.Stdout, "%s: %d violation(s)", res.File, len(res.Violations))
	for _, v := range res.Violations {
		path := v.Path
		if path == "" {
			path = "/"
		}
		output.Messagef(os.Stdout, "  %s: %s", path, v.Message)
	}
}
