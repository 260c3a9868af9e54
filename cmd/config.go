package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long:  `View the effective configuration, get a specific key, or set a writable value in the config file.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func stringAccessor(field func(*config.Config) *string) configAccessor {
	return configAccessor{
		get:      func(c *config.Config) any { return *field(c) },
		set:      func(c *config.Config, v string) error { *field(c) = v; return nil },
		writable: true,
	}
}

func durationAccessor(key string, field func(*config.Config) *string) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return clierr.Newf(clierr.InvalidInput, "invalid %s %q: %v", key, v, err)
			}
			*field(c) = v
			return nil
		},
		writable: true,
	}
}

func boolAccessor(key string, get func(*config.Config) bool, field func(*config.Config) **bool) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return get(c) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be true or false", key, v)
			}
			*field(c) = &b
			return nil
		},
		writable: true,
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"config_file": {
			get: func(c *config.Config) any { return c.Path() },
		},
		"data_file":           stringAccessor(func(c *config.Config) *string { return &c.DataFile }),
		"storage.driver":      stringAccessor(func(c *config.Config) *string { return &c.Storage.Driver }),
		"storage.sqlite_path": stringAccessor(func(c *config.Config) *string { return &c.Storage.SQLitePath }),
		"ids":                 stringAccessor(func(c *config.Config) *string { return &c.IDs }),
		"server.addr":         stringAccessor(func(c *config.Config) *string { return &c.Server.Addr }),
		"server.read_header_timeout": durationAccessor("server.read_header_timeout",
			func(c *config.Config) *string { return &c.Server.ReadHeaderTimeout }),
		"server.shutdown_timeout": durationAccessor("server.shutdown_timeout",
			func(c *config.Config) *string { return &c.Server.ShutdownTimeout }),
		"log.level":  stringAccessor(func(c *config.Config) *string { return &c.Log.Level }),
		"log.format": stringAccessor(func(c *config.Config) *string { return &c.Log.Format }),
		"activity.enabled": boolAccessor("activity.enabled", (*config.Config).ActivityEnabled,
			func(c *config.Config) **bool { return &c.Activity.Enabled }),
		"activity.max_entries": {
			get: func(c *config.Config) any { return c.Activity.MaxEntries },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid activity.max_entries %q: must be an integer", v)
				}
				c.Activity.MaxEntries = n
				return nil // validation handles range check
			},
			writable: true,
		},
		"tui.show_created": boolAccessor("tui.show_created", (*config.Config).ShowCreated,
			func(c *config.Config) **bool { return &c.TUI.ShowCreated }),
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"config_file",
		"data_file",
		"storage.driver",
		"storage.sqlite_path",
		"ids",
		"server.addr",
		"server.read_header_timeout",
		"server.shutdown_timeout",
		"log.level",
		"log.format",
		"activity.enabled",
		"activity.max_entries",
		"tui.show_created",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-28s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	// Edit the file as written: environment overrides must not be persisted.
	path := flagConfig
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		found, err := config.FindFile(cwd)
		if err != nil {
			return clierr.New(clierr.ConfigNotFound,
				"no todolist.yml found; run \"todolist init\" first")
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return configError(err, path)
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.ConfigInvalid, err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func unknownConfigKey(key string) error {
	return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
		WithDetails(map[string]any{"valid": allConfigKeys()})
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
