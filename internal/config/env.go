package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Options tell Resolve where to look.
type Options struct {
	// ConfigPath is an explicit config file; empty means search upward.
	ConfigPath string
	// WorkDir is where the search and .env lookup start.
	WorkDir string
}

// Resolve builds the effective config: defaults, then the config file (the
// explicit one, or the first found upward from WorkDir), then .env and the
// process environment. Command-line flags are applied by the caller.
func Resolve(opts Options) (*Config, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		workDir = wd
	}

	var cfg *Config
	switch {
	case opts.ConfigPath != "":
		loaded, err := Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		path, err := FindFile(workDir)
		switch {
		case err == nil:
			if cfg, err = Load(path); err != nil {
				return nil, err
			}
		case errors.Is(err, ErrNotFound):
			abs, absErr := filepath.Abs(workDir)
			if absErr != nil {
				return nil, fmt.Errorf("resolving path: %w", absErr)
			}
			cfg = NewDefault(abs)
		default:
			return nil, err
		}
	}

	if err := LoadDotEnv(workDir); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads dir/.env into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from TODOLIST_* variables found through lookup.
// A relative TODOLIST_DATA_FILE resolves against the working directory.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataFile); ok && v != "" {
		abs, err := filepath.Abs(v)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", EnvDataFile, err)
		}
		c.DataFile = abs
	}
	overrides := map[string]*string{
		EnvStorage:   &c.Storage.Driver,
		EnvAddr:      &c.Server.Addr,
		EnvLogLevel:  &c.Log.Level,
		EnvLogFormat: &c.Log.Format,
		EnvIDs:       &c.IDs,
	}
	for name, field := range overrides {
		if v, ok := lookup(name); ok && v != "" {
			*field = v
		}
	}
	return nil
}
