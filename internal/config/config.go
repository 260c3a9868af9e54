package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no todolist config found (run 'todolist init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the todolist configuration.
type Config struct {
	Version  int            `yaml:"version" toml:"version"`
	DataFile string         `yaml:"data_file" toml:"data_file"`
	Storage  StorageConfig  `yaml:"storage" toml:"storage"`
	IDs      string         `yaml:"ids" toml:"ids"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Log      LogConfig      `yaml:"log" toml:"log"`
	Activity ActivityConfig `yaml:"activity" toml:"activity"`
	TUI      TUIConfig      `yaml:"tui" toml:"tui"`

	// dir is the directory relative paths resolve against (not serialized).
	dir string
	// path is the file the config was read from; empty for defaults.
	path string
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver     string `yaml:"driver" toml:"driver"`
	SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`
}

// ServerConfig holds "todolist serve" settings.
type ServerConfig struct {
	Addr              string `yaml:"addr" toml:"addr"`
	ReadHeaderTimeout string `yaml:"read_header_timeout" toml:"read_header_timeout"`
	ShutdownTimeout   string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// ActivityConfig controls the activity log.
type ActivityConfig struct {
	Enabled    *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	MaxEntries int   `yaml:"max_entries" toml:"max_entries"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	ShowCreated *bool `yaml:"show_created,omitempty" toml:"show_created,omitempty"`
}

// NewDefault creates a Config with default values rooted at dir.
func NewDefault(dir string) *Config {
	cfg := &Config{Version: CurrentVersion, DataFile: DefaultDataFile}
	cfg.applyDefaults()
	cfg.dir = dir
	return cfg
}

// applyDefaults fills every unset field.
func (c *Config) applyDefaults() {
	if c.DataFile == "" {
		c.DataFile = DefaultDataFile
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultDriver
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = DefaultSQLitePath
	}
	if c.IDs == "" {
		c.IDs = DefaultIDs
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Activity.Enabled == nil {
		c.Activity.Enabled = boolPtr(true)
	}
	if c.Activity.MaxEntries == 0 {
		c.Activity.MaxEntries = DefaultMaxEntries
	}
	if c.TUI.ShowCreated == nil {
		c.TUI.ShowCreated = boolPtr(true)
	}
}

// Dir returns the directory relative paths resolve against.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the directory relative paths resolve against.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// DataPath returns the absolute path to the JSON data file.
func (c *Config) DataPath() string {
	return c.resolve(c.DataFile)
}

// SQLitePath returns the absolute path to the SQLite database.
func (c *Config) SQLitePath() string {
	return c.resolve(c.Storage.SQLitePath)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// IDStrategy returns the parsed id assignment strategy.
func (c *Config) IDStrategy() todo.IDStrategy {
	s, err := todo.ParseIDStrategy(c.IDs)
	if err != nil {
		return todo.IDsByLength
	}
	return s
}

// ReadHeaderTimeout parses server.read_header_timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return parseDuration(c.Server.ReadHeaderTimeout, DefaultReadHeaderTimeout)
}

// ShutdownTimeout parses server.shutdown_timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, DefaultShutdownTimeout)
}

func parseDuration(s, fallback string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

// ActivityEnabled reports whether mutations are written to the activity log.
func (c *Config) ActivityEnabled() bool {
	return c.Activity.Enabled == nil || *c.Activity.Enabled
}

// ShowCreated reports whether the TUI shows creation times.
func (c *Config) ShowCreated() bool {
	return c.TUI.ShowCreated == nil || *c.TUI.ShowCreated
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.DataFile == "" {
		return fmt.Errorf("%w: data_file is required", ErrInvalid)
	}
	if !slices.Contains(drivers, c.Storage.Driver) {
		return fmt.Errorf("%w: storage.driver %q must be one of %s",
			ErrInvalid, c.Storage.Driver, strings.Join(drivers, ", "))
	}
	if c.Storage.Driver == "sqlite" && c.Storage.SQLitePath == "" {
		return fmt.Errorf("%w: storage.sqlite_path is required for the sqlite driver", ErrInvalid)
	}
	if _, err := todo.ParseIDStrategy(c.IDs); err != nil {
		return fmt.Errorf("%w: ids: %w", ErrInvalid, err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	}
	for key, v := range map[string]string{
		"server.read_header_timeout": c.Server.ReadHeaderTimeout,
		"server.shutdown_timeout":    c.Server.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%w: invalid %s %q: %w", ErrInvalid, key, v, err)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("%w: log.format %q must be one of %s",
			ErrInvalid, c.Log.Format, strings.Join(logFormats, ", "))
	}
	if c.Activity.MaxEntries < 0 {
		return fmt.Errorf("%w: activity.max_entries must be >= 0", ErrInvalid)
	}
	return nil
}

// Init writes a default todolist.yml into dir.
func Init(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return nil, clierr.Newf(clierr.ConfigExists, "%s already exists", path).
			WithDetails(map[string]any{"path": path})
	}

	cfg := NewDefault(absDir)
	cfg.path = path
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config back to the file it came from, as TOML when the
// file name ends in .toml and YAML otherwise.
func (c *Config) Save() error {
	if c.path == "" {
		return clierr.New(clierr.ConfigNotFound, ErrNotFound.Error())
	}
	var (
		data []byte
		err  error
	)
	if isTOML(c.path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.path, data, fileMode)
}

// Load reads, migrates and validates the config file at path.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if isTOML(absPath) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalid, absPath, err)
	}

	cfg.dir = filepath.Dir(absPath)
	cfg.path = absPath

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindFile walks upward from startDir looking for todolist.yml or
// todolist.toml and returns the absolute path of the first match.
func FindFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		for _, name := range []string{ConfigFileName, TOMLConfigFileName} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
