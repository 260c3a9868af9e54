// Package config loads todolist settings from todolist.yml (or .toml),
// the environment and a .env file.
package config

const (
	// ConfigFileName is the YAML config file searched for upward from the
	// working directory.
	ConfigFileName = "todolist.yml"
	// TOMLConfigFileName is the TOML alternative, checked after the YAML name.
	TOMLConfigFileName = "todolist.toml"
	// EnvFileName is loaded from the working directory before env overrides.
	EnvFileName = ".env"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1

	// DefaultDataFile is the JSON data file, relative to the config directory.
	DefaultDataFile = "todos.json"
	// DefaultSQLitePath is the database used by the sqlite driver.
	DefaultSQLitePath = "todos.db"
	// DefaultDriver is the storage backend.
	DefaultDriver = "json"
	// DefaultIDs is the id assignment strategy.
	DefaultIDs = "length"
	// DefaultAddr is the listen address of "todolist serve".
	DefaultAddr = ":5000"
	// DefaultReadHeaderTimeout bounds slow clients.
	DefaultReadHeaderTimeout = "5s"
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "5s"
	// DefaultLogLevel is the minimum level logged.
	DefaultLogLevel = "info"
	// DefaultLogFormat is the log line format.
	DefaultLogFormat = "text"
	// DefaultMaxEntries caps the activity log.
	DefaultMaxEntries = 10000
)

// Environment variables that override file settings.
const (
	EnvDataFile  = "TODOLIST_DATA_FILE"
	EnvStorage   = "TODOLIST_STORAGE"
	EnvAddr      = "TODOLIST_ADDR"
	EnvLogLevel  = "TODOLIST_LOG_LEVEL"
	EnvLogFormat = "TODOLIST_LOG_FORMAT"
	EnvIDs       = "TODOLIST_IDS"
)

var (
	drivers    = []string{"json", "sqlite", "memory"}
	logFormats = []string{"text", "json", "logfmt"}
)

// boolPtr returns a pointer to the given bool value.
func boolPtr(v bool) *bool { return &v }
