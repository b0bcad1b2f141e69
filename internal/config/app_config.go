package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Todo store backends accepted by TODO_STORE.
const (
	TodoStoreMemory = "memory"
	TodoStoreSQLite = "sqlite"
)

// AppConfig holds the backend API server configuration loaded from environment variables.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 3000, the port the dev server proxies to.
	Port int `envconfig:"PORT" default:"3000"`

	// Host is the interface the API server binds to.
	Host string `envconfig:"MYAXUM_HOST" default:"localhost"`

	// DataDir is the root data directory. Defaults to ~/.myaxum.
	DataDir string `envconfig:"MYAXUM_DATA_DIR"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// TodoStore selects the todo persistence backend: memory or sqlite.
	TodoStore string `envconfig:"TODO_STORE" default:"memory"`

	// StaticDir serves the SPA from disk instead of the embedded build when set.
	StaticDir string `envconfig:"STATIC_DIR"`

	// CORSAllowedOrigins lists origins allowed to call the API directly.
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3001"`
}

// Load reads AppConfig from environment variables using envconfig.
// DataDir defaults to ~/.myaxum if not set.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dataDir, err := resolveDataDir(c.DataDir)
	if err != nil {
		return nil, err
	}
	c.DataDir = dataDir

	c.TodoStore = strings.ToLower(strings.TrimSpace(c.TodoStore))
	switch c.TodoStore {
	case TodoStoreMemory, TodoStoreSQLite:
	default:
		return nil, fmt.Errorf("invalid TODO_STORE %q: must be %s or %s", c.TodoStore, TodoStoreMemory, TodoStoreSQLite)
	}

	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	return parseLevel(c.LogLevel)
}

// LogDir returns the path to the log directory (~/.myaxum/logs).
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DBPath returns the path to the SQLite database used by the sqlite todo store.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "myaxum.db")
}

func resolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".myaxum"), nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
