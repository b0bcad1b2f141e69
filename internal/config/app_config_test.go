package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, c.SlogLevel())
		})
	}
}

func TestAppConfig_DirectoryPaths(t *testing.T) {
	c := &AppConfig{DataDir: "/data"}
	assert.Equal(t, "/data/logs", c.LogDir())
	assert.Equal(t, "/data/myaxum.db", c.DBPath())
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MYAXUM_DATA_DIR", "/tmp/test-myaxum")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TODO_STORE", "SQLite")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a:3001,http://b:3001")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/test-myaxum", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, TodoStoreSQLite, cfg.TodoStore)
	assert.Equal(t, []string{"http://a:3001", "http://b:3001"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MYAXUM_DATA_DIR", "/tmp/test-myaxum")
	for _, key := range []string{"PORT", "MYAXUM_HOST", "LOG_LEVEL", "TODO_STORE", "CORS_ALLOWED_ORIGINS"} {
		unsetEnv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, TodoStoreMemory, cfg.TodoStore)
	assert.Equal(t, []string{"http://localhost:3001"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidTodoStore(t *testing.T) {
	t.Setenv("MYAXUM_DATA_DIR", "/tmp/test-myaxum")
	t.Setenv("TODO_STORE", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid TODO_STORE")
}
