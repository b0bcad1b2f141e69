package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes key for the duration of the test; t.Setenv restores it.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadDevServer_HostResolution(t *testing.T) {
	tests := []struct {
		name       string
		apiHost    *string
		wantHost   string
		wantTarget string
		wantAddr   string
	}{
		{
			name:       "unset falls back to localhost",
			wantHost:   "localhost",
			wantTarget: "http://localhost:3000",
			wantAddr:   "localhost:3001",
		},
		{
			name:       "empty falls back to localhost",
			apiHost:    ptr(""),
			wantHost:   "localhost",
			wantTarget: "http://localhost:3000",
			wantAddr:   "localhost:3001",
		},
		{
			name:       "explicit address",
			apiHost:    ptr("10.0.0.5"),
			wantHost:   "10.0.0.5",
			wantTarget: "http://10.0.0.5:3000",
			wantAddr:   "10.0.0.5:3001",
		},
		{
			name:       "ipv6 literal",
			apiHost:    ptr("::1"),
			wantHost:   "::1",
			wantTarget: "http://[::1]:3000",
			wantAddr:   "[::1]:3001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MYAXUM_DATA_DIR", "/tmp/test-myaxum")
			unsetEnv(t, "DEV_PROXY_ROUTES_FILE")
			if tt.apiHost == nil {
				unsetEnv(t, "VITE_API_HOST")
			} else {
				t.Setenv("VITE_API_HOST", *tt.apiHost)
			}

			cfg, err := LoadDevServer()
			require.NoError(t, err)

			assert.Equal(t, tt.wantHost, cfg.Binding.Host)
			assert.Equal(t, 3001, cfg.Binding.Port)
			assert.Equal(t, tt.wantAddr, cfg.Binding.Addr())
			require.Len(t, cfg.Routes, 1)
			assert.Equal(t, "/api", cfg.Routes[0].PathPrefix)
			assert.Equal(t, tt.wantTarget, cfg.Routes[0].TargetOrigin.String())
			assert.True(t, cfg.Routes[0].ChangeOrigin)
		})
	}
}

func TestLoadDevServer_ResolvedOnce(t *testing.T) {
	t.Setenv("MYAXUM_DATA_DIR", "/tmp/test-myaxum")
	t.Setenv("VITE_API_HOST", "10.0.0.5")

	cfg, err := LoadDevServer()
	require.NoError(t, err)

	t.Setenv("VITE_API_HOST", "10.9.9.9")
	assert.Equal(t, "10.0.0.5", cfg.Binding.Host)
	assert.Equal(t, "http://10.0.0.5:3000", cfg.Routes[0].TargetOrigin.String())
}

func TestLoadDevServer_Ambient(t *testing.T) {
	t.Setenv("MYAXUM_DATA_DIR", "/data")
	t.Setenv("DEV_STATIC_DIR", "./dist")
	t.Setenv("DEV_CHECK_INTERVAL", "3s")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadDevServer()
	require.NoError(t, err)
	assert.Equal(t, "./dist", cfg.StaticDir)
	assert.Equal(t, 3*time.Second, cfg.CheckInterval)
	assert.Equal(t, "/data/logs", cfg.LogDir())
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadDevServer_RoutesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
routes:
  - prefix: /auth
    target: http://auth.local:4000
    change_origin: true
  - prefix: /ws
    target: http://localhost:5000
`), 0o600))

	t.Setenv("MYAXUM_DATA_DIR", dir)
	t.Setenv("VITE_API_HOST", "")
	t.Setenv("DEV_PROXY_ROUTES_FILE", path)

	cfg, err := LoadDevServer()
	require.NoError(t, err)
	require.Len(t, cfg.Routes, 3)

	assert.Equal(t, "/api", cfg.Routes[0].PathPrefix)
	assert.Equal(t, "/auth", cfg.Routes[1].PathPrefix)
	assert.Equal(t, "http://auth.local:4000", cfg.Routes[1].TargetOrigin.String())
	assert.True(t, cfg.Routes[1].ChangeOrigin)
	assert.Equal(t, "/ws", cfg.Routes[2].PathPrefix)
	assert.False(t, cfg.Routes[2].ChangeOrigin)
}

func TestLoadDevServer_DuplicatePrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routes:\n  - prefix: /api\n    target: http://other:3000\n"), 0o600))

	t.Setenv("MYAXUM_DATA_DIR", dir)
	t.Setenv("DEV_PROXY_ROUTES_FILE", path)

	_, err := LoadDevServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate proxy route")
}

func TestParseProxyRoutes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"bad yaml", "routes: [", "parsing proxy routes"},
		{"relative prefix", "routes:\n  - prefix: api\n    target: http://x:1\n", "must start with /"},
		{"missing scheme", "routes:\n  - prefix: /a\n    target: localhost:4000\n", "absolute http(s) URL"},
		{"missing host", "routes:\n  - prefix: /a\n    target: http://\n", "absolute http(s) URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProxyRoutes([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProxyRoute_Matches(t *testing.T) {
	r := NewDevServerConfig("").Routes[0]

	assert.True(t, r.Matches("/api"))
	assert.True(t, r.Matches("/api/json_sample"))
	assert.True(t, r.Matches("/apis"))
	assert.False(t, r.Matches("/"))
	assert.False(t, r.Matches("/index.html"))
	assert.False(t, r.Matches("/v1/api"))
}

func ptr(s string) *string { return &s }
