package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// DevServerPort is the port the development server listens on.
	DevServerPort = 3001
	// UpstreamPort is the port of the backend the /api route forwards to.
	UpstreamPort = 3000
	// APIPathPrefix is the path prefix forwarded to the backend.
	APIPathPrefix = "/api"
	// DefaultAPIHost is used when VITE_API_HOST is unset or empty.
	DefaultAPIHost = "localhost"
)

// ServerBinding is the address the dev server binds to.
type ServerBinding struct {
	Host string
	Port int
}

// Addr returns the host:port listen address.
func (b ServerBinding) Addr() string {
	return net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
}

// ProxyRoute forwards requests whose path starts with PathPrefix to TargetOrigin.
// When ChangeOrigin is set the outbound Host header is rewritten to the target host.
type ProxyRoute struct {
	PathPrefix   string
	TargetOrigin *url.URL
	ChangeOrigin bool
}

// Matches reports whether path is handled by this route. Matching is a plain
// string prefix test, so "/api" also matches "/apis".
func (r ProxyRoute) Matches(path string) bool {
	return strings.HasPrefix(path, r.PathPrefix)
}

// DevServerConfig is the resolved development server configuration.
// It is built once at start-up and never re-reads the environment.
type DevServerConfig struct {
	Binding ServerBinding
	// Routes are matched in order; the first match wins.
	Routes []ProxyRoute

	// StaticDir serves the SPA from disk. Empty means the embedded build.
	StaticDir     string
	CheckInterval time.Duration
	LogLevel      string
	DataDir       string
}

type devServerEnv struct {
	APIHost       string        `envconfig:"VITE_API_HOST"`
	StaticDir     string        `envconfig:"DEV_STATIC_DIR"`
	RoutesFile    string        `envconfig:"DEV_PROXY_ROUTES_FILE"`
	CheckInterval time.Duration `envconfig:"DEV_CHECK_INTERVAL" default:"10s"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	DataDir       string        `envconfig:"MYAXUM_DATA_DIR"`
}

// NewDevServerConfig builds the canonical dev server configuration for the
// given API host: bind {host}:3001 and forward /api to http://{host}:3000.
// An empty host falls back to localhost.
func NewDevServerConfig(apiHost string) *DevServerConfig {
	host := strings.TrimSpace(apiHost)
	if host == "" {
		host = DefaultAPIHost
	}
	return &DevServerConfig{
		Binding: ServerBinding{Host: host, Port: DevServerPort},
		Routes: []ProxyRoute{
			{
				PathPrefix: APIPathPrefix,
				TargetOrigin: &url.URL{
					Scheme: "http",
					Host:   net.JoinHostPort(host, strconv.Itoa(UpstreamPort)),
				},
				ChangeOrigin: true,
			},
		},
		LogLevel: "info",
	}
}

// LoadDevServer reads the dev server configuration from environment variables.
// VITE_API_HOST selects the bind and upstream host; extra routes are appended
// from DEV_PROXY_ROUTES_FILE when set.
func LoadDevServer() (*DevServerConfig, error) {
	var env devServerEnv
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("loading dev server config: %w", err)
	}

	cfg := NewDevServerConfig(env.APIHost)
	cfg.StaticDir = env.StaticDir
	cfg.CheckInterval = env.CheckInterval
	cfg.LogLevel = env.LogLevel

	dataDir, err := resolveDataDir(env.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir

	if env.RoutesFile != "" {
		extra, err := LoadProxyRoutesFile(env.RoutesFile)
		if err != nil {
			return nil, err
		}
		if err := cfg.AddRoutes(extra...); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// AddRoutes appends routes after the existing ones. A prefix that is already
// routed is rejected.
func (c *DevServerConfig) AddRoutes(routes ...ProxyRoute) error {
	for _, r := range routes {
		for _, existing := range c.Routes {
			if existing.PathPrefix == r.PathPrefix {
				return fmt.Errorf("duplicate proxy route for prefix %q", r.PathPrefix)
			}
		}
		c.Routes = append(c.Routes, r)
	}
	return nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
func (c *DevServerConfig) SlogLevel() slog.Level {
	return parseLevel(c.LogLevel)
}

// LogDir returns the path to the log directory.
func (c *DevServerConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// URL returns the base URL the dev server is reachable at.
func (c *DevServerConfig) URL() string {
	return "http://" + c.Binding.Addr()
}
