package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// routesFile is the on-disk shape of DEV_PROXY_ROUTES_FILE:
//
//	routes:
//	  - prefix: /auth
//	    target: http://localhost:4000
//	    change_origin: true
type routesFile struct {
	Routes []routeEntry `yaml:"routes"`
}

type routeEntry struct {
	Prefix       string `yaml:"prefix"`
	Target       string `yaml:"target"`
	ChangeOrigin bool   `yaml:"change_origin"`
}

// LoadProxyRoutesFile parses extra proxy routes from a YAML file.
func LoadProxyRoutesFile(path string) ([]ProxyRoute, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("reading proxy routes file %q: %w", path, err)
	}
	return ParseProxyRoutes(data)
}

// ParseProxyRoutes parses the YAML routes document.
func ParseProxyRoutes(data []byte) ([]ProxyRoute, error) {
	var f routesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing proxy routes: %w", err)
	}

	routes := make([]ProxyRoute, 0, len(f.Routes))
	for i, e := range f.Routes {
		if !strings.HasPrefix(e.Prefix, "/") {
			return nil, fmt.Errorf("route %d: prefix %q must start with /", i, e.Prefix)
		}
		target, err := url.Parse(e.Target)
		if err != nil {
			return nil, fmt.Errorf("route %d: parsing target %q: %w", i, e.Target, err)
		}
		if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
			return nil, fmt.Errorf("route %d: target %q must be an absolute http(s) URL", i, e.Target)
		}
		routes = append(routes, ProxyRoute{
			PathPrefix:   e.Prefix,
			TargetOrigin: target,
			ChangeOrigin: e.ChangeOrigin,
		})
	}
	return routes, nil
}
