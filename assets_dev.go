//go:build dev

package main

import "io/fs"

// getFrontendFS returns nil in dev mode; the servers then rely on --static-dir.
func getFrontendFS() (fs.FS, error) {
	return nil, nil
}
