package cmd

import "io/fs"

// WebFS is set by main() before Execute() is called.
// It holds the embedded SPA build; nil when built with the dev tag.
var WebFS fs.FS
