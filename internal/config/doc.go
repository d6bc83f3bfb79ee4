// Package config holds the runtime configuration for docmirror.
// It defines documented defaults, validation with sentinel errors,
// XDG directory helpers, and the optional per-host YAML config file.
package config
