package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".docmirror"

// ErrConfigNotFound is returned when the configuration file does not
// exist. Callers decide whether that is fatal based on whether the path
// was explicitly given.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration: global defaults plus
// per-host overrides keyed by hostname.
//
// Example:
//
//	defaults:
//	  user_agent: "docmirror/1.0"
//	hosts:
//	  open-api.docs.example.com:
//	    headers:
//	      Authorization: "Bearer token"
//	    exclude_tags: [script, style, nav]
type File struct {
	// Defaults apply to every host unless overridden.
	Defaults HostConfig `yaml:"defaults"`

	// Hosts maps a hostname to its overrides.
	Hosts map[string]HostConfig `yaml:"hosts"`
}

// HostConfig holds per-host fetch settings.
type HostConfig struct {
	// UserAgent overrides the User-Agent header for this host.
	UserAgent string `yaml:"user_agent"`

	// Headers are extra request headers, e.g. Authorization for
	// references behind an API key.
	Headers map[string]string `yaml:"headers"`

	// ExcludeTags overrides the scrape backend's excluded HTML tags.
	ExcludeTags []string `yaml:"exclude_tags"`
}

// LoadConfigFile loads per-host configuration from a YAML file.
// A missing file yields ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Hosts == nil {
		cf.Hosts = make(map[string]HostConfig)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file:
// an explicit path first, then .docmirror in the current directory,
// then the XDG config directory. Returns "" when none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	candidate := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return ""
}

// ForHost returns the effective host configuration: the defaults with
// the host's overrides applied on top.
func (f *File) ForHost(host string) HostConfig {
	if f == nil {
		return HostConfig{}
	}

	result := f.Defaults
	override, ok := f.Hosts[host]
	if !ok {
		return result
	}

	if override.UserAgent != "" {
		result.UserAgent = override.UserAgent
	}
	if len(override.Headers) > 0 {
		merged := make(map[string]string, len(result.Headers)+len(override.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range override.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}
	if len(override.ExcludeTags) > 0 {
		result.ExcludeTags = override.ExcludeTags
	}

	return result
}
