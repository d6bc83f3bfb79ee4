package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The download defaults reproduce what
// ReadMe-hosted reference sites tolerate well; the scrape defaults are
// more conservative because the backend CLI can emit truncated JSON
// when several large pages render concurrently.
const (
	// DefaultJobs is the worker count for the plaintext route.
	DefaultJobs = 6

	// DefaultScrapeJobs is the worker count for the scrape backend.
	// Higher values can cause truncated or non-JSON output on large
	// pages, so the default is sequential.
	DefaultScrapeJobs = 1

	// DefaultTimeout bounds each individual fetch attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the per-target retry budget on the plaintext
	// route (retries after the initial attempt).
	DefaultRetries = 3

	// DefaultScrapeRetries is the per-target retry budget when going
	// through the scrape backend. The backend already retries at the
	// cache-bypass level, so the budget is smaller.
	DefaultScrapeRetries = 2

	// DefaultMaxAge is how long cached scrape results are accepted.
	DefaultMaxAge = 48 * time.Hour

	// DefaultUserAgent identifies docmirror in HTTP requests.
	DefaultUserAgent = "docmirror/1.0 (+https://github.com/refdocs/docmirror)"

	// AppName is the application name used for XDG directory paths.
	AppName = "docmirror"
)

// Config holds all options for a docmirror command invocation.
// It is populated from CLI flags and the optional config file, then
// passed down by dependency injection rather than global state.
type Config struct {
	// URLsFile is the path to the newline-delimited URL list.
	URLsFile string

	// OutDir is the root directory for mirrored files.
	OutDir string

	// IndexURL is the reference index page used by discovery.
	IndexURL string

	// Jobs is the number of concurrent workers.
	Jobs int

	// Timeout bounds each individual fetch attempt.
	Timeout time.Duration

	// Retries is the number of retries after the initial attempt.
	Retries int

	// Force re-downloads targets whose destination already exists.
	Force bool

	// Limit caps the number of targets processed. Zero means no limit.
	Limit int

	// MaxAge is the cache acceptance window for the scrape backend.
	MaxAge time.Duration

	// OnlyMainContent asks the scrape backend to strip page chrome.
	// Off by default: reference pages are dynamic and often lose the
	// endpoint URL and method when main-content extraction is enabled.
	OnlyMainContent bool

	// Formats are the output formats requested from the scrape backend.
	Formats []string

	// ExcludeTags are HTML tags the scrape backend drops.
	ExcludeTags []string

	// ScrapeCommand is the scraping CLI executable name or path.
	ScrapeCommand string

	// UserAgent is the User-Agent header for direct HTTP fetches.
	UserAgent string

	// Headers are extra request headers for direct HTTP fetches,
	// merged from the per-host config file.
	Headers map[string]string

	// ReportFile is an optional path for a markdown run report.
	ReportFile string

	// ConfigFilePath is an explicit config file path, when given.
	ConfigFilePath string

	// HostConfigs holds per-host overrides from the config file.
	HostConfigs *File

	// DBDir is the directory holding the run history database.
	DBDir string

	// SaveHistory records run outcomes in the history database.
	SaveHistory bool

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a Config with defaults for the plaintext route.
// Commands adjust the worker and retry defaults that differ per route.
func NewConfig() *Config {
	return &Config{
		Jobs:          DefaultJobs,
		Timeout:       DefaultTimeout,
		Retries:       DefaultRetries,
		MaxAge:        DefaultMaxAge,
		Formats:       []string{"markdown"},
		ScrapeCommand: "firecrawl",
		UserAgent:     DefaultUserAgent,
		DBDir:         XDGDataDir(),
		SaveHistory:   true,
	}
}

// XDGDataDir returns the XDG data directory for docmirror.
// On Linux: ~/.local/share/docmirror
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for docmirror.
// On Linux: ~/.config/docmirror
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem
// found. It runs once after flag parsing, before any work begins, so
// setup errors abort the run up front.
func (c *Config) Validate() error {
	if c.OutDir == "" {
		return ErrNoOutputDir
	}
	if c.Jobs <= 0 {
		return ErrInvalidJobs
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Retries < 0 {
		return ErrInvalidRetries
	}
	if c.Limit < 0 {
		return ErrInvalidLimit
	}
	if c.MaxAge < 0 {
		return ErrInvalidMaxAge
	}
	return nil
}
