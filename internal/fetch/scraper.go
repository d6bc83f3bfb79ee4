package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultScrapeCommand is the scraping CLI invoked for each page.
const DefaultScrapeCommand = "firecrawl"

// DefaultMaxAge is how long cached scrape results are accepted before a
// fresh scrape is forced. 48 hours matches how often reference docs
// typically change.
const DefaultMaxAge = 48 * time.Hour

// ScrapeFetcher downloads pages by shelling out to an external scraping
// CLI that renders the page and returns a JSON document containing the
// requested formats (markdown, html).
//
// The fetcher is attempt-aware: attempt 0 passes the configured cache
// max-age, every later attempt forces max-age=0. Cached entries can be
// truncated or invalid JSON, so a fresh scrape is the first fallback.
type ScrapeFetcher struct {
	// command is the scraping CLI executable name or path.
	command string

	// formats are the output formats requested from the backend.
	// The first format is the primary content field.
	formats []string

	// onlyMainContent asks the backend to strip navigation chrome.
	// Reference pages are dynamic and often lose the endpoint URL and
	// method when main-content extraction is enabled, so the default
	// is false.
	onlyMainContent bool

	// excludeTags are HTML tags the backend drops before conversion.
	// When onlyMainContent is false and no tags are configured,
	// script and style are excluded: including them can push large
	// pages over the backend's output limits and corrupt the JSON.
	excludeTags []string

	// maxAge is the cache acceptance window passed to the backend.
	maxAge time.Duration

	// run executes the backend command and returns stdout and stderr.
	// Replaceable in tests.
	run func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ScrapeOption configures a ScrapeFetcher.
type ScrapeOption func(*ScrapeFetcher)

// WithScrapeCommand sets the scraping CLI executable.
func WithScrapeCommand(command string) ScrapeOption {
	return func(f *ScrapeFetcher) {
		if command != "" {
			f.command = command
		}
	}
}

// WithFormats sets the output formats requested from the backend.
// The first format is used as the primary content field.
func WithFormats(formats []string) ScrapeOption {
	return func(f *ScrapeFetcher) {
		if len(formats) > 0 {
			f.formats = formats
		}
	}
}

// WithOnlyMainContent toggles the backend's main-content extraction.
func WithOnlyMainContent(only bool) ScrapeOption {
	return func(f *ScrapeFetcher) {
		f.onlyMainContent = only
	}
}

// WithExcludeTags sets HTML tags the backend drops before conversion.
func WithExcludeTags(tags []string) ScrapeOption {
	return func(f *ScrapeFetcher) {
		f.excludeTags = tags
	}
}

// WithMaxAge sets the cache acceptance window for attempt 0.
func WithMaxAge(maxAge time.Duration) ScrapeOption {
	return func(f *ScrapeFetcher) {
		if maxAge >= 0 {
			f.maxAge = maxAge
		}
	}
}

// NewScrapeFetcher creates a ScrapeFetcher with default settings.
func NewScrapeFetcher(opts ...ScrapeOption) *ScrapeFetcher {
	f := &ScrapeFetcher{
		command: DefaultScrapeCommand,
		formats: []string{"markdown"},
		maxAge:  DefaultMaxAge,
		run:     runCommand,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch scrapes rawURL through the backend CLI and returns the primary
// content field plus the raw JSON response.
func (f *ScrapeFetcher) Fetch(ctx context.Context, rawURL string, attempt int) (*Result, error) {
	maxAge := f.maxAge
	if attempt > 0 {
		// Bypass the backend cache on retries.
		maxAge = 0
	}

	stdout, stderr, err := f.run(ctx, f.command, f.buildArgs(rawURL, maxAge)...)
	if err != nil {
		return nil, &Error{
			Class:   ClassTransient,
			Message: fmt.Sprintf("scrape command failed: %s", firstLine(stderr)),
			Err:     err,
		}
	}

	var response map[string]any
	if err := json.Unmarshal(stdout, &response); err != nil {
		return nil, &Error{
			Class:   ClassMalformed,
			Message: fmt.Sprintf("non-JSON scrape output (prefix: %s)", prefix(stdout, 200)),
			Err:     err,
		}
	}

	field := f.formats[0]
	content, ok := response[field].(string)
	if !ok || content == "" {
		return nil, &Error{
			Class:   ClassMalformed,
			Message: fmt.Sprintf("missing %s field (keys=%s)", field, responseKeys(response)),
		}
	}

	return &Result{Content: []byte(content), Raw: stdout}, nil
}

// buildArgs assembles the backend CLI arguments for one scrape.
func (f *ScrapeFetcher) buildArgs(rawURL string, maxAge time.Duration) []string {
	args := []string{
		"scrape",
		"--url", rawURL,
		"--formats", strings.Join(f.formats, ","),
		"--only-main-content", strconv.FormatBool(f.onlyMainContent),
	}

	exclude := f.excludeTags
	if !f.onlyMainContent && len(exclude) == 0 {
		exclude = []string{"script", "style"}
	}
	if len(exclude) > 0 {
		args = append(args, "--exclude-tags", strings.Join(exclude, ","))
	}

	args = append(args, "--max-age", strconv.FormatInt(maxAge.Milliseconds(), 10))
	return args
}

// runCommand executes the backend CLI with separate stdout and stderr.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// responseKeys lists the top-level keys of a backend response for
// malformed-response diagnostics.
func responseKeys(response map[string]any) string {
	keys := make([]string, 0, len(response))
	for k := range response {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// prefix returns at most n bytes of b as a string.
func prefix(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// firstLine returns the first non-empty line of b.
func firstLine(b []byte) string {
	for _, line := range strings.Split(string(b), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
