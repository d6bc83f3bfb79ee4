package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/refdocs/docmirror/internal/fetch"
)

// Output file names written under the output directory.
const (
	// AllURLsFile lists every discovered documentation URL.
	AllURLsFile = "urls.txt"

	// EndpointURLsFile lists URLs classified as endpoint pages.
	EndpointURLsFile = "urls_endpoints.txt"

	// NonEndpointURLsFile lists the remaining documentation URLs.
	NonEndpointURLsFile = "urls_non_endpoints.txt"

	// discoveryCacheDir holds the cached index HTML between runs.
	discoveryCacheDir = "_discovery"

	// discoveryCacheFile is the cached scrape response for the index.
	discoveryCacheFile = "reference.html.json"
)

// Result holds the classified URL lists of one discovery run.
type Result struct {
	// All contains every kept documentation URL, sorted.
	All []string `json:"-"`

	// Endpoints contains the URLs classified as endpoint pages, sorted.
	Endpoints []string `json:"-"`

	// NonEndpoints contains the remaining URLs, sorted.
	NonEndpoints []string `json:"-"`
}

// Counts is the machine-readable summary printed after discovery.
type Counts struct {
	All          int `json:"all"`
	Endpoints    int `json:"endpoints"`
	NonEndpoints int `json:"non_endpoints"`
}

// Counts returns the summary counts for the result.
func (r *Result) Counts() Counts {
	return Counts{
		All:          len(r.All),
		Endpoints:    len(r.Endpoints),
		NonEndpoints: len(r.NonEndpoints),
	}
}

// Discoverer extracts and classifies documentation URLs from a
// reference index page.
//
// The index HTML is fetched through the scrape backend once and cached
// under <out>/_discovery so repeated runs do not hit the backend, which
// occasionally truncates very large pages.
type Discoverer struct {
	// fetcher retrieves the index page. It must be configured to
	// return HTML as its primary content (formats=html).
	fetcher fetch.Fetcher

	// outDir is where URL lists and the discovery cache are written.
	outDir string

	// logger receives discovery diagnostics.
	logger *slog.Logger

	// extraPaths are same-host paths kept even though they live outside
	// the /reference and /docs prefixes.
	extraPaths []string
}

// DiscovererOption configures a Discoverer.
type DiscovererOption func(*Discoverer)

// WithLogger sets the logger for discovery diagnostics.
func WithLogger(logger *slog.Logger) DiscovererOption {
	return func(d *Discoverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithExtraPaths sets additional same-host paths to keep.
func WithExtraPaths(paths []string) DiscovererOption {
	return func(d *Discoverer) {
		d.extraPaths = paths
	}
}

// NewDiscoverer creates a Discoverer writing into outDir.
func NewDiscoverer(fetcher fetch.Fetcher, outDir string, opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		fetcher:    fetcher,
		outDir:     outDir,
		extraPaths: []string{"/changelog", "/discuss"},
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Discover fetches the index page at indexURL, extracts and classifies
// its links, and writes the three URL list files.
func (d *Discoverer) Discover(ctx context.Context, indexURL string) (*Result, error) {
	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("invalid index URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("index URL must be absolute: %s", indexURL)
	}

	htmlContent, err := d.indexHTML(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	hrefs, err := ExtractHrefs(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index HTML: %w", err)
	}

	result := d.classify(base, hrefs)
	if err := d.writeLists(result); err != nil {
		return nil, err
	}

	d.logger.Info("discovery complete",
		"all", len(result.All),
		"endpoints", len(result.Endpoints),
		"nonEndpoints", len(result.NonEndpoints),
	)
	return result, nil
}

// indexHTML returns the index page HTML, from the local cache when a
// valid cached scrape exists, otherwise from a fresh scrape whose raw
// response is cached for the next run.
func (d *Discoverer) indexHTML(ctx context.Context, indexURL string) (string, error) {
	cachePath := filepath.Join(d.outDir, discoveryCacheDir, discoveryCacheFile)

	if cached := readCachedHTML(cachePath); cached != "" {
		d.logger.Debug("using cached index HTML", "cache", cachePath)
		return cached, nil
	}

	result, err := d.fetcher.Fetch(ctx, indexURL, 0)
	if err != nil {
		return "", fmt.Errorf("failed to scrape index page: %w", err)
	}

	if len(result.Raw) > 0 {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0750); err == nil {
			if werr := os.WriteFile(cachePath, result.Raw, 0644); werr != nil { //nolint:gosec // Cached public HTML
				d.logger.Warn("failed to cache index HTML", "cache", cachePath, "error", werr)
			}
		}
	}

	return string(result.Content), nil
}

// readCachedHTML loads the html field from a cached scrape response.
// A missing, unreadable, or corrupt cache yields an empty string, which
// triggers a fresh scrape.
func readCachedHTML(path string) string {
	data, err := os.ReadFile(path) //nolint:gosec // Path is derived from the output directory
	if err != nil {
		return ""
	}

	var response struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return ""
	}
	return response.HTML
}

// classify turns raw hrefs into the sorted, deduplicated URL lists.
func (d *Discoverer) classify(base *url.URL, hrefs []string) *Result {
	origin := base.Scheme + "://" + base.Host
	referencePrefix := origin + "/reference/"

	keep := make(map[string]bool)
	for _, href := range hrefs {
		var u string
		switch {
		case strings.HasPrefix(href, origin+"/"), href == origin:
			u = href
		case strings.HasPrefix(href, "/"):
			u = origin + href
		default:
			continue
		}

		// Fragments never change the page content.
		if i := strings.IndexByte(u, '#'); i >= 0 {
			u = u[:i]
		}

		if d.keepURL(u, origin) {
			keep[u] = true
		}
	}

	result := &Result{}
	for u := range keep {
		result.All = append(result.All, u)
		if IsEndpointURL(u, referencePrefix) {
			result.Endpoints = append(result.Endpoints, u)
		} else {
			result.NonEndpoints = append(result.NonEndpoints, u)
		}
	}
	sort.Strings(result.All)
	sort.Strings(result.Endpoints)
	sort.Strings(result.NonEndpoints)

	return result
}

// keepURL reports whether a same-origin URL belongs to the mirrored
// documentation set.
func (d *Discoverer) keepURL(u, origin string) bool {
	if strings.HasPrefix(u, origin+"/reference") || strings.HasPrefix(u, origin+"/docs") {
		return true
	}
	for _, p := range d.extraPaths {
		if u == origin+p {
			return true
		}
	}
	return false
}

// writeLists writes the three URL list files under the output directory.
func (d *Discoverer) writeLists(result *Result) error {
	if err := os.MkdirAll(d.outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	lists := map[string][]string{
		AllURLsFile:         result.All,
		EndpointURLsFile:    result.Endpoints,
		NonEndpointURLsFile: result.NonEndpoints,
	}
	for name, urls := range lists {
		path := filepath.Join(d.outDir, name)
		content := strings.Join(urls, "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // URL lists are public content
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
