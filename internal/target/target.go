package target

import (
	"net/url"
	"regexp"
	"strings"
)

// unsafeChars matches characters that are replaced in destination paths.
// The safe set deliberately keeps "/" so the site's directory structure
// is preserved under the output directory.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._/-]`)

// Target is one URL to fetch together with its derived destination path.
type Target struct {
	// URL is the target URL as given in the input list.
	URL string

	// Path is the filesystem-safe path relative to the output directory,
	// without any format extension.
	Path string
}

// New creates a Target for the given URL with its derived path.
func New(rawURL string) Target {
	return Target{
		URL:  rawURL,
		Path: SafeRelPath(rawURL),
	}
}

// SafeRelPath maps a URL to a filesystem-safe relative path.
//
// The scheme and host are stripped so only the site path remains, the
// fragment and query are dropped, surrounding slashes are trimmed, and
// any character outside [A-Za-z0-9._/-] is replaced with "_". Slashes
// inside the path are kept to preserve directory structure. A URL whose
// path is empty maps to "root".
//
// The mapping is pure and deterministic: the same URL always yields the
// same path, which is what makes runs resumable.
func SafeRelPath(rawURL string) string {
	path := rawURL

	if u, err := url.Parse(rawURL); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		path = u.Path
	} else {
		// Not an absolute http(s) URL. Still strip fragment and query
		// markers so the result stays stable.
		if i := strings.IndexByte(path, '#'); i >= 0 {
			path = path[:i]
		}
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
	}

	path = strings.Trim(path, "/")
	if path == "" {
		return "root"
	}

	return unsafeChars.ReplaceAllString(path, "_")
}

// ToMarkdownURL returns the plaintext route for a reference page URL.
// ReadMe-hosted references expose each page as <url>.md; URLs that
// already end in ".md" are returned unchanged.
func ToMarkdownURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if u == "" || strings.HasSuffix(u, ".md") {
		return u
	}
	return u + ".md"
}
