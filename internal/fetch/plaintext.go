package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultMaxBodySize limits how much of a response body is read.
// Reference pages are text documents; anything beyond this is truncated
// to protect against unexpectedly large responses.
const DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// PlaintextFetcher downloads pages over the direct plaintext route.
// ReadMe-hosted references expose each page as "<url>.md", which is
// often more reliable than browser rendering or third-party scraping.
type PlaintextFetcher struct {
	// client performs the HTTP requests. Callers may supply their own
	// client to control timeouts and transport settings.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// headers are extra request headers, typically per-host settings
	// from the configuration file (e.g. Authorization).
	headers map[string]string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// PlaintextOption configures a PlaintextFetcher.
type PlaintextOption func(*PlaintextFetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) PlaintextOption {
	return func(f *PlaintextFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) PlaintextOption {
	return func(f *PlaintextFetcher) {
		f.userAgent = ua
	}
}

// WithHeaders sets extra request headers sent with every fetch.
func WithHeaders(headers map[string]string) PlaintextOption {
	return func(f *PlaintextFetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) PlaintextOption {
	return func(f *PlaintextFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewPlaintextFetcher creates a PlaintextFetcher with default settings.
func NewPlaintextFetcher(opts ...PlaintextOption) *PlaintextFetcher {
	f := &PlaintextFetcher{
		client:      http.DefaultClient,
		userAgent:   "docmirror/1.0 (+https://github.com/refdocs/docmirror)",
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads the page at rawURL and returns its decoded body.
// The attempt index is unused; the plaintext route has no cache mode.
func (f *PlaintextFetcher) Fetch(ctx context.Context, rawURL string, _ int) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Class: ClassPermanent, Message: "invalid request", Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain, text/markdown;q=0.9, */*;q=0.1")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Class: ClassTransient, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Class: ClassTransient, Message: "failed to read body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Class:      ClassifyStatus(resp.StatusCode),
			Message:    fmt.Sprintf("unexpected status fetching %s", rawURL),
		}
	}

	content := decodeCharset(body, resp.Header.Get("Content-Type"))
	if len(content) == 0 {
		return nil, &Error{StatusCode: resp.StatusCode, Class: ClassMalformed, Message: "empty response body"}
	}

	return &Result{StatusCode: resp.StatusCode, Content: content}, nil
}

// decodeCharset converts the body to UTF-8 based on the charset
// parameter of the Content-Type header. Unknown or missing charsets
// fall back to the body as-is.
func decodeCharset(body []byte, contentType string) []byte {
	if contentType == "" {
		return body
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}

	charset := params["charset"]
	if charset == "" || strings.EqualFold(charset, "utf-8") {
		return body
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return body
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return body
	}
	return decoded
}
