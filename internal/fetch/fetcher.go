package fetch

import "context"

// Result is the payload of a successful fetch attempt.
type Result struct {
	// StatusCode is the HTTP status of the response, when known.
	// The scrape backend hides the upstream status, so it may be zero.
	StatusCode int

	// Content is the primary document body (markdown or plaintext).
	Content []byte

	// Raw is the unparsed backend response, when one exists. The
	// orchestrator persists it next to the content file so the full
	// scrape output survives for later inspection.
	Raw []byte
}

// Fetcher retrieves the content of a single URL.
//
// The attempt index starts at zero and increments on each retry for the
// same target. Fetchers may vary their behavior by attempt; the scrape
// backend uses it to bypass its cache after the first failure, since
// cached entries can be truncated.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, attempt int) (*Result, error)
}
