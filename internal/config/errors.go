package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Package-level sentinel errors let callers use errors.Is while still
// carrying a readable message.
var (
	// ErrNoOutputDir is returned when no output directory is set.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidJobs is returned when the worker count is not positive.
	ErrInvalidJobs = errors.New("invalid jobs: must be positive")

	// ErrInvalidTimeout is returned when the per-attempt timeout is not
	// positive. A zero timeout would fail every fetch immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when the retry budget is negative.
	// Use 0 to disable retries entirely.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidLimit is returned when the target limit is negative.
	// Use 0 to process the full list.
	ErrInvalidLimit = errors.New("invalid limit: must be non-negative")

	// ErrInvalidMaxAge is returned when the cache max-age is negative.
	ErrInvalidMaxAge = errors.New("invalid max-age: must be non-negative")
)
