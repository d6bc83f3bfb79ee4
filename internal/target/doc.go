// Package target handles the input side of a mirror run: loading URL
// lists from disk and mapping each URL to a deterministic,
// filesystem-safe relative path.
package target
