// Package mirror implements the bulk fetch orchestrator: a bounded
// worker pool that applies the same idempotent fetch-and-persist
// operation to a list of targets, with per-target retries, jittered
// exponential backoff, and synchronized run counters.
package mirror
