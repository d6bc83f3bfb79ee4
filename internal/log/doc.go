// Package log provides slog helpers for docmirror, including a handler
// that masks credential-bearing attributes. Per-host config files can
// carry Authorization headers and API keys, and those must not leak
// into diagnostics.
package log
