// Package database provides SQLite-backed storage for mirror run
// history. Every bulk run records its summary and per-target outcomes,
// which powers the status command and post-hoc failure inspection.
package database
