// Package model defines the shared data structures for mirror runs.
// It contains fetch outcomes, per-target records, and run summaries
// used across the orchestrator, report writers, and database.
package model
