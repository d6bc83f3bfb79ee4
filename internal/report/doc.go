// Package report renders mirror run results. It provides the stdout
// JSON summary every bulk command emits, a human-readable writer for
// run history, and a markdown report for sharing run outcomes.
package report
