package model

import "time"

// RunSummary holds the aggregate counters for a mirror run.
// The JSON field names form the machine-readable summary object that
// every bulk command prints to stdout when the run completes.
type RunSummary struct {
	// Downloaded is the number of targets fetched and written to disk.
	Downloaded int `json:"downloaded"`

	// Skipped is the number of targets whose destination already existed.
	Skipped int `json:"skipped"`

	// Failed is the number of targets that exhausted all fetch attempts.
	Failed int `json:"failed"`

	// Total is the number of targets processed in this run.
	Total int `json:"total"`
}

// Record adds one outcome to the summary. Unknown outcomes only
// increment the total so the counters always sum up to it.
func (s *RunSummary) Record(outcome Outcome) {
	switch outcome {
	case OutcomeDownloaded:
		s.Downloaded++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
	s.Total++
}

// HasFailures reports whether any target ultimately failed.
// A run with failures exits with a non-zero status.
func (s *RunSummary) HasFailures() bool {
	return s.Failed > 0
}

// FetchRecord describes the final result of one target.
type FetchRecord struct {
	// URL is the target URL as given in the input list.
	URL string `json:"url"`

	// Path is the destination path relative to the output directory.
	Path string `json:"path"`

	// Outcome is the final classification of the target.
	Outcome Outcome `json:"outcome"`

	// StatusCode is the last HTTP status observed, if any.
	// Zero when no status was seen (skips, process-level failures).
	StatusCode int `json:"status_code,omitempty"`

	// Attempts is the number of fetch attempts performed.
	// Zero for skipped targets.
	Attempts int `json:"attempts"`

	// Error is the last error message for failed targets.
	Error string `json:"error,omitempty"`

	// FetchedAt is when the outcome was recorded.
	FetchedAt time.Time `json:"fetched_at"`
}

// RunReport is the full record of one mirror run: the summary plus the
// individual records needed for diagnostics and history.
type RunReport struct {
	// Command is the subcommand that produced this run (scrape, fetch).
	Command string `json:"command"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run completed.
	FinishedAt time.Time `json:"finished_at"`

	// Summary holds the aggregate counters.
	Summary RunSummary `json:"summary"`

	// Records holds one entry per processed target.
	Records []FetchRecord `json:"records,omitempty"`
}

// NewRunReport creates a RunReport for the given command with the
// start time set to now.
func NewRunReport(command string) *RunReport {
	return &RunReport{
		Command:   command,
		StartedAt: time.Now(),
	}
}

// Failures returns the records of targets that failed, in the order
// they were recorded.
func (r *RunReport) Failures() []FetchRecord {
	failures := make([]FetchRecord, 0)
	for _, rec := range r.Records {
		if rec.Outcome == OutcomeFailed {
			failures = append(failures, rec)
		}
	}
	return failures
}

// Elapsed returns the wall-clock duration of the run.
func (r *RunReport) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
