package model

// Outcome is the final classification of one target in a mirror run.
// Every target produces exactly one outcome.
type Outcome string

const (
	// OutcomeDownloaded means the target was fetched and written to disk.
	OutcomeDownloaded Outcome = "downloaded"

	// OutcomeSkipped means the destination already existed and the run
	// was not forced, so no fetch attempt was made.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means all fetch attempts were exhausted without
	// producing valid content.
	OutcomeFailed Outcome = "failed"
)

// IsValid reports whether o is one of the defined outcomes.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeDownloaded, OutcomeSkipped, OutcomeFailed:
		return true
	}
	return false
}

// String returns the outcome as a string.
func (o Outcome) String() string {
	return string(o)
}
