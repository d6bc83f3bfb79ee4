package model

import "testing"

// TestOutcomeIsValid tests outcome validation.
func TestOutcomeIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outcome Outcome
		want    bool
	}{
		{name: "downloaded is valid", outcome: OutcomeDownloaded, want: true},
		{name: "skipped is valid", outcome: OutcomeSkipped, want: true},
		{name: "failed is valid", outcome: OutcomeFailed, want: true},
		{name: "empty is invalid", outcome: Outcome(""), want: false},
		{name: "unknown is invalid", outcome: Outcome("retried"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.outcome.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestOutcomeString tests the string representation.
func TestOutcomeString(t *testing.T) {
	t.Parallel()

	if got := OutcomeDownloaded.String(); got != "downloaded" {
		t.Errorf("got %q, want 'downloaded'", got)
	}
	if got := OutcomeSkipped.String(); got != "skipped" {
		t.Errorf("got %q, want 'skipped'", got)
	}
	if got := OutcomeFailed.String(); got != "failed" {
		t.Errorf("got %q, want 'failed'", got)
	}
}
