package main

import (
	"bytes"
	"testing"
)

// TestNewDiscoverCmd tests the discover command definition.
func TestNewDiscoverCmd(t *testing.T) {
	t.Parallel()

	cmd := NewDiscoverCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "discover" {
			t.Errorf("expected use 'discover', got %q", cmd.Use)
		}
	})

	t.Run("has flag defaults", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			flag string
			want string
		}{
			{flag: "url", want: ""},
			{flag: "out", want: "docs"},
			{flag: "timeout", want: "2m0s"},
			{flag: "scrape-command", want: "firecrawl"},
		}
		for _, tt := range tests {
			f := cmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Errorf("expected --%s flag", tt.flag)
				continue
			}
			if f.DefValue != tt.want {
				t.Errorf("--%s default = %q, want %q", tt.flag, f.DefValue, tt.want)
			}
		}
	})

	t.Run("rejects a missing url", func(t *testing.T) {
		t.Parallel()

		cmd := NewDiscoverCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error without --url")
		}
	})
}
