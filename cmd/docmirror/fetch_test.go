package main

import (
	"testing"

	"github.com/refdocs/docmirror/internal/config"
)

// TestNewFetchCmd tests the fetch command definition.
func TestNewFetchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewFetchCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "fetch" {
			t.Errorf("expected use 'fetch', got %q", cmd.Use)
		}
	})

	t.Run("has flag defaults", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			flag string
			want string
		}{
			{flag: "urls", want: "docs/urls_endpoints.txt"},
			{flag: "out", want: "docs/pages_md"},
			{flag: "jobs", want: "6"},
			{flag: "retries", want: "3"},
			{flag: "timeout", want: "30s"},
			{flag: "force", want: "false"},
			{flag: "limit", want: "0"},
			{flag: "user-agent", want: config.DefaultUserAgent},
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
}

// TestBuildFetchConfig tests flag-to-config mapping for fetch.
func TestBuildFetchConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults produce a valid config", func(t *testing.T) {
		t.Parallel()

		cmd := NewFetchCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildFetchConfig(cmd)
		if err != nil {
			t.Fatalf("failed to build config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config invalid: %v", err)
		}

		if cfg.URLsFile != "docs/urls_endpoints.txt" {
			t.Errorf("URLsFile = %q", cfg.URLsFile)
		}
		if cfg.Jobs != config.DefaultJobs {
			t.Errorf("Jobs = %d, want %d", cfg.Jobs, config.DefaultJobs)
		}
		if cfg.Retries != config.DefaultRetries {
			t.Errorf("Retries = %d, want %d", cfg.Retries, config.DefaultRetries)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewFetchCmd()
		if err := cmd.ParseFlags([]string{
			"--urls", "custom/list.txt",
			"--out", "custom/out",
			"--jobs", "2",
			"--retries", "5",
			"--force",
			"--limit", "10",
			"--user-agent", "custom-agent/1.0",
		}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildFetchConfig(cmd)
		if err != nil {
			t.Fatalf("failed to build config: %v", err)
		}

		if cfg.URLsFile != "custom/list.txt" {
			t.Errorf("URLsFile = %q", cfg.URLsFile)
		}
		if cfg.OutDir != "custom/out" {
			t.Errorf("OutDir = %q", cfg.OutDir)
		}
		if cfg.Jobs != 2 || cfg.Retries != 5 || !cfg.Force || cfg.Limit != 10 {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.UserAgent != "custom-agent/1.0" {
			t.Errorf("UserAgent = %q", cfg.UserAgent)
		}
	})
}
