package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/refdocs/docmirror/internal/config"
	"github.com/refdocs/docmirror/internal/model"
	"github.com/refdocs/docmirror/internal/target"
)

// newTestRunReport builds a small completed run report.
func newTestRunReport() *model.RunReport {
	report := model.NewRunReport("fetch")
	report.FinishedAt = report.StartedAt.Add(time.Second)
	report.Summary = model.RunSummary{Downloaded: 1, Total: 1}
	report.Records = []model.FetchRecord{
		{
			URL:        "https://example.com/reference/get_orders",
			Path:       "reference/get_orders.md",
			Outcome:    model.OutcomeDownloaded,
			StatusCode: 200,
			Attempts:   1,
			FetchedAt:  report.FinishedAt,
		},
	}
	return report
}

// TestSplitList tests comma-separated flag parsing.
func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single item", input: "markdown", want: []string{"markdown"}},
		{name: "multiple items", input: "markdown,html", want: []string{"markdown", "html"}},
		{name: "spaces are trimmed", input: " script , style ", want: []string{"script", "style"}},
		{name: "empty items are dropped", input: "a,,b,", want: []string{"a", "b"}},
		{name: "empty string yields nothing", input: "", want: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := splitList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i, w := range tt.want {
				if got[i] != w {
					t.Errorf("item %d = %q, want %q", i, got[i], w)
				}
			}
		})
	}
}

// TestHostOf tests hostname extraction.
func TestHostOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "https URL", url: "https://open-api.docs.example.com/reference/get_orders", want: "open-api.docs.example.com"},
		{name: "with port", url: "http://localhost:8080/docs", want: "localhost:8080"},
		{name: "bare path", url: "/reference/get_orders", want: ""},
		{name: "unparseable", url: "://bad", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hostOf(tt.url); got != tt.want {
				t.Errorf("hostOf(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// TestLoadHostConfigs tests config file resolution for commands.
func TestLoadHostConfigs(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing path is an error", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ConfigFilePath = filepath.Join(t.TempDir(), "missing.yaml")

		if err := loadHostConfigs(cfg); err == nil {
			t.Fatal("expected error for explicitly given missing config file")
		}
	})

	t.Run("explicit existing path is loaded", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".docmirror")
		content := "hosts:\n  api.example.com:\n    user_agent: test-agent\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cfg := config.NewConfig()
		cfg.ConfigFilePath = path

		if err := loadHostConfigs(cfg); err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if cfg.HostConfigs.ForHost("api.example.com").UserAgent != "test-agent" {
			t.Error("host config not loaded")
		}
	})
}

// TestApplyHostConfig tests per-host override application.
func TestApplyHostConfig(t *testing.T) {
	t.Parallel()

	hostConfigs := &config.File{
		Hosts: map[string]config.HostConfig{
			"api.example.com": {
				UserAgent:   "host-agent",
				Headers:     map[string]string{"Authorization": "Bearer token"},
				ExcludeTags: []string{"nav"},
			},
		},
	}

	t.Run("applies overrides for the first target's host", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.HostConfigs = hostConfigs

		applyHostConfig(cfg, []target.Target{target.New("https://api.example.com/reference/get_orders")})

		if cfg.UserAgent != "host-agent" {
			t.Errorf("UserAgent = %q, want the host override", cfg.UserAgent)
		}
		if cfg.Headers["Authorization"] != "Bearer token" {
			t.Errorf("Headers = %v", cfg.Headers)
		}
		if len(cfg.ExcludeTags) != 1 || cfg.ExcludeTags[0] != "nav" {
			t.Errorf("ExcludeTags = %v", cfg.ExcludeTags)
		}
	})

	t.Run("flag-provided exclude tags win over the config file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.HostConfigs = hostConfigs
		cfg.ExcludeTags = []string{"script", "style"}

		applyHostConfig(cfg, []target.Target{target.New("https://api.example.com/reference/get_orders")})

		if len(cfg.ExcludeTags) != 2 || cfg.ExcludeTags[0] != "script" {
			t.Errorf("ExcludeTags = %v, flag value should win", cfg.ExcludeTags)
		}
	})

	t.Run("unknown host keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.HostConfigs = hostConfigs

		applyHostConfig(cfg, []target.Target{target.New("https://other.example.com/docs")})

		if cfg.UserAgent != config.DefaultUserAgent {
			t.Errorf("UserAgent = %q, want the default", cfg.UserAgent)
		}
	})

	t.Run("no targets is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.HostConfigs = hostConfigs

		applyHostConfig(cfg, nil)

		if cfg.UserAgent != config.DefaultUserAgent {
			t.Errorf("UserAgent = %q, want unchanged", cfg.UserAgent)
		}
	})
}

// TestWriteMarkdownReport tests report file creation.
func TestWriteMarkdownReport(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "reports", "run.md")

		report := newTestRunReport()
		if err := writeMarkdownReport(path, report); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		if len(data) == 0 {
			t.Error("report file is empty")
		}
	})
}
