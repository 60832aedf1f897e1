package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	testCases := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Site.Name", cfg.Site.Name, "Insights"},
		{"Server.Port", cfg.Server.Port, "12600"},
		{"Source.URL", cfg.Source.URL, "posts.json"},
		{"Source.Timeout", cfg.Source.Timeout, 10 * time.Second},
		{"Source.S3.Region", cfg.Source.S3.Region, "auto"},
		{"Pages.LatestCount", cfg.Pages.LatestCount, 3},
		{"Pages.DefaultCriterion", cfg.Pages.DefaultCriterion, "date-desc"},
		{"Theme.Default", cfg.Theme.Default, DarkTheme},
		{"Theme.AllowSwitching", cfg.Theme.AllowSwitching, true},
		{"Views.IdleTimeout", cfg.Views.IdleTimeout, 30 * time.Minute},
		{"Views.MaxOpen", cfg.Views.MaxOpen, 1000},
		{"Logging.Level", cfg.Logging.Level, "info"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.expected {
				t.Errorf("got %v, want %v", tc.got, tc.expected)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	t.Run("Missing file uses defaults", func(t *testing.T) {
		AppConfig = nil
		if err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if AppConfig == nil || AppConfig.Source.URL != "posts.json" {
			t.Fatalf("Expected default config, got %+v", AppConfig)
		}
	})

	t.Run("Overrides keep unrelated defaults", func(t *testing.T) {
		path := writeConfig(t, `
source:
  url: https://example.com/posts.json
  timeout: 2s
pages:
  latest_count: 5
`)
		if err := LoadConfig(path); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if AppConfig.Source.URL != "https://example.com/posts.json" {
			t.Errorf("Unexpected source URL %q", AppConfig.Source.URL)
		}
		if AppConfig.Source.Timeout != 2*time.Second {
			t.Errorf("Unexpected timeout %v", AppConfig.Source.Timeout)
		}
		if AppConfig.Pages.LatestCount != 5 {
			t.Errorf("Unexpected latest count %d", AppConfig.Pages.LatestCount)
		}
		if AppConfig.Server.Port != "12600" {
			t.Errorf("Expected default port, got %q", AppConfig.Server.Port)
		}
	})

	t.Run("Environment expansion", func(t *testing.T) {
		t.Setenv("INSIGHTS_TEST_BUCKET", "blog-bucket")
		path := writeConfig(t, "source:\n  url: s3://${INSIGHTS_TEST_BUCKET}/posts.json\n")
		if err := LoadConfig(path); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if AppConfig.Source.URL != "s3://blog-bucket/posts.json" {
			t.Errorf("Expected expanded URL, got %q", AppConfig.Source.URL)
		}
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		path := writeConfig(t, "source: [unclosed")
		err := LoadConfig(path)
		if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
			t.Errorf("Expected parse error, got %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Invalid port", func(c *Config) { c.Server.Port = "http" }},
		{"Port out of range", func(c *Config) { c.Server.Port = "70000" }},
		{"Empty source", func(c *Config) { c.Source.URL = "" }},
		{"Unknown criterion", func(c *Config) { c.Pages.DefaultCriterion = "popularity" }},
		{"Zero latest count", func(c *Config) { c.Pages.LatestCount = 0 }},
		{"Unknown theme", func(c *Config) { c.Theme.Default = "solarized" }},
		{"Zero idle timeout", func(c *Config) { c.Views.IdleTimeout = 0 }},
		{"Zero max open views", func(c *Config) { c.Views.MaxOpen = 0 }},
		{"Negative max open views", func(c *Config) { c.Views.MaxOpen = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestApplyDefaults_DoesNotTouchUntaggedFields(t *testing.T) {
	type nested struct {
		Value string `default:"x"`
		Free  string
	}
	type sample struct {
		Nested nested
		Wait   time.Duration `default:"90s"`
		Names  []string      `default:"a, b"`
	}

	s := &sample{}
	ApplyDefaults(s)

	if s.Nested.Value != "x" || s.Nested.Free != "" {
		t.Errorf("Unexpected nested defaults: %+v", s.Nested)
	}
	if s.Wait != 90*time.Second {
		t.Errorf("Expected 90s, got %v", s.Wait)
	}
	if len(s.Names) != 2 || s.Names[1] != "b" {
		t.Errorf("Expected trimmed slice defaults, got %v", s.Names)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: "8080"}
	if c.Addr() != "127.0.0.1:8080" {
		t.Errorf("Unexpected addr %q", c.Addr())
	}
}
