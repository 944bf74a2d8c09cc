package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Crawl.SeedURL != "https://en.wikipedia.org/wiki/Main_Page" {
		t.Fatalf("unexpected seed: %s", cfg.Crawl.SeedURL)
	}
	if cfg.Crawl.LinkLimit != 0 || cfg.Crawl.Concurrency != 0 {
		t.Fatalf("expected unbounded defaults, got limit=%d concurrency=%d", cfg.Crawl.LinkLimit, cfg.Crawl.Concurrency)
	}
	if cfg.Crawl.CategorySelector != ".mw-normal-catlinks a" {
		t.Fatalf("unexpected category selector: %s", cfg.Crawl.CategorySelector)
	}
	if cfg.Report.MinCount != 2 || cfg.Report.Format != "table" {
		t.Fatalf("unexpected report defaults: %+v", cfg.Report)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadMergesFile(t *testing.T) {
	path := writeConfig(t, `
crawl:
  seedUrl: https://wiki.example.org/wiki/Start
  linkLimit: 25
  concurrency: 4
  failurePolicy: abort
  requestTimeout: 15s
report:
  format: markdown
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Crawl.SeedURL != "https://wiki.example.org/wiki/Start" {
		t.Fatalf("unexpected seed: %s", cfg.Crawl.SeedURL)
	}
	if cfg.Crawl.LinkLimit != 25 || cfg.Crawl.Concurrency != 4 {
		t.Fatalf("unexpected tuning: %+v", cfg.Crawl)
	}
	if cfg.Crawl.FailurePolicy != "abort" {
		t.Fatalf("unexpected policy: %s", cfg.Crawl.FailurePolicy)
	}
	if cfg.Crawl.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Crawl.RequestTimeout)
	}
	if cfg.Report.Format != "markdown" || cfg.Report.MinCount != 2 {
		t.Fatalf("unexpected report: %+v", cfg.Report)
	}
	if cfg.Crawl.ArticlePrefix != "/wiki/" {
		t.Fatalf("defaults lost during merge: %+v", cfg.Crawl)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "crawl:\n  linkLimit: 10\n")
	t.Setenv(linkLimitEnv, "3")
	t.Setenv(concurrencyEnv, "8")
	t.Setenv(seedURLEnv, "http://localhost:8080/wiki/Seed")
	t.Setenv(databaseDSNEnv, "postgres://u:p@localhost/tallies")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Crawl.LinkLimit != 3 || cfg.Crawl.Concurrency != 8 {
		t.Fatalf("env overrides not applied: %+v", cfg.Crawl)
	}
	if cfg.Crawl.SeedURL != "http://localhost:8080/wiki/Seed" {
		t.Fatalf("unexpected seed: %s", cfg.Crawl.SeedURL)
	}
	if cfg.Database.DSN != "postgres://u:p@localhost/tallies" {
		t.Fatalf("unexpected dsn: %s", cfg.Database.DSN)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	if _, err := Load(writeConfig(t, "crawl: [unclosed")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}

	t.Setenv(linkLimitEnv, "many")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-numeric link limit")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Crawl.SeedURL = "/wiki/relative"
	cfg.Crawl.LinkLimit = -1
	cfg.Crawl.FailurePolicy = "retry"
	cfg.Report.Format = "xml"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidateReportFormats(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"", "table", "json", "markdown", "md", "MD"} {
		cfg := defaultConfig()
		cfg.Report.Format = format
		if err := cfg.Validate(); err != nil {
			t.Fatalf("format %q should validate: %v", format, err)
		}
	}
}

func TestResolveOrigin(t *testing.T) {
	t.Parallel()

	crawl := CrawlConfig{SeedURL: "https://en.wikipedia.org/wiki/Web_scraping"}
	origin, err := crawl.ResolveOrigin()
	if err != nil {
		t.Fatalf("ResolveOrigin error: %v", err)
	}
	if origin != "https://en.wikipedia.org" {
		t.Fatalf("unexpected origin: %s", origin)
	}

	crawl.Origin = "https://mirror.example.org/"
	origin, err = crawl.ResolveOrigin()
	if err != nil {
		t.Fatalf("ResolveOrigin error: %v", err)
	}
	if origin != "https://mirror.example.org" {
		t.Fatalf("unexpected explicit origin: %s", origin)
	}
}
