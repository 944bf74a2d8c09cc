package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"CategoryScanner/internal/domain"
)

func TestBuildInsert(t *testing.T) {
	t.Parallel()

	finished := time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)
	report := domain.Report{
		RunID:      "run-1",
		SeedURL:    "https://en.wikipedia.org/wiki/Web_scraping",
		FinishedAt: finished,
		Categories: domain.FrequencyTable{"Cats": 3, "Dogs": 2},
	}

	query, args, err := buildInsert(report)
	if err != nil {
		t.Fatalf("buildInsert error: %v", err)
	}

	if !strings.HasPrefix(query, "INSERT INTO category_tallies") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "$10") || strings.Contains(query, "?") {
		t.Fatalf("expected dollar placeholders: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (run_id, label)") {
		t.Fatalf("missing upsert suffix: %s", query)
	}
	if len(args) != 10 {
		t.Fatalf("expected 10 args, got %d", len(args))
	}
	if args[2] != "Cats" || args[3] != 3 || args[7] != "Dogs" {
		t.Fatalf("rows not ordered by count: %v", args)
	}
}

func TestBuildSelect(t *testing.T) {
	t.Parallel()

	query, args, err := buildSelect("run-1")
	if err != nil {
		t.Fatalf("buildSelect error: %v", err)
	}
	if !strings.HasPrefix(query, "SELECT seed_url, label, count, created_at FROM category_tallies WHERE run_id = $1") {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != "run-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestNilDatabaseIsNoop(t *testing.T) {
	t.Parallel()

	repo := NewPostgresRepository(nil)
	ctx := context.Background()

	if err := repo.SaveReport(ctx, domain.Report{Categories: domain.FrequencyTable{"Cats": 2}}); err != nil {
		t.Fatalf("SaveReport on nil db: %v", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema on nil db: %v", err)
	}
	if _, err := repo.LoadRun(ctx, "run-1"); err == nil {
		t.Fatalf("expected LoadRun on nil db to fail")
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close on nil db: %v", err)
	}
}
