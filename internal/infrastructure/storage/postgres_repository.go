package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"CategoryScanner/internal/domain"
	"CategoryScanner/internal/ports"
)

const talliesTable = "category_tallies"

const schema = `CREATE TABLE IF NOT EXISTS category_tallies (
    run_id      TEXT        NOT NULL,
    seed_url    TEXT        NOT NULL,
    label       TEXT        NOT NULL,
    count       INTEGER     NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (run_id, label)
)`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists reported category counts into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var (
	_ ports.ReportRepository = (*PostgresRepository)(nil)
	_ ports.ReportReader     = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres and makes sure the tallies table exists.
func Open(ctx context.Context, dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	repo := NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// EnsureSchema creates the tallies table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveReport upserts one row per reported category.
func (r *PostgresRepository) SaveReport(ctx context.Context, report domain.Report) error {
	if r.db == nil || len(report.Categories) == 0 {
		return nil
	}

	query, args, err := buildInsert(report)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tallies: %w", err)
	}

	return nil
}

// LoadRun rebuilds the report of a previous run from its stored categories.
func (r *PostgresRepository) LoadRun(ctx context.Context, runID string) (domain.Report, error) {
	if r.db == nil {
		return domain.Report{}, fmt.Errorf("database is not configured")
	}

	query, args, err := buildSelect(runID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Report{}, fmt.Errorf("query tallies: %w", err)
	}

	report := domain.Report{RunID: runID, Categories: domain.FrequencyTable{}}
	for rows.Next() {
		var (
			seedURL   string
			label     string
			count     int
			createdAt time.Time
		)
		if err := rows.Scan(&seedURL, &label, &count, &createdAt); err != nil {
			_ = rows.Close()
			return domain.Report{}, fmt.Errorf("scan tally: %w", err)
		}
		report.SeedURL = seedURL
		report.StartedAt = createdAt
		report.FinishedAt = createdAt
		report.Categories[label] = count
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return domain.Report{}, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return domain.Report{}, fmt.Errorf("close rows: %w", closeErr)
	}

	if len(report.Categories) == 0 {
		return domain.Report{}, fmt.Errorf("run %s: %w", runID, domain.ErrRunNotFound)
	}
	return report, nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func buildInsert(report domain.Report) (string, []interface{}, error) {
	q := psql.Insert(talliesTable).
		Columns("run_id", "seed_url", "label", "count", "created_at")

	for _, entry := range report.Categories.Entries() {
		q = q.Values(report.RunID, report.SeedURL, entry.Label, entry.Count, report.FinishedAt)
	}

	return q.Suffix("ON CONFLICT (run_id, label) DO UPDATE SET count = EXCLUDED.count").ToSql()
}

func buildSelect(runID string) (string, []interface{}, error) {
	return psql.Select("seed_url", "label", "count", "created_at").
		From(talliesTable).
		Where(sq.Eq{"run_id": runID}).
		OrderBy("count DESC", "label").
		ToSql()
}
