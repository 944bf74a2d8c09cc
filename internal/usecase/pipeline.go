package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"CategoryScanner/internal/aggregate"
	"CategoryScanner/internal/domain"
	"CategoryScanner/internal/ports"
	"CategoryScanner/internal/scanner"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	SeedURL    string
	MinCount   int
	Fetcher    ports.PageFetcher
	Scanner    scanner.Scanner
	Aggregator *aggregate.Aggregator
	Repository ports.ReportRepository
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Now        func() time.Time
}

// Pipeline implements the seed → links → categories workflow.
type Pipeline struct {
	seedURL    string
	minCount   int
	fetcher    ports.PageFetcher
	scanner    scanner.Scanner
	aggregator *aggregate.Aggregator
	repository ports.ReportRepository
	notifier   ports.Notifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		seedURL:    deps.SeedURL,
		minCount:   deps.MinCount,
		fetcher:    deps.Fetcher,
		scanner:    deps.Scanner,
		aggregator: deps.Aggregator,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Run fetches the seed page, extracts links, aggregates categories across all
// linked pages and returns the report of repeated categories. Seed failures
// are fatal.
func (p *Pipeline) Run(ctx context.Context) (domain.Report, error) {
	if p.fetcher == nil || p.scanner == nil || p.aggregator == nil {
		return domain.Report{}, fmt.Errorf("pipeline is not fully configured")
	}

	report := domain.Report{
		RunID:     uuid.NewString(),
		SeedURL:   p.seedURL,
		StartedAt: p.now(),
	}

	seed, err := p.fetcher.Fetch(ctx, p.seedURL)
	if err != nil {
		return domain.Report{}, fmt.Errorf("fetch seed: %w", err)
	}
	p.logger.Info("seed fetched", "url", p.seedURL, "status", seed.Status)
	if err := seed.Err(); err != nil {
		return domain.Report{}, fmt.Errorf("fetch seed: %w", err)
	}

	links, err := p.scanner.ExtractLinks(seed.Body)
	if err != nil {
		return domain.Report{}, fmt.Errorf("extract links: %w", err)
	}
	for _, link := range links.Sorted() {
		p.logger.Info("link discovered", "link", link)
	}
	report.LinksDiscovered = len(links)

	result, err := p.aggregator.Run(ctx, links)
	if err != nil {
		return domain.Report{}, fmt.Errorf("aggregate categories: %w", err)
	}

	report.PagesFetched = result.Fetched
	report.LabelsCollected = result.Labels
	report.Failures = result.Failures
	report.Categories = result.Frequencies.Repeated(p.minCount)
	report.FinishedAt = p.now()

	p.logger.Info("scan finished",
		"run_id", report.RunID,
		"links", report.LinksDiscovered,
		"fetched", report.PagesFetched,
		"failed", len(report.Failures),
		"repeated", len(report.Categories),
	)

	if p.repository != nil {
		if err := p.repository.SaveReport(ctx, report); err != nil {
			return domain.Report{}, fmt.Errorf("persist report: %w", err)
		}
	}

	// Digest failures are logged; the report is still returned.
	if p.notifier != nil && len(report.Categories) > 0 {
		if err := p.notifier.PublishDigest(ctx, buildDigestMessage(report)); err != nil {
			p.logger.Warn("publish digest failed", "run_id", report.RunID, "error", err)
		}
	}

	return report, nil
}

func buildDigestMessage(report domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Categories* for %s\n", markdownEscaper.Replace(report.SeedURL))
	for _, entry := range report.Categories.Entries() {
		fmt.Fprintf(&b, "- %s: %d\n", markdownEscaper.Replace(entry.Label), entry.Count)
	}
	return b.String()
}

// markdownEscaper escapes the entity markers of Telegram's legacy Markdown mode.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)
