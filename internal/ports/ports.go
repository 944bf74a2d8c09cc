package ports

import (
	"context"

	"CategoryScanner/internal/domain"
)

// PageFetcher issues a GET and returns the page with its status. It must be
// safe for concurrent use.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (domain.Page, error)
}

// ReportRepository persists scan reports for history.
type ReportRepository interface {
	SaveReport(ctx context.Context, report domain.Report) error
}

// ReportReader loads a previously persisted report by run id.
type ReportReader interface {
	LoadRun(ctx context.Context, runID string) (domain.Report, error)
}

// Notifier streams report digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}
