package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"CategoryScanner/internal/domain"
)

// Writer renders a scan report.
type Writer interface {
	Write(report domain.Report) error
}

// New returns the writer for format: table (default), json or markdown.
func New(format string, output io.Writer) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return NewTableWriter(output), nil
	case "json":
		return NewJSONWriter(output), nil
	case "markdown", "md":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

func summary(report domain.Report) string {
	return fmt.Sprintf("%d links, %d fetched, %d failed, %d labels, %s",
		report.LinksDiscovered,
		report.PagesFetched,
		len(report.Failures),
		report.LabelsCollected,
		report.Duration().Round(time.Millisecond),
	)
}
