package usecase

import (
	"context"
	"fmt"
	"strings"

	"CategoryScanner/internal/domain"
	"CategoryScanner/internal/ports"
)

// History loads reports of earlier runs from storage.
type History struct {
	reader ports.ReportReader
}

// NewHistory wires a report reader.
func NewHistory(reader ports.ReportReader) *History {
	return &History{reader: reader}
}

// Load returns the stored report of runID.
func (h *History) Load(ctx context.Context, runID string) (domain.Report, error) {
	if h.reader == nil {
		return domain.Report{}, fmt.Errorf("report storage is not configured")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return domain.Report{}, fmt.Errorf("run id is required")
	}

	report, err := h.reader.LoadRun(ctx, runID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("load run %s: %w", runID, err)
	}
	return report, nil
}
