package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"CategoryScanner/internal/domain"
)

// JSONWriter emits the report as a single indented JSON document.
type JSONWriter struct {
	output io.Writer
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{output: output}
}

type jsonFailure struct {
	Link  string `json:"link"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

type jsonReport struct {
	RunID           string         `json:"runId"`
	SeedURL         string         `json:"seedUrl"`
	StartedAt       time.Time      `json:"startedAt"`
	FinishedAt      time.Time      `json:"finishedAt"`
	LinksDiscovered int            `json:"linksDiscovered"`
	PagesFetched    int            `json:"pagesFetched"`
	LabelsCollected int            `json:"labelsCollected"`
	Categories      []domain.Entry `json:"categories"`
	Failures        []jsonFailure  `json:"failures"`
}

// Write encodes the report.
func (w *JSONWriter) Write(report domain.Report) error {
	payload := jsonReport{
		RunID:           report.RunID,
		SeedURL:         report.SeedURL,
		StartedAt:       report.StartedAt,
		FinishedAt:      report.FinishedAt,
		LinksDiscovered: report.LinksDiscovered,
		PagesFetched:    report.PagesFetched,
		LabelsCollected: report.LabelsCollected,
		Categories:      report.Categories.Entries(),
		Failures:        make([]jsonFailure, 0, len(report.Failures)),
	}
	for _, f := range report.Failures {
		payload.Failures = append(payload.Failures, jsonFailure{
			Link:  string(f.Link),
			URL:   f.URL,
			Error: f.Err.Error(),
		})
	}

	enc := json.NewEncoder(w.output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
