package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"CategoryScanner/internal/domain"
)

// TableWriter prints the repeated categories as a console table.
type TableWriter struct {
	output io.Writer
}

// NewTableWriter creates a TableWriter that outputs to the given writer.
func NewTableWriter(output io.Writer) *TableWriter {
	return &TableWriter{output: output}
}

// Write renders one row per category, highest count first.
func (w *TableWriter) Write(report domain.Report) error {
	t := table.NewWriter()
	t.SetOutputMirror(w.output)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Category", "Count"})
	for _, entry := range report.Categories.Entries() {
		t.AppendRow(table.Row{entry.Label, entry.Count})
	}
	t.AppendFooter(table.Row{"Total", report.Categories.Total()})
	t.SetCaption("%s", summary(report))

	t.Render()
	return nil
}
