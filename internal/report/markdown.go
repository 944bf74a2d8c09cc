package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"CategoryScanner/internal/domain"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs the run summary, the category table and any skipped links.
func (w *MarkdownWriter) Write(report domain.Report) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Category Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", report.SeedURL},
			{"Run", "`" + report.RunID + "`"},
			{"Links Discovered", strconv.Itoa(report.LinksDiscovered)},
			{"Pages Fetched", strconv.Itoa(report.PagesFetched)},
			{"Labels Collected", strconv.Itoa(report.LabelsCollected)},
		},
	})
	md.PlainText("")

	md.H2("Repeated Categories")
	md.PlainText("")
	entries := report.Categories.Entries()
	if len(entries) == 0 {
		md.PlainText("No category occurs more than once.")
	} else {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Label, strconv.Itoa(e.Count)})
		}
		md.Table(markdown.TableSet{Header: []string{"Category", "Count"}, Rows: rows})
	}
	md.PlainText("")

	if len(report.Failures) > 0 {
		md.H2("Skipped Links")
		md.PlainText("")
		rows := make([][]string, 0, len(report.Failures))
		for _, f := range report.Failures {
			rows = append(rows, []string{string(f.Link), f.Err.Error()})
		}
		md.Table(markdown.TableSet{Header: []string{"Link", "Error"}, Rows: rows})
		md.PlainText("")
	}

	return md.Build()
}
