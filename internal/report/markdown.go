package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writePhases(md, report)
	w.writeDatabase(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("Harvest Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Wiki", "`" + report.BaseURL + "`"},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Records", strconv.Itoa(report.TotalRecords)},
		},
	})
	md.PlainText("")
}

// writePhases writes the per-phase summary table.
func (w *MarkdownWriter) writePhases(md *markdown.Markdown, report *Report) {
	md.H2("Phases")
	md.PlainText("")

	if len(report.Phases) == 0 {
		md.PlainText("No phases executed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Phases))
	for i, p := range report.Phases {
		rows[i] = []string{
			p.Phase,
			strconv.Itoa(p.Fetched),
			strconv.Itoa(p.Classified),
			strconv.Itoa(p.NotFound),
			strconv.Itoa(p.Failed),
			strconv.Itoa(p.Skipped),
			p.Elapsed.Round(1e6).String(),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Phase", "Fetched", "Classified", "Not Found", "Failed", "Skipped", "Elapsed"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDatabase writes the database composition section.
func (w *MarkdownWriter) writeDatabase(md *markdown.Markdown, report *Report) {
	md.H2("Database")
	md.PlainText("")

	if report.TotalRecords == 0 {
		md.PlainText("The database is empty.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Detection", "Count"},
		Rows: [][]string{
			{"Structured", strconv.Itoa(report.Structured)},
			{"Fallback", strconv.Itoa(report.Fallback)},
			{"Fragments", strconv.Itoa(report.Fragments)},
		},
	})
	md.PlainText("")

	if len(report.Containment) > 0 {
		w.writePieChart(md, report)
	}
}

// writePieChart writes a mermaid pie chart for containment classes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *Report) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Containment Class Distribution"),
		piechart.WithShowData(true),
	)

	classes := make([]string, 0, len(report.Containment))
	for class := range report.Containment {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		chart.LabelAndIntValue(class, uint64(report.Containment[class])) //nolint:gosec // counts are non-negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [acsharvest](https://github.com/acsarchive/acsharvest)*")
}
