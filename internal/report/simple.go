package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
//  1. It works in all terminals without compatibility issues
//  2. It's easier to pipe to files or other tools
type SimpleWriter struct {
	baseWriter

	// verbose enables the containment class breakdown.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *Report) (int, error) {
	var sb strings.Builder

	sb.WriteString("Harvest Report\n")
	sb.WriteString("==============\n")
	fmt.Fprintf(&sb, "Wiki:      %s\n", report.BaseURL)
	fmt.Fprintf(&sb, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	sb.WriteString("\n")

	if len(report.Phases) > 0 {
		sb.WriteString("Phases\n")
		sb.WriteString("------\n")
		for _, p := range report.Phases {
			fmt.Fprintf(&sb, "%-10s fetched=%d classified=%d not_found=%d failed=%d skipped=%d (%s)\n",
				p.Phase, p.Fetched, p.Classified, p.NotFound, p.Failed, p.Skipped,
				p.Elapsed.Round(1e6))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Database\n")
	sb.WriteString("--------\n")
	fmt.Fprintf(&sb, "Records:    %d\n", report.TotalRecords)
	fmt.Fprintf(&sb, "Structured: %d\n", report.Structured)
	fmt.Fprintf(&sb, "Fallback:   %d\n", report.Fallback)
	fmt.Fprintf(&sb, "Fragments:  %d\n", report.Fragments)

	if w.verbose && len(report.Containment) > 0 {
		sb.WriteString("\nContainment classes\n")
		sb.WriteString("-------------------\n")

		classes := make([]string, 0, len(report.Containment))
		for class := range report.Containment {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		for _, class := range classes {
			fmt.Fprintf(&sb, "%-12s %d\n", class, report.Containment[class])
		}
	}

	return io.WriteString(w.output, sb.String())
}
