// Package report renders harvest run summaries in multiple output formats:
// JSON for tool integration, Markdown for documentation, and plain text for
// terminal display.
package report
