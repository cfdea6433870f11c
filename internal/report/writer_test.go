package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/acsarchive/acsharvest/internal/config"
	"github.com/acsarchive/acsharvest/internal/model"
	"github.com/acsarchive/acsharvest/internal/pipeline"
)

func sampleReport() *Report {
	return &Report{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		BaseURL:     "https://example.com",
		Phases: []pipeline.Summary{
			{Phase: "scrape", Fetched: 100, Classified: 40, NotFound: 55, Failed: 5, Elapsed: 90 * time.Second},
			{Phase: "reconcile", Fetched: 3, Classified: 2, Skipped: 10, Elapsed: 4 * time.Second},
		},
		TotalRecords: 42,
		Structured:   30,
		Fallback:     12,
		Fragments:    2,
		Containment:  map[string]int{"euclid": 20, "keter": 10, "safe": 12},
	}
}

// TestNewReport tests report construction from run state.
func TestNewReport(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	run := pipeline.NewRun(cfg)
	run.DB.Put("SCP-001", model.Record{Containment: "keter", Method: model.MethodStructured})
	run.DB.Put("SCP-002", model.Record{Containment: "euclid", Method: model.MethodFallback, Fragment: true})
	run.AddSummary(pipeline.Summary{Phase: "scrape", Classified: 2})

	r := New(run)

	if r.TotalRecords != 2 || r.Structured != 1 || r.Fallback != 1 || r.Fragments != 1 {
		t.Errorf("report = %+v", r)
	}
	if r.Containment["keter"] != 1 || r.Containment["euclid"] != 1 {
		t.Errorf("containment = %v", r.Containment)
	}
	if len(r.Phases) != 1 || r.Phases[0].Phase != "scrape" {
		t.Errorf("phases = %+v", r.Phases)
	}
}

// TestJSONWriter tests JSON output round trips.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		n, err := w.Write(sampleReport())
		if err != nil {
			t.Fatalf("Write() error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		var decoded Report
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.TotalRecords != 42 || len(decoded.Phases) != 2 {
			t.Errorf("decoded = %+v", decoded)
		}
	})

	t.Run("pretty printed output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("pretty printed output should be indented")
		}
	})
}

// TestMarkdownWriter tests the rendered Markdown structure.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Harvest Report",
		"## Phases",
		"## Database",
		"scrape",
		"reconcile",
		"mermaid",
		"euclid",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestMarkdownWriterEmptyDatabase tests the empty-database rendering.
func TestMarkdownWriterEmptyDatabase(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(&Report{BaseURL: "https://example.com"}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.Contains(buf.String(), "The database is empty.") {
		t.Error("output should name the empty database")
	}
}

// TestSimpleWriter tests the terminal format.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("default output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Records:    42") {
			t.Errorf("output missing record count:\n%s", out)
		}
		if strings.Contains(out, "Containment classes") {
			t.Error("containment breakdown should require verbose")
		}
	})

	t.Run("verbose output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
		if !strings.Contains(buf.String(), "euclid") {
			t.Error("verbose output should include containment classes")
		}
	})
}

// failWriter always fails.
type failWriter struct{}

func (failWriter) Write(_ *Report) (int, error) {
	return 0, errors.New("sink failed")
}

// TestMultiWriter tests fan-out and first-error behavior.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all sinks", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(&a), NewSimpleWriter(&b))

		if _, err := mw.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("both sinks should receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failWriter{}, NewSimpleWriter(&after))

		if _, err := mw.Write(sampleReport()); err == nil {
			t.Fatal("expected error from failing sink")
		}
		if after.Len() != 0 {
			t.Error("writers after the failure should not run")
		}
	})
}
