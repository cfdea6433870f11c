package report

import (
	"time"

	"github.com/acsarchive/acsharvest/internal/model"
	"github.com/acsarchive/acsharvest/internal/pipeline"
)

// Report summarizes one harvest run: what each phase did and what the
// resulting database contains.
type Report struct {
	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// BaseURL is the wiki the run targeted.
	BaseURL string `json:"base_url"`

	// Phases are the per-phase summaries in execution order.
	Phases []pipeline.Summary `json:"phases"`

	// TotalRecords is the database size after the run.
	TotalRecords int `json:"total_records"`

	// Structured and Fallback count records by detection tier.
	Structured int `json:"structured"`
	Fallback   int `json:"fallback"`

	// Fragments counts records extracted from fragment sub-pages.
	Fragments int `json:"fragments"`

	// Containment counts records by containment class.
	Containment map[string]int `json:"containment"`
}

// New builds a Report from the run state.
func New(run *pipeline.Run) *Report {
	r := &Report{
		GeneratedAt: time.Now(),
		BaseURL:     run.Config.BaseURL,
		Phases:      run.Summaries(),
		Containment: make(map[string]int),
	}

	for _, rec := range run.DB.Snapshot() {
		r.TotalRecords++
		switch rec.Method {
		case model.MethodStructured:
			r.Structured++
		case model.MethodFallback:
			r.Fallback++
		}
		if rec.Fragment {
			r.Fragments++
		}
		if rec.Containment != "" {
			r.Containment[rec.Containment]++
		}
	}
	return r
}
