package pipeline

import (
	"sync"
	"time"

	"github.com/acsarchive/acsharvest/internal/backlink"
	"github.com/acsarchive/acsharvest/internal/config"
	"github.com/acsarchive/acsharvest/internal/model"
	"github.com/acsarchive/acsharvest/internal/reconcile"
	"github.com/acsarchive/acsharvest/internal/store"
)

// Summary records what one phase did.
type Summary struct {
	// Phase is the step name.
	Phase string `json:"phase"`

	// Fetched counts pages retrieved over the network.
	Fetched int `json:"fetched"`

	// Classified counts pages that yielded a classification record.
	Classified int `json:"classified"`

	// NotFound counts pages that do not exist.
	NotFound int `json:"not_found"`

	// Failed counts pages whose fetch exhausted its retry budget.
	Failed int `json:"failed"`

	// Skipped counts pages bypassed because a prior run examined them.
	Skipped int `json:"skipped"`

	// Elapsed is the phase's wall-clock duration.
	Elapsed time.Duration `json:"elapsed"`
}

// Run carries the shared state the steps accumulate: the classification
// database, the name roster, and the backlink set, plus the dependencies
// every step draws on.
type Run struct {
	// Config is the run configuration.
	Config *config.Config

	// Fetcher retrieves pages. The backlink harvester additionally needs
	// form POSTs, so the run carries the wider interface; steps that only
	// fetch use it as a plain page fetcher.
	Fetcher backlink.Fetcher

	// Classifier extracts classification fields from fetched pages.
	Classifier reconcile.PageClassifier

	// Checker remembers which URLs previous runs examined. May be nil,
	// which disables the memory.
	Checker reconcile.Checker

	// DB is the in-memory classification database. Steps that need prior
	// records load them from the output directory on first use.
	DB *store.Database

	// Names maps item numbers to display names.
	Names map[model.ItemNumber]string

	// Backlinks is the harvested candidate set.
	Backlinks model.BacklinkSet

	mu        sync.Mutex
	summaries []Summary
}

// NewRun creates run state over the given configuration.
func NewRun(cfg *config.Config) *Run {
	return &Run{
		Config: cfg,
		DB:     store.NewDatabase(),
	}
}

// AddSummary appends a phase summary. Safe for concurrent use.
func (r *Run) AddSummary(s Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, s)
}

// Summaries returns the phase summaries recorded so far, in phase order.
func (r *Run) Summaries() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Summary, len(r.summaries))
	copy(out, r.summaries)
	return out
}
