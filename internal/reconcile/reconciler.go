package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/acsarchive/acsharvest/internal/classify"
	"github.com/acsarchive/acsharvest/internal/fetch"
	"github.com/acsarchive/acsharvest/internal/model"
	"github.com/acsarchive/acsharvest/internal/store"
)

// PageFetcher retrieves candidate pages.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*model.Page, error)
}

// PageClassifier extracts classification fields from a fetched page.
type PageClassifier interface {
	Classify(page *model.Page) classify.Outcome
}

// Checker remembers which URLs previous runs have already examined.
// A nil checker disables the memory; every candidate outside the database
// is then fetched again.
type Checker interface {
	IsChecked(ctx context.Context, url string) (bool, error)
	MarkChecked(ctx context.Context, url string, found bool, method string) error
}

// Result summarizes one reconcile pass.
type Result struct {
	// Candidates is the size of the deduplicated candidate union.
	Candidates int

	// Delta is the number of candidates that required a fetch.
	Delta int

	// Added is the number of records newly inserted into the database.
	Added int

	// NotFound counts candidates whose pages no longer exist.
	NotFound int

	// Unclassified counts fetched pages that carried no recognizable
	// classification signal.
	Unclassified int

	// Failed counts candidates whose fetch failed for transient reasons.
	// They stay unexamined, so the next run retries them.
	Failed int

	// Skipped counts candidates already in the database or already
	// examined by an earlier run.
	Skipped int
}

// Reconciler merges backlink candidates into the classification database.
type Reconciler struct {
	fetcher    PageFetcher
	classifier PageClassifier
	checker    Checker
	logger     *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithChecker enables the examined-page memory.
func WithChecker(checker Checker) Option {
	return func(r *Reconciler) {
		r.checker = checker
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Reconciler over the given fetcher and classifier.
func New(fetcher PageFetcher, classifier PageClassifier, opts ...Option) *Reconciler {
	r := &Reconciler{
		fetcher:    fetcher,
		classifier: classifier,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile folds the backlink set into the database.
// Candidates already keyed in the database or already examined are skipped
// without a fetch, so running Reconcile twice over the same inputs performs
// no network work the second time.
func (r *Reconciler) Reconcile(ctx context.Context, db *store.Database, set model.BacklinkSet) (Result, error) {
	union := set.Union()
	result := Result{Candidates: len(union)}

	for _, c := range union {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if db.Has(c.Key()) {
			result.Skipped++
			continue
		}
		if r.checker != nil {
			checked, err := r.checker.IsChecked(ctx, c.URL)
			if err != nil {
				return result, err
			}
			if checked {
				result.Skipped++
				continue
			}
		}

		result.Delta++
		if err := r.reconcileOne(ctx, db, c, &result); err != nil {
			return result, err
		}
	}

	r.logger.Info("reconcile complete",
		"candidates", result.Candidates,
		"delta", result.Delta,
		"added", result.Added,
		"not_found", result.NotFound,
		"unclassified", result.Unclassified,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
	return result, nil
}

// reconcileOne fetches and classifies a single candidate.
func (r *Reconciler) reconcileOne(ctx context.Context, db *store.Database, c model.Candidate, result *Result) error {
	page, err := r.fetcher.Fetch(ctx, c.URL)
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			result.NotFound++
			return r.markChecked(ctx, c.URL, false, "")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Transient failure: leave the candidate unexamined so the next
		// run retries it.
		result.Failed++
		r.logger.Warn("candidate fetch failed", "url", c.URL, "error", err)
		return nil
	}

	outcome := r.classifier.Classify(page)
	if !outcome.Found {
		result.Unclassified++
		r.logger.Debug("candidate carries no classification", "url", c.URL)
		return r.markChecked(ctx, c.URL, false, "")
	}

	rec := recordFrom(c, outcome)
	if db.Put(c.Key(), rec) {
		result.Added++
		r.logger.Info("record reconciled", "key", c.Key(), "method", outcome.Method)
	}
	return r.markChecked(ctx, c.URL, true, string(outcome.Method))
}

// markChecked records the examination outcome when a checker is configured.
func (r *Reconciler) markChecked(ctx context.Context, url string, found bool, method string) error {
	if r.checker == nil {
		return nil
	}
	return r.checker.MarkChecked(ctx, url, found, method)
}

// recordFrom builds a database record for a classified candidate.
func recordFrom(c model.Candidate, outcome classify.Outcome) model.Record {
	var number string
	if c.Number != 0 {
		number = c.Number.Display()
	}
	return model.Record{
		Name:        c.Name,
		Number:      number,
		Clearance:   outcome.Fields.Clearance,
		Containment: outcome.Fields.Containment,
		Secondary:   outcome.Fields.Secondary,
		Disruption:  outcome.Fields.Disruption,
		Risk:        outcome.Fields.Risk,
		URL:         c.URL,
		Fragment:    c.Fragment,
		Method:      outcome.Method,
	}
}
