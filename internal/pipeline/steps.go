package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/acsarchive/acsharvest/internal/backlink"
	"github.com/acsarchive/acsharvest/internal/fetch"
	"github.com/acsarchive/acsharvest/internal/model"
	"github.com/acsarchive/acsharvest/internal/reconcile"
	"github.com/acsarchive/acsharvest/internal/roster"
	"github.com/acsarchive/acsharvest/internal/store"
)

// NamesStep harvests the item number to display name roster from the series
// listing pages and persists it as the names artifact.
type NamesStep struct {
	logger *slog.Logger
}

// NamesStepOption configures a NamesStep.
type NamesStepOption func(*NamesStep)

// WithNamesLogger sets a custom logger.
func WithNamesLogger(logger *slog.Logger) NamesStepOption {
	return func(s *NamesStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewNamesStep creates a NamesStep.
func NewNamesStep(opts ...NamesStepOption) *NamesStep {
	s := &NamesStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step's name.
func (s *NamesStep) Name() string {
	return "names"
}

// Do harvests the roster and stores it in the run state and on disk.
func (s *NamesStep) Do(ctx context.Context, run *Run) error {
	start := time.Now()

	h := roster.New(run.Fetcher, run.Config.BaseURL, roster.WithLogger(s.logger))
	records, err := h.Harvest(ctx)
	if err != nil {
		return fmt.Errorf("harvest names: %w", err)
	}

	names := make(map[model.ItemNumber]string, len(records))
	for _, rec := range records {
		names[rec.Number] = rec.Name
	}
	run.Names = names

	if err := store.SaveNames(records, run.Config.NamesPath()); err != nil {
		return fmt.Errorf("save names: %w", err)
	}

	run.AddSummary(Summary{
		Phase:      s.Name(),
		Fetched:    len(h.SeriesURLs()),
		Classified: len(records),
		Elapsed:    time.Since(start),
	})
	s.logger.Info("name roster harvested", "names", len(records))
	return nil
}

// ScrapeStep walks the numeric item range, fetching and classifying each
// page concurrently and persisting the resulting database artifact.
type ScrapeStep struct {
	logger *slog.Logger
}

// ScrapeStepOption configures a ScrapeStep.
type ScrapeStepOption func(*ScrapeStep)

// WithScrapeLogger sets a custom logger.
func WithScrapeLogger(logger *slog.Logger) ScrapeStepOption {
	return func(s *ScrapeStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScrapeStep creates a ScrapeStep.
func NewScrapeStep(opts ...ScrapeStepOption) *ScrapeStep {
	s := &ScrapeStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step's name.
func (s *ScrapeStep) Name() string {
	return "scrape"
}

// Do scrapes the configured item range.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because each item is independent; errgroup bounds the goroutines and
// propagates cancellation. Per-page failures never fail the step, a page
// that cannot be fetched today may exist tomorrow.
func (s *ScrapeStep) Do(ctx context.Context, run *Run) error {
	start := time.Now()
	cfg := run.Config

	// Load what earlier invocations harvested before adding to it. The
	// checker skips already-examined pages, so saving a database that
	// started empty would erase their records from the artifact.
	if run.DB.Len() == 0 {
		db, err := store.LoadDatabase(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("load database: %w", err)
		}
		run.DB = db
	}

	ensureNames(run, s.logger)

	var fetched, classified, notFound, failed, skipped atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for n := cfg.Start; n <= cfg.End; n++ {
		num := model.ItemNumber(n)
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			pageURL := num.PageURL(cfg.BaseURL)
			if run.Checker != nil {
				checked, err := run.Checker.IsChecked(ctx, pageURL)
				if err != nil {
					return err
				}
				if checked {
					skipped.Add(1)
					return nil
				}
			}

			page, err := run.Fetcher.Fetch(ctx, pageURL)
			if err != nil {
				if errors.Is(err, fetch.ErrNotFound) {
					notFound.Add(1)
					return markChecked(ctx, run, pageURL, false, "")
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failed.Add(1)
				s.logger.Warn("item fetch failed", "item", num.Display(), "error", err)
				return nil
			}
			fetched.Add(1)

			outcome := run.Classifier.Classify(page)
			if !outcome.Found {
				return markChecked(ctx, run, pageURL, false, "")
			}

			classified.Add(1)
			run.DB.Put(num.Display(), model.Record{
				Name:        run.Names[num],
				Number:      num.Display(),
				Clearance:   outcome.Fields.Clearance,
				Containment: outcome.Fields.Containment,
				Secondary:   outcome.Fields.Secondary,
				Disruption:  outcome.Fields.Disruption,
				Risk:        outcome.Fields.Risk,
				URL:         pageURL,
				Method:      outcome.Method,
			})
			s.logger.Debug("item classified", "item", num.Display(), "method", outcome.Method)
			return markChecked(ctx, run, pageURL, true, string(outcome.Method))
		})
	}

	waitErr := g.Wait()

	// Flush what was harvested even when the range was cut short, so an
	// interrupted run resumes instead of restarting.
	if err := store.SaveDatabase(run.DB, cfg.DatabasePath()); err != nil {
		return fmt.Errorf("save database: %w", err)
	}

	run.AddSummary(Summary{
		Phase:      s.Name(),
		Fetched:    int(fetched.Load()),
		Classified: int(classified.Load()),
		NotFound:   int(notFound.Load()),
		Failed:     int(failed.Load()),
		Skipped:    int(skipped.Load()),
		Elapsed:    time.Since(start),
	})
	s.logger.Info("item range scraped",
		"range", fmt.Sprintf("%d-%d", cfg.Start, cfg.End),
		"classified", classified.Load(),
		"not_found", notFound.Load(),
		"failed", failed.Load(),
	)
	return waitErr
}

// BacklinksStep harvests the component backlink listings and persists the
// candidate set artifact.
type BacklinksStep struct {
	logger *slog.Logger
}

// BacklinksStepOption configures a BacklinksStep.
type BacklinksStepOption func(*BacklinksStep)

// WithBacklinksLogger sets a custom logger.
func WithBacklinksLogger(logger *slog.Logger) BacklinksStepOption {
	return func(s *BacklinksStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBacklinksStep creates a BacklinksStep.
func NewBacklinksStep(opts ...BacklinksStepOption) *BacklinksStep {
	s := &BacklinksStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step's name.
func (s *BacklinksStep) Name() string {
	return "backlinks"
}

// Do harvests backlinks for every component and stores the set.
func (s *BacklinksStep) Do(ctx context.Context, run *Run) error {
	start := time.Now()
	cfg := run.Config

	ensureNames(run, s.logger)

	h := backlink.New(run.Fetcher, cfg.BaseURL,
		backlink.WithNames(run.Names),
		backlink.WithMaxPages(cfg.MaxBacklinkPages),
		backlink.WithLogger(s.logger),
	)
	set, err := h.Harvest(ctx)
	if err != nil {
		return fmt.Errorf("harvest backlinks: %w", err)
	}
	run.Backlinks = set

	if err := store.SaveBacklinks(set, cfg.BacklinksPath()); err != nil {
		return fmt.Errorf("save backlinks: %w", err)
	}

	run.AddSummary(Summary{
		Phase:      s.Name(),
		Fetched:    len(set),
		Classified: len(set.Union()),
		Elapsed:    time.Since(start),
	})
	return nil
}

// ReconcileStep folds the backlink candidate set into the classification
// database, fetching only the candidates no prior phase has examined.
type ReconcileStep struct {
	logger *slog.Logger
}

// ReconcileStepOption configures a ReconcileStep.
type ReconcileStepOption func(*ReconcileStep)

// WithReconcileLogger sets a custom logger.
func WithReconcileLogger(logger *slog.Logger) ReconcileStepOption {
	return func(s *ReconcileStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewReconcileStep creates a ReconcileStep.
func NewReconcileStep(opts ...ReconcileStepOption) *ReconcileStep {
	s := &ReconcileStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step's name.
func (s *ReconcileStep) Name() string {
	return "reconcile"
}

// Do reconciles the candidate set into the database.
func (s *ReconcileStep) Do(ctx context.Context, run *Run) error {
	start := time.Now()
	cfg := run.Config

	if run.DB.Len() == 0 {
		db, err := store.LoadDatabase(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("load database: %w", err)
		}
		run.DB = db
	}
	if run.Backlinks == nil {
		set, err := store.LoadBacklinks(cfg.BacklinksPath())
		if err != nil {
			return fmt.Errorf("load backlinks (run the backlinks phase first): %w", err)
		}
		run.Backlinks = set
	}

	r := reconcile.New(run.Fetcher, run.Classifier,
		reconcile.WithChecker(run.Checker),
		reconcile.WithLogger(s.logger),
	)
	result, err := r.Reconcile(ctx, run.DB, run.Backlinks)
	if err != nil {
		return err
	}

	if err := store.SaveDatabase(run.DB, cfg.DatabasePath()); err != nil {
		return fmt.Errorf("save database: %w", err)
	}

	run.AddSummary(Summary{
		Phase:      s.Name(),
		Fetched:    result.Delta,
		Classified: result.Added,
		NotFound:   result.NotFound,
		Failed:     result.Failed,
		Skipped:    result.Skipped,
		Elapsed:    time.Since(start),
	})
	return nil
}

// ensureNames loads the names artifact when no earlier step populated the
// roster. A missing artifact is not fatal; records then keep the names the
// pages themselves provide.
func ensureNames(run *Run, logger *slog.Logger) {
	if run.Names != nil {
		return
	}
	names, err := store.LoadNames(run.Config.NamesPath())
	if err != nil {
		logger.Warn("name roster unavailable", "path", run.Config.NamesPath(), "error", err)
		run.Names = map[model.ItemNumber]string{}
		return
	}
	run.Names = names
}

// markChecked records the examination outcome when the run has a checker.
func markChecked(ctx context.Context, run *Run, url string, found bool, method string) error {
	if run.Checker == nil {
		return nil
	}
	return run.Checker.MarkChecked(ctx, url, found, method)
}
