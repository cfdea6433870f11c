package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/acsarchive/acsharvest/internal/config"
	"github.com/acsarchive/acsharvest/internal/model"
)

// Fetcher retrieves wiki pages with bounded concurrency, pacing, and
// retries. A single Fetcher is shared by every phase of a run so the
// concurrency bound and request pacing hold process-wide.
type Fetcher struct {
	// client issues the HTTP requests. Its Timeout is left zero; the
	// per-attempt timeout is applied through the request context so that
	// a timeout counts against the retry budget like any other transient
	// failure.
	client *http.Client

	// limiter caps in-flight requests.
	limiter Limiter

	// pacer spaces out request starts.
	pacer *rate.Limiter

	// retries is the retry budget per page. Total attempts = retries + 1.
	retries int

	// attemptTimeout bounds each individual attempt.
	attemptTimeout time.Duration

	// backoff schedules delays between attempts.
	backoff *Backoff

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps response bodies.
	maxBodySize int64

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRetries sets the retry budget per page.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.retries = n
		}
	}
}

// WithAttemptTimeout sets the timeout for each individual attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.attemptTimeout = d
	}
}

// WithBackoff sets the retry backoff schedule.
func WithBackoff(b *Backoff) Option {
	return func(f *Fetcher) {
		f.backoff = b
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the response body cap.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithRequestsPerSecond sets the outbound request pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(f *Fetcher) {
		if rps > 0 {
			f.pacer = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client. Used by tests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher sharing the given limiter.
func New(limiter Limiter, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:         &http.Client{},
		limiter:        limiter,
		pacer:          rate.NewLimiter(rate.Limit(config.DefaultRequestsPerSecond), 1),
		retries:        config.DefaultRetries,
		attemptTimeout: config.DefaultTimeout,
		backoff:        NewBackoff(time.Second, 30*time.Second, time.Now().UnixNano()),
		userAgent:      config.DefaultUserAgent,
		maxBodySize:    config.DefaultMaxBodySize,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves one page by GET and parses its HTML.
//
// Returns ErrNotFound for a 404. Returns a *FetchError when the retry
// budget is exhausted. On success the returned page carries the parsed
// document tree; a body that defeats the HTML parser yields a page with a
// nil Root, which classifies as a miss downstream.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	page, err := f.do(ctx, pageURL, func(attemptCtx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(attemptCtx, http.MethodGet, pageURL, nil)
	})
	if err != nil {
		return nil, err
	}
	page.Parse()
	return page, nil
}

// PostForm submits a form POST and returns the raw response without HTML
// parsing. The backlink harvester uses this against the wiki's AJAX module
// connector, whose responses are JSON envelopes rather than documents.
// The same limiter, pacing, and retry rules apply as for Fetch.
func (f *Fetcher) PostForm(ctx context.Context, postURL string, form url.Values, headers http.Header) (*model.Page, error) {
	body := form.Encode()
	return f.do(ctx, postURL, func(attemptCtx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, postURL, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for k, vs := range headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		return req, nil
	})
}

// do runs the acquire / pace / attempt / backoff loop shared by Fetch and
// PostForm. newRequest is called once per attempt so each request carries a
// fresh attempt-scoped context.
func (f *Fetcher) do(ctx context.Context, pageURL string, newRequest func(context.Context) (*http.Request, error)) (*model.Page, error) {
	if err := f.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer f.limiter.Release()

	attempts := f.retries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := f.backoff.Delay(attempt - 1)
			f.logger.Debug("retrying fetch",
				"url", pageURL,
				"attempt", attempt+1,
				"delay", delay,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := f.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := f.attempt(ctx, newRequest)
		if err == nil {
			return page, nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, &FetchError{URL: pageURL, Attempts: attempts, Err: lastErr}
}

// attempt performs a single request attempt under its own timeout.
func (f *Fetcher) attempt(ctx context.Context, newRequest func(context.Context) (*http.Request, error)) (*model.Page, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
	defer cancel()

	req, err := newRequest(attemptCtx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Fall through to body read.
	default:
		// 429 and 5xx are the common transient cases; anything else
		// unexpected is treated the same way and charged against the
		// retry budget rather than crashing the page.
		return nil, &transientStatusError{status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, err
	}

	return &model.Page{
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Raw:        body,
	}, nil
}
