package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the behavior the wiki tolerates
// well in practice; the wiki is a shared community resource and the defaults
// err on the polite side.
const (
	// DefaultBaseURL is the wiki the harvester targets. Overridable for
	// tests and for the staging mirror.
	DefaultBaseURL = "https://scp-wiki.wikidot.com"

	// DefaultStart and DefaultEnd bound the numeric item range. The main
	// series currently ends below 8000; pages past the end simply 404 and
	// are recorded as absent.
	DefaultStart = 1
	DefaultEnd   = 7999

	// DefaultConcurrency caps simultaneously in-flight page fetches.
	// Ten is enough to keep the pipeline busy without tripping wikidot's
	// rate limiting.
	DefaultConcurrency = 10

	// DefaultRetries is the retry budget per page. Wikidot 5xx responses
	// are common under load but short-lived, so a generous budget converts
	// most transient failures into successes.
	DefaultRetries = 5

	// DefaultTimeout is the per-request timeout. Wikidot renders pages on
	// demand and the slowest ones take tens of seconds.
	DefaultTimeout = 60 * time.Second

	// DefaultRequestsPerSecond paces outbound requests across all workers.
	// One request per second matches the pause the previous generation of
	// this tool applied between fetches.
	DefaultRequestsPerSecond = 1.0

	// DefaultMaxBodySize caps response bodies. Wiki pages are text; 5MB is
	// far above any real page and protects against pathological responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultMaxBacklinkPages bounds pagination following per component
	// listing. The real listings fit in a handful of pages; the bound only
	// exists to guarantee termination if the remote pager ever loops.
	DefaultMaxBacklinkPages = 50

	// DefaultUserAgent identifies the harvester in HTTP requests so wiki
	// operators can recognize the traffic in their logs.
	DefaultUserAgent = "acsharvest/2.0 (+https://github.com/acsarchive/acsharvest)"

	// AppName is used for XDG directory paths.
	AppName = "acsharvest"

	// DatabaseFile, NamesFile, and BacklinksFile are the JSON artifacts
	// written into the output directory. The schemas must stay stable so
	// a reconcile run can reload a prior harvest.
	DatabaseFile  = "acs_database.json"
	NamesFile     = "scp_names.json"
	BacklinksFile = "acs_backlinks.json"
)

// Config holds all options for a harvester run. It is populated from CLI
// flags (and optionally a YAML file) and passed through the application via
// dependency injection rather than global state.
type Config struct {
	// BaseURL is the wiki root, without a trailing slash.
	BaseURL string

	// Start and End bound the numeric item range, inclusive.
	Start int
	End   int

	// Concurrency caps simultaneously in-flight fetches. This is enforced
	// by a single limiter shared across every fetch in a phase.
	Concurrency int

	// Retries is the retry budget per page fetch. A fetch that fails
	// Retries+1 times total is skipped, never fatal.
	Retries int

	// Timeout applies to each individual request attempt, not to a whole
	// retry sequence.
	Timeout time.Duration

	// RequestsPerSecond paces outbound requests process-wide.
	RequestsPerSecond float64

	// MaxBacklinkPages bounds pagination following per component listing.
	MaxBacklinkPages int

	// OutputDir is where the JSON artifacts are written.
	OutputDir string

	// CacheDir is where the checked-page cache database lives.
	CacheDir string

	// UserAgent is sent with every request.
	UserAgent string

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// Phases selects which phases run, in fixed order:
	// names, scrape, backlinks, reconcile.
	Phases Phases
}

// Phases selects the pipeline phases for one invocation.
type Phases struct {
	Names     bool
	Scrape    bool
	Backlinks bool
	Reconcile bool
}

// Any reports whether at least one phase is enabled.
func (p Phases) Any() bool {
	return p.Names || p.Scrape || p.Backlinks || p.Reconcile
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		Start:             DefaultStart,
		End:               DefaultEnd,
		Concurrency:       DefaultConcurrency,
		Retries:           DefaultRetries,
		Timeout:           DefaultTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		MaxBacklinkPages:  DefaultMaxBacklinkPages,
		OutputDir:         "output",
		CacheDir:          XDGCacheDir(),
		UserAgent:         DefaultUserAgent,
	}
}

// XDGCacheDir returns the per-user cache directory for the checked-page
// database, following the XDG base directory specification.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks the configuration for contradictions that would make a
// run meaningless. It returns the first problem found.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL must not be empty")
	}
	if c.Start < 0 || c.End < 0 {
		return errors.New("item range must not be negative")
	}
	if c.Start > c.End {
		return fmt.Errorf("item range start %d exceeds end %d", c.Start, c.End)
	}
	if c.End > 9999 {
		return fmt.Errorf("item range end %d exceeds four-digit item numbers", c.End)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("request rate must be positive, got %g", c.RequestsPerSecond)
	}
	if c.MaxBacklinkPages < 1 {
		return fmt.Errorf("backlink page bound must be at least 1, got %d", c.MaxBacklinkPages)
	}
	if !c.Phases.Any() {
		return errors.New("no phases enabled (use --getnames, --scrape, --backlinks, or --cross)")
	}
	return nil
}

// DatabasePath returns the path of the classification database artifact.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.OutputDir, DatabaseFile)
}

// NamesPath returns the path of the names artifact.
func (c *Config) NamesPath() string {
	return filepath.Join(c.OutputDir, NamesFile)
}

// BacklinksPath returns the path of the backlinks artifact.
func (c *Config) BacklinksPath() string {
	return filepath.Join(c.OutputDir, BacklinksFile)
}
