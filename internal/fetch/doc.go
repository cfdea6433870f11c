// Package fetch provides bounded, retrying page retrieval.
//
// # Architecture
//
// The Fetcher wraps an HTTP client with three layers of restraint:
//
//   - a Limiter caps simultaneously in-flight requests process-wide
//   - a rate.Limiter paces request starts to stay polite to the wiki
//   - a Backoff schedules randomized delays between retry attempts
//
// Design decision: The Limiter is an explicit resource passed in at
// construction rather than ambient global state because:
//  1. Tests can substitute a small or instrumented limiter deterministically
//  2. Every phase shares a single limiter by sharing a Fetcher
//  3. The concurrency bound is visible at the wiring site, not hidden
//
// # Failure taxonomy
//
// A 404 is a permanent absence: it is reported as ErrNotFound without
// retrying, and callers record the page as absent rather than failed.
// Network errors, timeouts, 429, and 5xx responses are transient and
// consume the retry budget. A fetch that exhausts its budget returns a
// *FetchError carrying the URL and the last underlying failure; the caller
// logs it and moves on. No per-page failure ever aborts a run.
package fetch
