package fetch

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds the number of simultaneously in-flight fetches.
// Every fetch acquires a permit before issuing its request and releases it
// unconditionally before returning, including on error. The limiter is the
// single shared mutable resource between concurrent fetch tasks.
//
// Design decision: This is an interface rather than a concrete semaphore so
// tests can substitute an instrumented implementation that records the peak
// number of concurrent holders.
type Limiter interface {
	// Acquire blocks until a permit is available or ctx is done.
	Acquire(ctx context.Context) error

	// Release returns a permit. It must be called exactly once per
	// successful Acquire.
	Release()
}

// semaphoreLimiter implements Limiter over a weighted semaphore.
type semaphoreLimiter struct {
	sem *semaphore.Weighted
}

// NewLimiter returns a Limiter allowing n concurrent holders.
func NewLimiter(n int) Limiter {
	return &semaphoreLimiter{sem: semaphore.NewWeighted(int64(n))}
}

// Acquire blocks until a permit is available or ctx is done.
func (l *semaphoreLimiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release returns a permit.
func (l *semaphoreLimiter) Release() {
	l.sem.Release(1)
}
