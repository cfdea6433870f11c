package fetch

import (
	"math/rand"
	"sync"
	"time"
)

// Backoff computes randomized delays between retry attempts. Delays grow
// exponentially from Base up to Cap, with the final delay drawn uniformly
// from [half, full] of the computed value so that many workers retrying the
// same outage do not synchronize against the remote service.
//
// Design decision: The randomness source is injected (seedable) rather than
// taken from the global generator so tests can assert exact delays.
type Backoff struct {
	// Base is the delay before the first retry.
	Base time.Duration

	// Cap is the upper bound on any single delay.
	Cap time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBackoff returns a Backoff with the given base, cap, and seed.
func NewBackoff(base, cap time.Duration, seed int64) *Backoff {
	return &Backoff{
		Base: base,
		Cap:  cap,
		rng:  rand.New(rand.NewSource(seed)), //nolint:gosec // Jitter does not need crypto randomness
	}
}

// Delay returns the delay to apply before retry attempt n (0-based).
func (b *Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= b.Cap {
			d = b.Cap
			break
		}
	}

	// Uniform jitter over [d/2, d].
	b.mu.Lock()
	defer b.mu.Unlock()
	half := d / 2
	return half + time.Duration(b.rng.Int63n(int64(half)+1))
}
