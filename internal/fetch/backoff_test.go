package fetch

import (
	"testing"
	"time"
)

// TestBackoffGrowth tests exponential growth with jitter bounds.
func TestBackoffGrowth(t *testing.T) {
	t.Parallel()

	b := NewBackoff(100*time.Millisecond, 2*time.Second, 42)

	for attempt := 0; attempt < 8; attempt++ {
		full := 100 * time.Millisecond << attempt
		if full > 2*time.Second {
			full = 2 * time.Second
		}

		d := b.Delay(attempt)
		if d < full/2 || d > full {
			t.Errorf("Delay(%d) = %s, want within [%s, %s]", attempt, d, full/2, full)
		}
	}
}

// TestBackoffCap tests that delays never exceed the cap.
func TestBackoffCap(t *testing.T) {
	t.Parallel()

	b := NewBackoff(time.Second, 5*time.Second, 7)
	if d := b.Delay(30); d > 5*time.Second {
		t.Errorf("Delay(30) = %s, exceeds cap", d)
	}
}

// TestBackoffDeterministic tests that the same seed reproduces the same
// delay sequence, which is what makes retry timing testable.
func TestBackoffDeterministic(t *testing.T) {
	t.Parallel()

	a := NewBackoff(50*time.Millisecond, time.Second, 99)
	b := NewBackoff(50*time.Millisecond, time.Second, 99)

	for i := 0; i < 5; i++ {
		if da, db := a.Delay(i), b.Delay(i); da != db {
			t.Errorf("attempt %d: delays diverge (%s vs %s) with equal seeds", i, da, db)
		}
	}
}
