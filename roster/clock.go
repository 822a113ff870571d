package roster

import "time"

// =============================================================================
// CLOCK - Injectable current time
// =============================================================================

// Clock supplies "now" to the engine. All date-relative logic (edit window
// checks, propagation's current-period cutoff) reads time through a Clock so
// month boundaries and leap years are testable deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Testing/dev only.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
