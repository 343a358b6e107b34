package outbox

import (
	"math/rand"
	"time"
)

// retryDelay schedules the next attempt: one second doubling per
// failure, capped at maxBackoff, plus uniform jitter in [0, maxJitter]
// so competing relays do not retry in lockstep.
func retryDelay(attempts int, r *rand.Rand, maxBackoff, maxJitter time.Duration) time.Duration {
	var d time.Duration
	if attempts > 0 {
		d = maxBackoff
		// Shifts of 32+ overflow; they exceed any sane cap anyway.
		if shift := uint(attempts - 1); shift < 32 {
			if exp := time.Second << shift; exp < maxBackoff {
				d = exp
			}
		}
	}
	if r != nil && maxJitter > 0 {
		d += time.Duration(r.Int63n(int64(maxJitter) + 1)) //nolint:gosec
	}
	return d
}
