package session

import (
	"math/rand"
	"time"
)

// Delay is the pause before connect attempt+1, where attempt counts the
// failures so far. The delay grows by Multiplier per failure up to Max. With
// Jitter the result is drawn from the upper half of that value, so two
// controllers restarted together do not redial in lockstep.
func (b BackoffConfig) Delay(attempt int, rng *rand.Rand) time.Duration {
	if b.InitialDelay <= 0 {
		return 0
	}
	mult := b.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(b.InitialDelay)
	for i := 1; i < attempt; i++ {
		d *= mult
		if b.MaxDelay > 0 && d >= float64(b.MaxDelay) {
			d = float64(b.MaxDelay)
			break
		}
	}
	if b.MaxDelay > 0 && d > float64(b.MaxDelay) {
		d = float64(b.MaxDelay)
	}
	if b.Jitter && rng != nil {
		d = d/2 + rng.Float64()*d/2
	}
	return time.Duration(d)
}
