// Package poll provides a bounded busy-wait primitive.
//
// Resource-constrained module protocols signal readiness through a hardware
// line or status flag that must be polled. Every polling site in go-eswifi
// uses the same primitive so that the spin bound and the wait interval are
// explicit and the worst-case blocking time stays deterministic.
package poll

import (
	"errors"
	"time"
)

// ErrExhausted is returned when the condition did not become true within the
// configured spin bound.
var ErrExhausted = errors.New("poll: spin bound exhausted")

// Sleeper abstracts the wait between polls so tests can substitute
// simulated time.
type Sleeper func(d time.Duration)

// Until polls cond up to maxSpins times, sleeping interval between polls.
//
// cond is evaluated before the first sleep, so a condition that is already
// true never sleeps. maxSpins must be >= 1; interval may be zero for a pure
// spin. sleep may be nil, in which case time.Sleep is used.
//
// Returns nil as soon as cond reports true, or ErrExhausted after maxSpins
// evaluations. The worst-case blocking time is (maxSpins-1) * interval plus
// the cost of the condition itself.
func Until(cond func() bool, maxSpins int, interval time.Duration, sleep Sleeper) error {
	if sleep == nil {
		sleep = time.Sleep
	}

	for spin := 0; spin < maxSpins; spin++ {
		if cond() {
			return nil
		}

		if spin < maxSpins-1 && interval > 0 {
			sleep(interval)
		}
	}

	return ErrExhausted
}
