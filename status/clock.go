package status

import "time"

// Clock supplies the delays between LED edges. Production code uses the
// real clock; tests substitute a recording fake so playback is instant.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

// Sleep implements the Clock interface.
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
