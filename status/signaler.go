package status

import (
	"context"

	"github.com/arloliu/go-eswifi/eswifi"
	"github.com/arloliu/go-eswifi/logger"
)

// Signaler plays blink patterns on a single LED. It implements
// eswifi.Signaler.
//
// Playback is strictly sequential: Play blocks until the full pattern has
// run, so two patterns can never interleave on the shared LED, and the
// LED is always left off afterwards.
type Signaler struct {
	led    LED
	clock  Clock
	logger logger.Logger
}

// SignalerOption configures a Signaler.
type SignalerOption func(*Signaler)

// WithClock substitutes the clock used between LED edges.
func WithClock(clock Clock) SignalerOption {
	return func(s *Signaler) { s.clock = clock }
}

// WithLogger sets the logger for the signaler.
func WithLogger(l logger.Logger) SignalerOption {
	return func(s *Signaler) { s.logger = l }
}

// NewSignaler creates a Signaler driving the given LED.
func NewSignaler(led LED, opts ...SignalerOption) *Signaler {
	s := &Signaler{
		led:    led,
		clock:  realClock{},
		logger: logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Signal implements the eswifi.Signaler interface. Stage results with no
// blink class are ignored.
func (s *Signaler) Signal(stage eswifi.Stage, outcome eswifi.Outcome) {
	class, ok := ClassOf(stage, outcome)
	if !ok {
		return
	}

	s.logger.Debug("status: signaling", "stage", stage, "class", class)
	s.Play(class)
}

// Heartbeat implements the eswifi.Signaler interface. It blinks the
// heartbeat pattern until ctx is done, then leaves the LED off.
func (s *Signaler) Heartbeat(ctx context.Context) {
	pattern := PatternFor(ClassHeartbeat)

	for ctx.Err() == nil {
		s.led.Set(true)
		s.clock.Sleep(pattern.On)
		s.led.Set(false)

		if ctx.Err() != nil {
			break
		}
		s.clock.Sleep(pattern.Off)
	}

	s.led.Set(false)
}

// Play blocks until the full pattern for class has been emitted. The
// trailing off period of the last repeat is skipped when its duration is
// zero, and the LED is off when Play returns.
//
// Patterns with Repeats == Forever are rejected; unbounded blinking is
// driven by Heartbeat, which stops on context cancellation.
func (s *Signaler) Play(class Class) {
	pattern := PatternFor(class)
	if pattern.Repeats == Forever {
		s.logger.Warn("status: unbounded pattern not playable", "class", class)
		return
	}

	for i := 0; i < pattern.Repeats; i++ {
		s.led.Set(true)
		s.clock.Sleep(pattern.On)
		s.led.Set(false)

		if pattern.Off > 0 {
			s.clock.Sleep(pattern.Off)
		}
	}
}
