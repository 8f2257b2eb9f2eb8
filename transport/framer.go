package transport

import (
	"bytes"
	"fmt"
	"time"

	"github.com/arloliu/go-eswifi/internal/poll"
	"github.com/arloliu/go-eswifi/logger"
)

// Framer provides Send/Receive over a fixed-width frame Bus.
//
// This type is NOT goroutine-safe. The caller must ensure only one
// operation is active at a time, consistent with the half-duplex nature of
// the link.
type Framer struct {
	bus    Bus
	cfg    *Config
	logger logger.Logger
}

// NewFramer creates a Framer for the given bus and configuration.
func NewFramer(bus Bus, cfg *Config) *Framer {
	return &Framer{
		bus:    bus,
		cfg:    cfg,
		logger: cfg.GetLogger(),
	}
}

// Send pads payload to the fixed frame width and writes it frame by frame.
//
// The frame length on the wire is constant: a payload shorter than a whole
// number of frames gets pad bytes appended (one trailing pad byte for an
// odd-length payload on 16-bit modules).
//
// Send busy-waits on the ready line first, bounded by the configured spin
// count, and fails with ErrNotReady if the line never asserts.
func (f *Framer) Send(payload []byte) error {
	if len(payload) > f.cfg.maxPayloadSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(payload), f.cfg.maxPayloadSize)
	}

	if err := f.waitReady(); err != nil {
		return err
	}

	frameSize := f.cfg.frameSize
	frame := make([]byte, frameSize)

	for off := 0; off < len(payload); off += frameSize {
		n := copy(frame, payload[off:])
		for i := n; i < frameSize; i++ {
			frame[i] = f.cfg.padByte
		}

		f.swap(frame)

		if err := f.bus.Exchange(frame); err != nil {
			return fmt.Errorf("%w: send frame at offset %d: %w", ErrIoFault, off, err)
		}
	}

	return nil
}

// Receive clocks out pad-filled frames and accumulates the inbound bytes
// until the terminator sequence appears in the stream or maxWait elapses.
//
// On timeout the partial buffer is discarded and ErrTimeout is returned;
// partial data is never surfaced. The returned bytes include everything up
// to and including the terminator, filler bytes and all — filler semantics
// belong to the codec above.
func (f *Framer) Receive(maxWait time.Duration) ([]byte, error) {
	if err := f.waitReady(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(maxWait)
	frame := make([]byte, f.cfg.frameSize)
	buf := make([]byte, 0, f.cfg.frameSize*8)

	for {
		if time.Now().After(deadline) {
			f.logger.Debug("transport: receive timeout, discarding partial buffer",
				"buffered", len(buf), "maxWait", maxWait)

			return nil, ErrTimeout
		}

		if !f.bus.Ready() {
			// Module paused mid-response; poll again until the deadline.
			if f.cfg.receiveInterval > 0 {
				time.Sleep(f.cfg.receiveInterval)
			}

			continue
		}

		for i := range frame {
			frame[i] = f.cfg.padByte
		}

		if err := f.bus.Exchange(frame); err != nil {
			return nil, fmt.Errorf("%w: receive frame: %w", ErrIoFault, err)
		}

		f.swap(frame)
		buf = append(buf, frame...)

		if len(buf) > f.cfg.maxResponseSize {
			return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrIoFault, f.cfg.maxResponseSize)
		}

		if bytes.Contains(buf, f.cfg.terminator) {
			return buf, nil
		}
	}
}

// waitReady busy-waits on the module's ready line, bounded by the
// configured spin count.
func (f *Framer) waitReady() error {
	err := poll.Until(f.bus.Ready, f.cfg.maxReadySpins, f.cfg.readyInterval, nil)
	if err != nil {
		return fmt.Errorf("%w: ready line low after %d spins", ErrNotReady, f.cfg.maxReadySpins)
	}

	return nil
}

// swap normalizes the on-wire byte order of a single frame in place by
// swapping each adjacent 16-bit pair.
func (f *Framer) swap(frame []byte) {
	if !f.cfg.wordSwap {
		return
	}

	for i := 0; i+1 < len(frame); i += 2 {
		frame[i], frame[i+1] = frame[i+1], frame[i]
	}
}
