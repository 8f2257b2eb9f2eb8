package transport

import "errors"

// Sentinel errors for the transport layer.
//
// All transport errors are non-retryable at this layer; the protocol driver
// above decides whether a failed exchange is worth another attempt.
var (
	// ErrNotReady indicates the module's ready line did not assert within
	// the configured spin bound.
	ErrNotReady = errors.New("transport: module not ready")

	// ErrTimeout indicates no terminator was observed within the maximum
	// wait. The partial receive buffer is discarded.
	ErrTimeout = errors.New("transport: receive timeout")

	// ErrIoFault indicates a bus-level exchange failure or a response that
	// exceeded the receive buffer limit.
	ErrIoFault = errors.New("transport: i/o fault")

	// ErrPayloadTooLarge indicates an outbound payload exceeds the
	// configured maximum and was not sent.
	ErrPayloadTooLarge = errors.New("transport: payload too large")
)

// Bus is the hardware abstraction for the synchronous byte transport
// peripheral (SPI on real hardware).
//
// Implementations are not required to be goroutine-safe; the framer owns
// the bus exclusively and performs one exchange at a time, consistent with
// the half-duplex nature of the link.
type Bus interface {
	// Exchange clocks exactly one frame in both directions. frame holds the
	// outbound bytes on entry and is overwritten with the inbound bytes on
	// return. len(frame) always equals the configured frame size.
	Exchange(frame []byte) error

	// Ready reports the state of the module's data-ready line. High means
	// the module can accept a command or has response bytes pending.
	Ready() bool
}
