package transport

import (
	"fmt"
	"io"
	"net"
	"time"
)

// DefaultBridgeTimeout is the default per-exchange deadline for a NetBus.
const DefaultBridgeTimeout = 5 * time.Second

// NetBus is a Bus backed by a TCP connection to a bus bridge: a small
// daemon sitting next to the module that clocks each frame onto the
// physical bus and streams the clocked-in bytes back. Each Exchange
// writes one frame and reads exactly the same number of bytes.
//
// The bridge owns readiness: it does not complete an exchange before the
// module's data-ready line allows it, so Ready always reports true here
// and the deadline bounds the wait instead.
type NetBus struct {
	conn    net.Conn
	timeout time.Duration
}

// NewNetBus dials a bus bridge at addr. A non-positive timeout selects
// DefaultBridgeTimeout.
func NewNetBus(addr string, timeout time.Duration) (*NetBus, error) {
	if timeout <= 0 {
		timeout = DefaultBridgeTimeout
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("transport: dial bridge %s: %w", addr, err)
	}

	return &NetBus{conn: conn, timeout: timeout}, nil
}

// NewNetBusConn wraps an established connection, mainly for tests.
func NewNetBusConn(conn net.Conn, timeout time.Duration) *NetBus {
	if timeout <= 0 {
		timeout = DefaultBridgeTimeout
	}

	return &NetBus{conn: conn, timeout: timeout}
}

// Ready implements the Bus interface.
func (b *NetBus) Ready() bool { return true }

// Exchange implements the Bus interface. The frame is overwritten in
// place with the bytes the bridge clocked in.
func (b *NetBus) Exchange(frame []byte) error {
	if err := b.conn.SetDeadline(time.Now().Add(b.timeout)); err != nil {
		return fmt.Errorf("transport: bridge deadline: %w", err)
	}

	if _, err := b.conn.Write(frame); err != nil {
		return fmt.Errorf("transport: bridge write: %w", err)
	}
	if _, err := io.ReadFull(b.conn, frame); err != nil {
		return fmt.Errorf("transport: bridge read: %w", err)
	}

	return nil
}

// Close closes the underlying connection.
func (b *NetBus) Close() error {
	return b.conn.Close()
}
