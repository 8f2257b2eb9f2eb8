package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// scriptBus is a scriptable in-memory Bus for framer tests. Outbound frames
// are recorded; inbound bytes are served from a queue with NAK filler once
// the queue drains.
type scriptBus struct {
	readyFn func() bool
	sent    [][]byte
	inbound []byte
	err     error
}

func (b *scriptBus) Exchange(frame []byte) error {
	if b.err != nil {
		return b.err
	}

	out := make([]byte, len(frame))
	copy(out, frame)
	b.sent = append(b.sent, out)

	for i := range frame {
		if len(b.inbound) > 0 {
			frame[i] = b.inbound[0]
			b.inbound = b.inbound[1:]
		} else {
			frame[i] = 0x15
		}
	}

	return nil
}

func (b *scriptBus) Ready() bool {
	if b.readyFn != nil {
		return b.readyFn()
	}

	return true
}

func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()

	base := []Option{
		WithWordSwap(false),
		WithReadyInterval(0),
		WithReceiveInterval(0),
	}
	cfg, err := NewConfig(append(base, opts...)...)
	require.NoError(t, err)

	return cfg
}

func TestFramer_SendPadsOddPayload(t *testing.T) {
	bus := &scriptBus{}
	f := NewFramer(bus, newTestConfig(t))

	require.NoError(t, f.Send([]byte("MR\r")))

	require.Len(t, bus.sent, 2, "3-byte payload occupies two 2-byte frames")
	assert.Equal(t, []byte("MR"), bus.sent[0])
	assert.Equal(t, []byte{'\r', 0x0A}, bus.sent[1], "odd payload gets exactly one pad byte")
}

func TestFramer_SendExactFrameMultiple(t *testing.T) {
	bus := &scriptBus{}
	f := NewFramer(bus, newTestConfig(t))

	require.NoError(t, f.Send([]byte("C0\r\n")))

	require.Len(t, bus.sent, 2)
	assert.Equal(t, []byte("C0"), bus.sent[0])
	assert.Equal(t, []byte("\r\n"), bus.sent[1])
}

func TestFramer_SendWordSwap(t *testing.T) {
	bus := &scriptBus{}
	cfg := newTestConfig(t, WithWordSwap(true))
	f := NewFramer(bus, cfg)

	require.NoError(t, f.Send([]byte("MR\r")))

	require.Len(t, bus.sent, 2)
	assert.Equal(t, []byte("RM"), bus.sent[0], "16-bit words go out LSB-first")
	assert.Equal(t, []byte{0x0A, '\r'}, bus.sent[1])
}

func TestFramer_SendPayloadTooLarge(t *testing.T) {
	bus := &scriptBus{}
	cfg := newTestConfig(t, WithMaxPayloadSize(4))
	f := NewFramer(bus, cfg)

	err := f.Send([]byte("C1=verylongssid\r"))
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Empty(t, bus.sent, "oversized payload must not touch the bus")
}

func TestFramer_SendNotReady(t *testing.T) {
	polls := 0
	bus := &scriptBus{readyFn: func() bool {
		polls++
		return false
	}}

	cfg := newTestConfig(t, WithMaxReadySpins(7))
	f := NewFramer(bus, cfg)

	err := f.Send([]byte("MR\r"))
	require.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, 7, polls, "ready line polled exactly maxReadySpins times")
	assert.Empty(t, bus.sent)
}

func TestFramer_SendBusFault(t *testing.T) {
	bus := &scriptBus{err: assert.AnError}
	f := NewFramer(bus, newTestConfig(t))

	err := f.Send([]byte("MR\r"))
	require.ErrorIs(t, err, ErrIoFault)
}

func TestFramer_ReceiveUntilTerminator(t *testing.T) {
	bus := &scriptBus{inbound: []byte("\r\nOK\r\n> ")}
	f := NewFramer(bus, newTestConfig(t))

	got, err := f.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("\r\nOK\r\n> "), got)
}

func TestFramer_ReceiveKeepsTrailingFiller(t *testing.T) {
	// Terminator lands mid-frame; the filler completing the final frame is
	// kept for the codec to strip.
	bus := &scriptBus{inbound: []byte("\r\n1.2.3\r\nOK\r\n> ")}
	f := NewFramer(bus, newTestConfig(t))

	got, err := f.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("\r\n1.2.3\r\nOK\r\n> \x15"), got)
}

func TestFramer_SendWordSwapWideFrame(t *testing.T) {
	bus := &scriptBus{}
	cfg := newTestConfig(t, WithFrameSize(4), WithWordSwap(true))
	f := NewFramer(bus, cfg)

	require.NoError(t, f.Send([]byte("ABCD")))

	require.Len(t, bus.sent, 1)
	assert.Equal(t, []byte("BADC"), bus.sent[0], "each 16-bit word swaps independently")
}

func TestFramer_ReceiveWordSwap(t *testing.T) {
	// Inbound bytes arrive in wire order (swapped per 16-bit word).
	bus := &scriptBus{inbound: []byte("\n\rKO\n\r >")}
	cfg := newTestConfig(t, WithWordSwap(true))
	f := NewFramer(bus, cfg)

	got, err := f.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("\r\nOK\r\n> "), got)
}

func TestFramer_ReceiveTimeoutDiscardsPartial(t *testing.T) {
	// No terminator ever arrives; only filler.
	bus := &scriptBus{}
	f := NewFramer(bus, newTestConfig(t, WithMaxResponseSize(1<<26)))

	got, err := f.Receive(10 * time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Nil(t, got, "partial data must never be surfaced")
}

func TestFramer_ReceiveOverflow(t *testing.T) {
	bus := &scriptBus{}
	cfg := newTestConfig(t, WithMaxResponseSize(8))
	f := NewFramer(bus, cfg)

	_, err := f.Receive(time.Second)
	require.ErrorIs(t, err, ErrIoFault)
}

func TestFramer_ReceiveNotReady(t *testing.T) {
	bus := &scriptBus{readyFn: func() bool { return false }}
	cfg := newTestConfig(t, WithMaxReadySpins(3))
	f := NewFramer(bus, cfg)

	_, err := f.Receive(time.Second)
	require.ErrorIs(t, err, ErrNotReady)
}

func TestFramer_ReceiveRespectsReadyPauses(t *testing.T) {
	// Module asserts ready, pauses for two polls mid-response, then
	// finishes. The framer must keep polling instead of failing.
	payload := []byte("\r\nOK\r\n> ")
	calls := 0
	bus := &scriptBus{inbound: payload}
	bus.readyFn = func() bool {
		calls++
		return calls < 3 || calls > 4
	}

	f := NewFramer(bus, newTestConfig(t))

	got, err := f.Receive(time.Second)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFramer_MockBus(t *testing.T) {
	bus := NewMockBus()
	bus.On("Ready").Return(true)
	bus.On("Exchange", mock.Anything).Return(assert.AnError)

	framer := NewFramer(bus, newTestConfig(t))

	err := framer.Send([]byte("MR"))
	require.ErrorIs(t, err, ErrIoFault)
	bus.AssertExpectations(t)
}
