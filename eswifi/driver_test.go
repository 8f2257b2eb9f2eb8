package eswifi

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-eswifi/internal/emu"
	"github.com/arloliu/go-eswifi/logger"
	"github.com/arloliu/go-eswifi/transport"
)

// newMockLogger creates a MockLogger that accepts every log level, so code
// under test can log freely.
func newMockLogger() *logger.MockLogger {
	mockLogger := logger.NewMockLogger()
	mockLogger.On("Debug", mock.Anything, mock.Anything).Return()
	mockLogger.On("Info", mock.Anything, mock.Anything).Return()
	mockLogger.On("Warn", mock.Anything, mock.Anything).Return()
	mockLogger.On("Error", mock.Anything, mock.Anything).Return()
	mockLogger.On("Fatal", mock.Anything, mock.Anything).Return()

	return mockLogger
}

// newEmuDriver wires a Driver to an emulated module through the real
// transport, with polling intervals zeroed so tests run instantly.
func newEmuDriver(t *testing.T, mod *emu.Module, opts ...Option) *Driver {
	t.Helper()

	tcfg, err := transport.NewConfig(
		transport.WithReadyInterval(0),
		transport.WithReceiveInterval(0),
		transport.WithLogger(newMockLogger()),
	)
	require.NoError(t, err)

	baseOpts := []Option{
		WithStatusInterval(0),
		WithResponseWait(50 * time.Millisecond),
		WithReadWait(50 * time.Millisecond),
		WithLogger(newMockLogger()),
	}

	cfg, err := NewConfig("lab-net", "secret", "example.com", 80, append(baseOpts, opts...)...)
	require.NoError(t, err)

	return NewDriver(transport.NewFramer(mod, tcfg), cfg)
}

func TestDriverFullLifecycle(t *testing.T) {
	mod := &emu.Module{
		SSID:         "lab-net",
		Passphrase:   "secret",
		ResponseBody: "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi",
	}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Ok())
	assert.Equal(t, InitializedState, driver.State())

	require.True(t, driver.Join().Ok())
	assert.Equal(t, JoinedState, driver.State())

	require.True(t, driver.Open().Ok())
	assert.Equal(t, SocketOpenState, driver.State())
	assert.True(t, mod.SocketOpen())

	require.True(t, driver.Request().Ok())
	assert.Equal(t, ResponseReadyState, driver.State())
	assert.Equal(t,
		[]byte("GET / HTTP/1.1\r\nHost: example.com\r\nConnection: close\r\n\r\n"),
		mod.LastRequest())

	require.True(t, driver.CloseSocket().Ok())
	assert.Equal(t, ClosedState, driver.State())
	assert.False(t, mod.SocketOpen())

	commands := mod.Commands()
	assert.Contains(t, commands, "MT=1")
	assert.Contains(t, commands, "MR")
	assert.Contains(t, commands, "Z5")
	assert.Contains(t, commands, "CB=2")
	assert.Contains(t, commands, "C1=lab-net")
	assert.Contains(t, commands, "C3=4")
	assert.Contains(t, commands, "C0")
	assert.Contains(t, commands, "P3=example.com")
	assert.Contains(t, commands, "P4=80")
	assert.Contains(t, commands, "P6=1")
	assert.Contains(t, commands, "R0")
	assert.Contains(t, commands, "P6=0")

	metrics := driver.Metrics()
	assert.Equal(t, int64(len(commands)), metrics.CommandCount.Value())
	assert.Equal(t, int64(len(commands)), metrics.ResponseCount.Value())
	assert.Zero(t, metrics.RetryCount.Value())
	assert.Zero(t, metrics.FaultCount.Value())
}

func TestDriverLogsThroughConfiguredLogger(t *testing.T) {
	mockLogger := newMockLogger()
	mod := &emu.Module{}
	driver := newEmuDriver(t, mod, WithLogger(mockLogger))

	require.True(t, driver.Init().Ok())
	mockLogger.AssertCalled(t, "Info", mock.Anything, mock.Anything)

	require.True(t, driver.Join().Ok())
	mockLogger.AssertCalled(t, "Debug", mock.Anything, mock.Anything)
}

func TestDriverInitNotReady(t *testing.T) {
	mod := &emu.Module{NeverReady: true}
	driver := newEmuDriver(t, mod)

	outcome := driver.Init()
	require.True(t, outcome.Fatal())
	require.ErrorIs(t, outcome.Reason, ErrInitFailed)
	assert.Equal(t, FaultedState, driver.State())

	// nothing reached the module
	assert.Empty(t, mod.Commands())
	assert.Equal(t, int64(1), driver.Metrics().FaultCount.Value())
}

func TestDriverInitBusFault(t *testing.T) {
	mod := &emu.Module{ExchangeErr: errors.New("spi: bus stuck")}
	driver := newEmuDriver(t, mod)

	outcome := driver.Init()
	require.True(t, outcome.Fatal())
	require.ErrorIs(t, outcome.Reason, ErrUnexpected)
	assert.Equal(t, FaultedState, driver.State())
}

func TestDriverInitGarbageResponse(t *testing.T) {
	mod := &emu.Module{Garbage: true}
	driver := newEmuDriver(t, mod)

	outcome := driver.Init()
	require.True(t, outcome.Fatal())
	require.ErrorIs(t, outcome.Reason, ErrInitFailed)
}

func TestDriverInitOutOfOrder(t *testing.T) {
	mod := &emu.Module{}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Ok())

	outcome := driver.Init()
	require.True(t, outcome.Fatal())
	require.ErrorIs(t, outcome.Reason, ErrUnexpected)
	assert.Equal(t, FaultedState, driver.State())
}

func TestDriverJoinRetriesThenSucceeds(t *testing.T) {
	mod := &emu.Module{SSID: "lab-net", Passphrase: "secret", JoinFailures: 2}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Ok())

	outcome := driver.Join()
	require.True(t, outcome.Ok())
	assert.Equal(t, JoinedState, driver.State())
	assert.Equal(t, 3, mod.JoinAttempts())
	assert.Equal(t, int64(2), driver.Metrics().RetryCount.Value())
}

func TestDriverJoinExhausted(t *testing.T) {
	mod := &emu.Module{SSID: "lab-net", Passphrase: "secret", JoinFailures: 3}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Ok())

	outcome := driver.Join()
	require.True(t, outcome.Fatal())
	require.ErrorIs(t, outcome.Reason, ErrJoinFailed)
	assert.Equal(t, FaultedState, driver.State())
	assert.Equal(t, 3, mod.JoinAttempts())

	metrics := driver.Metrics()
	assert.Equal(t, int64(2), metrics.RetryCount.Value())
	assert.Equal(t, int64(1), metrics.FaultCount.Value())
}

func TestDriverJoinAttemptBound(t *testing.T) {
	mod := &emu.Module{SSID: "lab-net", Passphrase: "secret", JoinFailures: 10}
	driver := newEmuDriver(t, mod, WithJoinAttempts(1))

	require.True(t, driver.Init().Ok())

	outcome := driver.Join()
	require.True(t, outcome.Fatal())
	require.ErrorIs(t, outcome.Reason, ErrJoinFailed)
	assert.Equal(t, 1, mod.JoinAttempts())
	assert.Zero(t, driver.Metrics().RetryCount.Value())
}

func TestDriverJoinWrongCredentials(t *testing.T) {
	mod := &emu.Module{SSID: "other-net", Passphrase: "secret"}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Ok())

	outcome := driver.Join()
	require.True(t, outcome.Fatal())
	require.ErrorIs(t, outcome.Reason, ErrJoinFailed)
	assert.Equal(t, FaultedState, driver.State())
}

func TestDriverOpenRetriesOnce(t *testing.T) {
	mod := &emu.Module{OpenFailures: 1}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Ok())
	require.True(t, driver.Join().Ok())

	outcome := driver.Open()
	require.True(t, outcome.Ok())
	assert.Equal(t, SocketOpenState, driver.State())
	assert.Equal(t, int64(1), driver.Metrics().RetryCount.Value())
}

func TestDriverOpenExhausted(t *testing.T) {
	mod := &emu.Module{OpenFailures: 2}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Ok())
	require.True(t, driver.Join().Ok())

	outcome := driver.Open()
	require.True(t, outcome.Fatal())
	require.ErrorIs(t, outcome.Reason, ErrOpenFailed)
	assert.Equal(t, FaultedState, driver.State())
	assert.Equal(t, int64(1), driver.Metrics().RetryCount.Value())
}

func TestDriverRequestFailure(t *testing.T) {
	mod := &emu.Module{}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Ok())
	require.True(t, driver.Join().Ok())
	require.True(t, driver.Open().Ok())

	mod.Garbage = true

	outcome := driver.Request()
	require.True(t, outcome.Fatal())
	require.ErrorIs(t, outcome.Reason, ErrRequestFailed)
	assert.Equal(t, FaultedState, driver.State())
}

func TestDriverCloseBestEffort(t *testing.T) {
	mod := &emu.Module{ResponseBody: "HTTP/1.1 200 OK"}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Ok())
	require.True(t, driver.Join().Ok())
	require.True(t, driver.Open().Ok())
	require.True(t, driver.Request().Ok())

	// close command fails, the step still succeeds
	mod.Garbage = true

	outcome := driver.CloseSocket()
	require.True(t, outcome.Ok())
	assert.Equal(t, ClosedState, driver.State())
}

func TestDriverReset(t *testing.T) {
	mod := &emu.Module{NeverReady: true}
	driver := newEmuDriver(t, mod)

	require.True(t, driver.Init().Fatal())
	assert.Equal(t, FaultedState, driver.State())

	driver.Reset()
	assert.Equal(t, UninitializedState, driver.State())
}

func TestDriverOnStateChange(t *testing.T) {
	mod := &emu.Module{}
	driver := newEmuDriver(t, mod)

	var states []ConnState
	driver.OnStateChange(func(prev, next ConnState) {
		states = append(states, next)
	})

	require.True(t, driver.Init().Ok())
	require.True(t, driver.Join().Ok())

	assert.Equal(t, []ConnState{InitializedState, JoiningState, JoinedState}, states)
}
