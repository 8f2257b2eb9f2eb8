package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultFrameSize, cfg.FrameSize())
	assert.Equal(t, DefaultPadByte, cfg.PadByte())
	assert.Equal(t, []byte(DefaultTerminator), cfg.Terminator())
	assert.True(t, cfg.WordSwap())
	assert.Equal(t, DefaultReadyInterval, cfg.ReadyInterval())
	assert.Equal(t, DefaultMaxReadySpins, cfg.MaxReadySpins())
	assert.Equal(t, DefaultMaxPayloadSize, cfg.MaxPayloadSize())
	assert.Equal(t, DefaultMaxResponseSize, cfg.MaxResponseSize())
	assert.NotNil(t, cfg.GetLogger())
}

func TestNewConfig_Options(t *testing.T) {
	cfg, err := NewConfig(
		WithFrameSize(4),
		WithPadByte(0x00),
		WithTerminator([]byte("\r\n")),
		WithWordSwap(false),
		WithReadyInterval(time.Millisecond),
		WithMaxReadySpins(50),
		WithMaxPayloadSize(64),
		WithMaxResponseSize(256),
	)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.FrameSize())
	assert.Equal(t, byte(0x00), cfg.PadByte())
	assert.Equal(t, []byte("\r\n"), cfg.Terminator())
	assert.False(t, cfg.WordSwap())
	assert.Equal(t, time.Millisecond, cfg.ReadyInterval())
	assert.Equal(t, 50, cfg.MaxReadySpins())
	assert.Equal(t, 64, cfg.MaxPayloadSize())
	assert.Equal(t, 256, cfg.MaxResponseSize())
}

func TestNewConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"frame size too small", WithFrameSize(0)},
		{"frame size too large", WithFrameSize(MaxFrameSize + 1)},
		{"empty terminator", WithTerminator(nil)},
		{"negative ready interval", WithReadyInterval(-time.Second)},
		{"zero ready spins", WithMaxReadySpins(0)},
		{"ready spins over limit", WithMaxReadySpins(MaxReadySpinLimit + 1)},
		{"negative receive interval", WithReceiveInterval(-time.Second)},
		{"zero max payload", WithMaxPayloadSize(0)},
		{"zero max response", WithMaxResponseSize(0)},
		{"nil logger", WithLogger(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestConfig_TerminatorIsCopied(t *testing.T) {
	term := []byte("\r\n> ")
	cfg, err := NewConfig(WithTerminator(term))
	require.NoError(t, err)

	term[0] = 'X'
	assert.Equal(t, []byte("\r\n> "), cfg.Terminator(), "config must not alias caller memory")

	got := cfg.Terminator()
	got[0] = 'Y'
	assert.Equal(t, []byte("\r\n> "), cfg.Terminator(), "getter must return a copy")
}
