package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-eswifi/logger"
)

// Default framing constants for ISM43362-generation eS-WiFi modules.
const (
	// DefaultFrameSize is the fixed frame width in bytes (16-bit SPI words).
	DefaultFrameSize = 2

	// DefaultPadByte is the byte clocked out to fill a short outbound frame
	// and to keep the clock running during reads (LF per the eS-WiFi
	// datasheet).
	DefaultPadByte byte = 0x0A

	// DefaultTerminator is the module's command prompt. Its appearance in
	// the inbound stream marks the end of a response.
	DefaultTerminator = "\r\n> "

	DefaultReadyInterval = 10 * time.Millisecond
	DefaultMaxReadySpins = 1000

	DefaultReceiveInterval = 1 * time.Millisecond

	DefaultMaxPayloadSize  = 1500
	DefaultMaxResponseSize = 2048
)

// Framing limits.
const (
	MinFrameSize = 1
	MaxFrameSize = 32

	MaxReadySpinLimit = 100000
)

// Config holds all configuration for a Framer.
//
// Frame width, pad byte, and terminator are fixed constants of the specific
// module generation; they are configurable here so the protocol logic above
// never needs to change when the module does.
type Config struct {
	frameSize  int
	padByte    byte
	terminator []byte

	// wordSwap normalizes the on-wire byte order of multi-byte frames.
	// ISM43362 modules transfer 16-bit words LSB-first, so the two bytes of
	// each frame appear swapped relative to the logical stream.
	wordSwap bool

	readyInterval time.Duration
	maxReadySpins int

	receiveInterval time.Duration

	maxPayloadSize  int
	maxResponseSize int

	logger logger.Logger
}

// NewConfig creates a framer configuration with eS-WiFi defaults,
// then applies the given options in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		frameSize:       DefaultFrameSize,
		padByte:         DefaultPadByte,
		terminator:      []byte(DefaultTerminator),
		wordSwap:        true,
		readyInterval:   DefaultReadyInterval,
		maxReadySpins:   DefaultMaxReadySpins,
		receiveInterval: DefaultReceiveInterval,
		maxPayloadSize:  DefaultMaxPayloadSize,
		maxResponseSize: DefaultMaxResponseSize,
		logger:          logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// --- Getters ---

// FrameSize returns the fixed frame width in bytes.
func (cfg *Config) FrameSize() int { return cfg.frameSize }

// PadByte returns the outbound pad/fill byte.
func (cfg *Config) PadByte() byte { return cfg.padByte }

// Terminator returns a copy of the response terminator sequence.
func (cfg *Config) Terminator() []byte {
	out := make([]byte, len(cfg.terminator))
	copy(out, cfg.terminator)

	return out
}

// WordSwap returns whether frame bytes are swapped on the wire.
func (cfg *Config) WordSwap() bool { return cfg.wordSwap }

// ReadyInterval returns the wait between ready-line polls.
func (cfg *Config) ReadyInterval() time.Duration { return cfg.readyInterval }

// MaxReadySpins returns the ready-line spin bound.
func (cfg *Config) MaxReadySpins() int { return cfg.maxReadySpins }

// MaxPayloadSize returns the maximum outbound payload size in bytes.
func (cfg *Config) MaxPayloadSize() int { return cfg.maxPayloadSize }

// MaxResponseSize returns the maximum accumulated response size in bytes.
func (cfg *Config) MaxResponseSize() int { return cfg.maxResponseSize }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// --- Option ---

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithFrameSize sets the fixed frame width in bytes. Must be in
// [MinFrameSize, MaxFrameSize].
func WithFrameSize(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < MinFrameSize || n > MaxFrameSize {
			return fmt.Errorf("transport: frame size %d out of range [%d, %d]", n, MinFrameSize, MaxFrameSize)
		}
		cfg.frameSize = n

		return nil
	})
}

// WithPadByte sets the outbound pad/fill byte.
func WithPadByte(b byte) Option {
	return optFunc(func(cfg *Config) error {
		cfg.padByte = b

		return nil
	})
}

// WithTerminator sets the response terminator sequence.
func WithTerminator(t []byte) Option {
	return optFunc(func(cfg *Config) error {
		if len(t) == 0 {
			return errors.New("transport: terminator must not be empty")
		}
		cfg.terminator = make([]byte, len(t))
		copy(cfg.terminator, t)

		return nil
	})
}

// WithWordSwap enables or disables on-wire byte-order normalization.
// Enabled by default; only meaningful for multi-byte frames.
func WithWordSwap(enabled bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.wordSwap = enabled

		return nil
	})
}

// WithReadyInterval sets the wait between ready-line polls.
func WithReadyInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return errors.New("transport: ready interval must not be negative")
		}
		cfg.readyInterval = d

		return nil
	})
}

// WithMaxReadySpins sets the ready-line spin bound. Must be in
// [1, MaxReadySpinLimit].
func WithMaxReadySpins(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 1 || n > MaxReadySpinLimit {
			return fmt.Errorf("transport: max ready spins %d out of range [1, %d]", n, MaxReadySpinLimit)
		}
		cfg.maxReadySpins = n

		return nil
	})
}

// WithReceiveInterval sets the wait between receive polls while the module
// holds the ready line low mid-response.
func WithReceiveInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return errors.New("transport: receive interval must not be negative")
		}
		cfg.receiveInterval = d

		return nil
	})
}

// WithMaxPayloadSize sets the maximum outbound payload size.
func WithMaxPayloadSize(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 1 {
			return errors.New("transport: max payload size must be >= 1")
		}
		cfg.maxPayloadSize = n

		return nil
	})
}

// WithMaxResponseSize sets the maximum accumulated response size.
func WithMaxResponseSize(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 1 {
			return errors.New("transport: max response size must be >= 1")
		}
		cfg.maxResponseSize = n

		return nil
	})
}

// WithLogger sets the logger for the framer.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("transport: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
