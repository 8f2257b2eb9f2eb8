package eswifi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/go-eswifi/logger"
)

// Default driver settings.
const (
	// DefaultJoinAttempts is the maximum number of join attempts before
	// the step fails terminally.
	DefaultJoinAttempts = 3

	// DefaultStatusInterval is the wait between join status polls.
	DefaultStatusInterval = 500 * time.Millisecond

	// DefaultStatusAttempts bounds the join status poll loop
	// (20 * 500ms = 10s per join attempt).
	DefaultStatusAttempts = 20

	// DefaultResponseWait is the maximum wait for a command response.
	DefaultResponseWait = 5 * time.Second

	// DefaultReadWait is the maximum wait for the socket read response,
	// which includes the remote server's own response time.
	DefaultReadWait = 10 * time.Second

	// DefaultPath is the request path when none is configured.
	DefaultPath = "/"
)

// Configuration limits.
const (
	MaxJoinAttempts = 10

	MaxSSIDLen       = 32
	MaxPassphraseLen = MaxArgLen
	MaxHostLen       = MaxArgLen
	MaxPathLen       = 256

	MinResponseWait = 10 * time.Millisecond
	MaxResponseWait = 120 * time.Second
)

// openRetryLimit is the number of additional open attempts after the
// first failure. The open step retries exactly once.
const openRetryLimit = 1

// Security settings programmed during join (WPA2 per the eS-WiFi dialect).
const (
	securityWPA2   = "2"
	encryptionWPA2 = "4"
	socketID       = "0"
	protocolTCP    = "0"
)

// Config holds the immutable configuration for a Driver: network
// credentials, the request target, retry bounds, and timing. Credentials
// are never persisted or logged by the driver.
type Config struct {
	ssid       string
	passphrase string

	host string
	port int
	path string

	joinAttempts   int
	statusInterval time.Duration
	statusAttempts int

	responseWait time.Duration
	readWait     time.Duration

	filler byte

	logger logger.Logger
}

// NewConfig creates a driver configuration.
//
// ssid and passphrase are the network credentials; host and port identify
// the request target. opts are functional options applied in order.
func NewConfig(ssid, passphrase, host string, port int, opts ...Option) (*Config, error) {
	cfg := &Config{
		path:           DefaultPath,
		joinAttempts:   DefaultJoinAttempts,
		statusInterval: DefaultStatusInterval,
		statusAttempts: DefaultStatusAttempts,
		responseWait:   DefaultResponseWait,
		readWait:       DefaultReadWait,
		filler:         DefaultFiller,
		logger:         logger.GetLogger(),
	}

	if err := cfg.setCredentials(ssid, passphrase); err != nil {
		return nil, err
	}
	if err := cfg.setTarget(host, port); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) setCredentials(ssid, passphrase string) error {
	if ssid == "" || len(ssid) > MaxSSIDLen {
		return fmt.Errorf("eswifi: ssid length must be in [1, %d]", MaxSSIDLen)
	}
	if strings.IndexByte(ssid, CmdTerminator) >= 0 {
		return errors.New("eswifi: ssid contains terminator character")
	}
	if len(passphrase) > MaxPassphraseLen {
		return fmt.Errorf("eswifi: passphrase exceeds %d bytes", MaxPassphraseLen)
	}
	if strings.IndexByte(passphrase, CmdTerminator) >= 0 {
		return errors.New("eswifi: passphrase contains terminator character")
	}

	cfg.ssid = ssid
	cfg.passphrase = passphrase

	return nil
}

func (cfg *Config) setTarget(host string, port int) error {
	if host == "" || len(host) > MaxHostLen {
		return fmt.Errorf("eswifi: host length must be in [1, %d]", MaxHostLen)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("eswifi: port %d out of range [1, 65535]", port)
	}

	cfg.host = host
	cfg.port = port

	return nil
}

// --- Getters ---

// SSID returns the configured network name.
func (cfg *Config) SSID() string { return cfg.ssid }

// Host returns the request target host.
func (cfg *Config) Host() string { return cfg.host }

// Port returns the request target port.
func (cfg *Config) Port() int { return cfg.port }

// Path returns the request path.
func (cfg *Config) Path() string { return cfg.path }

// JoinAttempts returns the maximum number of join attempts.
func (cfg *Config) JoinAttempts() int { return cfg.joinAttempts }

// StatusInterval returns the wait between join status polls.
func (cfg *Config) StatusInterval() time.Duration { return cfg.statusInterval }

// StatusAttempts returns the join status poll bound.
func (cfg *Config) StatusAttempts() int { return cfg.statusAttempts }

// ResponseWait returns the maximum wait for a command response.
func (cfg *Config) ResponseWait() time.Duration { return cfg.responseWait }

// ReadWait returns the maximum wait for the socket read response.
func (cfg *Config) ReadWait() time.Duration { return cfg.readWait }

// Filler returns the response filler byte.
func (cfg *Config) Filler() byte { return cfg.filler }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// --- Option ---

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithPath sets the request path. Must start with '/'.
func WithPath(path string) Option {
	return optFunc(func(cfg *Config) error {
		if !strings.HasPrefix(path, "/") || len(path) > MaxPathLen {
			return fmt.Errorf("eswifi: path must start with '/' and be at most %d bytes", MaxPathLen)
		}
		cfg.path = path

		return nil
	})
}

// WithJoinAttempts sets the maximum number of join attempts.
// Must be in [1, MaxJoinAttempts].
func WithJoinAttempts(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 1 || n > MaxJoinAttempts {
			return fmt.Errorf("eswifi: join attempts %d out of range [1, %d]", n, MaxJoinAttempts)
		}
		cfg.joinAttempts = n

		return nil
	})
}

// WithStatusInterval sets the wait between join status polls.
func WithStatusInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return errors.New("eswifi: status interval must not be negative")
		}
		cfg.statusInterval = d

		return nil
	})
}

// WithStatusAttempts sets the join status poll bound.
func WithStatusAttempts(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 1 {
			return errors.New("eswifi: status attempts must be >= 1")
		}
		cfg.statusAttempts = n

		return nil
	})
}

// WithResponseWait sets the maximum wait for a command response.
func WithResponseWait(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinResponseWait || d > MaxResponseWait {
			return fmt.Errorf("eswifi: response wait %v out of range [%v, %v]", d, MinResponseWait, MaxResponseWait)
		}
		cfg.responseWait = d

		return nil
	})
}

// WithReadWait sets the maximum wait for the socket read response.
func WithReadWait(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinResponseWait || d > MaxResponseWait {
			return fmt.Errorf("eswifi: read wait %v out of range [%v, %v]", d, MinResponseWait, MaxResponseWait)
		}
		cfg.readWait = d

		return nil
	})
}

// WithFiller sets the response filler byte for the module generation.
func WithFiller(b byte) Option {
	return optFunc(func(cfg *Config) error {
		cfg.filler = b

		return nil
	})
}

// WithLogger sets the logger for the driver.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("eswifi: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
