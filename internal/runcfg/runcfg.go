// Package runcfg holds the command-line run configuration: defaults, a
// TOML config file mirror, environment overrides, and the precedence
// rules between them (flags over environment over file over defaults).
package runcfg

import (
	"fmt"
	"strconv"
	"time"

	"github.com/arloliu/go-eswifi/eswifi"
)

// Config holds the resolved run configuration for the eswifi command.
type Config struct {
	SSID       string
	Passphrase string

	Host string
	Port int
	Path string

	JoinAttempts   int
	StatusInterval time.Duration
	StatusAttempts int
	ResponseWait   time.Duration
	ReadWait       time.Duration

	// Bridge is the TCP address of a bus bridge exposing the module's
	// SPI interface over the network. Empty selects the emulator.
	Bridge string

	LogLevel string
	Verbose  bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Port:           80,
		Path:           eswifi.DefaultPath,
		JoinAttempts:   eswifi.DefaultJoinAttempts,
		StatusInterval: eswifi.DefaultStatusInterval,
		StatusAttempts: eswifi.DefaultStatusAttempts,
		ResponseWait:   eswifi.DefaultResponseWait,
		ReadWait:       eswifi.DefaultReadWait,
		LogLevel:       "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SSID == "" {
		return fmt.Errorf("ssid is required")
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range [1, 65535]", c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	return nil
}

// DriverOptions converts the run configuration to driver options.
func (c *Config) DriverOptions() []eswifi.Option {
	return []eswifi.Option{
		eswifi.WithPath(c.Path),
		eswifi.WithJoinAttempts(c.JoinAttempts),
		eswifi.WithStatusInterval(c.StatusInterval),
		eswifi.WithStatusAttempts(c.StatusAttempts),
		eswifi.WithResponseWait(c.ResponseWait),
		eswifi.WithReadWait(c.ReadWait),
	}
}

// configSetter applies configuration values while respecting flag
// precedence: a value is ignored when its flag was explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d

	return nil
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i

	return nil
}
