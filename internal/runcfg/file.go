package runcfg

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly. The network passphrase is deliberately absent: credentials are
// passed by flag or environment, never read from or written to disk here.
type FileConfig struct {
	SSID string `toml:"ssid"`

	Host string `toml:"host"`
	Port int    `toml:"port"`
	Path string `toml:"path"`

	JoinAttempts   int    `toml:"join_attempts"`
	StatusInterval string `toml:"status_interval"`
	StatusAttempts int    `toml:"status_attempts"`
	ResponseWait   string `toml:"response_wait"`
	ReadWait       string `toml:"read_wait"`

	Bridge string `toml:"bridge"`

	LogLevel string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig

	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}

	return fc, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.eswifi/config.toml, when the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".eswifi", "config.toml")
	}

	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// Values for flags that were explicitly set are left untouched.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("ssid", fc.SSID, &cfg.SSID)
	s.setString("host", fc.Host, &cfg.Host)
	s.setInt("port", fc.Port, &cfg.Port)
	s.setString("path", fc.Path, &cfg.Path)

	s.setInt("join-attempts", fc.JoinAttempts, &cfg.JoinAttempts)
	s.setInt("status-attempts", fc.StatusAttempts, &cfg.StatusAttempts)

	if err := s.setDuration("status-interval", fc.StatusInterval, &cfg.StatusInterval); err != nil {
		return err
	}
	if err := s.setDuration("response-wait", fc.ResponseWait, &cfg.ResponseWait); err != nil {
		return err
	}
	if err := s.setDuration("read-wait", fc.ReadWait, &cfg.ReadWait); err != nil {
		return err
	}

	s.setString("bridge", fc.Bridge, &cfg.Bridge)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)

	return err == nil
}
