package runcfg

import "os"

// ApplyEnvConfig applies ESWIFI_* environment variables to the Config.
// Environment values override the config file but lose to explicit flags.
// ESWIFI_PASSPHRASE is the recommended way to supply the network secret.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("ssid", os.Getenv("ESWIFI_SSID"), &cfg.SSID)
	s.setString("passphrase", os.Getenv("ESWIFI_PASSPHRASE"), &cfg.Passphrase)
	s.setString("host", os.Getenv("ESWIFI_HOST"), &cfg.Host)
	s.setString("path", os.Getenv("ESWIFI_PATH"), &cfg.Path)
	s.setString("bridge", os.Getenv("ESWIFI_BRIDGE"), &cfg.Bridge)
	s.setString("log-level", os.Getenv("ESWIFI_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("port", os.Getenv("ESWIFI_PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("join-attempts", os.Getenv("ESWIFI_JOIN_ATTEMPTS"), &cfg.JoinAttempts); err != nil {
		return err
	}

	if err := s.setDuration("response-wait", os.Getenv("ESWIFI_RESPONSE_WAIT"), &cfg.ResponseWait); err != nil {
		return err
	}
	if err := s.setDuration("read-wait", os.Getenv("ESWIFI_READ_WAIT"), &cfg.ReadWait); err != nil {
		return err
	}

	return nil
}
