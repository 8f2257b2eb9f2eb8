// Command eswifi joins a WiFi network through an eS-WiFi module, performs
// one HTTP GET against the configured target, and blinks the connection
// status on an LED (logged edges when no hardware is attached).
//
// Without --bridge the command runs against a built-in module emulator,
// which makes it a self-contained end-to-end exercise of the full stack.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/arloliu/go-eswifi/eswifi"
	"github.com/arloliu/go-eswifi/internal/emu"
	"github.com/arloliu/go-eswifi/internal/runcfg"
	"github.com/arloliu/go-eswifi/logger"
	"github.com/arloliu/go-eswifi/status"
	"github.com/arloliu/go-eswifi/transport"
)

var exampleUsage = strings.TrimSpace(`
  eswifi --ssid lab-net --host example.com
  ESWIFI_PASSPHRASE=secret eswifi --ssid lab-net --host example.com --bridge 10.0.0.5:7777
  eswifi --config $HOME/.eswifi/config.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return "dev"
}

func main() {
	cfg := runcfg.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "eswifi",
		Short:   "Join a WiFi network via an eS-WiFi module and fetch one HTTP resource",
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = runcfg.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && runcfg.FileExists(cfgFile) {
				fc, err := runcfg.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := runcfg.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := runcfg.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&cfgPath, "config", "c", "", "config file path (default $HOME/.eswifi/config.toml)")
	flags.StringVar(&cfg.SSID, "ssid", cfg.SSID, "network name to join")
	flags.StringVar(&cfg.Passphrase, "passphrase", cfg.Passphrase, "network secret (prefer ESWIFI_PASSPHRASE)")
	flags.StringVar(&cfg.Host, "host", cfg.Host, "request target host")
	flags.IntVar(&cfg.Port, "port", cfg.Port, "request target port")
	flags.StringVar(&cfg.Path, "path", cfg.Path, "request path")
	flags.IntVar(&cfg.JoinAttempts, "join-attempts", cfg.JoinAttempts, "maximum join attempts")
	flags.DurationVar(&cfg.StatusInterval, "status-interval", cfg.StatusInterval, "wait between join status polls")
	flags.IntVar(&cfg.StatusAttempts, "status-attempts", cfg.StatusAttempts, "join status poll bound")
	flags.DurationVar(&cfg.ResponseWait, "response-wait", cfg.ResponseWait, "maximum wait for a command response")
	flags.DurationVar(&cfg.ReadWait, "read-wait", cfg.ReadWait, "maximum wait for the socket read")
	flags.StringVar(&cfg.Bridge, "bridge", cfg.Bridge, "bus bridge address; empty runs the emulator")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg runcfg.Config) error {
	log := logger.GetLogger()
	log.SetLevel(parseLevel(cfg.LogLevel))

	bus, cleanup, err := openBus(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	tcfg, err := transport.NewConfig(transport.WithLogger(log))
	if err != nil {
		return err
	}

	opts := append(cfg.DriverOptions(), eswifi.WithLogger(log))
	dcfg, err := eswifi.NewConfig(cfg.SSID, cfg.Passphrase, cfg.Host, cfg.Port, opts...)
	if err != nil {
		return err
	}

	driver := eswifi.NewDriver(transport.NewFramer(bus, tcfg), dcfg)

	// no LED on a workstation; surface the edges through the logger
	led := status.LEDFunc(func(on bool) {
		log.Debug("led", "on", on)
	})
	signaler := status.NewSignaler(led, status.WithLogger(log))

	outcome := eswifi.NewOrchestrator(driver, signaler).Run(ctx)
	if outcome.Fatal() {
		return outcome.Reason
	}

	return nil
}

// openBus selects the bus for this run: a TCP bridge to real hardware, or
// the built-in emulator primed to accept the configured credentials.
func openBus(cfg runcfg.Config, log logger.Logger) (transport.Bus, func(), error) {
	if cfg.Bridge != "" {
		log.Info("using bus bridge", "addr", cfg.Bridge)

		bus, err := transport.NewNetBus(cfg.Bridge, cfg.ResponseWait)
		if err != nil {
			return nil, nil, err
		}

		return bus, func() { _ = bus.Close() }, nil
	}

	log.Info("no bridge configured, using module emulator")

	mod := &emu.Module{
		SSID:         cfg.SSID,
		Passphrase:   cfg.Passphrase,
		ResponseBody: "HTTP/1.1 200 OK\r\nContent-Length: 13\r\n\r\nHello, World!",
	}

	return mod, func() {}, nil
}

func parseLevel(level string) logger.Level {
	switch level {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
