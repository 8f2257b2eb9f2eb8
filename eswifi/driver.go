package eswifi

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/go-eswifi/logger"
	"github.com/arloliu/go-eswifi/transport"
)

// Driver sequences an eS-WiFi module through the connection lifecycle:
// initialize → join network → open socket → perform request → close.
//
// Each step returns an Outcome; transport and codec failures are translated
// into StateErrors inside the step and never surface raw. The Driver owns
// the framer exclusively and is NOT goroutine-safe: all operations are
// synchronous and blocking, one exchange in flight at a time.
type Driver struct {
	framer  *transport.Framer
	cfg     *Config
	states  *StateMgr
	logger  logger.Logger
	metrics DriverMetrics
}

// NewDriver creates a Driver over the given framer and configuration.
func NewDriver(framer *transport.Framer, cfg *Config) *Driver {
	return &Driver{
		framer:  framer,
		cfg:     cfg,
		states:  NewStateMgr(cfg.logger),
		logger:  cfg.logger,
		metrics: newDriverMetrics(),
	}
}

// State returns the current connection state.
func (d *Driver) State() ConnState { return d.states.State() }

// Metrics returns the metrics associated with the driver.
func (d *Driver) Metrics() *DriverMetrics { return &d.metrics }

// OnStateChange registers handlers invoked on every state transition.
func (d *Driver) OnStateChange(handlers ...StateChangeHandler) {
	d.states.AddHandler(handlers...)
}

// Reset returns the driver to UninitializedState. This is the only way out
// of FaultedState; no recovery path re-enters the state machine without it.
func (d *Driver) Reset() {
	d.states.Reset()
}

// --- Lifecycle steps ---

// Init performs the module reset/probe sequence: consume the initial
// prompt the module emits after power-up, suppress human-readable
// verbosity, and probe the firmware revision.
//
// Init failures are hardware-level and never retried: any failure is
// Fatal(InitFailed), except a bus-level fault which is Fatal(Unexpected).
func (d *Driver) Init() Outcome {
	if st := d.states.State(); !st.IsUninitialized() {
		return d.fault(ErrUnexpected, fmt.Errorf("init from state %s", st))
	}

	cursor, err := d.framer.Receive(d.cfg.responseWait)
	if err != nil {
		return d.fault(stepReason(ErrInitFailed, err), err)
	}
	d.logger.Debug("eswifi: initial prompt consumed", "bytes", len(cursor))

	if err := d.exec(OpVerbosity, "1"); err != nil {
		return d.fault(stepReason(ErrInitFailed, err), err)
	}

	resp, err := d.command(d.cfg.responseWait, OpVersion)
	if err != nil {
		return d.fault(stepReason(ErrInitFailed, err), err)
	}
	if !resp.OK() {
		return d.fault(ErrInitFailed, fmt.Errorf("version probe rejected: %s", resp.Reason()))
	}

	mac, err := d.command(d.cfg.responseWait, OpMACAddr)
	if err != nil {
		return d.fault(stepReason(ErrInitFailed, err), err)
	}
	if !mac.OK() {
		return d.fault(ErrInitFailed, fmt.Errorf("mac probe rejected: %s", mac.Reason()))
	}

	if err := d.states.To(InitializedState); err != nil {
		return d.fault(ErrUnexpected, err)
	}

	d.logger.Info("eswifi: module initialized",
		"firmware", string(resp.Payload()),
		"mac", string(mac.Payload()),
	)

	return okOutcome(d.states.State())
}

// Join associates the module with the configured network and waits for an
// address.
//
// A failed attempt — including a transport failure mid-attempt — is
// retryable up to the configured maximum attempt count, after which the
// step is Fatal(JoinFailed). Retries are step-local: there is no global
// backoff, so the worst-case blocking time stays deterministic.
func (d *Driver) Join() Outcome {
	if err := d.states.To(JoiningState); err != nil {
		return d.fault(ErrUnexpected, err)
	}

	for attempt := 1; attempt <= d.cfg.joinAttempts; attempt++ {
		err := d.joinAttempt()
		if err == nil {
			if terr := d.states.To(JoinedState); terr != nil {
				return d.fault(ErrUnexpected, terr)
			}

			d.logger.Info("eswifi: network joined", "attempt", attempt)

			return okOutcome(d.states.State())
		}

		d.logger.Warn("eswifi: join attempt failed",
			"attempt", attempt,
			"maxAttempts", d.cfg.joinAttempts,
			"error", err)

		if attempt < d.cfg.joinAttempts {
			d.metrics.incRetryCount()
		}
	}

	return d.fault(ErrJoinFailed, nil)
}

// joinAttempt runs one full join sequence. The disconnect first clears any
// stale association from a previous attempt.
func (d *Driver) joinAttempt() error {
	if err := d.exec(OpDisconnect); err != nil {
		return err
	}
	if err := d.exec(OpSecurity, securityWPA2); err != nil {
		return err
	}
	if err := d.exec(OpSetSSID, d.cfg.ssid); err != nil {
		return err
	}
	if err := d.exec(OpSetPassphrase, d.cfg.passphrase); err != nil {
		return err
	}
	if err := d.exec(OpEncryption, encryptionWPA2); err != nil {
		return err
	}
	if err := d.exec(OpJoin); err != nil {
		return err
	}

	return d.waitJoined()
}

// waitJoined polls the join status until the module reports an acquired
// address, bounded by the configured poll count.
func (d *Driver) waitJoined() error {
	for i := 0; i < d.cfg.statusAttempts; i++ {
		if i > 0 && d.cfg.statusInterval > 0 {
			time.Sleep(d.cfg.statusInterval)
		}

		resp, err := d.command(d.cfg.responseWait, OpJoinStatus)
		if err != nil {
			return err
		}
		if !resp.OK() {
			return fmt.Errorf("eswifi: status poll rejected: %s", resp.Reason())
		}

		payload := resp.Payload()
		if bytes.Contains(payload, []byte("Failed")) {
			return errors.New("eswifi: module reported join failure")
		}
		if hasAddress(payload) {
			return nil
		}
	}

	return errors.New("eswifi: no address acquired within status poll bound")
}

// Open programs the request target and starts the client connection.
// The module firmware resolves hostnames internally.
//
// Failure is retryable exactly once, then Fatal(OpenFailed). A bus-level
// fault aborts immediately with Fatal(Unexpected).
func (d *Driver) Open() Outcome {
	if err := d.states.To(ResolvingState); err != nil {
		return d.fault(ErrUnexpected, err)
	}

	var lastErr error
	for attempt := 0; attempt <= openRetryLimit; attempt++ {
		if attempt > 0 {
			d.metrics.incRetryCount()
			d.logger.Warn("eswifi: open retry", "attempt", attempt+1, "error", lastErr)
		}

		lastErr = d.openAttempt()
		if lastErr == nil {
			if terr := d.states.To(SocketOpenState); terr != nil {
				return d.fault(ErrUnexpected, terr)
			}

			d.logger.Info("eswifi: socket open", "host", d.cfg.host, "port", d.cfg.port)

			return okOutcome(d.states.State())
		}

		if errors.Is(lastErr, transport.ErrIoFault) {
			return d.fault(ErrUnexpected, lastErr)
		}
	}

	return d.fault(ErrOpenFailed, lastErr)
}

func (d *Driver) openAttempt() error {
	if err := d.exec(OpSetSocket, socketID); err != nil {
		return err
	}
	if err := d.exec(OpSetProtocol, protocolTCP); err != nil {
		return err
	}
	if err := d.exec(OpSetHost, d.cfg.host); err != nil {
		return err
	}
	if err := d.exec(OpSetPort, strconv.Itoa(d.cfg.port)); err != nil {
		return err
	}

	return d.exec(OpStartClient, "1")
}

// Request sends the fixed HTTP GET through the open socket and reads the
// response.
//
// Any successful read — whatever the HTTP status line says — is request
// success; the driver does not parse HTTP semantics. Every failure here is
// Fatal(RequestFailed) with no retry, bounding total runtime; this
// includes a response that overflows the transport's receive buffer, which
// is indistinguishable from a malformed response.
func (d *Driver) Request() Outcome {
	if err := d.states.To(RequestingState); err != nil {
		return d.fault(ErrUnexpected, err)
	}

	request := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n",
		d.cfg.path, d.cfg.host)

	cmd, err := NewDataCommand(OpSendData, []byte(request))
	if err != nil {
		return d.fault(ErrRequestFailed, err)
	}

	resp, err := d.exchange(cmd, d.cfg.responseWait)
	if err != nil {
		return d.fault(ErrRequestFailed, err)
	}
	if !resp.OK() {
		return d.fault(ErrRequestFailed, fmt.Errorf("socket write rejected: %s", resp.Reason()))
	}

	readMillis := strconv.Itoa(int(d.cfg.readWait / time.Millisecond))
	if err := d.exec(OpReadTimeout, readMillis); err != nil {
		return d.fault(ErrRequestFailed, err)
	}

	resp, err = d.command(d.cfg.readWait, OpReadData)
	if err != nil {
		return d.fault(ErrRequestFailed, err)
	}
	if !resp.OK() {
		return d.fault(ErrRequestFailed, fmt.Errorf("socket read rejected: %s", resp.Reason()))
	}

	if err := d.states.To(ResponseReadyState); err != nil {
		return d.fault(ErrUnexpected, err)
	}

	d.logger.Info("eswifi: response received", "bytes", len(resp.Payload()))

	return okOutcome(d.states.State())
}

// CloseSocket stops the client connection. The close is best-effort: a
// failed close command is logged and the state still advances to Closed,
// so the preceding request's Outcome is never changed by this step.
func (d *Driver) CloseSocket() Outcome {
	if err := d.exec(OpStartClient, "0"); err != nil {
		d.logger.Warn("eswifi: socket close command failed", "error", err)
	}

	if err := d.states.To(ClosedState); err != nil {
		return d.fault(ErrUnexpected, err)
	}

	d.logger.Debug("eswifi: socket closed")

	return okOutcome(d.states.State())
}

// --- Exchange helpers ---

// exchange encodes cmd, sends it, and decodes the response read within
// wait. One command/response pair is in flight at a time; the values are
// dropped as soon as the caller derives its result.
func (d *Driver) exchange(cmd *Command, wait time.Duration) (*Response, error) {
	if err := d.framer.Send(cmd.Encode()); err != nil {
		return nil, err
	}
	d.metrics.incCommandCount()

	raw, err := d.framer.Receive(wait)
	if err != nil {
		return nil, err
	}
	d.metrics.incResponseCount()

	return Decode(raw, d.cfg.filler), nil
}

// command builds and exchanges a textual command.
func (d *Driver) command(wait time.Duration, op Operation, args ...string) (*Response, error) {
	cmd, err := NewCommand(op, args...)
	if err != nil {
		return nil, err
	}

	return d.exchange(cmd, wait)
}

// exec exchanges a textual command and requires a successful response.
func (d *Driver) exec(op Operation, args ...string) error {
	resp, err := d.command(d.cfg.responseWait, op, args...)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("eswifi: %s rejected: %s", op, resp.Reason())
	}

	return nil
}

// fault transitions to FaultedState and builds the step's fatal Outcome.
// reason is always one of the StateError sentinels; cause, when present,
// is wrapped so errors.Is still matches the sentinel.
func (d *Driver) fault(reason, cause error) Outcome {
	d.states.Fault()
	d.metrics.incFaultCount()

	if cause != nil {
		reason = fmt.Errorf("%w: %w", reason, cause)
	}

	d.logger.Error("eswifi: step failed", "error", reason)

	return fatalOutcome(reason, d.states.State())
}

// stepReason maps a step-internal error to the step's StateError, except
// bus-level faults which are always ErrUnexpected.
func stepReason(def, err error) error {
	if errors.Is(err, transport.ErrIoFault) {
		return ErrUnexpected
	}

	return def
}

// hasAddress reports whether a join status payload contains a usable IPv4
// address, which is how the module signals a completed association.
func hasAddress(payload []byte) bool {
	fields := strings.FieldsFunc(string(payload), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\r' || r == '\n'
	})

	for _, field := range fields {
		ip := net.ParseIP(field)
		if ip != nil && ip.To4() != nil && !ip.IsUnspecified() {
			return true
		}
	}

	return false
}
