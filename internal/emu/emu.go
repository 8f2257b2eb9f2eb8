// Package emu emulates an eS-WiFi module at the bus level.
//
// The emulator speaks the wire format of the real part: byte-swapped
// frames, LF padding on the host side, NAK filler on the module side and
// a "\r\n> " prompt terminating every response. Tests and the simulation
// command run the full transport and driver stack against it unchanged.
package emu

import (
	"strconv"
	"strings"
	"sync"
)

const (
	filler = 0x15 // returned when the module has nothing to transmit
	pad    = 0x0A // ignored host-side padding

	defaultIP       = "192.168.1.50"
	defaultFirmware = "ISM43362-M3G-L44-SPI,C3.5.2.5"
	defaultMAC      = "C4:7F:51:00:00:01"
)

// Module is an in-memory eS-WiFi module. It implements transport.Bus.
//
// The zero value accepts any credentials and answers every request with an
// empty body; the script fields steer failure scenarios. Script fields
// must be set before the first Exchange call.
type Module struct {
	// SSID and Passphrase, when non-empty, are the only credentials the
	// module will join with; anything else fails the join command.
	SSID       string
	Passphrase string

	// JoinFailures makes the first n join attempts fail at the status
	// poll, the way a slow association does.
	JoinFailures int

	// OpenFailures makes the first n client start commands fail.
	OpenFailures int

	// ResponseBody is returned by the socket read command.
	ResponseBody string

	// NeverReady, when set, keeps the data-ready line permanently low.
	NeverReady bool

	// ExchangeErr, when set, is returned by every Exchange call.
	ExchangeErr error

	// Garbage, when set, replaces every response with bytes that carry
	// the prompt but no success or error marker.
	Garbage bool

	mu sync.Mutex

	started  bool
	line     []byte // command bytes accumulated up to the CR
	dataLeft int    // binary trailer bytes still expected
	data     []byte
	out      []byte // bytes pending transmission to the host

	joined     bool
	joinFailed bool // last join attempt failed; reported by the status poll
	socketOpen bool

	commands     []string
	joinAttempts int
	lastRequest  []byte
	host         string
	port         string
}

// Ready implements the transport.Bus interface.
func (m *Module) Ready() bool {
	return !m.NeverReady
}

// Exchange implements the transport.Bus interface. The frame is consumed
// as host output and overwritten in place with module output, one byte
// per clocked byte, exactly like a full-duplex bus transfer.
func (m *Module) Exchange(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ExchangeErr != nil {
		return m.ExchangeErr
	}

	if !m.started {
		m.started = true
		m.out = []byte("\r\n> ") // power-up prompt
	}

	swap(frame)

	if len(m.out) > 0 {
		// Transmitting: host input is read clocking, not a command.
		for i := range frame {
			frame[i] = m.pop()
		}
		swap(frame)

		return nil
	}

	for i, b := range frame {
		frame[i] = filler
		m.consume(b)
		if len(m.out) > 0 {
			// A command completed mid-frame; the remainder is padding.
			break
		}
	}
	swap(frame)

	return nil
}

func (m *Module) pop() byte {
	if len(m.out) == 0 {
		return filler
	}
	b := m.out[0]
	m.out = m.out[1:]

	return b
}

// consume feeds one host byte into the command parser.
func (m *Module) consume(b byte) {
	if m.dataLeft > 0 {
		m.data = append(m.data, b)
		m.dataLeft--
		if m.dataLeft == 0 {
			m.finishData()
		}

		return
	}

	if b == '\r' {
		m.dispatch(string(m.line))
		m.line = m.line[:0]

		return
	}
	if b == pad && len(m.line) == 0 {
		return
	}

	m.line = append(m.line, b)
}

// dispatch handles one complete command line.
func (m *Module) dispatch(line string) {
	m.commands = append(m.commands, line)

	op, arg := line, ""
	if i := strings.IndexByte(line, '='); i >= 0 {
		op, arg = line[:i], line[i+1:]
	}

	switch op {
	case "MT", "CB", "C3", "R2":
		m.respond("")
	case "MR":
		m.respond(defaultFirmware)
	case "Z5":
		m.respond(defaultMAC)
	case "CD":
		m.joined = false
		m.respond("")
	case "C1":
		m.resetJoin(func() bool { return m.SSID == "" || arg == m.SSID })
	case "C2":
		m.resetJoin(func() bool { return m.Passphrase == "" || arg == m.Passphrase })
	case "C0":
		m.join()
	case "C?":
		m.joinStatus()
	case "P0", "P1":
		m.respond("")
	case "P3":
		m.host = arg
		m.respond("")
	case "P4":
		m.port = arg
		m.respond("")
	case "P6":
		m.startStop(arg)
	case "S3":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			m.fail()

			return
		}
		m.data = m.data[:0]
		m.dataLeft = n
		if n == 0 {
			m.finishData()
		}
	case "R0":
		m.respond(m.ResponseBody)
	default:
		m.fail()
	}
}

// resetJoin records a credential command. A mismatch is remembered and
// surfaces when the join command runs, the same as the real part.
func (m *Module) resetJoin(match func() bool) {
	if !match() {
		m.joinFailed = true
	}
	m.respond("")
}

func (m *Module) join() {
	m.joinAttempts++

	if m.joinFailed {
		m.fail()

		return
	}
	if m.JoinFailures > 0 {
		m.JoinFailures--
		m.joinFailed = true
		m.respond("")

		return
	}

	m.joined = true
	m.respond(m.ssid() + "," + defaultIP + ",0,0")
}

func (m *Module) joinStatus() {
	switch {
	case m.joined:
		m.respond(m.ssid() + "," + defaultIP + ",255.255.255.0")
	case m.joinFailed:
		m.joinFailed = false
		m.respond("JOIN,Failed")
	default:
		m.respond("0.0.0.0")
	}
}

func (m *Module) startStop(arg string) {
	switch arg {
	case "1":
		if m.OpenFailures > 0 {
			m.OpenFailures--
			m.fail()

			return
		}
		m.socketOpen = true
		m.respond("")
	case "0":
		m.socketOpen = false
		m.respond("")
	default:
		m.fail()
	}
}

func (m *Module) finishData() {
	m.lastRequest = append([]byte(nil), m.data...)
	m.respond(strconv.Itoa(len(m.data)))
}

func (m *Module) ssid() string {
	if m.SSID != "" {
		return m.SSID
	}

	return "emu"
}

func (m *Module) respond(payload string) {
	if m.Garbage {
		m.out = []byte("\r\n????\r\n> ")

		return
	}

	m.out = []byte("\r\n" + payload + "\r\nOK\r\n> ")
}

func (m *Module) fail() {
	if m.Garbage {
		m.out = []byte("\r\n????\r\n> ")

		return
	}

	m.out = []byte("\r\nERROR\r\n> ")
}

// Commands returns every command line received so far.
func (m *Module) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.commands...)
}

// JoinAttempts returns how many join commands the module has seen.
func (m *Module) JoinAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.joinAttempts
}

// LastRequest returns the last binary payload written through the socket.
func (m *Module) LastRequest() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]byte(nil), m.lastRequest...)
}

// SocketOpen reports whether the client connection is currently open.
func (m *Module) SocketOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.socketOpen
}

// swap reverses a frame in place, mirroring the word-order swap the
// transport applies.
func swap(frame []byte) {
	for i, j := 0, len(frame)-1; i < j; i, j = i+1, j-1 {
		frame[i], frame[j] = frame[j], frame[i]
	}
}
