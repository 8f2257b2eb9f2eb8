package eswifi

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect limits for the eS-WiFi command set.
const (
	// CmdTerminator ends every textual command.
	CmdTerminator byte = '\r'

	// MaxArgLen is the maximum length of a single textual argument
	// (a WPA2 passphrase, the longest argument the dialect carries).
	MaxArgLen = 64

	// MaxCommandSize is the maximum encoded command size, including the
	// terminator and any binary trailer. It matches the transport's
	// default maximum payload so a valid Command always fits one send.
	MaxCommandSize = 1500
)

// Operation is an eS-WiFi command mnemonic.
type Operation string

// The eS-WiFi operations used by the driver (ISM43362 command set).
const (
	OpVerbosity     Operation = "MT" // human-readable message suppression
	OpVersion       Operation = "MR" // firmware revision
	OpMACAddr       Operation = "Z5" // MAC address
	OpDisconnect    Operation = "CD" // leave current network
	OpSecurity      Operation = "CB" // security mode
	OpSetSSID       Operation = "C1" // network name
	OpSetPassphrase Operation = "C2" // network secret
	OpEncryption    Operation = "C3" // encryption type
	OpJoin          Operation = "C0" // join configured network
	OpJoinStatus    Operation = "C?" // connection status
	OpSetSocket     Operation = "P0" // communication socket
	OpSetProtocol   Operation = "P1" // transport protocol (0 = TCP)
	OpSetHost       Operation = "P3" // remote host
	OpSetPort       Operation = "P4" // remote port
	OpStartClient   Operation = "P6" // start/stop client connection
	OpSendData      Operation = "S3" // write data to socket
	OpReadData      Operation = "R0" // read data from socket
	OpReadTimeout   Operation = "R2" // read timeout
)

// Command is a single outbound request: an operation code, zero or more
// textual arguments, and the CR terminator. Data-phase commands (OpSendData)
// additionally carry a binary trailer after the terminator.
//
// Commands are validated at construction; a Command that exists always
// encodes within MaxCommandSize.
type Command struct {
	op   Operation
	args []string
	data []byte
}

// NewCommand creates a textual command.
//
// Construction fails with ErrArgInvalid if an argument contains the
// terminator character, with ErrArgTooLong if an argument exceeds
// MaxArgLen, and with ErrCommandTooLong if the encoded form exceeds
// MaxCommandSize.
func NewCommand(op Operation, args ...string) (*Command, error) {
	for _, arg := range args {
		if strings.IndexByte(arg, CmdTerminator) >= 0 {
			return nil, fmt.Errorf("%w: operation %s", ErrArgInvalid, op)
		}
		if len(arg) > MaxArgLen {
			return nil, fmt.Errorf("%w: operation %s, %d bytes exceeds %d", ErrArgTooLong, op, len(arg), MaxArgLen)
		}
	}

	cmd := &Command{op: op, args: args}
	if size := cmd.encodedSize(); size > MaxCommandSize {
		return nil, fmt.Errorf("%w: operation %s encodes to %d bytes", ErrCommandTooLong, op, size)
	}

	return cmd, nil
}

// NewDataCommand creates a data-phase command: the textual part carries the
// data length as its argument, and data follows the terminator on the wire
// (the S3 write sequence).
func NewDataCommand(op Operation, data []byte) (*Command, error) {
	cmd := &Command{
		op:   op,
		args: []string{strconv.Itoa(len(data))},
		data: data,
	}

	if size := cmd.encodedSize(); size > MaxCommandSize {
		return nil, fmt.Errorf("%w: operation %s encodes to %d bytes", ErrCommandTooLong, op, size)
	}

	return cmd, nil
}

// Op returns the command's operation code.
func (c *Command) Op() Operation { return c.op }

// Encode serializes the command to its wire format:
//
//	<op>[=<arg>[,<arg>...]]<CR>[data]
func (c *Command) Encode() []byte {
	buf := make([]byte, 0, c.encodedSize())
	buf = append(buf, c.op...)

	if len(c.args) > 0 {
		buf = append(buf, '=')
		for i, arg := range c.args {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, arg...)
		}
	}

	buf = append(buf, CmdTerminator)
	buf = append(buf, c.data...)

	return buf
}

// String returns the operation mnemonic only. Arguments are deliberately
// omitted; commands can carry credentials.
func (c *Command) String() string { return string(c.op) }

func (c *Command) encodedSize() int {
	size := len(c.op) + 1 + len(c.data)
	if len(c.args) > 0 {
		size += 1 + len(c.args) - 1
		for _, arg := range c.args {
			size += len(arg)
		}
	}

	return size
}
