package eswifi

import "errors"

// Sentinel errors for the eS-WiFi driver.
var (
	// Codec errors, raised during command construction.
	ErrArgTooLong     = errors.New("eswifi: command argument too long")
	ErrArgInvalid     = errors.New("eswifi: command argument contains terminator")
	ErrCommandTooLong = errors.New("eswifi: encoded command exceeds maximum size")

	// State errors. These are the only errors a driver step surfaces;
	// transport and codec failures are translated before they cross the
	// state machine boundary.
	ErrInitFailed    = errors.New("eswifi: module initialization failed")
	ErrJoinFailed    = errors.New("eswifi: network join failed")
	ErrOpenFailed    = errors.New("eswifi: socket open failed")
	ErrRequestFailed = errors.New("eswifi: request failed")
	ErrUnexpected    = errors.New("eswifi: unexpected transport failure")

	// State machine errors.
	ErrInvalidTransition = errors.New("eswifi: invalid connection state transition")
	ErrFaulted           = errors.New("eswifi: connection is faulted")
)
