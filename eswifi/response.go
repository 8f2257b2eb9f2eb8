package eswifi

import (
	"bytes"
)

// Response markers of the eS-WiFi dialect. A complete response is
//
//	<CRLF><payload><CRLF>OK<CRLF>"> "        on success
//	<CRLF>ERROR...<CRLF>"> "                 on command failure
//	<CRLF>USAGE: ...<CRLF>"> "               on malformed input
//
// padded to the frame width with filler bytes on the wire.
var (
	successMarker = []byte("\r\nOK\r\n> ")
	errorMarker   = []byte("ERROR")
	usageMarker   = []byte("USAGE")
)

// DefaultFiller is the filler byte (NAK) ISM43362 modules emit around
// response payloads to fill out the fixed frame width.
const DefaultFiller byte = 0x15

// ResponseKind classifies a decoded response.
type ResponseKind int

const (
	// ResponseSuccess indicates the module accepted the command; the
	// response carries a (possibly empty) payload.
	ResponseSuccess ResponseKind = iota
	// ResponseFailure indicates the command was rejected or the response
	// could not be understood; the response carries a reason code.
	ResponseFailure
)

// FailureReason identifies why a response was classified as a failure.
type FailureReason int

const (
	// ReasonNone is set on successful responses.
	ReasonNone FailureReason = iota
	// ReasonMalformed indicates no recognized marker was found, or filler
	// bytes were embedded inside the payload.
	ReasonMalformed
	// ReasonCommandError indicates the module reported ERROR.
	ReasonCommandError
	// ReasonUsage indicates the module rejected the command syntax.
	ReasonUsage
)

// String returns string representation of the failure reason.
func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMalformed:
		return "malformed"
	case ReasonCommandError:
		return "command-error"
	case ReasonUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// Response is a decoded inbound byte run, classified as Success(payload)
// or Failure(reason). A Response only exists for complete byte runs; the
// framer never surfaces partial data.
type Response struct {
	kind    ResponseKind
	payload []byte
	reason  FailureReason
}

// OK returns true for successful responses.
func (r *Response) OK() bool { return r.kind == ResponseSuccess }

// Kind returns the response classification.
func (r *Response) Kind() ResponseKind { return r.kind }

// Payload returns the response payload. Nil for failures.
func (r *Response) Payload() []byte { return r.payload }

// Reason returns the failure reason. ReasonNone for successes.
func (r *Response) Reason() FailureReason { return r.reason }

// Decode scans a complete inbound byte run for the dialect's success or
// failure markers and produces a structured Response.
//
// Leading and trailing filler bytes are stripped before the marker search.
// Filler embedded inside the payload means the module and host lost frame
// alignment, so the response is classified as malformed rather than
// guessed at. Absence of any recognized marker is likewise malformed.
func Decode(raw []byte, filler byte) *Response {
	trimmed := trimFiller(raw, filler)

	if bytes.IndexByte(trimmed, filler) >= 0 {
		return &Response{kind: ResponseFailure, reason: ReasonMalformed}
	}

	if idx := bytes.LastIndex(trimmed, successMarker); idx >= 0 {
		payload := trimCRLF(trimmed[:idx])

		return &Response{kind: ResponseSuccess, payload: payload, reason: ReasonNone}
	}

	if bytes.Contains(trimmed, errorMarker) {
		return &Response{kind: ResponseFailure, reason: ReasonCommandError}
	}

	if bytes.Contains(trimmed, usageMarker) {
		return &Response{kind: ResponseFailure, reason: ReasonUsage}
	}

	return &Response{kind: ResponseFailure, reason: ReasonMalformed}
}

func trimFiller(raw []byte, filler byte) []byte {
	start := 0
	for start < len(raw) && raw[start] == filler {
		start++
	}

	end := len(raw)
	for end > start && raw[end-1] == filler {
		end--
	}

	return raw[start:end]
}

func trimCRLF(b []byte) []byte {
	for len(b) > 0 && (b[0] == '\r' || b[0] == '\n') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == '\r' || b[len(b)-1] == '\n') {
		b = b[:len(b)-1]
	}

	return b
}
