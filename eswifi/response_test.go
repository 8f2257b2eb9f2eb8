package eswifi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeSuccess(t *testing.T) {
	resp := Decode([]byte("\r\n192.168.1.50\r\nOK\r\n> "), DefaultFiller)
	assert.True(t, resp.OK())
	assert.Equal(t, ResponseSuccess, resp.Kind())
	assert.Equal(t, []byte("192.168.1.50"), resp.Payload())
	assert.Equal(t, ReasonNone, resp.Reason())
}

func TestDecodeSuccessEmptyPayload(t *testing.T) {
	resp := Decode([]byte("\r\n\r\nOK\r\n> "), DefaultFiller)
	assert.True(t, resp.OK())
	assert.Empty(t, resp.Payload())
}

func TestDecodeSuccessSurroundingFiller(t *testing.T) {
	raw := []byte("\x15\x15\r\nv1.0\r\nOK\r\n> \x15\x15\x15")
	resp := Decode(raw, DefaultFiller)
	assert.True(t, resp.OK())
	assert.Equal(t, []byte("v1.0"), resp.Payload())
}

func TestDecodePayloadContainingOK(t *testing.T) {
	// only the last marker terminates the payload
	raw := []byte("\r\nHTTP/1.1 200 OK\r\nOK\r\n> ")
	resp := Decode(raw, DefaultFiller)
	assert.True(t, resp.OK())
	assert.Equal(t, []byte("HTTP/1.1 200 OK"), resp.Payload())
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason FailureReason
	}{
		{name: "command error", raw: "\r\nERROR: not joined\r\n> ", reason: ReasonCommandError},
		{name: "usage", raw: "\r\nUSAGE: C1=<ssid>\r\n> ", reason: ReasonUsage},
		{name: "no marker", raw: "\r\ngibberish\r\n> ", reason: ReasonMalformed},
		{name: "empty", raw: "", reason: ReasonMalformed},
		{name: "embedded filler", raw: "\r\nfoo\x15bar\r\nOK\r\n> ", reason: ReasonMalformed},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := Decode([]byte(test.raw), DefaultFiller)
			assert.False(t, resp.OK())
			assert.Equal(t, ResponseFailure, resp.Kind())
			assert.Equal(t, test.reason, resp.Reason())
			assert.Nil(t, resp.Payload())
		})
	}
}

func TestDecodeAltFiller(t *testing.T) {
	raw := []byte("\x00\x00\r\nok-data\r\nOK\r\n> \x00")
	resp := Decode(raw, 0x00)
	assert.True(t, resp.OK())
	assert.Equal(t, []byte("ok-data"), resp.Payload())
}
