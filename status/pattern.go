package status

import (
	"time"

	"github.com/arloliu/go-eswifi/eswifi"
)

// Class identifies a reportable lifecycle event with its own blink
// pattern.
type Class int

const (
	// ClassInitOK indicates the module initialized successfully.
	ClassInitOK Class = iota
	// ClassInitFailed indicates module initialization failed.
	ClassInitFailed
	// ClassJoined indicates the network was joined.
	ClassJoined
	// ClassJoinFailed indicates the join attempts were exhausted.
	ClassJoinFailed
	// ClassRequestOK indicates the request completed and a response was read.
	ClassRequestOK
	// ClassRequestFailed indicates the socket open or the request failed.
	ClassRequestFailed
	// ClassHeartbeat indicates the run is over and the process is alive.
	ClassHeartbeat
)

// String returns the name of the class.
func (c Class) String() string {
	switch c {
	case ClassInitOK:
		return "init-ok"
	case ClassInitFailed:
		return "init-failed"
	case ClassJoined:
		return "joined"
	case ClassJoinFailed:
		return "join-failed"
	case ClassRequestOK:
		return "request-ok"
	case ClassRequestFailed:
		return "request-failed"
	case ClassHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Forever marks a pattern that repeats until canceled.
const Forever = -1

// Pattern is one blink cycle: LED on for On, off for Off, repeated
// Repeats times. Repeats of Forever never terminates on its own.
type Pattern struct {
	On      time.Duration
	Off     time.Duration
	Repeats int
}

// PatternFor returns the blink pattern for a class. The mapping is total:
// every class has a pattern, and failure patterns are visually distinct
// from success patterns so an observer can tell the stages apart without
// a console.
func PatternFor(class Class) Pattern {
	switch class {
	case ClassInitOK:
		return Pattern{On: 200 * time.Millisecond, Off: 200 * time.Millisecond, Repeats: 1}
	case ClassInitFailed:
		return Pattern{On: 100 * time.Millisecond, Off: 100 * time.Millisecond, Repeats: 10}
	case ClassJoined:
		return Pattern{On: 300 * time.Millisecond, Off: 300 * time.Millisecond, Repeats: 2}
	case ClassJoinFailed:
		return Pattern{On: 50 * time.Millisecond, Off: 50 * time.Millisecond, Repeats: 20}
	case ClassRequestOK:
		return Pattern{On: 200 * time.Millisecond, Off: 200 * time.Millisecond, Repeats: 3}
	case ClassRequestFailed:
		return Pattern{On: 2 * time.Second, Off: 0, Repeats: 1}
	case ClassHeartbeat:
		return Pattern{On: 2 * time.Second, Off: 2 * time.Second, Repeats: Forever}
	default:
		return Pattern{}
	}
}

// ClassOf maps a completed stage and its outcome to a blink class. The
// second return is false for stage results that are not indicated at all:
// a successful socket open and the socket close are silent, since the
// request outcome that follows already covers them.
func ClassOf(stage eswifi.Stage, outcome eswifi.Outcome) (Class, bool) {
	switch stage {
	case eswifi.StageInit:
		if outcome.Ok() {
			return ClassInitOK, true
		}

		return ClassInitFailed, true
	case eswifi.StageJoin:
		if outcome.Ok() {
			return ClassJoined, true
		}

		return ClassJoinFailed, true
	case eswifi.StageOpen:
		if outcome.Ok() {
			return 0, false
		}

		return ClassRequestFailed, true
	case eswifi.StageRequest:
		if outcome.Ok() {
			return ClassRequestOK, true
		}

		return ClassRequestFailed, true
	default:
		return 0, false
	}
}
