package eswifi

// OutcomeClass classifies the result of a single state transition.
type OutcomeClass int

const (
	// OutcomeOk indicates the transition succeeded.
	OutcomeOk OutcomeClass = iota
	// OutcomeRetryable indicates a failure that may be attempted again
	// within the step's bounded retry budget.
	OutcomeRetryable
	// OutcomeFatal indicates a failure that ends the run.
	OutcomeFatal
)

// String returns string representation of the outcome class.
func (c OutcomeClass) String() string {
	switch c {
	case OutcomeOk:
		return "ok"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Stage identifies which driver operation produced an Outcome.
type Stage int

const (
	StageInit Stage = iota
	StageJoin
	StageOpen
	StageRequest
	StageClose
)

// String returns string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageJoin:
		return "join"
	case StageOpen:
		return "open"
	case StageRequest:
		return "request"
	case StageClose:
		return "close"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one driver step. It is produced by
// the state machine, consumed once by the signaler and once by the
// orchestrator's control flow, and never stored beyond the current step.
type Outcome struct {
	// Class is the Ok/Retryable/Fatal classification.
	Class OutcomeClass
	// Reason is the StateError behind a non-Ok outcome; nil when Ok.
	// It always wraps exactly one of the ErrXxxFailed/ErrUnexpected
	// sentinels.
	Reason error
	// State is the connection state after the step.
	State ConnState
}

// Ok returns true when the step succeeded.
func (o Outcome) Ok() bool { return o.Class == OutcomeOk }

// Fatal returns true when the step failed terminally.
func (o Outcome) Fatal() bool { return o.Class == OutcomeFatal }

func okOutcome(state ConnState) Outcome {
	return Outcome{Class: OutcomeOk, State: state}
}

func fatalOutcome(reason error, state ConnState) Outcome {
	return Outcome{Class: OutcomeFatal, Reason: reason, State: state}
}
