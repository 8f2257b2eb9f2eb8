package eswifi

import (
	"fmt"
	"sync"

	"github.com/arloliu/go-eswifi/logger"
)

// ConnState represents the stage of the module connection lifecycle.
type ConnState uint32

// Connection states. Exactly one state is active at a time.
const (
	// UninitializedState indicates the module has not been reset/probed yet.
	UninitializedState ConnState = iota
	// InitializedState indicates the module answered the init probes.
	InitializedState
	// JoiningState indicates a join attempt is in flight.
	JoiningState
	// JoinedState indicates the module is associated and has an address.
	JoinedState
	// ResolvingState indicates the remote target is being programmed
	// (the module firmware resolves hostnames internally).
	ResolvingState
	// SocketOpenState indicates the client socket is connected.
	SocketOpenState
	// RequestingState indicates the request is being transmitted.
	RequestingState
	// ResponseReadyState indicates a complete response was read.
	ResponseReadyState
	// ClosedState indicates the socket was closed; terminal for the run.
	ClosedState
	// FaultedState is terminal and absorbing; only an explicit Reset
	// leaves it.
	FaultedState
)

// String returns string representation of the current state.
func (cs ConnState) String() string {
	switch cs {
	case UninitializedState:
		return "uninitialized"
	case InitializedState:
		return "initialized"
	case JoiningState:
		return "joining"
	case JoinedState:
		return "joined"
	case ResolvingState:
		return "resolving"
	case SocketOpenState:
		return "socket-open"
	case RequestingState:
		return "requesting"
	case ResponseReadyState:
		return "response-ready"
	case ClosedState:
		return "closed"
	case FaultedState:
		return "faulted"
	default:
		return "unknown"
	}
}

// IsUninitialized returns if the current state is uninitialized.
func (cs ConnState) IsUninitialized() bool { return cs == UninitializedState }

// IsClosed returns if the current state is closed.
func (cs ConnState) IsClosed() bool { return cs == ClosedState }

// IsFaulted returns if the current state is faulted.
func (cs ConnState) IsFaulted() bool { return cs == FaultedState }

// IsTerminal returns if the current state is terminal for the run.
func (cs ConnState) IsTerminal() bool { return cs == ClosedState || cs == FaultedState }

// validTransitions is the forward transition table. FaultedState is
// reachable from every state via Fault and is therefore not listed.
var validTransitions = map[ConnState]ConnState{
	UninitializedState: InitializedState,
	InitializedState:   JoiningState,
	JoiningState:       JoinedState,
	JoinedState:        ResolvingState,
	ResolvingState:     SocketOpenState,
	SocketOpenState:    RequestingState,
	RequestingState:    ResponseReadyState,
	ResponseReadyState: ClosedState,
}

// StateChangeHandler is invoked on every state transition, in the calling
// goroutine, after the new state is set.
type StateChangeHandler func(prev ConnState, next ConnState)

// StateMgr manages the connection state of a driver.
//
// Transitions are validated against the lifecycle's forward path; the only
// lateral moves are Fault (from anywhere) and Reset (back to uninitialized,
// the sole way out of FaultedState).
type StateMgr struct {
	mu       sync.Mutex
	state    ConnState
	handlers []StateChangeHandler
	logger   logger.Logger
}

// NewStateMgr creates a StateMgr in UninitializedState.
//
// It accepts optional StateChangeHandler functions that will be invoked
// when the connection state changes.
func NewStateMgr(l logger.Logger, handlers ...StateChangeHandler) *StateMgr {
	if l == nil {
		l = logger.GetLogger()
	}

	return &StateMgr{
		state:    UninitializedState,
		handlers: handlers,
		logger:   l,
	}
}

// State returns the current connection state.
func (m *StateMgr) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// AddHandler adds one or more StateChangeHandler functions to be invoked
// on state changes.
func (m *StateMgr) AddHandler(handlers ...StateChangeHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handlers...)
}

// To transitions to the next state along the lifecycle's forward path.
//
// Transitioning to the current state is a no-op. Returns ErrFaulted if the
// manager is faulted, or ErrInvalidTransition if next is not the legal
// successor of the current state.
func (m *StateMgr) To(next ConnState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == next {
		return nil
	}

	if m.state == FaultedState {
		return fmt.Errorf("%w: cannot transition to %s", ErrFaulted, next)
	}

	if validTransitions[m.state] != next {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, next)
	}

	m.setState(next)

	return nil
}

// Fault transitions to FaultedState. This transition is allowed from any
// state and is a no-op when already faulted.
func (m *StateMgr) Fault() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == FaultedState {
		return
	}

	m.setState(FaultedState)
}

// Reset returns the manager to UninitializedState from any state. This is
// the only transition that leaves FaultedState.
func (m *StateMgr) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == UninitializedState {
		return
	}

	m.setState(UninitializedState)
}

// setState records the new state and invokes handlers. Caller holds mu.
func (m *StateMgr) setState(next ConnState) {
	prev := m.state
	m.state = next

	m.logger.Debug("eswifi: connection state changed",
		"prev", prev.String(), "next", next.String())

	for _, handler := range m.handlers {
		if handler != nil {
			handler(prev, next)
		}
	}
}
