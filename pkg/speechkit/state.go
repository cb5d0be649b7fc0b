package speechkit

import "sync"

// SessionState tracks where a session is in its lifecycle.
type SessionState int32

const (
	StateIdle SessionState = iota
	StateConnecting
	StateStreaming
	StateDraining
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateStreaming:
		return "STREAMING"
	case StateDraining:
		return "DRAINING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// stateMachine serializes session state transitions. Closed is
// reachable from every state; everything else follows the streaming
// lifecycle, with the backward edges used by reconnects.
type stateMachine struct {
	mu      sync.RWMutex
	current SessionState
}

var validTransitions = map[SessionState][]SessionState{
	StateIdle:       {StateConnecting},
	StateConnecting: {StateStreaming},
	StateStreaming:  {StateDraining, StateConnecting},
	StateDraining:   {StateConnecting},
	StateClosed:     {},
}

func newStateMachine() *stateMachine {
	return &stateMachine{current: StateIdle}
}

func (m *stateMachine) State() SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *stateMachine) transitionValid(from, to SessionState) bool {
	if to == StateClosed {
		return from != StateClosed
	}
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves to a new state. A transition to the current state
// is a no-op; an invalid transition is reported, not applied.
func (m *stateMachine) Transition(to SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == to {
		return nil
	}
	if !m.transitionValid(m.current, to) {
		return &InvalidTransitionError{From: m.current, To: to}
	}
	m.current = to
	return nil
}

// InvalidTransitionError represents an invalid state transition attempt.
type InvalidTransitionError struct {
	From SessionState
	To   SessionState
}

func (e *InvalidTransitionError) Error() string {
	return "invalid session state transition from " + e.From.String() + " to " + e.To.String()
}
