package chartexport

import (
	"fmt"
	"sync"
)

// State is a step of the export state machine.
type State uint8

const (
	StateIdle State = iota
	StatePreparing
	StateStyling
	StateCapturing
	StateAdjusting
	StatePlacing
	StateFinalizing
	StateDone
	StateAborting
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StatePreparing:  "preparing",
	StateStyling:    "styling",
	StateCapturing:  "capturing",
	StateAdjusting:  "adjusting",
	StatePlacing:    "placing",
	StateFinalizing: "finalizing",
	StateDone:       "done",
	StateAborting:   "aborting",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// PerChart reports whether s is one of the per-chart states.
func (s State) PerChart() bool {
	return s >= StateStyling && s <= StatePlacing
}

// CanTransition reports whether the machine may move from s to next.
// Aborting is reachable from every state except Idle and itself. A
// per-chart state may move on to the next chart or to Finalizing when its
// chart is skipped.
func (s State) CanTransition(next State) bool {
	if next == StateAborting {
		return s != StateIdle && s != StateAborting
	}
	switch s {
	case StateIdle:
		return next == StatePreparing
	case StatePreparing:
		return next == StateStyling
	case StateStyling:
		return next == StateCapturing || next == StateStyling || next == StateFinalizing
	case StateCapturing:
		return next == StateAdjusting || next == StateStyling || next == StateFinalizing
	case StateAdjusting:
		return next == StatePlacing || next == StateStyling || next == StateFinalizing
	case StatePlacing:
		return next == StateStyling || next == StateFinalizing
	case StateFinalizing:
		return next == StateDone
	case StateDone, StateAborting:
		return next == StateIdle
	}
	return false
}

// machine tracks the current state and notifies an observer on every
// transition.
type machine struct {
	mu       sync.Mutex
	state    State
	observer func(from, to State)
}

func (m *machine) current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// enter moves to next. An illegal move leaves the state unchanged.
func (m *machine) enter(next State) error {
	m.mu.Lock()
	from := m.state
	if !from.CanTransition(next) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}
	m.state = next
	m.mu.Unlock()

	if m.observer != nil {
		m.observer(from, next)
	}
	return nil
}
