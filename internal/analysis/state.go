package analysis

import "fmt"

// State is a step in the analysis lifecycle.
type State int

const (
	// Idle is the state before any work has been done.
	Idle State = iota
	// Validating means the graph was built and the validator is running.
	Validating
	// Collecting means validation finished and metrics are being computed.
	Collecting
	// Done is terminal.
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Collecting:
		return "collecting"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// transitions lists the legal successors of every state.
var transitions = map[State][]State{
	Idle:       {Validating, Done},
	Validating: {Collecting},
	Collecting: {Done},
}

// machine tracks one analysis run.
type machine struct {
	current  State
	observer func(from, to State)
}

// advance moves to the next state. An illegal move is a bug in this package.
func (m *machine) advance(to State) {
	for _, next := range transitions[m.current] {
		if next == to {
			from := m.current
			m.current = to
			if m.observer != nil {
				m.observer(from, to)
			}
			return
		}
	}
	panic(fmt.Sprintf("analysis: illegal transition %s -> %s", m.current, to))
}
