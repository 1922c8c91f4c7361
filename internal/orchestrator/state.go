package orchestrator

import "fmt"

// State is a step of the per-query state machine.
type State int

const (
	StateStart State = iota
	StateAwaitingCompletion
	StateHandlingToolCall
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateAwaitingCompletion:
		return "AwaitingCompletion"
	case StateHandlingToolCall:
		return "HandlingToolCall"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// MarshalText lets traces serialize as state names.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for st := StateStart; st <= StateFailed; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Path records which branch produced the answer.
type Path string

const (
	// PathFast answered from a routed tool call without a completion.
	PathFast Path = "fast"
	// PathGeneral answered through completion rounds.
	PathGeneral Path = "general"
)
