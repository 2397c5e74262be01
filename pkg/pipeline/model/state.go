package model

// State is the lifecycle of a single pipeline run.
type State int

const (
	Created State = iota
	Running
	Draining
	Terminated
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
