package engine

import "fmt"

// State tracks where a workflow run is in its lifecycle.
type State int

const (
	StatePending State = iota
	StateRunning
	StateStepSucceeded
	StateStepFailedFatal
	StateStepFailedNonFatal
	StateAborted
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateStepSucceeded:
		return "step-succeeded"
	case StateStepFailedFatal:
		return "step-failed-fatal"
	case StateStepFailedNonFatal:
		return "step-failed-non-fatal"
	case StateAborted:
		return "aborted"
	case StateCompleted:
		return "completed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further steps will run in this state.
func (s State) Terminal() bool {
	return s == StateAborted || s == StateCompleted
}

// machine drives the workflow lifecycle. A step outcome moves Running
// to one of the three step states; succeeded and failed-non-fatal
// loop back to Running, failed-fatal lands in Aborted. Exhausting all
// steps from Running lands in Completed.
type machine struct {
	state State
}

func newMachine() *machine {
	return &machine{state: StatePending}
}

func (m *machine) begin() {
	if m.state == StatePending {
		m.state = StateRunning
	}
}

// step records one step outcome and returns the intermediate step
// state the machine passed through.
func (m *machine) step(success, fatal bool) State {
	var via State
	switch {
	case success:
		via = StateStepSucceeded
	case fatal:
		via = StateStepFailedFatal
	default:
		via = StateStepFailedNonFatal
	}
	m.state = via

	if via == StateStepFailedFatal {
		m.state = StateAborted
	} else {
		m.state = StateRunning
	}
	return via
}

func (m *machine) finish() {
	if m.state == StateRunning {
		m.state = StateCompleted
	}
}
