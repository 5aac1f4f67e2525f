package progress

import "strings"

type State int

const (
	Running State = iota
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "running"
}

type Stage struct {
	Marker string
	Value  int
	State  State
}

// Stages are matched against every output line in order; the first marker
// contained in the line wins. ERROR: outranks everything, so a line such as
// "ERROR: Copying failed" is a failure.
var Stages = []Stage{
	{Marker: "ERROR:", Value: 0, State: Failed},
	{Marker: "Installation succeeded", Value: 100, State: Succeeded},
	{Marker: "Installing bootloader", Value: 85, State: Running},
	{Marker: "Copying", Value: 50, State: Running},
	{Marker: "Partitioning", Value: 25, State: Running},
	{Marker: "Erasing", Value: 10, State: Running},
}

// Tracker turns installer output into a coarse progress value.
//
// While running the value only moves forward. Success pins it at 100 until
// an ERROR: line, which always drops it back to 0. A failed run may restart
// when a later fallback attempt reports new stages.
type Tracker struct {
	value int
	state State
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe reports whether the line changed the value or state.
func (t *Tracker) Observe(line string) bool {
	stage, ok := match(line)
	if !ok {
		return false
	}
	prevValue, prevState := t.value, t.state

	switch {
	case stage.State == Failed:
		t.value, t.state = 0, Failed
	case t.state == Succeeded:
		// terminal until the next Reset
	case stage.State == Succeeded:
		t.value, t.state = stage.Value, Succeeded
	case t.state == Failed:
		t.value, t.state = stage.Value, Running
	case stage.Value > t.value:
		t.value = stage.Value
	}

	return t.value != prevValue || t.state != prevState
}

func (t *Tracker) Value() int {
	return t.value
}

func (t *Tracker) State() State {
	return t.state
}

func (t *Tracker) Reset() {
	t.value, t.state = 0, Running
}

func match(line string) (Stage, bool) {
	for _, stage := range Stages {
		if strings.Contains(line, stage.Marker) {
			return stage, true
		}
	}
	return Stage{}, false
}
