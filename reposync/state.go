package reposync

import "strconv"

// State is the phase a Job is in.
type State int32

// Job states, in the order a successful sync moves through them.
//
// A sync whose checksum matches the stored one goes from ComputingChecksum to
// Unchanged and then Done.
const (
	Idle State = iota
	ComputingChecksum
	Unchanged
	Fetching
	Merging
	Persisting
	Reconciling
	Done
	Cancelled
	Failed
)

var stateNames = [...]string{
	Idle:              "idle",
	ComputingChecksum: "computing_checksum",
	Unchanged:         "unchanged",
	Fetching:          "fetching",
	Merging:           "merging",
	Persisting:        "persisting",
	Reconciling:       "reconciling",
	Done:              "done",
	Cancelled:         "cancelled",
	Failed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions happen from the State.
func (s State) Terminal() bool {
	return s == Done || s == Cancelled || s == Failed
}
