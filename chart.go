package statechart

import "fmt"

// StateActions carries the opaque entry/during/exit action payloads of a
// State. The model never interprets them; they ride along for the
// downstream generator.
type StateActions struct {
	Entry  string
	During string
	Exit   string
}

// State is a named vertex with input/output connection ports.
type State struct {
	Name     string
	Inports  []int
	Outports []int
	Actions  StateActions
}

// Node is an auxiliary routing vertex (junction, fork) identified by a
// positive integer id in its own namespace, separate from state names.
type Node struct {
	ID       int
	Inports  []int
	Outports []int
}

// TransitionAttributes is the mutable payload of a transition. Lower Order
// fires first; Condition and Action are opaque expression text.
type TransitionAttributes struct {
	Order     int
	Condition string
	Action    string
}

// Transition is a directed edge between two endpoint Identifiers. A zero
// Source marks an initial transition with no origin; Destination is
// always required.
type Transition struct {
	ID          int
	Attributes  TransitionAttributes
	Source      Identifier
	Destination Identifier
}

// Initial reports whether the transition has no source endpoint.
func (t Transition) Initial() bool {
	return t.Source.IsZero()
}

// Data declares a named, typed variable owned by the machine. Type and
// Value are opaque text; the model only requires them to be non-empty.
type Data struct {
	Name  string
	Value string
	Type  string
}

// checkPorts enforces the structural port invariants: indices are
// non-negative and unique within one list.
func checkPorts(element, field string, ports []int) error {
	seen := make(map[int]struct{}, len(ports))
	for _, p := range ports {
		if p < 0 {
			return newModelError(ErrInvalidField,
				fmt.Sprintf("%s: %s index %d must be non-negative", element, field, p),
				map[string]any{"element": element, "field": field, "port": p})
		}
		if _, dup := seen[p]; dup {
			return newModelError(ErrPortConflict,
				fmt.Sprintf("%s: duplicate %s index %d", element, field, p),
				map[string]any{"element": element, "field": field, "port": p})
		}
		seen[p] = struct{}{}
	}
	return nil
}

func clonePorts(ports []int) []int {
	if len(ports) == 0 {
		return nil
	}
	out := make([]int, len(ports))
	copy(out, ports)
	return out
}
