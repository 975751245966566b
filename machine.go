// Package statechart models a hybrid finite-state machine as a structural
// aggregate: named states, numbered routing nodes, ordered transitions,
// and typed data variables. It enforces the consistency rules that keep
// the aggregate well-formed while it is assembled incrementally — a
// downstream generator or simulator consumes the result; this package
// never executes actions or evaluates conditions.
package statechart

import (
	"fmt"
	"sort"
)

// Resolution selects when transition endpoints are checked against the
// registered states and nodes.
type Resolution int

const (
	// ResolveEager rejects a transition at AddTransition time when an
	// endpoint does not resolve.
	ResolveEager Resolution = iota
	// ResolveDeferred admits transitions with unresolved endpoints and
	// reports them from Validate instead.
	ResolveDeferred
)

// Machine is the aggregate root owning one finite-state model. It is
// single-threaded by contract: hosts that build a machine from multiple
// goroutines must serialize mutating calls themselves.
type Machine struct {
	name        string
	resolution  Resolution
	logger      Logger
	states      map[string]State
	nodes       map[int]Node
	transitions map[int]Transition
	data        []Data
	dataIndex   map[string]int
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithResolution sets the endpoint resolution policy.
func WithResolution(mode Resolution) Option {
	return func(m *Machine) { m.resolution = mode }
}

// WithLogger injects a logger; nil falls back to a no-op.
func WithLogger(logger Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

// NewMachine creates an empty machine. The name is fixed for the life of
// the machine and must be non-empty.
func NewMachine(name string, opts ...Option) (*Machine, error) {
	if name == "" {
		return nil, newModelError(ErrInvalidField, "machine name must not be empty", nil)
	}
	m := &Machine{
		name:        name,
		states:      make(map[string]State),
		nodes:       make(map[int]Node),
		transitions: make(map[int]Transition),
		dataIndex:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = normalizeLogger(m.logger)
	return m, nil
}

// Name returns the immutable machine name.
func (m *Machine) Name() string { return m.name }

// ResolutionMode returns the endpoint resolution policy.
func (m *Machine) ResolutionMode() Resolution { return m.resolution }

// AddState registers a state. It fails without mutating the machine when
// the name is empty, a port list is malformed, or the name is taken.
func (m *Machine) AddState(s State) error {
	if s.Name == "" {
		return newModelError(ErrInvalidField, "state name must not be empty", nil)
	}
	element := fmt.Sprintf("state %q", s.Name)
	if err := checkPorts(element, "inports", s.Inports); err != nil {
		return err
	}
	if err := checkPorts(element, "outports", s.Outports); err != nil {
		return err
	}
	if _, exists := m.states[s.Name]; exists {
		return newModelError(ErrDuplicateIdentifier,
			fmt.Sprintf("state %q already registered", s.Name),
			map[string]any{"state": s.Name})
	}
	s.Inports = clonePorts(s.Inports)
	s.Outports = clonePorts(s.Outports)
	m.states[s.Name] = s
	m.logger.Debug("registered state %q machine=%s", s.Name, m.name)
	return nil
}

// AddNode registers a routing node. Node ids are positive and unique in
// their own namespace, independent from transition ids and state names.
func (m *Machine) AddNode(n Node) error {
	if n.ID <= 0 {
		return newModelError(ErrInvalidField,
			fmt.Sprintf("node id %d must be positive", n.ID), nil)
	}
	element := fmt.Sprintf("node %d", n.ID)
	if err := checkPorts(element, "inports", n.Inports); err != nil {
		return err
	}
	if err := checkPorts(element, "outports", n.Outports); err != nil {
		return err
	}
	if _, exists := m.nodes[n.ID]; exists {
		return newModelError(ErrDuplicateIdentifier,
			fmt.Sprintf("node %d already registered", n.ID),
			map[string]any{"node": n.ID})
	}
	n.Inports = clonePorts(n.Inports)
	n.Outports = clonePorts(n.Outports)
	m.nodes[n.ID] = n
	m.logger.Debug("registered node %d machine=%s", n.ID, m.name)
	return nil
}

// AddData registers a variable declaration. Name, type, and value are
// opaque text but must all be non-empty.
func (m *Machine) AddData(d Data) error {
	switch {
	case d.Name == "":
		return newModelError(ErrInvalidField, "data name must not be empty", nil)
	case d.Type == "":
		return newModelError(ErrInvalidField,
			fmt.Sprintf("data %q: type must not be empty", d.Name),
			map[string]any{"data": d.Name})
	case d.Value == "":
		return newModelError(ErrInvalidField,
			fmt.Sprintf("data %q: value must not be empty", d.Name),
			map[string]any{"data": d.Name})
	}
	if _, exists := m.dataIndex[d.Name]; exists {
		return newModelError(ErrDuplicateIdentifier,
			fmt.Sprintf("data %q already registered", d.Name),
			map[string]any{"data": d.Name})
	}
	m.dataIndex[d.Name] = len(m.data)
	m.data = append(m.data, d)
	m.logger.Debug("registered data %q machine=%s", d.Name, m.name)
	return nil
}

// AddTransition registers a transition. The destination endpoint is
// required; a zero source marks an initial transition. Under ResolveEager
// both endpoints must resolve to a registered state or node at call time.
func (m *Machine) AddTransition(t Transition) error {
	if t.ID <= 0 {
		return newModelError(ErrInvalidField,
			fmt.Sprintf("transition id %d must be positive", t.ID), nil)
	}
	if t.Destination.IsZero() {
		return newModelError(ErrInvalidField,
			fmt.Sprintf("transition %d: destination is required", t.ID),
			map[string]any{"transition": t.ID})
	}
	if _, exists := m.transitions[t.ID]; exists {
		return newModelError(ErrDuplicateIdentifier,
			fmt.Sprintf("transition %d already registered", t.ID),
			map[string]any{"transition": t.ID})
	}
	if m.resolution == ResolveEager {
		if !t.Source.IsZero() && !m.Resolve(t.Source) {
			return newModelError(ErrUnresolvedReference,
				fmt.Sprintf("transition %d: source %s does not exist", t.ID, t.Source),
				map[string]any{"transition": t.ID, "endpoint": t.Source.String()})
		}
		if !m.Resolve(t.Destination) {
			return newModelError(ErrUnresolvedReference,
				fmt.Sprintf("transition %d: destination %s does not exist", t.ID, t.Destination),
				map[string]any{"transition": t.ID, "endpoint": t.Destination.String()})
		}
	}
	m.transitions[t.ID] = t
	m.logger.Debug("registered transition %d machine=%s", t.ID, m.name)
	return nil
}

// Resolve reports whether ref addresses a registered state or node.
func (m *Machine) Resolve(ref Identifier) bool {
	if name, ok := ref.Name(); ok {
		_, exists := m.states[name]
		return exists
	}
	if id, ok := ref.Number(); ok {
		_, exists := m.nodes[id]
		return exists
	}
	return false
}

// State looks up a state by name. The result is a snapshot; its port
// lists do not alias the machine's storage.
func (m *Machine) State(name string) (State, bool) {
	s, ok := m.states[name]
	if !ok {
		return State{}, false
	}
	s.Inports = clonePorts(s.Inports)
	s.Outports = clonePorts(s.Outports)
	return s, true
}

// Node looks up a node by id. The result is a snapshot; its port lists
// do not alias the machine's storage.
func (m *Machine) Node(id int) (Node, bool) {
	n, ok := m.nodes[id]
	if !ok {
		return Node{}, false
	}
	n.Inports = clonePorts(n.Inports)
	n.Outports = clonePorts(n.Outports)
	return n, true
}

// Transition looks up a transition by id.
func (m *Machine) Transition(id int) (Transition, bool) {
	t, ok := m.transitions[id]
	return t, ok
}

// Data looks up a variable declaration by name.
func (m *Machine) Data(name string) (Data, bool) {
	idx, ok := m.dataIndex[name]
	if !ok {
		return Data{}, false
	}
	return m.data[idx], true
}

// States returns all states sorted by name.
func (m *Machine) States() []State {
	out := make([]State, 0, len(m.states))
	for _, s := range m.states {
		s.Inports = clonePorts(s.Inports)
		s.Outports = clonePorts(s.Outports)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Nodes returns all nodes sorted by id.
func (m *Machine) Nodes() []Node {
	out := make([]Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		n.Inports = clonePorts(n.Inports)
		n.Outports = clonePorts(n.Outports)
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Transitions returns all transitions sorted by id.
func (m *Machine) Transitions() []Transition {
	out := make([]Transition, 0, len(m.transitions))
	for _, t := range m.transitions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DataList returns the variable declarations in registration order.
func (m *Machine) DataList() []Data {
	out := make([]Data, len(m.data))
	copy(out, m.data)
	return out
}

// OrderedTransitions returns the transitions whose source equals from,
// ascending by firing order, ties broken by ascending transition id. This
// ordering is the contract a downstream executor uses to pick which
// transition fires first.
func (m *Machine) OrderedTransitions(from Identifier) []Transition {
	var out []Transition
	for _, t := range m.transitions {
		if t.Source == from {
			out = append(out, t)
		}
	}
	sortByFiringOrder(out)
	return out
}

// InitialTransitions returns the transitions with no source endpoint,
// ascending by firing order then id.
func (m *Machine) InitialTransitions() []Transition {
	return m.OrderedTransitions(Identifier{})
}

func sortByFiringOrder(ts []Transition) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Attributes.Order != ts[j].Attributes.Order {
			return ts[i].Attributes.Order < ts[j].Attributes.Order
		}
		return ts[i].ID < ts[j].ID
	})
}
