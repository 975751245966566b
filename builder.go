package statechart

import "fmt"

// Builder assembles a machine fluently and defers all reference checks to
// one Build call, so states, nodes, and the transitions between them can
// be declared in any order.
type Builder struct {
	name        string
	states      []State
	nodes       []Node
	transitions []Transition
	data        []Data
	opts        []Option
}

// NewBuilder starts a builder for a machine with the given name.
func NewBuilder(name string, opts ...Option) *Builder {
	return &Builder{name: name, opts: opts}
}

// StateOption configures a state added through the builder.
type StateOption func(*State)

// WithEntry sets the entry action payload.
func WithEntry(action string) StateOption {
	return func(s *State) { s.Actions.Entry = action }
}

// WithDuring sets the during action payload.
func WithDuring(action string) StateOption {
	return func(s *State) { s.Actions.During = action }
}

// WithExit sets the exit action payload.
func WithExit(action string) StateOption {
	return func(s *State) { s.Actions.Exit = action }
}

// WithStatePorts sets the state's input and output port lists.
func WithStatePorts(inports, outports []int) StateOption {
	return func(s *State) {
		s.Inports = inports
		s.Outports = outports
	}
}

// TransitionOption configures a transition added through the builder.
type TransitionOption func(*Transition)

// WithCondition sets the opaque condition expression.
func WithCondition(expr string) TransitionOption {
	return func(t *Transition) { t.Attributes.Condition = expr }
}

// WithAction sets the opaque action expression.
func WithAction(expr string) TransitionOption {
	return func(t *Transition) { t.Attributes.Action = expr }
}

// State declares a named state.
func (b *Builder) State(name string, opts ...StateOption) *Builder {
	s := State{Name: name}
	for _, opt := range opts {
		opt(&s)
	}
	b.states = append(b.states, s)
	return b
}

// Node declares a routing node.
func (b *Builder) Node(id int, inports, outports []int) *Builder {
	b.nodes = append(b.nodes, Node{ID: id, Inports: inports, Outports: outports})
	return b
}

// Transition declares a transition from source to destination. Pass a
// zero Identifier as source for an initial transition.
func (b *Builder) Transition(id, order int, source, destination Identifier, opts ...TransitionOption) *Builder {
	t := Transition{
		ID:          id,
		Attributes:  TransitionAttributes{Order: order},
		Source:      source,
		Destination: destination,
	}
	for _, opt := range opts {
		opt(&t)
	}
	b.transitions = append(b.transitions, t)
	return b
}

// Initial declares an initial transition with no source endpoint.
func (b *Builder) Initial(id, order int, destination Identifier, opts ...TransitionOption) *Builder {
	return b.Transition(id, order, Identifier{}, destination, opts...)
}

// Data declares a typed variable.
func (b *Builder) Data(name, value, typ string) *Builder {
	b.data = append(b.data, Data{Name: name, Value: value, Type: typ})
	return b
}

// Build replays every declaration through the registration path and runs
// a full validation. All problems are reported together as one
// *DiagnosticsError; on success the machine uses eager resolution for any
// further additions.
func (b *Builder) Build() (*Machine, error) {
	m, err := NewMachine(b.name, append(b.opts, WithResolution(ResolveDeferred))...)
	if err != nil {
		return nil, err
	}

	var diags []Diagnostic
	for _, s := range b.states {
		if err := m.AddState(s); err != nil {
			diags = append(diags, addDiagnostic(fmt.Sprintf("state %q", s.Name), err))
		}
	}
	for _, n := range b.nodes {
		if err := m.AddNode(n); err != nil {
			diags = append(diags, addDiagnostic(fmt.Sprintf("node %d", n.ID), err))
		}
	}
	for _, t := range b.transitions {
		if err := m.AddTransition(t); err != nil {
			diags = append(diags, addDiagnostic(fmt.Sprintf("transition %d", t.ID), err))
		}
	}
	for _, d := range b.data {
		if err := m.AddData(d); err != nil {
			diags = append(diags, addDiagnostic(fmt.Sprintf("data %q", d.Name), err))
		}
	}

	diags = append(diags, m.Validate()...)
	sortDiagnostics(diags)
	if HasErrors(diags) {
		return nil, &DiagnosticsError{Diagnostics: diags}
	}
	m.resolution = ResolveEager
	return m, nil
}

// addDiagnostic folds a failed registration into the validation batch so
// Build reports declaration problems and reference problems together.
func addDiagnostic(element string, err error) Diagnostic {
	code := DiagCodeInvalidField
	switch errorCode(err) {
	case ErrCodeDuplicateIdentifier:
		code = DiagCodeDuplicateIdentifier
	case ErrCodePortConflict:
		code = DiagCodePortConflict
	case ErrCodeUnresolvedReference:
		code = DiagCodeUnresolvedReference
	}
	return Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  err.Error(),
		Element:  element,
	}
}
