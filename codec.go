package statechart

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the interchange representation of a machine: a plain
// mapping-of-mappings shape that survives YAML or JSON transport.
// Decode replays a document through the registration path, so a document
// is subject to exactly the same invariants as incremental assembly.
type Document struct {
	Name        string          `json:"name" yaml:"name"`
	States      []StateDoc      `json:"states,omitempty" yaml:"states,omitempty"`
	Nodes       []NodeDoc       `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Transitions []TransitionDoc `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	Data        []DataDoc       `json:"data,omitempty" yaml:"data,omitempty"`
}

// StateDoc is one serialized state.
type StateDoc struct {
	ID       string `json:"id" yaml:"id"`
	Inports  []int  `json:"inports,omitempty" yaml:"inports,omitempty"`
	Outports []int  `json:"outports,omitempty" yaml:"outports,omitempty"`
	Entry    string `json:"entry,omitempty" yaml:"entry,omitempty"`
	During   string `json:"during,omitempty" yaml:"during,omitempty"`
	Exit     string `json:"exit,omitempty" yaml:"exit,omitempty"`
}

// NodeDoc is one serialized routing node.
type NodeDoc struct {
	ID       int   `json:"id" yaml:"id"`
	Inports  []int `json:"inports,omitempty" yaml:"inports,omitempty"`
	Outports []int `json:"outports,omitempty" yaml:"outports,omitempty"`
}

// TransitionDoc is one serialized transition. Source is null for an
// initial transition; otherwise a string addresses a state and an
// integer addresses a node, mirroring the in-memory discriminant.
type TransitionDoc struct {
	ID          int         `json:"id" yaml:"id"`
	Order       int         `json:"order" yaml:"order"`
	Condition   string      `json:"condition,omitempty" yaml:"condition,omitempty"`
	Action      string      `json:"action,omitempty" yaml:"action,omitempty"`
	Source      *Identifier `json:"source" yaml:"source"`
	Destination Identifier  `json:"destination" yaml:"destination"`
}

// DataDoc is one serialized variable declaration.
type DataDoc struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Type  string `json:"type" yaml:"type"`
}

// Encode renders the machine into its interchange shape with
// deterministic ordering: states by name, nodes and transitions by id,
// data in declaration order.
func Encode(m *Machine) *Document {
	doc := &Document{Name: m.Name()}
	for _, s := range m.States() {
		doc.States = append(doc.States, StateDoc{
			ID:       s.Name,
			Inports:  clonePorts(s.Inports),
			Outports: clonePorts(s.Outports),
			Entry:    s.Actions.Entry,
			During:   s.Actions.During,
			Exit:     s.Actions.Exit,
		})
	}
	for _, n := range m.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:       n.ID,
			Inports:  clonePorts(n.Inports),
			Outports: clonePorts(n.Outports),
		})
	}
	for _, t := range m.Transitions() {
		td := TransitionDoc{
			ID:          t.ID,
			Order:       t.Attributes.Order,
			Condition:   t.Attributes.Condition,
			Action:      t.Attributes.Action,
			Destination: t.Destination,
		}
		if !t.Source.IsZero() {
			src := t.Source
			td.Source = &src
		}
		doc.Transitions = append(doc.Transitions, td)
	}
	for _, d := range m.DataList() {
		doc.Data = append(doc.Data, DataDoc{Name: d.Name, Value: d.Value, Type: d.Type})
	}
	return doc
}

// Decode reconstructs a machine from its interchange shape. Registration
// runs with deferred endpoint resolution so document order does not
// matter, then a full Validate gates the result; a document that fails
// any invariant yields a *DiagnosticsError and no machine.
func Decode(doc *Document, opts ...Option) (*Machine, error) {
	if doc == nil {
		return nil, newModelError(ErrInvalidField, "document is required", nil)
	}
	var requested Machine
	for _, opt := range opts {
		opt(&requested)
	}

	m, err := NewMachine(doc.Name, append(opts, WithResolution(ResolveDeferred))...)
	if err != nil {
		return nil, err
	}
	for _, sd := range doc.States {
		s := State{
			Name:     sd.ID,
			Inports:  sd.Inports,
			Outports: sd.Outports,
			Actions:  StateActions{Entry: sd.Entry, During: sd.During, Exit: sd.Exit},
		}
		if err := m.AddState(s); err != nil {
			return nil, fmt.Errorf("decode state %q: %w", sd.ID, err)
		}
	}
	for _, nd := range doc.Nodes {
		if err := m.AddNode(Node{ID: nd.ID, Inports: nd.Inports, Outports: nd.Outports}); err != nil {
			return nil, fmt.Errorf("decode node %d: %w", nd.ID, err)
		}
	}
	for _, td := range doc.Transitions {
		t := Transition{
			ID: td.ID,
			Attributes: TransitionAttributes{
				Order:     td.Order,
				Condition: td.Condition,
				Action:    td.Action,
			},
			Destination: td.Destination,
		}
		if td.Source != nil {
			t.Source = *td.Source
		}
		if err := m.AddTransition(t); err != nil {
			return nil, fmt.Errorf("decode transition %d: %w", td.ID, err)
		}
	}
	for _, dd := range doc.Data {
		if err := m.AddData(Data{Name: dd.Name, Value: dd.Value, Type: dd.Type}); err != nil {
			return nil, fmt.Errorf("decode data %q: %w", dd.Name, err)
		}
	}

	if diags := m.Validate(); HasErrors(diags) {
		return nil, &DiagnosticsError{Diagnostics: diags}
	}
	m.resolution = requested.resolution
	return m, nil
}

// ParseDocument parses YAML or JSON bytes into a Document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	// yaml can handle JSON too, so a single attempt is fine
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse chart document: %w", err)
	}
	return &doc, nil
}

// ParseMachine parses YAML or JSON bytes and decodes them in one step.
func ParseMachine(data []byte, opts ...Option) (*Machine, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return Decode(doc, opts...)
}
