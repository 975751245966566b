package statechart

import (
	"fmt"
	"sort"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

const (
	DiagCodeUnresolvedReference = "SC001_UNRESOLVED_REFERENCE"
	DiagCodeDuplicateIdentifier = "SC002_DUPLICATE_IDENTIFIER"
	DiagCodeInvalidField        = "SC003_INVALID_FIELD"
	DiagCodePortConflict        = "SC004_PORT_CONFLICT"
	DiagCodeMissingPort         = "SC005_MISSING_PORT"
)

// Diagnostic is one validation finding. Validate emits the complete batch
// for the machine instead of stopping at the first problem, so tooling
// can surface every issue at once.
type Diagnostic struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Element  string `json:"element,omitempty"`
	Field    string `json:"field,omitempty"`
}

// HasErrors reports whether any diagnostic carries error severity.
// Warnings alone leave the machine closed/valid.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// DiagnosticsError wraps a validation batch as a single error for callers
// that need the report through an error return.
type DiagnosticsError struct {
	Diagnostics []Diagnostic
}

func (e *DiagnosticsError) Error() string {
	if e == nil || len(e.Diagnostics) == 0 {
		return "chart validation failed"
	}
	first := e.Diagnostics[0]
	return fmt.Sprintf("chart validation failed: %s (%s)", first.Message, first.Code)
}

// Validate re-derives every machine invariant from the current collections
// and returns the full diagnostic batch in a deterministic order. It never
// mutates the machine; an empty batch (or warnings only) means the machine
// is closed and ready for a generator.
func (m *Machine) Validate() []Diagnostic {
	var diags []Diagnostic

	for _, t := range m.Transitions() {
		element := fmt.Sprintf("transition %d", t.ID)
		if t.Destination.IsZero() {
			diags = append(diags, Diagnostic{
				Code:     DiagCodeInvalidField,
				Severity: SeverityError,
				Message:  "destination is required",
				Element:  element,
				Field:    "destination",
			})
		} else if !m.Resolve(t.Destination) {
			diags = append(diags, Diagnostic{
				Code:     DiagCodeUnresolvedReference,
				Severity: SeverityError,
				Message:  fmt.Sprintf("destination %s does not exist", t.Destination),
				Element:  element,
				Field:    "destination",
			})
		}
		if !t.Source.IsZero() && !m.Resolve(t.Source) {
			diags = append(diags, Diagnostic{
				Code:     DiagCodeUnresolvedReference,
				Severity: SeverityError,
				Message:  fmt.Sprintf("source %s does not exist", t.Source),
				Element:  element,
				Field:    "source",
			})
		}
		diags = append(diags, m.portCoverage(t)...)
	}

	for _, s := range m.States() {
		element := fmt.Sprintf("state %q", s.Name)
		diags = append(diags, portDiagnostics(element, "inports", s.Inports)...)
		diags = append(diags, portDiagnostics(element, "outports", s.Outports)...)
	}
	for _, n := range m.Nodes() {
		element := fmt.Sprintf("node %d", n.ID)
		diags = append(diags, portDiagnostics(element, "inports", n.Inports)...)
		diags = append(diags, portDiagnostics(element, "outports", n.Outports)...)
	}

	for _, d := range m.data {
		element := fmt.Sprintf("data %q", d.Name)
		if d.Type == "" {
			diags = append(diags, Diagnostic{
				Code:     DiagCodeInvalidField,
				Severity: SeverityError,
				Message:  "type must not be empty",
				Element:  element,
				Field:    "type",
			})
		}
		if d.Value == "" {
			diags = append(diags, Diagnostic{
				Code:     DiagCodeInvalidField,
				Severity: SeverityError,
				Message:  "value must not be empty",
				Element:  element,
				Field:    "value",
			})
		}
	}

	sortDiagnostics(diags)
	if len(diags) > 0 {
		m.logger.Debug("validation found %d finding(s) machine=%s", len(diags), m.name)
	}
	return diags
}

// portCoverage flags resolvable endpoints of a non-initial transition whose
// connection side has no ports declared. Structural only, so a warning:
// many charts leave port lists empty and let the generator assign anchors.
func (m *Machine) portCoverage(t Transition) []Diagnostic {
	if t.Initial() {
		return nil
	}
	var diags []Diagnostic
	element := fmt.Sprintf("transition %d", t.ID)
	if m.Resolve(t.Source) && len(m.outports(t.Source)) == 0 {
		diags = append(diags, Diagnostic{
			Code:     DiagCodeMissingPort,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("source %s declares no outports", t.Source),
			Element:  element,
			Field:    "source",
		})
	}
	if m.Resolve(t.Destination) && len(m.inports(t.Destination)) == 0 {
		diags = append(diags, Diagnostic{
			Code:     DiagCodeMissingPort,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("destination %s declares no inports", t.Destination),
			Element:  element,
			Field:    "destination",
		})
	}
	return diags
}

func (m *Machine) inports(ref Identifier) []int {
	if name, ok := ref.Name(); ok {
		return m.states[name].Inports
	}
	if id, ok := ref.Number(); ok {
		return m.nodes[id].Inports
	}
	return nil
}

func (m *Machine) outports(ref Identifier) []int {
	if name, ok := ref.Name(); ok {
		return m.states[name].Outports
	}
	if id, ok := ref.Number(); ok {
		return m.nodes[id].Outports
	}
	return nil
}

func portDiagnostics(element, field string, ports []int) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[int]struct{}, len(ports))
	for _, p := range ports {
		if p < 0 {
			diags = append(diags, Diagnostic{
				Code:     DiagCodeInvalidField,
				Severity: SeverityError,
				Message:  fmt.Sprintf("port index %d must be non-negative", p),
				Element:  element,
				Field:    field,
			})
			continue
		}
		if _, dup := seen[p]; dup {
			diags = append(diags, Diagnostic{
				Code:     DiagCodePortConflict,
				Severity: SeverityError,
				Message:  fmt.Sprintf("duplicate port index %d", p),
				Element:  element,
				Field:    field,
			})
			continue
		}
		seen[p] = struct{}{}
	}
	return diags
}

func sortDiagnostics(diags []Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Element != b.Element {
			return a.Element < b.Element
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		return a.Message < b.Message
	})
}
