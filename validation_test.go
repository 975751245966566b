package statechart

import (
	"sort"
	"testing"
)

func TestValidateEmptyMachineHasNoFindings(t *testing.T) {
	m := mustMachine(t, "empty")
	if diags := m.Validate(); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", diags)
	}
}

func TestValidateReportsExactlyOneUnresolvedReference(t *testing.T) {
	m := mustMachine(t, "m", WithResolution(ResolveDeferred))
	if err := m.AddState(State{Name: "red", Outports: []int{0}}); err != nil {
		t.Fatal(err)
	}
	if err := m.AddTransition(Transition{ID: 1, Source: Named("red"), Destination: Named("blue")}); err != nil {
		t.Fatal(err)
	}

	diags := m.Validate()
	var unresolved []Diagnostic
	for _, d := range diags {
		if d.Code == DiagCodeUnresolvedReference {
			unresolved = append(unresolved, d)
		}
	}
	if len(unresolved) != 1 {
		t.Fatalf("expected exactly one unresolved reference, got %+v", diags)
	}
	d := unresolved[0]
	if d.Severity != SeverityError || d.Element != "transition 1" || d.Field != "destination" {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
}

func TestValidateAggregatesAllFindings(t *testing.T) {
	m := mustMachine(t, "m", WithResolution(ResolveDeferred))
	adds := []Transition{
		{ID: 1, Source: Named("ghost"), Destination: Numbered(9)},
		{ID: 2, Destination: Named("phantom")},
	}
	for _, tr := range adds {
		if err := m.AddTransition(tr); err != nil {
			t.Fatal(err)
		}
	}

	diags := m.Validate()
	if len(diags) != 3 {
		t.Fatalf("expected three unresolved endpoints in one batch, got %+v", diags)
	}
	for _, d := range diags {
		if d.Code != DiagCodeUnresolvedReference {
			t.Fatalf("unexpected code: %+v", d)
		}
	}
	if !sort.SliceIsSorted(diags, func(i, j int) bool {
		if diags[i].Element != diags[j].Element {
			return diags[i].Element < diags[j].Element
		}
		return diags[i].Field < diags[j].Field
	}) {
		t.Fatalf("diagnostics must arrive in deterministic order: %+v", diags)
	}
}

func TestValidateMissingPortsIsOnlyAWarning(t *testing.T) {
	m := mustMachine(t, "m")
	if err := m.AddState(State{Name: "red"}); err != nil {
		t.Fatal(err)
	}
	if err := m.AddState(State{Name: "green"}); err != nil {
		t.Fatal(err)
	}
	if err := m.AddTransition(Transition{ID: 1, Source: Named("red"), Destination: Named("green")}); err != nil {
		t.Fatal(err)
	}

	diags := m.Validate()
	if HasErrors(diags) {
		t.Fatalf("portless endpoints must not invalidate the machine: %+v", diags)
	}
	if len(diags) != 2 {
		t.Fatalf("expected two missing-port warnings, got %+v", diags)
	}
	for _, d := range diags {
		if d.Code != DiagCodeMissingPort || d.Severity != SeverityWarning {
			t.Fatalf("unexpected diagnostic: %+v", d)
		}
	}
}

func TestValidateSkipsPortCoverageForInitialTransitions(t *testing.T) {
	m := mustMachine(t, "m")
	if err := m.AddState(State{Name: "off"}); err != nil {
		t.Fatal(err)
	}
	if err := m.AddTransition(Transition{ID: 1, Destination: Named("off")}); err != nil {
		t.Fatal(err)
	}
	for _, d := range m.Validate() {
		if d.Code == DiagCodeMissingPort {
			t.Fatalf("initial transitions carry no port coverage: %+v", d)
		}
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	m := mustMachine(t, "m", WithResolution(ResolveDeferred))
	if err := m.AddTransition(Transition{ID: 1, Destination: Named("blue")}); err != nil {
		t.Fatal(err)
	}
	first := m.Validate()
	second := m.Validate()
	if len(first) != len(second) {
		t.Fatalf("validation must be repeatable: %d vs %d findings", len(first), len(second))
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors(nil) {
		t.Fatal("empty batch has no errors")
	}
	if HasErrors([]Diagnostic{{Severity: SeverityWarning}}) {
		t.Fatal("warnings alone are not errors")
	}
	if !HasErrors([]Diagnostic{{Severity: SeverityWarning}, {Severity: SeverityError}}) {
		t.Fatal("an error severity must be detected")
	}
}

func TestDiagnosticsErrorMessage(t *testing.T) {
	err := &DiagnosticsError{Diagnostics: []Diagnostic{{
		Code:    DiagCodeUnresolvedReference,
		Message: `destination state "blue" does not exist`,
	}}}
	want := `chart validation failed: destination state "blue" does not exist (SC001_UNRESOLVED_REFERENCE)`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
	var empty *DiagnosticsError
	if (&DiagnosticsError{}).Error() == "" || empty.Error() == "" {
		t.Fatal("degenerate batches still need a message")
	}
}
