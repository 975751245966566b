package statechart

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestIdentifierVariantsNeverCompareEqual(t *testing.T) {
	if Named("3") == Numbered(3) {
		t.Fatal("name and number identifiers with coincident payloads must differ")
	}
	if Named("red") != Named("red") {
		t.Fatal("equal named identifiers must compare equal")
	}
	if Numbered(7) != Numbered(7) {
		t.Fatal("equal numbered identifiers must compare equal")
	}
	if !(Identifier{}).IsZero() {
		t.Fatal("zero identifier must report IsZero")
	}
	if Named("red").IsZero() || Numbered(1).IsZero() {
		t.Fatal("populated identifiers must not report IsZero")
	}
}

func TestIdentifierUsableAsMapKey(t *testing.T) {
	seen := map[Identifier]string{
		Named("3"):  "state",
		Numbered(3): "node",
	}
	if len(seen) != 2 {
		t.Fatalf("expected two distinct keys, got %d", len(seen))
	}
	if seen[Named("3")] != "state" || seen[Numbered(3)] != "node" {
		t.Fatal("lookup by variant returned the wrong entry")
	}
}

func TestIdentifierAccessors(t *testing.T) {
	if name, ok := Named("red").Name(); !ok || name != "red" {
		t.Fatalf("unexpected name accessor result: %q %v", name, ok)
	}
	if _, ok := Named("red").Number(); ok {
		t.Fatal("named identifier must not expose a number")
	}
	if num, ok := Numbered(4).Number(); !ok || num != 4 {
		t.Fatalf("unexpected number accessor result: %d %v", num, ok)
	}
}

func TestIdentifierJSONRoundTrip(t *testing.T) {
	type wire struct {
		Source      *Identifier `json:"source"`
		Destination Identifier  `json:"destination"`
	}
	src := Named("red")
	in := wire{Source: &src, Destination: Numbered(3)}

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != `{"source":"red","destination":3}` {
		t.Fatalf("unexpected wire shape: %s", raw)
	}

	var out wire
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out.Source == nil || *out.Source != Named("red") {
		t.Fatalf("source lost its discriminant: %v", out.Source)
	}
	if out.Destination != Numbered(3) {
		t.Fatalf("destination lost its discriminant: %v", out.Destination)
	}

	var initial wire
	if err := json.Unmarshal([]byte(`{"source":null,"destination":"idle"}`), &initial); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if initial.Source != nil {
		t.Fatalf("null source must stay nil, got %v", initial.Source)
	}
}

func TestIdentifierYAMLPreservesDiscriminant(t *testing.T) {
	type wire struct {
		Destination Identifier `yaml:"destination"`
	}

	cases := []struct {
		name  string
		input string
		want  Identifier
	}{
		{"plain string", `destination: red`, Named("red")},
		{"integer", `destination: 3`, Numbered(3)},
		{"quoted digits stay a name", `destination: "3"`, Named("3")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out wire
			if err := yaml.Unmarshal([]byte(tc.input), &out); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if out.Destination != tc.want {
				t.Fatalf("got %v, want %v", out.Destination, tc.want)
			}
		})
	}
}

func TestIdentifierYAMLRejectsNonScalars(t *testing.T) {
	var out struct {
		Destination Identifier `yaml:"destination"`
	}
	if err := yaml.Unmarshal([]byte("destination:\n  - red"), &out); err == nil {
		t.Fatal("expected an error for a sequence endpoint")
	}
}
