package statechart

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type identifierKind uint8

const (
	identifierNone identifierKind = iota
	identifierName
	identifierNumber
)

// Identifier addresses a transition endpoint: either a State by name or a
// Node by numeric id. The two spaces are independent, so Named("3") and
// Numbered(3) never compare equal. The zero Identifier addresses nothing
// and marks an initial transition's missing source.
type Identifier struct {
	kind identifierKind
	name string
	num  int
}

// Named returns an Identifier addressing the state with the given name.
func Named(name string) Identifier {
	return Identifier{kind: identifierName, name: name}
}

// Numbered returns an Identifier addressing the node with the given id.
func Numbered(id int) Identifier {
	return Identifier{kind: identifierNumber, num: id}
}

// IsZero reports whether the Identifier addresses nothing.
func (id Identifier) IsZero() bool {
	return id.kind == identifierNone
}

// Name returns the state name and true when the Identifier is name-based.
func (id Identifier) Name() (string, bool) {
	return id.name, id.kind == identifierName
}

// Number returns the node id and true when the Identifier is number-based.
func (id Identifier) Number() (int, bool) {
	return id.num, id.kind == identifierNumber
}

func (id Identifier) String() string {
	switch id.kind {
	case identifierName:
		return fmt.Sprintf("state %q", id.name)
	case identifierNumber:
		return fmt.Sprintf("node %d", id.num)
	default:
		return "<none>"
	}
}

// MarshalJSON renders a bare string for names and a bare integer for node ids.
func (id Identifier) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case identifierName:
		return json.Marshal(id.name)
	case identifierNumber:
		return json.Marshal(id.num)
	default:
		return []byte("null"), nil
	}
}

func (id *Identifier) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*id = Identifier{}
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*id = Named(name)
		return nil
	}
	num, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("identifier must be a string or integer, got %s", text)
	}
	*id = Numbered(num)
	return nil
}

// MarshalYAML mirrors the JSON shape: string or integer scalar.
func (id Identifier) MarshalYAML() (any, error) {
	switch id.kind {
	case identifierName:
		return id.name, nil
	case identifierNumber:
		return id.num, nil
	default:
		return nil, nil
	}
}

func (id *Identifier) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("identifier must be a scalar, got %s", node.Tag)
	}
	switch node.Tag {
	case "!!null":
		*id = Identifier{}
		return nil
	case "!!int":
		num, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("identifier: %w", err)
		}
		*id = Numbered(num)
		return nil
	case "!!str":
		*id = Named(node.Value)
		return nil
	default:
		return fmt.Errorf("identifier must be a string or integer, got %s", node.Tag)
	}
}
