package tree

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/arbor/pkg/errors"
)

// =============================================================================
// Import
// =============================================================================

// DecodeJSON parses raw JSON into a validated tree with freshly generated ids.
// Any shape violation aborts the whole import with an ErrCodeValidation error.
func DecodeJSON(data []byte, ids *IDGenerator) (*Node, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "decode tree JSON")
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.Validation("unexpected data after tree JSON at offset %d", dec.InputOffset())
	}
	return Build(raw, ids)
}

// DecodeYAML parses raw YAML into a validated tree with freshly generated ids.
func DecodeYAML(data []byte, ids *IDGenerator) (*Node, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, err, "decode tree YAML")
	}
	return Build(raw, ids)
}

// Build converts a generic decoded document (maps, slices, scalars) into a
// tree. Every node receives a new id from ids; missing or empty text becomes
// [DefaultText]; missing or null children become an empty list.
//
// Ids are drawn from ids without consulting any live tree: the generator is
// monotonic, so the ids of the result are unique among themselves.
func Build(raw any, ids *IDGenerator) (*Node, error) {
	if ids == nil {
		ids = NewIDGenerator(0)
	}
	return build(raw, ids, "root")
}

func build(raw any, ids *IDGenerator, path string) (*Node, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Validation("invalid node structure at %s: expected object, got %s", path, kindOf(raw))
	}

	n := &Node{
		ID:        ids.Next(nil),
		Text:      textOf(obj["text"]),
		X:         numberOf(obj["x"]),
		Y:         numberOf(obj["y"]),
		Highlight: highlightOf(obj["highlight"]),
		Children:  []*Node{},
	}

	switch children := obj["children"].(type) {
	case nil:
	case []any:
		n.Children = make([]*Node, 0, len(children))
		for i, c := range children {
			child, err := build(c, ids, path+".children["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	default:
		return nil, errors.Validation("children must be an array at %s, got %s", path, kindOf(children))
	}

	return n, nil
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case json.Number:
		if f, err := t.Float64(); err == nil && f != 0 {
			return t.String()
		}
	case int:
		if t != 0 {
			return strconv.Itoa(t)
		}
	case float64:
		if t != 0 && !math.IsNaN(t) {
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	case bool:
		if t {
			return "true"
		}
	}
	return DefaultText
}

func numberOf(v any) float64 {
	switch t := v.(type) {
	case json.Number:
		f, _ := t.Float64()
		return f
	case int:
		return float64(t)
	case float64:
		return t
	}
	return 0
}

func highlightOf(v any) *Highlight {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	color, _ := obj["color"].(string)
	kind, _ := obj["type"].(string)
	switch HighlightKind(kind) {
	case HighlightGlobal:
		return &Highlight{Kind: HighlightGlobal, Index: int(numberOf(obj["index"])), Color: color}
	case HighlightCustom:
		if color == "" {
			return nil
		}
		return &Highlight{Kind: HighlightCustom, Color: color}
	}
	return nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}

// =============================================================================
// Export
// =============================================================================

// EncodeJSON writes the tree as indented JSON, positions included.
func EncodeJSON(root *Node) ([]byte, error) {
	return json.MarshalIndent(normalize(root), "", "  ")
}

// EncodeYAML writes the tree as YAML, positions included.
func EncodeYAML(root *Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(normalize(root)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type highlightWire struct {
	Kind  HighlightKind `json:"type" yaml:"type"`
	Index *int          `json:"index,omitempty" yaml:"index,omitempty"`
	Color string        `json:"color,omitempty" yaml:"color,omitempty"`
}

func (h Highlight) wire() highlightWire {
	w := highlightWire{Kind: h.Kind, Color: h.Color}
	if h.Kind == HighlightGlobal {
		w.Index = &h.Index
	}
	return w
}

// MarshalJSON implements json.Marshaler.
func (h Highlight) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.wire())
}

// MarshalYAML implements yaml.Marshaler.
func (h Highlight) MarshalYAML() (any, error) {
	return h.wire(), nil
}

// normalize returns a copy whose children lists are never nil, so exports
// always carry "children": [] rather than null.
func normalize(root *Node) *Node {
	c := root.Clone()
	Walk(c, func(n *Node, _ int) bool {
		if n.Children == nil {
			n.Children = []*Node{}
		}
		return true
	})
	return c
}
