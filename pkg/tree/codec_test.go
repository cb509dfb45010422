package tree

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/arbor/pkg/errors"
)

func TestDecodeJSON(t *testing.T) {
	data := `{
		"id": 7,
		"text": "root",
		"x": 120, "y": 100,
		"children": [
			{"id": 7, "text": "dup id"},
			{"id": 9, "highlight": {"type": "custom", "color": "#091E39"}, "children": [
				{"text": 3, "highlight": {"type": "global", "index": 2}}
			]}
		],
		"highlight": null
	}`

	root, err := DecodeJSON([]byte(data), NewIDGenerator(100))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	if root.ID != 100 || root.Children[0].ID != 101 || root.Children[1].ID != 102 {
		t.Errorf("ids not regenerated: %d %d %d", root.ID, root.Children[0].ID, root.Children[1].ID)
	}
	if root.Children[1].Text != DefaultText {
		t.Errorf("missing text = %q, want %q", root.Children[1].Text, DefaultText)
	}
	if root.X != 120 || root.Y != 100 {
		t.Errorf("position = (%v,%v), want (120,100)", root.X, root.Y)
	}

	custom := root.Children[1].Highlight
	if custom == nil || custom.Kind != HighlightCustom || custom.Color != "#091E39" {
		t.Errorf("custom highlight = %+v", custom)
	}

	leaf := root.Children[1].Children[0]
	if leaf.Text != "3" {
		t.Errorf("numeric text = %q, want %q", leaf.Text, "3")
	}
	if leaf.Highlight == nil || leaf.Highlight.Kind != HighlightGlobal || leaf.Highlight.Index != 2 {
		t.Errorf("global highlight = %+v", leaf.Highlight)
	}
	if leaf.Children == nil {
		t.Error("missing children decoded as nil, want empty")
	}
}

func TestDecodeJSONValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"root not object", `[1,2]`, "expected object"},
		{"null root", `null`, "expected object"},
		{"children not array", `{"children": {"text": "x"}}`, "children must be an array"},
		{"nested children not array", `{"children": [{"children": "nope"}]}`, "root.children[0]"},
		{"child not object", `{"children": [42]}`, "expected object"},
		{"not json", `{`, "decode tree JSON"},
		{"trailing garbage", `{"text": "a"} junk`, "unexpected data after tree JSON"},
		{"two documents", `{"text": "a"} {"text": "b"}`, "unexpected data after tree JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := DecodeJSON([]byte(tt.data), nil)
			if err == nil {
				t.Fatalf("DecodeJSON() = %+v, want error", root)
			}
			if !errors.Is(err, errors.ErrCodeValidation) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeValidation)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDecodeJSONTrailingWhitespace(t *testing.T) {
	root, err := DecodeJSON([]byte("{\"text\": \"a\"}\n\n  "), nil)
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if root.Text != "a" {
		t.Errorf("Text = %q, want %q", root.Text, "a")
	}
}

func TestEncodeHighlightIndex(t *testing.T) {
	root := New(0, "root")
	root.AddChild(New(1, "first slot")).Highlight = Global(0)
	root.AddChild(New(2, "custom")).Highlight = Custom("#C20F0F")

	data, err := EncodeJSON(root)
	if err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		t.Fatal(err)
	}
	out := compact.String()
	if !strings.Contains(out, `"highlight":{"type":"global","index":0}`) {
		t.Errorf("palette slot 0 lost its index:\n%s", out)
	}
	if strings.Count(out, `"index"`) != 1 {
		t.Errorf("custom highlight should not carry an index:\n%s", out)
	}

	y, err := EncodeYAML(root)
	if err != nil {
		t.Fatalf("EncodeYAML() error = %v", err)
	}
	if !strings.Contains(string(y), "index: 0") || strings.Count(string(y), "index:") != 1 {
		t.Errorf("yaml highlights:\n%s", y)
	}

	back, err := DecodeJSON(data, nil)
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if h := back.Children[0].Highlight; h == nil || *h != *Global(0) {
		t.Errorf("decoded highlight = %+v, want global 0", h)
	}
}

func TestDecodeYAML(t *testing.T) {
	data := `
text: family
children:
  - text: alice
    highlight: {type: global, index: 1}
  - text: bob
    children:
      - text: carol
`
	root, err := DecodeYAML([]byte(data), NewIDGenerator(0))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if got := Count(root); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	if root.Children[0].Highlight == nil || root.Children[0].Highlight.Index != 1 {
		t.Errorf("highlight = %+v", root.Children[0].Highlight)
	}

	if _, err := DecodeYAML([]byte("children: 3"), nil); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("scalar children: err = %v, want validation error", err)
	}
}

func TestRoundTrip(t *testing.T) {
	root := sample()
	root.Children[0].Highlight = Global(1)
	root.Children[1].Highlight = Custom("#C20F0F")
	root.Children[0].Children[1].Text = "multi\nline"

	encoders := map[string]struct {
		encode func(*Node) ([]byte, error)
		decode func([]byte, *IDGenerator) (*Node, error)
	}{
		"json": {EncodeJSON, DecodeJSON},
		"yaml": {EncodeYAML, DecodeYAML},
	}

	for name, c := range encoders {
		t.Run(name, func(t *testing.T) {
			data, err := c.encode(root)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := c.decode(data, NewIDGenerator(50))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			assertSameShape(t, root, got)
		})
	}
}

func TestEncodeJSONEmptyChildren(t *testing.T) {
	n := &Node{ID: 1, Text: "leaf"}
	data, err := EncodeJSON(n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"children": []`) {
		t.Errorf("EncodeJSON() = %s, want empty children array", data)
	}
	if n.Children != nil {
		t.Error("EncodeJSON mutated its input")
	}
}

func assertSameShape(t *testing.T, want, got *Node) {
	t.Helper()
	if want.Text != got.Text {
		t.Errorf("text = %q, want %q", got.Text, want.Text)
	}
	switch {
	case want.Highlight == nil && got.Highlight != nil:
		t.Errorf("node %q: unexpected highlight %+v", want.Text, got.Highlight)
	case want.Highlight != nil && (got.Highlight == nil || *got.Highlight != *want.Highlight):
		t.Errorf("node %q: highlight = %+v, want %+v", want.Text, got.Highlight, want.Highlight)
	}
	if len(want.Children) != len(got.Children) {
		t.Fatalf("node %q: %d children, want %d", want.Text, len(got.Children), len(want.Children))
	}
	for i := range want.Children {
		assertSameShape(t, want.Children[i], got.Children[i])
	}
}
