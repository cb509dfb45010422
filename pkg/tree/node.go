package tree

import "slices"

// DefaultText is the label given to new nodes and to imported nodes with no text.
const DefaultText = "1"

// HighlightKind discriminates the two highlight flavours.
type HighlightKind string

const (
	// HighlightGlobal refers to an entry of the shared highlight palette.
	HighlightGlobal HighlightKind = "global"
	// HighlightCustom carries its own color.
	HighlightCustom HighlightKind = "custom"
)

// Highlight is a purely presentational tag. It has no effect on layout.
// Palette highlights always serialize their index, slot 0 included; custom
// highlights omit it.
type Highlight struct {
	Kind  HighlightKind `json:"type" yaml:"type"`
	Index int           `json:"index" yaml:"index"`
	Color string        `json:"color,omitempty" yaml:"color,omitempty"`
}

// Global returns a palette highlight.
func Global(index int) *Highlight {
	return &Highlight{Kind: HighlightGlobal, Index: index}
}

// Custom returns a highlight with an explicit color.
func Custom(color string) *Highlight {
	return &Highlight{Kind: HighlightCustom, Color: color}
}

// Node is a single labeled tree node.
type Node struct {
	ID        int        `json:"id" yaml:"id"`
	Text      string     `json:"text" yaml:"text"`
	X         float64    `json:"x" yaml:"x"`
	Y         float64    `json:"y" yaml:"y"`
	Children  []*Node    `json:"children" yaml:"children"`
	Highlight *Highlight `json:"highlight" yaml:"highlight"`
}

// New returns a childless node with the given id and text.
func New(id int, text string) *Node {
	return &Node{ID: id, Text: text, Children: []*Node{}}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// AddChild appends c to the children of n.
func (n *Node) AddChild(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		ID:       n.ID,
		Text:     n.Text,
		X:        n.X,
		Y:        n.Y,
		Children: make([]*Node, len(n.Children)),
	}
	if n.Highlight != nil {
		h := *n.Highlight
		c.Highlight = &h
	}
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}
	return c
}

// =============================================================================
// Traversal
// =============================================================================

// Walk visits the subtree rooted at n in pre-order. depth is 0 for n.
// Returning false from fn stops the walk.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// Find returns the node with the given id using depth-first search.
func Find(root *Node, id int) (*Node, bool) {
	var found *Node
	Walk(root, func(n *Node, _ int) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Remove detaches the subtree rooted at id from whichever children list holds
// it. Descendants are not revisited. It reports whether anything was removed.
// The root itself is never removed; callers reject that case.
func Remove(root *Node, id int) bool {
	removed := false
	before := len(root.Children)
	root.Children = slices.DeleteFunc(root.Children, func(c *Node) bool {
		return c.ID == id
	})
	if len(root.Children) != before {
		removed = true
	}
	for _, c := range root.Children {
		if Remove(c, id) {
			removed = true
		}
	}
	return removed
}

// Parents maps every node of the tree to its parent. The root is absent.
func Parents(root *Node) map[*Node]*Node {
	parents := make(map[*Node]*Node)
	Walk(root, func(n *Node, _ int) bool {
		for _, c := range n.Children {
			parents[c] = n
		}
		return true
	})
	return parents
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Height returns the number of levels below n (0 for a leaf).
func Height(n *Node) int {
	h := 0
	Walk(n, func(_ *Node, d int) bool {
		h = max(h, d)
		return true
	})
	return h
}

// IDs returns the set of ids present in the tree.
func IDs(root *Node) map[int]struct{} {
	ids := make(map[int]struct{})
	if root == nil {
		return ids
	}
	Walk(root, func(n *Node, _ int) bool {
		ids[n.ID] = struct{}{}
		return true
	})
	return ids
}

// MaxID returns the largest id in the tree, or -1 for a nil tree.
func MaxID(root *Node) int {
	m := -1
	for id := range IDs(root) {
		m = max(m, id)
	}
	return m
}
