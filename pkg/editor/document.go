package editor

import (
	"sync"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/tree"
)

// Document is a mutable tree with its id counter.
type Document struct {
	mu   sync.RWMutex
	root *tree.Node
	ids  *tree.IDGenerator

	cfg layout.Config

	// last is the most recent layout; nil when the tree changed since.
	last *layout.Result
}

// New returns a document holding the default single-node tree.
func New() *Document {
	d := &Document{cfg: layout.DefaultConfig()}
	d.reset()
	return d
}

// FromTree wraps an existing tree. Ids continue after the largest id in root.
func FromTree(root *tree.Node) *Document {
	if root == nil {
		return New()
	}
	return &Document{
		root: root,
		ids:  tree.NewIDGenerator(tree.MaxID(root) + 1),
		cfg:  layout.DefaultConfig(),
	}
}

// Decode builds a document from serialized tree data. All ids are regenerated.
func Decode(data []byte, format tree.Format) (*Document, error) {
	d := New()
	if err := d.Import(data, format); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) reset() {
	d.ids = tree.NewIDGenerator(0)
	d.root = tree.New(d.ids.Next(nil), tree.DefaultText)
	d.last = nil
}

// =============================================================================
// Mutations
// =============================================================================

// AddChild appends a new child to parentID and returns its id. The child
// inherits the parent's label.
func (d *Document) AddChild(parentID int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	parent, ok := tree.Find(d.root, parentID)
	if !ok {
		return 0, errors.NotFound(parentID)
	}
	child := parent.AddChild(tree.New(d.ids.Next(d.root), parent.Text))
	d.last = nil
	return child.ID, nil
}

// DeleteSubtree removes id and all its descendants. The root is protected.
func (d *Document) DeleteSubtree(id int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id == d.root.ID {
		return false, errors.ProtectedNode(id)
	}
	if _, ok := tree.Find(d.root, id); !ok {
		return false, errors.NotFound(id)
	}
	removed := tree.Remove(d.root, id)
	if removed {
		d.last = nil
	}
	return removed, nil
}

// SetText replaces the label of id.
func (d *Document) SetText(id int, text string) error {
	if err := errors.ValidateText(text); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := tree.Find(d.root, id)
	if !ok {
		return errors.NotFound(id)
	}
	n.Text = text
	d.last = nil
	return nil
}

// SetHighlight replaces the highlight of id. A nil highlight clears it.
func (d *Document) SetHighlight(id int, h *tree.Highlight) error {
	if err := validateHighlight(h); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := tree.Find(d.root, id)
	if !ok {
		return errors.NotFound(id)
	}
	if h != nil {
		cp := *h
		h = &cp
	}
	n.Highlight = h
	d.last = nil
	return nil
}

func validateHighlight(h *tree.Highlight) error {
	if h == nil {
		return nil
	}
	switch h.Kind {
	case tree.HighlightGlobal:
		if h.Index < 0 {
			return errors.Validation("highlight palette index must not be negative, got %d", h.Index)
		}
	case tree.HighlightCustom:
		if h.Color == "" {
			return errors.Validation("custom highlight needs a color")
		}
	default:
		return errors.Validation("unknown highlight type %q", h.Kind)
	}
	return nil
}

// Import replaces the whole tree with decoded data. Every node gets a fresh
// id. On error the current tree is kept.
func (d *Document) Import(data []byte, format tree.Format) error {
	ids := tree.NewIDGenerator(0)
	root, err := tree.Decode(data, format, ids)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = root
	d.ids = ids
	d.last = nil
	return nil
}

// Replace installs root as the document's tree. Ids are kept; the caller
// guarantees they are unique.
func (d *Document) Replace(root *tree.Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "replace with nil tree")
	}
	if len(tree.IDs(root)) != tree.Count(root) {
		return errors.Validation("tree contains duplicate node ids")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = root
	d.ids = tree.NewIDGenerator(tree.MaxID(root) + 1)
	d.last = nil
	return nil
}

// Reset restores the default single-node tree.
func (d *Document) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// =============================================================================
// Queries
// =============================================================================

// RootID returns the id of the root node.
func (d *Document) RootID() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root.ID
}

// Export returns a deep copy of the tree with its last computed positions.
// Positions are stale until [Document.Layout] runs after a mutation.
func (d *Document) Export() *tree.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root.Clone()
}

// Encode serializes the tree. See [Document.Export].
func (d *Document) Encode(format tree.Format) ([]byte, error) {
	return tree.Encode(d.Export(), format)
}

// Node returns a copy of the node with the given id, without its children.
func (d *Document) Node(id int) (tree.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n, ok := tree.Find(d.root, id)
	if !ok {
		return tree.Node{}, errors.NotFound(id)
	}
	cp := *n
	cp.Children = nil
	if n.Highlight != nil {
		h := *n.Highlight
		cp.Highlight = &h
	}
	return cp, nil
}

// Len returns the number of nodes.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return tree.Count(d.root)
}

// =============================================================================
// Layout
// =============================================================================

// Layout recomputes all positions with cfg. The result is kept for
// navigation until the next mutation.
func (d *Document) Layout(cfg layout.Config) (layout.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := layout.Compute(d.root, cfg)
	if err != nil {
		return layout.Result{}, err
	}
	d.cfg = cfg
	d.last = &res
	return res, nil
}

// current returns a fresh layout, recomputing with the last used config when
// the tree changed. Callers hold the write lock.
func (d *Document) current() (*layout.Result, error) {
	if d.last != nil {
		return d.last, nil
	}
	res, err := layout.Compute(d.root, d.cfg)
	if err != nil {
		return nil, err
	}
	d.last = &res
	return d.last, nil
}
