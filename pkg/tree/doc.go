// Package tree defines the node entity that arbor lays out and renders.
//
// A tree is a strict rooted tree of [*Node] values: every non-root node is
// owned by exactly one parent, children are ordered, and sibling order is
// meaningful (it drives left-to-right placement). Node IDs are unique across
// the whole tree and are handed out by an [IDGenerator].
//
// # Positions
//
// X and Y are written by every layout pass (see pkg/layout) and are never
// treated as authoritative input. They are serialized so exports reflect the
// last computed layout.
//
// # Serialization
//
// [DecodeJSON] and [DecodeYAML] validate the shape of imported data and
// regenerate every ID so imported trees cannot collide with live ones:
//
//	root, err := tree.DecodeJSON(data, tree.NewIDGenerator(0))
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // malformed: nothing was installed
//	}
//
// [EncodeJSON] and [EncodeYAML] produce plain structural dumps.
package tree
