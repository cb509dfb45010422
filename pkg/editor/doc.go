// Package editor owns a live tree and the mutations a user can apply to it.
//
// A [Document] wraps one tree together with its id counter and the result of
// the most recent layout. Every mutation checks its preconditions first and
// leaves the tree untouched when it fails, so callers never observe a
// half-applied change:
//
//	doc := editor.New()
//	child, _ := doc.AddChild(doc.RootID())
//	_ = doc.SetText(child, "left")
//	res, _ := doc.Layout(layout.DefaultConfig())
//
// Documents are safe for concurrent use. Layout runs under the write lock
// because it stores positions on the tree's nodes.
//
// The navigation helpers ([Document.MiddleChild], [Document.Prev],
// [Document.Next], [Document.Parent]) move a cursor around the laid-out tree
// the way the keyboard shortcuts of the interactive editor do.
package editor
