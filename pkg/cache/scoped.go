package cache

import "github.com/matzehuels/arbor/pkg/layout"

// ScopedKeyer wraps a Keyer with a prefix so that several consumers can share
// one backend without seeing each other's entries. The HTTP server scopes
// keys per document.
//
//	docKeyer := NewScopedKeyer(NewDefaultKeyer(), "doc:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(treeHash string, cfg layout.Config) string {
	return k.prefix + k.inner.LayoutKey(treeHash, cfg)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
