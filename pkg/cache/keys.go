package cache

import "github.com/matzehuels/arbor/pkg/layout"

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey addresses the layout of the tree with hash treeHash under cfg.
	LayoutKey(treeHash string, cfg layout.Config) string

	// ArtifactKey addresses a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds everything besides the layout that changes an
// artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	StyleHash string  `json:"style_hash"`
	Scale     float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces "layout:<hash>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(treeHash string, cfg layout.Config) string {
	return hashKey("layout", treeHash, cfg)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
