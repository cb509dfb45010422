// Package render groups the output side of arbor: turning a computed layout
// into files.
//
//   - [palette]: resolves node highlights to fill, outline and label colors.
//   - [sink]: SVG, PNG, JPEG, JSON and Graphviz DOT renderers.
//
// Rendering never changes positions. Everything a renderer draws comes from
// [layout.Result] and the style configuration.
//
//	res, _ := layout.Compute(root, layout.DefaultConfig())
//	p, _ := palette.New(config.Default().Style)
//	svg := sink.RenderSVG(res, sink.WithPalette(p))
//
// [palette]: github.com/matzehuels/arbor/pkg/render/palette
// [sink]: github.com/matzehuels/arbor/pkg/render/sink
// [layout.Result]: github.com/matzehuels/arbor/pkg/layout#Result
package render
