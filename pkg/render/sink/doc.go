// Package sink turns a computed [layout.Result] into output files.
//
// # Formats
//
//   - SVG: vector output drawn with svgo. Connectors of parents with several
//     children run center to center and are clipped by a mask that hides
//     every node disc, so they meet the circle outlines exactly.
//   - PNG, JPEG: raster output drawn with gg. Connectors are painted first
//     and covered by the node discs.
//   - JSON: the layout plus the resolved colors of every node, for external
//     renderers.
//   - DOT: a Graphviz graph with pinned node positions; [RenderDOTSVG]
//     renders it through Graphviz.
//
// All renderers take [Option] values:
//
//	p, _ := palette.New(cfg.Style)
//	svg := sink.RenderSVG(res, sink.WithPalette(p))
//	png, err := sink.RenderPNG(res, sink.WithPalette(p), sink.WithScale(2))
//
// [Render] dispatches on a [Format], which is what the CLI and the HTTP API
// use.
package sink
