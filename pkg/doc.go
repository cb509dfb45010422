// Package pkg provides the libraries behind arbor, a layout engine and editor
// for tree diagrams drawn as circles joined by connectors.
//
// # Overview
//
// A tree is laid out row by row: every node at depth d sits on the same
// horizontal line, parents are centered above their children, and subtrees
// are pushed apart until no two nodes on a row are closer than the configured
// horizontal spacing.
//
//	tree.json / tree.yaml
//	         ↓
//	    [tree] package (model, ids, codecs)
//	         ↓
//	    [layout] package (placement, collision resolution, bounds)
//	         ↓
//	    [render] packages (SVG, PNG, JPEG, JSON, DOT)
//
// # Quick Start
//
//	root, _ := tree.Decode(data, tree.FormatJSON, nil)
//	res, _ := layout.Compute(root, layout.DefaultConfig())
//	fmt.Println(res.Width, res.Height)
//
// # Packages
//
// [geom] - Points, rectangles and the distance helpers the layout uses.
//
// [tree] - The tree model: nodes, highlights, id generation, traversal and
// JSON/YAML codecs.
//
// [layout] - The layout engine. [layout.Compute] runs initial placement, depth
// grouping, collision resolution and centering, and reports rows that could
// not be fully separated as warnings.
//
// [editor] - A mutable document with the editing operations (add, delete,
// relabel, highlight) and cursor navigation over the last layout.
//
// [render] - Output: color palettes and the format sinks.
//
// [pipeline] - Parse, layout and render with caching. Shared by the CLI and
// the HTTP API.
//
// [cache] - Content-addressed cache for layouts and renders, on disk or in
// Redis.
//
// [store] - Document storage: files, SQLite, Redis or MongoDB.
//
// [server] - The HTTP API for editing stored documents.
//
// [config] - TOML configuration with validation.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for pipeline, cache and store events.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/geom
// [tree]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/tree
// [layout]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/layout
// [layout.Compute]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/layout#Compute
// [editor]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/editor
// [render]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/observability
package pkg
