// Package nodelink renders module graphs as node-link diagrams.
//
// Convert a graph to DOT format, then render it to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true, Catalog: cat})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Edges point from a module to the module it depends on. Modules listed in
// [Options.Highlight] are filled, typically the result of a sequence query.
// Edges that lie on a cycle are drawn in red.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
