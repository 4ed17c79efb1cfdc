// Package render provides visualization rendering for module graphs.
//
// The [nodelink] subpackage turns a [dag.Graph] into Graphviz DOT and renders
// it to SVG in-process. The [ToPDF] and [ToPNG] functions convert any SVG to
// other formats using the external rsvg-convert tool (from librsvg). A
// missing tool is reported as an UNSUPPORTED error.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/modlaunch/pkg/render/nodelink
// [dag.Graph]: github.com/matzehuels/modlaunch/pkg/dag.Graph
package render
