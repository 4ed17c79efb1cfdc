package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
	"github.com/matzehuels/modlaunch/pkg/errors"
	"github.com/matzehuels/modlaunch/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed puts the version and, when Catalog is set, the archive path
	// and fragment marker into node labels. Otherwise only the name is shown.
	Detailed bool

	// Catalog supplies archive details for detailed labels. Optional.
	Catalog *catalog.Catalog

	// Highlight lists modules drawn with a coloured fill.
	Highlight []catalog.Identity

	// LeftToRight lays the graph out horizontally instead of top to bottom.
	LeftToRight bool
}

const dotHeader = `digraph G {
  rankdir=%s;
  bgcolor="transparent";
  node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
  ranksep=0.5;
  nodesep=0.3;

`

// ToDOT converts a module graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *dag.Graph, opts Options) string {
	highlight := make(map[catalog.Identity]bool, len(opts.Highlight))
	for _, id := range opts.Highlight {
		highlight[id] = true
	}
	onCycle := cycleEdges(g)

	rankdir := "TB"
	if opts.LeftToRight {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, dotHeader, rankdir)

	for _, id := range g.Nodes() {
		label := fmtLabel(id, opts)
		attrs := fmtAttrs(id, label, highlight[id], opts.Catalog)
		fmt.Fprintf(&buf, "  %q [%s];\n", id.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if onCycle[e] {
			fmt.Fprintf(&buf, "  %q -> %q [color=red];\n", e.From.String(), e.To.String())
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id catalog.Identity, opts Options) string {
	if !opts.Detailed {
		return id.Name
	}
	parts := []string{id.Name}
	if id.Version != "" {
		parts = append(parts, id.Version)
	}
	if opts.Catalog != nil {
		if rec, ok := opts.Catalog.Record(id); ok {
			parts = append(parts, rec.Path)
		}
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(id catalog.Identity, label string, highlighted bool, cat *catalog.Catalog) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	fragment := false
	if cat != nil {
		if rec, ok := cat.Record(id); ok {
			fragment = rec.Fragment
		}
	}
	switch {
	case highlighted && fragment:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightblue")
	case highlighted:
		attrs = append(attrs, "fillcolor=lightblue")
	case fragment:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// cycleEdges marks every edge whose endpoints lie on the same cycle.
func cycleEdges(g *dag.Graph) map[dag.Edge]bool {
	out := make(map[dag.Edge]bool)
	for _, cyc := range g.Cycles() {
		members := make(map[catalog.Identity]bool, len(cyc))
		for _, id := range cyc {
			members[id] = true
		}
		for _, id := range cyc {
			for _, c := range g.Children(id) {
				if members[c] {
					out[dag.Edge{From: id, To: c}] = true
				}
			}
		}
	}
	return out
}

// RenderSVG lays out a DOT graph with Graphviz and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "lay out graph")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF by way of SVG. See [render.ToPDF].
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG by way of SVG. See [render.ToPNG].
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
