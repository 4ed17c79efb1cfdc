package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
	"github.com/matzehuels/modlaunch/pkg/dag/transform"
	"github.com/matzehuels/modlaunch/pkg/errors"
	"github.com/matzehuels/modlaunch/pkg/render/nodelink"
)

// Output formats of the graph command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// graphOptions holds flags for the graph command.
type graphOptions struct {
	from     string
	format   string
	output   string
	reduce   bool
	detailed bool
	lr       bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the module dependency graph",
		Long: `Render the dependency graph as Graphviz DOT, SVG, PDF or PNG.

With --from only the modules reachable from one module are drawn and its
sequence is highlighted. --reduce drops edges implied by longer paths after
breaking cycles, which keeps large graphs readable. Edges on a cycle are red.`,
		Example: `  modlaunch graph -o modules.svg
  modlaunch graph --from vm.gc --reduce -f dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.scan(cmd.Context())
			if err != nil {
				return err
			}
			format := resolveFormat(opts.format, opts.output)
			var sp *Spinner
			if format != formatDOT {
				sp = newSpinner(cmd.Context(), "Rendering "+strings.ToUpper(format))
				sp.Start()
			}
			data, err := renderGraph(cmd.Context(), snap, opts, format)
			if sp != nil {
				sp.Stop()
			}
			if err != nil {
				return err
			}
			if opts.output == "" {
				_, err := stdout.Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote %s graph", strings.ToUpper(format))
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "only draw modules reachable from name[@version]")
	_ = cmd.RegisterFlagCompletionFunc("from", c.completeModules)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, pdf, png (default from -o, else dot)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.reduce, "reduce", false, "break cycles and apply transitive reduction")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include versions and archive paths in labels")
	cmd.Flags().BoolVar(&opts.lr, "lr", false, "lay out left to right")

	return cmd
}

// resolveFormat picks the explicit format, else the output extension, else DOT.
func resolveFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(output), ".")); ext {
	case formatSVG, formatPDF, formatPNG:
		return ext
	default:
		return formatDOT
	}
}

func renderGraph(ctx context.Context, snap *snapshot, opts graphOptions, format string) ([]byte, error) {
	g := snap.graph
	var highlight []catalog.Identity
	if opts.from != "" {
		req, err := catalog.ParseIdentity(opts.from)
		if err != nil {
			return nil, err
		}
		d := snap.driver(nil)
		start, _, ok := d.Locate(req)
		if !ok {
			return nil, errors.New(errors.ErrCodeModuleNotFound, "no known module matching %s", req).
				WithHint("list known modules with: modlaunch scan")
		}
		highlight = dag.Sequence(g, start)
		g = g.Subgraph(dag.Reachable(g, start))
	}
	if opts.reduce {
		g = g.Clone()
		transform.BreakCycles(g)
		transform.TransitiveReduction(g)
	}

	dot := nodelink.ToDOT(g, nodelink.Options{
		Detailed:    opts.detailed,
		Catalog:     snap.cat,
		Highlight:   highlight,
		LeftToRight: opts.lr,
	})

	switch format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case formatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case formatPNG:
		return nodelink.RenderPNG(ctx, dot, 2.0)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want %s)", format,
			fmt.Sprintf("%s, %s, %s or %s", formatDOT, formatSVG, formatPDF, formatPNG))
	}
}
