package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
	"github.com/matzehuels/modlaunch/pkg/dag/transform"
	"github.com/matzehuels/modlaunch/pkg/errors"
)

// depsOptions holds flags for the deps command.
type depsOptions struct {
	loadOrder   bool
	stages      bool
	interactive bool
	asJSON      bool
}

// depsOutput is the --json form of the deps command.
type depsOutput struct {
	Start   catalog.Identity   `json:"start"`
	Order   string             `json:"order"`
	Modules []catalog.Identity `json:"modules"`
	Omitted []catalog.Identity `json:"omitted,omitempty"`
}

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	var opts depsOptions

	cmd := &cobra.Command{
		Use:   "deps [name[@version]]",
		Short: "Print the dependency sequence of a module",
		Long: `Print a module followed by everything it depends on, each module before
its dependencies. Use --load-order for the reverse, the order in which the
modules have to be activated.

A bare name selects the highest version. Modules on a dependency cycle are
left out of the sequence and reported.`,
		Example: `  modlaunch deps vm.gc@1.0.0
  modlaunch deps vm.gc --load-order
  modlaunch deps -i`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return c.completeModules(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.scan(cmd.Context())
			if err != nil {
				return err
			}

			var start catalog.Identity
			switch {
			case len(args) == 1:
				req, err := catalog.ParseIdentity(args[0])
				if err != nil {
					return err
				}
				d := snap.driver(loggerFromContext(cmd.Context()))
				id, _, ok := d.Locate(req)
				if !ok {
					return errors.New(errors.ErrCodeModuleNotFound, "no known module matching %s", req).
					WithHint("list known modules with: modlaunch scan")
				}
				start = id
			case opts.interactive:
				id, ok, err := pickModule(snap.cat.Identities())
				if err != nil || !ok {
					return err
				}
				start = id
			default:
				return errors.New(errors.ErrCodeInvalidInput, "name a module or use --interactive")
			}

			return runDeps(snap, start, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.loadOrder, "load-order", false, "print providers first (activation order)")
	cmd.Flags().BoolVar(&opts.stages, "stages", false, "group the modules into activation stages")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the module from a list")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the sequence as JSON")

	return cmd
}

func runDeps(snap *snapshot, start catalog.Identity, opts depsOptions) error {
	seq := dag.Sequence(snap.graph, start)
	omitted := omittedByCycles(snap.graph, start, seq)

	order := "sequence"
	list := seq
	if opts.loadOrder {
		order = "load"
		list = dag.LoadOrder(seq)
	}

	if opts.asJSON {
		return writeJSON(depsOutput{Start: start, Order: order, Modules: list, Omitted: omitted})
	}

	if opts.stages {
		printStages(snap, seq)
	} else {
		fmt.Fprintln(stdout, StyleTitle.Render(start.String()))
		for i, id := range list {
			fmt.Fprintf(stdout, "%s %s\n", StyleDim.Render(fmt.Sprintf("%3d", i+1)), moduleLabel(snap.cat, id))
		}
	}

	if len(omitted) > 0 {
		printNewline()
		printWarning("%s left out (dependency cycle)", plural(len(omitted), "module"))
		for _, id := range omitted {
			printDetail("%s", id)
		}
	}
	return nil
}

func printStages(snap *snapshot, seq []catalog.Identity) {
	stages, blocked := transform.Stages(snap.graph.Subgraph(seq))
	for i, stage := range stages {
		labels := make([]string, len(stage))
		for j, id := range stage {
			labels[j] = moduleLabel(snap.cat, id)
		}
		fmt.Fprintf(stdout, "%s %s\n", StyleHighlight.Render(fmt.Sprintf("stage %d", i)), strings.Join(labels, ", "))
	}
	for _, id := range blocked {
		printWarning("%s is blocked by a cycle", id)
	}
}

// omittedByCycles lists reachable modules missing from seq.
func omittedByCycles(g *dag.Graph, start catalog.Identity, seq []catalog.Identity) []catalog.Identity {
	in := make(map[catalog.Identity]bool, len(seq))
	for _, id := range seq {
		in[id] = true
	}
	var out []catalog.Identity
	for _, id := range dag.Reachable(g, start) {
		if !in[id] {
			out = append(out, id)
		}
	}
	return out
}


// pickModule runs the interactive module list. ok is false when the user quit
// without choosing.
func pickModule(ids []catalog.Identity) (catalog.Identity, bool, error) {
	if len(ids) == 0 {
		return catalog.Identity{}, false, errors.New(errors.ErrCodeModuleNotFound, "no modules to choose from")
	}
	final, err := tea.NewProgram(NewModuleListModel(ids)).Run()
	if err != nil {
		return catalog.Identity{}, false, err
	}
	m := final.(ModuleListModel)
	if m.Selected == nil {
		return catalog.Identity{}, false, nil
	}
	return *m.Selected, true, nil
}
