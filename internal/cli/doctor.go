package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
	"github.com/matzehuels/modlaunch/pkg/dag/transform"
	"github.com/matzehuels/modlaunch/pkg/errors"
)

// report is what doctor found in one snapshot.
type report struct {
	Conflicts  []catalog.Conflict   `json:"conflicts"`
	Unresolved []dag.Unresolved     `json:"unresolved"`
	Cycles     [][]catalog.Identity `json:"cycles"`
	// CycleBreaks is one set of edges whose removal makes the graph acyclic.
	CycleBreaks []dag.Edge `json:"cycle_breaks,omitempty"`
	// Commands lists configured command modules missing from the catalog.
	Commands map[string][]catalog.Identity `json:"commands,omitempty"`
}

func (r *report) problems() int {
	n := len(r.Conflicts) + len(r.Unresolved) + len(r.Cycles)
	for _, missing := range r.Commands {
		n += len(missing)
	}
	return n
}

// doctorCommand creates the doctor command.
func (c *CLI) doctorCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report conflicts, unresolved imports and dependency cycles",
		Long: `Check the installation for problems:

  duplicate module identities across roots,
  imports no module exports (or, with --strict-versions, no module exports in range),
  dependency cycles, with edges whose removal would break them,
  configured command modules that are not installed.

Exits non-zero when anything is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.scan(cmd.Context())
			if err != nil {
				return err
			}
			rep := diagnose(snap)
			if asJSON {
				if err := writeJSON(rep); err != nil {
					return err
				}
			} else {
				printReport(rep)
			}
			if n := rep.problems(); n > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "found %s", plural(n, "problem"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func diagnose(snap *snapshot) *report {
	rep := &report{
		Conflicts:  snap.cat.Conflicts(),
		Unresolved: snap.graph.Unresolved(),
		Cycles:     snap.graph.Cycles(),
	}
	if len(rep.Cycles) > 0 {
		rep.CycleBreaks = transform.BreakCycles(snap.graph.Clone())
	}

	d := snap.driver(nil)
	for _, cmd := range snap.cfg.Commands {
		ids, err := cmd.Identities()
		if err != nil {
			continue
		}
		for _, id := range ids {
			if _, _, ok := d.Locate(id); !ok {
				if rep.Commands == nil {
					rep.Commands = make(map[string][]catalog.Identity)
				}
				rep.Commands[cmd.Name] = append(rep.Commands[cmd.Name], id)
			}
		}
	}
	return rep
}

func printReport(rep *report) {
	if rep.problems() == 0 {
		printSuccess("No problems found")
		return
	}

	if len(rep.Conflicts) > 0 {
		printError("%s", plural(len(rep.Conflicts), "duplicate module"))
		for _, cf := range rep.Conflicts {
			printDetail("%s: kept %s, ignored %s", cf.Identity, cf.Kept, cf.Ignored)
		}
	}

	if len(rep.Unresolved) > 0 {
		printError("%s", plural(len(rep.Unresolved), "unresolved import"))
		for _, u := range rep.Unresolved {
			if u.Candidate != nil {
				printDetail("%s imports %s, %s is out of range", u.Module, u.Requirement, u.Candidate)
				continue
			}
			printDetail("%s imports %s, nothing exports it", u.Module, u.Requirement)
		}
	}

	if len(rep.Cycles) > 0 {
		printError("%s", plural(len(rep.Cycles), "dependency cycle"))
		for _, cyc := range rep.Cycles {
			printDetail("%s", formatCycle(cyc))
		}
		for _, e := range rep.CycleBreaks {
			printInfo("removing %s %s %s would break a cycle", e.From, iconArrow, e.To)
		}
	}

	for name, missing := range rep.Commands {
		printError("command %s needs %s", name, plural(len(missing), "missing module"))
		for _, id := range missing {
			printDetail("%s", id)
		}
	}
}

func formatCycle(cyc []catalog.Identity) string {
	s := ""
	for _, id := range cyc {
		s += fmt.Sprintf("%s %s ", id, iconArrow)
	}
	if len(cyc) > 0 {
		s += cyc[0].String()
	}
	return s
}
