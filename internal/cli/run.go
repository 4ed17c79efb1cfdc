package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/errors"
	"github.com/matzehuels/modlaunch/pkg/launcher"
)

// runOutput is the --json form of the run command.
type runOutput struct {
	Command string             `json:"command"`
	Plan    []catalog.Identity `json:"plan"`
	*launcher.Result
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var (
		modules []string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "run [command]",
		Short: "Resolve and activate the modules of a command (dry run)",
		Long: `Resolve the modules a configured command needs, expand them into their
dependencies, and activate everything in load order.

Activation is recorded rather than performed: the output shows which archives
would be installed and started. Fragments are installed but never started.
Requested modules that are not in the catalog are reported and skipped.`,
		Example: `  modlaunch run gc
  modlaunch run --module vm.gc@1.0.0 --module vm.common`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeCommandNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(modules) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "name a command or pass --module")
			}
			snap, err := c.scan(cmd.Context())
			if err != nil {
				return err
			}

			name := "(modules)"
			reqs, err := catalog.ParseIdentities(modules)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				name = args[0]
				command, err := snap.cfg.Command(name)
				if err != nil {
					return err
				}
				ids, err := command.Identities()
				if err != nil {
					return err
				}
				reqs = append(ids, reqs...)
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			d := snap.driver(logger)
			plan, unresolved := d.Plan(ctx, snap.graph, reqs)

			// Plan entries are exact catalog identities.
			d.LatestVersion = false
			res, err := d.ResolveAndActivate(ctx, plan)
			if res != nil {
				res.Unresolved = append(unresolved, res.Unresolved...)
			}
			if asJSON {
				if jerr := writeJSON(runOutput{Command: name, Plan: plan, Result: res}); jerr != nil {
					return jerr
				}
				return err
			}
			printRun(name, res)
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&modules, "module", "m", nil, "additional module name[@version], repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func printRun(name string, res *launcher.Result) {
	fmt.Fprintln(stdout, StyleTitle.Render(name))
	for _, p := range res.Started {
		printSuccess("started   %s", p)
	}
	started := make(map[string]bool, len(res.Started))
	for _, p := range res.Started {
		started[p] = true
	}
	for _, p := range res.Installed {
		if !started[p] {
			printInfo("installed %s", p)
		}
	}
	for _, p := range res.Skipped {
		printDetail("already active %s", p)
	}
	for _, id := range res.Unresolved {
		printWarning("no known module matching %s", id)
	}
	printNewline()
	printKeyValue("Installed", fmt.Sprint(len(res.Installed)))
	printKeyValue("Started", fmt.Sprint(len(res.Started)))
	printKeyValue("Unresolved", fmt.Sprint(len(res.Unresolved)))
}
