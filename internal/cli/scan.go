package cli

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modlaunch/pkg/catalog"
)

// scanOutput is the --json form of the scan command.
type scanOutput struct {
	Fingerprint string             `json:"fingerprint"`
	Modules     []*catalog.Record  `json:"modules"`
	Conflicts   []catalog.Conflict `json:"conflicts"`
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the modules found under the configured roots",
		Long: `Scan every configured root for module archives and list the modules found.

Archives without a symbolic name or version are skipped with a warning. When
two archives carry the same identity, the first one found is kept and the
conflict is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.scan(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(scanOutput{
					Fingerprint: snap.cat.Fingerprint(),
					Modules:     snap.cat.Records(),
					Conflicts:   snap.cat.Conflicts(),
				})
			}
			printCatalog(snap)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

func printCatalog(snap *snapshot) {
	if snap.cat.Len() == 0 {
		printWarning("No modules found")
		for _, r := range snap.cfg.Roots {
			printDetail("Root: %s", r.Path)
		}
		return
	}

	rows := make([][]string, 0, snap.cat.Len())
	for _, rec := range snap.cat.Records() {
		kind := "bundle"
		if rec.Fragment {
			kind = styleFragment.Render("fragment")
		}
		rows = append(rows, []string{
			rec.Name,
			rec.Version,
			kind,
			strconv.Itoa(len(rec.Exports)),
			strconv.Itoa(snap.graph.OutDegree(rec.Identity)),
			rec.Path,
		})
	}
	printTable([]string{"Module", "Version", "Kind", "Exports", "Deps", "Path"}, rows)
	printStats(snap.cat.Len(), snap.graph.EdgeCount(), len(snap.cat.Conflicts()))

	if conflicts := snap.cat.Conflicts(); len(conflicts) > 0 {
		printNewline()
		for _, cf := range conflicts {
			printWarning("Duplicate %s", cf.Identity)
			printDetail("kept:    %s", cf.Kept)
			printDetail("ignored: %s", cf.Ignored)
		}
		printNextStep("Check the installation", "modlaunch doctor")
	}
}

// writeJSON prints v as indented JSON.
func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
