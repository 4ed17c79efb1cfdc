package dag

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/manifest"
	"github.com/matzehuels/modlaunch/pkg/version"
)

// BuildOptions configures [Build].
type BuildOptions struct {
	// StrictVersions treats an exporter whose capability version falls
	// outside the import's version range as missing. Off by default: an
	// import is resolved by capability name alone.
	StrictVersions bool

	// Logger receives debug output for unresolved requirements.
	// nil means log.Default().
	Logger *log.Logger
}

// Unresolved is an import no module in the catalog satisfies.
type Unresolved struct {
	Module      catalog.Identity    `json:"module"`
	Requirement manifest.Capability `json:"requirement"`
	// Candidate is the exporter rejected by a version check, if any.
	Candidate *catalog.Identity `json:"candidate,omitempty"`
}

// Build derives the dependency graph of cat.
//
// Every module becomes a node. For each module M, in discovery order, and
// each capability C M imports, if some module E exports C and E != M, the
// edge M->E is added. Imports nobody exports are recorded in
// [Graph.Unresolved] and are not errors.
func Build(cat *catalog.Catalog, opts BuildOptions) *Graph {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	g := New()
	for _, id := range cat.Identities() {
		g.AddNode(id)
	}

	for _, r := range cat.Records() {
		for _, req := range r.Imports {
			exp, ok := cat.Exporter(req.Name)
			if !ok {
				logger.Debug("unresolved requirement", "module", r.Identity.String(), "requires", req.Name)
				g.unresolved = append(g.unresolved, Unresolved{Module: r.Identity, Requirement: req})
				continue
			}
			if exp == r.Identity {
				continue
			}
			if opts.StrictVersions && !satisfiedBy(cat, exp, req, logger) {
				logger.Debug("exporter version outside required range",
					"module", r.Identity.String(), "requires", req.String(), "exporter", exp.String())
				candidate := exp
				g.unresolved = append(g.unresolved, Unresolved{Module: r.Identity, Requirement: req, Candidate: &candidate})
				continue
			}
			// Both endpoints are nodes and differ, so AddEdge cannot fail.
			_ = g.AddEdge(r.Identity, exp)
		}
	}
	return g
}

// satisfiedBy reports whether the version exp exports req.Name at lies in
// req's version range. Malformed ranges are treated as unbounded.
func satisfiedBy(cat *catalog.Catalog, exp catalog.Identity, req manifest.Capability, logger *log.Logger) bool {
	rng, err := version.ParseRange(req.Version)
	if err != nil {
		logger.Warn("malformed version range; ignoring it", "requires", req.Name, "range", req.Version, "err", err)
		return true
	}
	rec, ok := cat.Record(exp)
	if !ok {
		return false
	}
	for _, e := range rec.Exports {
		if e.Name == req.Name {
			return rng.Contains(version.Extract(e.Version))
		}
	}
	return false
}
