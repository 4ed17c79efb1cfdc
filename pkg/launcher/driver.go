// Package launcher locates module archives for requested identities and
// activates them in a module framework.
//
// A [Driver] maps each requested [catalog.Identity] to an archive path using
// one of two policies:
//
//   - exact: the (name, version) pair must be in the catalog;
//   - latest: the highest version with that name is chosen, whatever the
//     requested version. Ties go to the first one discovered.
//
// A bare name (empty version) always selects the latest version.
//
// Requests that match nothing are logged and listed in [Result.Unresolved];
// they are not errors. The resolved archives are installed in request order,
// then every non-fragment is started. Archives the framework already has
// active are skipped. The first install or start failure aborts the batch.
//
// The driver does not reorder requests. Use [Driver.Plan] to expand
// requests into their dependencies in load order first.
package launcher

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
	"github.com/matzehuels/modlaunch/pkg/errors"
	"github.com/matzehuels/modlaunch/pkg/observability"
	"github.com/matzehuels/modlaunch/pkg/version"
)

// Driver resolves identities against a catalog and activates them.
type Driver struct {
	Catalog   *catalog.Catalog
	Framework Framework
	Logger    *log.Logger // nil means log.Default()

	// LatestVersion selects the highest available version of each requested
	// name instead of requiring an exact version match.
	LatestVersion bool
}

// Result describes what one activation batch did.
type Result struct {
	Installed  []string           `json:"installed"`  // newly installed, including fragments
	Started    []string           `json:"started"`    // started by this batch
	Skipped    []string           `json:"skipped"`    // already active
	Unresolved []catalog.Identity `json:"unresolved"` // requests without a matching module
}

func (d *Driver) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}

// Locate returns the catalog identity and archive path that satisfy req.
func (d *Driver) Locate(req catalog.Identity) (catalog.Identity, string, bool) {
	if d.LatestVersion || req.Version == "" {
		return latest(d.Catalog, req.Name)
	}
	path, ok := d.Catalog.Path(req)
	return req, path, ok
}

func latest(cat *catalog.Catalog, name string) (catalog.Identity, string, bool) {
	var best catalog.Identity
	var bestVer version.Version
	found := false
	for _, id := range cat.ByName(name) {
		v := version.Extract(id.Version)
		if !found || version.Compare(v, bestVer) > 0 {
			best, bestVer, found = id, v, true
		}
	}
	if !found {
		return catalog.Identity{}, "", false
	}
	path, _ := cat.Path(best)
	return best, path, true
}

// ResolveAndActivate locates every request and activates the resulting
// archives in request order.
//
// It returns a non-nil Result even on error; the Result then describes the
// work done before the failure. Activation errors carry
// [errors.ErrCodeActivation].
func (d *Driver) ResolveAndActivate(ctx context.Context, reqs []catalog.Identity) (*Result, error) {
	logger := d.logger()
	hooks := observability.Resolve()
	res := &Result{}

	var paths []string
	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		_, path, ok := d.Locate(req)
		if !ok {
			logger.Warn("no known module matching " + req.String())
			hooks.OnUnresolved(ctx, req.String())
			res.Unresolved = append(res.Unresolved, req)
			continue
		}
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	var toStart []Module
	for _, path := range paths {
		if m, ok := d.Framework.Lookup(path); ok {
			if m.State() == StateActive {
				logger.Debug("module already active", "path", path)
				res.Skipped = append(res.Skipped, path)
				continue
			}
			toStart = append(toStart, m)
			continue
		}
		m, err := d.Framework.Install(ctx, path)
		hooks.OnActivate(ctx, path, err)
		if err != nil {
			return res, errors.Wrap(errors.ErrCodeActivation, err, "install %s", path)
		}
		logger.Debug("installed module", "path", path, "fragment", m.IsFragment())
		res.Installed = append(res.Installed, path)
		toStart = append(toStart, m)
	}

	for _, m := range toStart {
		if m.IsFragment() {
			continue
		}
		start := time.Now()
		err := d.Framework.Start(ctx, m)
		hooks.OnActivate(ctx, m.Path(), err)
		if err != nil {
			return res, errors.Wrap(errors.ErrCodeActivation, err, "start %s", m.Path())
		}
		logger.Debug("started module", "path", m.Path(), "took", time.Since(start))
		res.Started = append(res.Started, m.Path())
	}
	return res, nil
}

// Plan expands each request into the modules it needs and returns them in
// load order, providers first, without duplicates. Requests that cannot be
// located are returned as unresolved.
func (d *Driver) Plan(ctx context.Context, g *dag.Graph, reqs []catalog.Identity) (order, unresolved []catalog.Identity) {
	hooks := observability.Resolve()
	seen := make(map[catalog.Identity]bool)
	for _, req := range reqs {
		id, _, ok := d.Locate(req)
		if !ok {
			unresolved = append(unresolved, req)
			continue
		}
		start := time.Now()
		seq := dag.Sequence(g, id)
		hooks.OnSequence(ctx, id.String(), len(seq), time.Since(start))
		for _, m := range dag.LoadOrder(seq) {
			if !seen[m] {
				seen[m] = true
				order = append(order, m)
			}
		}
	}
	return order, unresolved
}
