// Package pkg holds the libraries behind modlaunch, a dependency resolver and
// activation driver for installations of modular archives.
//
// # Overview
//
// An installation is a set of roots containing JAR-like archives. Each archive
// carries a manifest naming the module, its version, the capabilities it
// exports and the capabilities it imports. The libraries turn those archives
// into a catalog, a dependency graph, and finally an ordered activation:
//
//	Roots (directories of archives)
//	         ↓
//	[catalog] Scanner → Catalog (identity → archive path)
//	         ↓
//	[dag] Build → Graph (module → modules it depends on)
//	         ↓
//	[dag] Sequence / LoadOrder
//	         ↓
//	[launcher] Driver → Framework (install, then start)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/modlaunch/pkg/catalog"
//	    "github.com/matzehuels/modlaunch/pkg/dag"
//	    "github.com/matzehuels/modlaunch/pkg/launcher"
//	)
//
//	sc := &catalog.Scanner{}
//	cat, _ := sc.Scan(ctx, []catalog.Root{{Path: "/opt/app/modules"}})
//	g := dag.Build(cat, dag.BuildOptions{})
//
//	fw := launcher.NewRecorder(cat)
//	d := &launcher.Driver{Catalog: cat, Framework: fw}
//	plan, _ := d.Plan(ctx, g, []catalog.Identity{{Name: "app"}})
//	res, err := d.ResolveAndActivate(ctx, plan)
//
// # Packages
//
// [manifest] parses archive manifests: main attributes and the
// Export-Package / Import-Package style capability headers.
//
// [version] compares dotted version strings and evaluates version ranges.
//
// [catalog] scans roots into an immutable catalog keyed by module identity,
// reporting duplicates as conflicts.
//
// [dag] builds the dependency graph, computes sequences and load orders, and
// reports cycles and unresolved imports. [dag/transform] breaks cycles,
// applies transitive reduction and groups modules into stages.
//
// [launcher] locates requested modules and drives a Framework through
// installation and start.
//
// [cache] stores parsed manifests in a file, Redis or MongoDB backend.
//
// [render/nodelink] draws the graph as Graphviz DOT, SVG, PDF or PNG.
//
// [errors], [observability] and [buildinfo] are shared by all of the above.
//
// [manifest]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/manifest
// [version]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/version
// [catalog]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/catalog
// [dag]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/dag/transform
// [launcher]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/launcher
// [cache]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/cache
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/modlaunch/pkg/buildinfo
package pkg
