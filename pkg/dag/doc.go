// Package dag builds the module dependency graph and orders modules for loading.
//
// # Overview
//
// [Build] turns a [catalog.Catalog] into a [Graph]: one node per module
// identity and an edge A->B whenever A imports a capability B exports. The
// graph is read-only after construction and may be shared by any number of
// goroutines.
//
// [Sequence] orders the modules reachable from a start module so that every
// module precedes the modules it depends on, beginning with the start module
// itself. [LoadOrder] reverses that into the order in which modules must be
// activated.
//
//	g := dag.Build(cat, dag.BuildOptions{})
//	seq := dag.Sequence(g, catalog.Identity{Name: "app", Version: "1.0"})
//	for _, id := range dag.LoadOrder(seq) {
//	    // activate id
//	}
//
// # Cycles
//
// Module graphs are not guaranteed to be acyclic. Sequencing never fails on
// a cycle: modules on a cycle are left out of the result. [Graph.Cycles]
// reports cycles for diagnostics.
//
// # Version checks
//
// By default an import is satisfied by whichever module first exported the
// capability name. [BuildOptions.StrictVersions] additionally requires the
// exported version to lie in the import's version range.
package dag
