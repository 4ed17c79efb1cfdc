// Package transform rewrites dependency graphs for display and diagnostics.
//
// Transformations operate on a copy; callers that share a graph (the HTTP
// server, concurrent sequencing) should pass [dag.Graph.Clone].
//
//   - [BreakCycles] removes back edges so the graph becomes acyclic and
//     reports which edges it removed.
//   - [TransitiveReduction] removes edges implied by longer paths, leaving
//     only direct dependencies. It assumes an acyclic graph.
//   - [Stages] groups modules into activation waves: every module depends
//     only on modules of earlier waves.
//
// The `graph` command applies BreakCycles then TransitiveReduction when
// asked for a reduced picture.
package transform
