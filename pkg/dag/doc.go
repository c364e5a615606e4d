// Package dag provides the dependency graph that orders block evaluation.
//
// # Overview
//
// A [Graph] is an arena of nodes addressed by stable integer handles. Each
// node keeps two adjacency lists: the handles it depends on and the handles
// that depend on it. Both lists are always updated together.
//
// The evaluation engine rebuilds its graph from scratch whenever a wire
// changes: [Graph.Reset], one [Graph.Add] per live block, then one
// dependency per connected input. Graphs hold tens of nodes, so a full
// rebuild is cheaper to reason about than incremental edge edits.
//
// # Basic Usage
//
//	g := dag.New[string]()
//	a := g.AddNamed("A")
//	b := g.AddNamed("B")
//	g.SpecifyDependencies(dag.On(a, b)) // A depends on B
//	order := g.CalculateOrder()         // B, A
//
// # Ordering
//
// [Graph.CalculateOrder] is an insertion placement: nodes are visited in
// insertion order and each one is placed before the first already-placed node
// that transitively depends on it. Unrelated nodes keep insertion order, so
// the result is deterministic for a given build sequence.
//
// # Cycles
//
// Ordering never rejects a cycle. [Graph.IsOrderValid] flags an order in
// which a dependency follows its dependent, and [Graph.Validate] runs a DFS
// cycle check. Callers that must keep the graph acyclic check
// [Graph.WouldCycle] before recording an edge.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use.
package dag
