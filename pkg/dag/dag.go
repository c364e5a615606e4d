package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when a dependency
	// references a handle outside the graph. This indicates a stale handle
	// that survived a [Graph.Reset].
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is detected.
	// Cycles are detected using depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Node is a vertex in a dependency graph. Its position in the owning [Graph]
// is its handle; DependsOn and DependentOf hold handles of other nodes.
//
// The two lists mirror each other: if a depends on b then b is listed in
// a.DependsOn and a is listed in b.DependentOf. Use [Graph.SpecifyDependencies]
// or [Graph.AddDependency] to mutate them so both sides stay in sync.
type Node[T any] struct {
	Name        string // Optional display name
	DependsOn   []int  // Handles of nodes this node depends on
	DependentOf []int  // Handles of nodes that depend on this node
	Value       T      // Payload
}

// Graph is an insertion-ordered arena of nodes addressed by positional handle.
// Handles are valid until the next [Graph.Reset].
//
// The zero value is an empty graph ready for use.
// Graph is not safe for concurrent use without external synchronization.
type Graph[T any] struct {
	nodes []*Node[T]
}

// New creates an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{}
}

// Reset drops every node. All previously issued handles become invalid.
func (g *Graph[T]) Reset() {
	g.nodes = nil
}

// Add appends a node and returns its handle. The dependency lists of n are
// discarded; edges must be recorded through [Graph.SpecifyDependencies].
func (g *Graph[T]) Add(n Node[T]) int {
	n.DependsOn = nil
	n.DependentOf = nil
	g.nodes = append(g.nodes, &n)
	return len(g.nodes) - 1
}

// AddValue appends a node carrying v and returns its handle.
func (g *Graph[T]) AddValue(v T) int {
	return g.Add(Node[T]{Value: v})
}

// AddNamed appends a node with a display name and a zero payload.
func (g *Graph[T]) AddNamed(name string) int {
	return g.Add(Node[T]{Name: name})
}

// Len returns the number of nodes in the graph.
func (g *Graph[T]) Len() int { return len(g.nodes) }

// Node returns the node at handle i, or nil if i is out of range.
// The returned pointer refers to the node stored in the graph.
func (g *Graph[T]) Node(i int) *Node[T] {
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// Nodes returns the nodes in insertion order. The slice is a copy but the
// node pointers are shared with the graph.
func (g *Graph[T]) Nodes() []*Node[T] { return slices.Clone(g.nodes) }

// EdgeCount returns the number of recorded dependencies.
func (g *Graph[T]) EdgeCount() int {
	n := 0
	for _, node := range g.nodes {
		n += len(node.DependsOn)
	}
	return n
}

// SpecifyDependencies records every pair yielded by chain. For a pair (a, b),
// a depends on b.
//
// Out-of-range handles panic, the same as indexing a slice.
func (g *Graph[T]) SpecifyDependencies(chain DependencyChain) {
	chain.ListDeps(g.link)
}

func (g *Graph[T]) link(a, b int) {
	g.nodes[a].DependsOn = append(g.nodes[a].DependsOn, b)
	g.nodes[b].DependentOf = append(g.nodes[b].DependentOf, a)
}

// DoesTransientDependencyExist reports whether target is reachable by
// following depends-on edges from any handle in dependsOn, including the
// handles themselves.
//
// Each node is expanded at most once so the search terminates on cyclic
// graphs.
func (g *Graph[T]) DoesTransientDependencyExist(dependsOn []int, target int) bool {
	seen := make(map[int]bool)
	var walk func(list []int) bool
	walk = func(list []int) bool {
		for _, i := range list {
			if i == target {
				return true
			}
			if seen[i] {
				continue
			}
			seen[i] = true
			if walk(g.nodes[i].DependsOn) {
				return true
			}
		}
		return false
	}
	return walk(dependsOn)
}

// findInsertIndex returns the position in placed before which node i must go:
// the first resident that transitively depends on i, or len(placed).
func (g *Graph[T]) findInsertIndex(placed []int, i int) int {
	for j, existing := range placed {
		if g.DoesTransientDependencyExist(g.nodes[existing].DependsOn, i) {
			return j
		}
	}
	return len(placed)
}

// CalculateOrderIndices returns every handle ordered so that each node's
// dependencies come before it.
//
// Nodes are placed in insertion order. A node is inserted immediately before
// the first already-placed node that transitively depends on it, otherwise it
// is appended. Nodes with no relation to each other therefore keep their
// insertion order.
//
// This runs in O(N² · D) time where D is the average dependency depth, which
// is fine for the tens of blocks a drawing graph holds. On cyclic graphs the
// result is some permutation that [Graph.IsIndexOrderValid] rejects.
func (g *Graph[T]) CalculateOrderIndices() []int {
	order := make([]int, 0, len(g.nodes))
	for i := range g.nodes {
		at := g.findInsertIndex(order, i)
		order = slices.Insert(order, at, i)
	}
	return order
}

// CalculateOrder is [Graph.CalculateOrderIndices] returning node pointers.
func (g *Graph[T]) CalculateOrder() []*Node[T] {
	indices := g.CalculateOrderIndices()
	order := make([]*Node[T], len(indices))
	for k, i := range indices {
		order[k] = g.nodes[i]
	}
	return order
}

// IsOrderValid reports whether every dependency of every node in order
// appears before that node. Nodes are compared by identity, so two nodes
// with equal payloads are still distinct.
//
// This is the only cycle check performed on an ordering: a cyclic graph
// yields an order that fails here.
func (g *Graph[T]) IsOrderValid(order []*Node[T]) bool {
	prior := make(map[*Node[T]]bool, len(order))
	for _, n := range order {
		for _, dep := range n.DependsOn {
			if !prior[g.nodes[dep]] {
				return false
			}
		}
		prior[n] = true
	}
	return true
}

// IsIndexOrderValid is [Graph.IsOrderValid] for an order of handles.
func (g *Graph[T]) IsIndexOrderValid(order []int) bool {
	prior := make(map[int]bool, len(order))
	for _, i := range order {
		for _, dep := range g.nodes[i].DependsOn {
			if !prior[dep] {
				return false
			}
		}
		prior[i] = true
	}
	return true
}

// Sources returns the handles of nodes nothing depends on, in insertion
// order. In an evaluation graph these are the terminal consumers.
func (g *Graph[T]) Sources() []int {
	var out []int
	for i, n := range g.nodes {
		if len(n.DependentOf) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Sinks returns the handles of nodes with no dependencies, in insertion order.
func (g *Graph[T]) Sinks() []int {
	var out []int
	for i, n := range g.nodes {
		if len(n.DependsOn) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks graph integrity and returns nil if valid.
// It returns ErrInvalidEdgeEndpoint if a dependency references a missing
// handle, or ErrGraphHasCycle if a cycle exists.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (g *Graph[T]) Validate() error {
	for _, n := range g.nodes {
		for _, d := range n.DependsOn {
			if d < 0 || d >= len(g.nodes) {
				return ErrInvalidEdgeEndpoint
			}
		}
	}
	return g.detectCycles()
}

func (g *Graph[T]) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(g.nodes))
	var hasCycle bool

	var dfs func(i int)
	dfs = func(i int) {
		color[i] = gray
		for _, d := range g.nodes[i].DependsOn {
			switch color[d] {
			case white:
				dfs(d)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[i] = black
	}

	for i := range g.nodes {
		if color[i] == white {
			dfs(i)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// WouldCycle reports whether recording "a depends on b" would close a cycle,
// that is whether b already (transitively) depends on a.
func (g *Graph[T]) WouldCycle(a, b int) bool {
	if a == b {
		return true
	}
	return g.DoesTransientDependencyExist([]int{b}, a)
}
