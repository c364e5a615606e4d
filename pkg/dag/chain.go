package dag

// DependencyChain yields (a, b) pairs meaning "a depends on b".
// [Dep] covers a single pair and [Deps] a list; a fixed-size array of pairs
// is passed as Deps(arr[:]).
type DependencyChain interface {
	ListDeps(fn func(a, b int))
}

// Dep is a single "A depends on B" pair.
type Dep struct {
	A, B int
}

// On returns the pair "a depends on b". It reads naturally at call sites:
//
//	g.SpecifyDependencies(dag.On(app, lib))
func On(a, b int) Dep { return Dep{A: a, B: b} }

// ListDeps implements DependencyChain.
func (d Dep) ListDeps(fn func(a, b int)) { fn(d.A, d.B) }

// Deps is a list of pairs recorded in order.
type Deps []Dep

// ListDeps implements DependencyChain.
func (ds Deps) ListDeps(fn func(a, b int)) {
	for _, d := range ds {
		fn(d.A, d.B)
	}
}

// IndexOf returns the handle of the first node whose payload equals v.
func IndexOf[T comparable](g *Graph[T], v T) (int, bool) {
	for i, n := range g.nodes {
		if n.Value == v {
			return i, true
		}
	}
	return -1, false
}

// AddDependency records that the node holding a depends on the node holding b.
// Payloads are resolved with [IndexOf]; if either is missing nothing happens.
func AddDependency[T comparable](g *Graph[T], a, b T) {
	ai, ok := IndexOf(g, a)
	if !ok {
		return
	}
	bi, ok := IndexOf(g, b)
	if !ok {
		return
	}
	g.link(ai, bi)
}
