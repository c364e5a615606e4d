package value

import "slices"

// Result is what a block produces on one output port for one call: either a
// single value or an iteration of values to fan out downstream.
type Result struct {
	items     []Value
	iteration bool
}

// Single wraps v as a single-value result.
func Single(v Value) Result { return Result{items: []Value{v}} }

// Iteration wraps vs as an iteration. The slice is copied.
func Iteration(vs []Value) Result {
	return Result{items: slices.Clone(vs), iteration: true}
}

// IsIteration reports whether r is an iteration.
func (r Result) IsIteration() bool { return r.iteration }

// Len returns the number of elements of an iteration, or 1 for a single value.
func (r Result) Len() int {
	if !r.iteration {
		return 1
	}
	return len(r.items)
}

// At returns element i of an iteration. A single value is returned for any i.
func (r Result) At(i int) Value {
	if !r.iteration {
		return r.Value()
	}
	return r.items[i]
}

// Value returns the wrapped value of a single result, or the zero Value.
func (r Result) Value() Value {
	if r.iteration || len(r.items) == 0 {
		return Value{}
	}
	return r.items[0]
}

// Values returns a copy of every element, in order.
func (r Result) Values() []Value { return slices.Clone(r.items) }

// Merge combines two results written to the same output port during one pass.
// Any combination yields an iteration whose elements are prev's followed by
// next's, so call order is preserved. Neither argument is aliased.
func Merge(prev, next Result) Result {
	items := make([]Value, 0, len(prev.items)+len(next.items))
	items = append(items, prev.items...)
	items = append(items, next.items...)
	return Result{items: items, iteration: true}
}

// Equal reports whether two results have the same shape and elements.
func (r Result) Equal(o Result) bool {
	return r.iteration == o.iteration && slices.EqualFunc(r.items, o.items, Equal)
}

func (r Result) String() string {
	if !r.iteration {
		return "Single(" + r.Value().String() + ")"
	}
	s := "Iteration["
	for i, v := range r.items {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s + "]"
}
