// Package engine evaluates block graphs.
//
// A [Context] holds the blocks of one graph instance and the wires between
// their ports. Every wire runs from an output port to an input port of the
// same value kind; an input accepts at most one wire while an output may
// feed many. Whenever wires change the context rebuilds its [dag.Graph] from
// scratch and recomputes the evaluation order.
//
// # Evaluation
//
// [Context.Run] performs one pass: each block runs after the blocks it
// depends on. A block whose wired inputs carry iterations runs once per
// element and its per-call results are merged into iterations for the
// blocks downstream:
//
//	Grid ──xi (100)──┐
//	                 ├──> Circle   (runs 100 times)
//	Grid ──yi (100)──┘
//
// Iterations feeding one block must agree in length, otherwise the pass
// fails with an ErrCodeIterationMismatch error. Blocks that flatten their
// inputs receive an iteration as a single list instead.
//
// Each pass starts from nothing; no value survives from one pass to the
// next. Given the same wiring, defaults and [block.RunContext] seed, two
// passes issue the same calls with the same values.
package engine
