// Package block defines blocks, their ports and the built-in block kinds.
//
// A [Block] is a placed instance of a [Kind]. The kind declares the block's
// port layout and its evaluation function; the block owns the concrete
// [Port] values, including the editable defaults of unconnected inputs.
//
// # Kinds
//
// Kinds form a closed set dispatched through [Kind.Run]. Each call receives
// one resolved value per input port and returns one [value.Result] per
// output port, or nil for blocks that only draw:
//
//	Circle, Square, Line, PointConnection   draw on the [Canvas]
//	Iterate, Grid, SquareGrid               emit iterations
//	RandomPoint, RandomOffset               consume [RunContext.Rand]
//	PtExtract, PtCombine, HslColor, Clock   pure transforms
//	FlattenPoints                           collects an iteration into a list
//
// [DefaultCatalog] lists them in menu order.
//
// # IDs
//
// Block and port IDs come from an [IDAllocator] owned by the graph that
// holds the blocks. There is no process-wide counter.
package block
