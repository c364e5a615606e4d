// Package scene loads timelines from TOML files.
//
// A scene lists timeline items; each item holds the blocks of one graph
// and the wires between them:
//
//	total_secs = 20
//	seed = 42
//
//	[[item]]
//	name = "dots"
//	start = 0
//	length = 10
//	color = "#3366ff"
//
//	  [[item.block]]
//	  name = "grid"
//	  kind = "Grid"
//	  inputs = { rows = 8, cols = 8 }
//
//	  [[item.block]]
//	  name = "dot"
//	  kind = "Circle"
//	  inputs = { radius = 6, color = "red" }
//
//	  [[item.wire]]
//	  from = "grid.xi"
//	  to = "dot.cx"
//
// Times are in seconds. Input values are written in the kind of the port:
// numbers, [x, y] pairs for points, color names or hex strings, option
// names for selections, and arrays for lists.
//
// Loading happens in two steps. [Parse] decodes and validates the file;
// [Scene.Build] instantiates blocks from a catalog, applies input values
// and wires the graphs. Every failure carries errors.ErrCodeInvalidScene.
package scene
