// Package pkg holds the libraries behind plotline, a node-graph block
// editor core for generative 2-D drawings played on a timeline.
//
// # Overview
//
// A scene is a set of timeline items. Each item owns a graph of blocks
// whose ports are wired together; when the playhead crosses an item its
// graph is evaluated once per frame and the blocks draw onto a canvas.
//
//  1. [dag] - Generic dependency graph with cycle detection and ordering
//  2. [value] - Port values, iteration results and merging
//  3. [block] - Block kinds, ports, the catalog and the canvas contract
//  4. [engine] - Graph editing and evaluation with iteration fan-out
//  5. [timeline] - Playhead scheduling and the error queue
//  6. [scene] - TOML scene files built into timelines
//  7. [player], [render], [preview], [cache] - Playback, output and serving
//
// # Data Flow
//
//	scene.toml
//	     ↓
//	[scene] package (parse, validate, build)
//	     ↓
//	[timeline] package (active items under the playhead)
//	     ↓
//	[engine] package (evaluate each item's block graph)
//	     ↓
//	[render/canvas] recorder → SVG/PNG/PDF frames
//
// # Quick Start
//
//	sc, _ := scene.LoadFile("dots.toml")
//	tl, _ := sc.Build(block.DefaultCatalog(), nil)
//
//	p := player.New(tl, sc.Width, sc.Height)
//	ops, err := p.Frame(ctx, 2.5)
//	svg := sink.RenderSVG(ops, sink.WithSize(sc.Width, sc.Height))
//
// Errors carry codes from [errors] so callers can tell an iteration
// mismatch from a missing dependency.
package pkg
