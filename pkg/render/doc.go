// Package render turns evaluated frames and block graphs into files.
//
// Drawing happens in two steps. Blocks draw onto a [canvas.Recorder] during
// a timeline tick; the recorded ops are then written out by [sink]:
//
//	rec := canvas.NewRecorder()
//	tl.Tick(w, h, rec, queue)
//	svg := sink.RenderSVG(rec.Ops(), sink.WithSize(w, h))
//	png, err := render.ToPNG(ctx, svg, 2)
//
// The [nodelink] subpackage draws the block graph of one timeline item
// with Graphviz.
//
// PNG and PDF output shell out to rsvg-convert from librsvg.
//
// [canvas.Recorder]: github.com/matzehuels/plotline/pkg/render/canvas
// [sink]: github.com/matzehuels/plotline/pkg/render/sink
// [nodelink]: github.com/matzehuels/plotline/pkg/render/nodelink
package render
