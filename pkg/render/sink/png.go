package sink

import (
	"context"

	"github.com/matzehuels/plotline/pkg/render"
	"github.com/matzehuels/plotline/pkg/render/canvas"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the SVG step.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the pixel scale (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG renders ops as PNG via SVG.
func RenderPNG(ctx context.Context, ops []canvas.Op, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPNG(ctx, RenderSVG(ops, r.svgOpts...), r.scale)
}

// RenderPDF renders ops as a single-page PDF via SVG.
func RenderPDF(ctx context.Context, ops []canvas.Op, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(ops, opts...))
}
