package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/plotline/pkg/render/canvas"
	"github.com/matzehuels/plotline/pkg/value"
)

// Default frame size, matching the editor's drawing surface.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	background    value.RGBA
	title         string
	runID         string
}

func WithSize(w, h float64) SVGOption       { return func(r *svgRenderer) { r.width, r.height = w, h } }
func WithBackground(c value.RGBA) SVGOption { return func(r *svgRenderer) { r.background = c } }
func WithTitle(s string) SVGOption          { return func(r *svgRenderer) { r.title = s } }
func WithRunID(id string) SVGOption         { return func(r *svgRenderer) { r.runID = id } }

// RenderSVG writes ops in draw order, so later ops paint over earlier ones.
func RenderSVG(ops []canvas.Op, opts ...SVGOption) []byte {
	r := svgRenderer{width: DefaultWidth, height: DefaultHeight, background: value.White}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	if r.runID != "" {
		fmt.Fprintf(&buf, "  <metadata>run %s</metadata>\n", html.EscapeString(r.runID))
	}
	if r.background.A > 0 {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"%s/>`+"\n", r.background.Hex(), opacity("fill", r.background))
	}

	for _, op := range ops {
		writeOp(&buf, op)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeOp(buf *bytes.Buffer, op canvas.Op) {
	switch op.Shape {
	case canvas.ShapeCircle:
		c := op.Points[0]
		fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"%s/>`+"\n",
			c.X, c.Y, op.Radius, op.Color.Hex(), opacity("fill", op.Color))
	case canvas.ShapeRect:
		a, b := op.Points[0], op.Points[1]
		fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="%.2f"%s/>`+"\n",
			a.X, a.Y, b.X-a.X, b.Y-a.Y, op.Color.Hex(), op.Width, opacity("stroke", op.Color))
	case canvas.ShapeLine:
		a, b := op.Points[0], op.Points[1]
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round"%s/>`+"\n",
			a.X, a.Y, b.X, b.Y, op.Color.Hex(), op.Width, opacity("stroke", op.Color))
	}
}

// opacity returns a *-opacity attribute for translucent colors.
func opacity(attr string, c value.RGBA) string {
	if c.A >= 1 {
		return ""
	}
	return fmt.Sprintf(` %s-opacity="%.3f"`, attr, max(c.A, 0))
}
