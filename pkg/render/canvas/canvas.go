// Package canvas records draw calls so a frame can be written out after the
// pass that produced it.
package canvas

import (
	"slices"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/value"
)

// Shape is the primitive an [Op] draws.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRect
	ShapeLine
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	case ShapeLine:
		return "line"
	}
	return "unknown"
}

// Op is one recorded draw call.
//
// Circles use Points[0] as the center. Rectangles store the top-left and
// bottom-right corners. Lines store both endpoints. Width is the stroke width
// of rectangles and lines.
type Op struct {
	Shape  Shape
	Points []value.Pt
	Radius float64
	Color  value.RGBA
	Width  float64
}

// Recorder implements [block.Canvas] by appending ops in call order.
type Recorder struct {
	ops []Op
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Circle(center value.Pt, radius float64, c value.RGBA) {
	r.ops = append(r.ops, Op{Shape: ShapeCircle, Points: []value.Pt{center}, Radius: radius, Color: c})
}

func (r *Recorder) RectLines(x, y, w, h, thickness float64, c value.RGBA) {
	r.ops = append(r.ops, Op{
		Shape:  ShapeRect,
		Points: []value.Pt{{X: x, Y: y}, {X: x + w, Y: y + h}},
		Color:  c,
		Width:  thickness,
	})
}

func (r *Recorder) Line(a, b value.Pt, width float64, c value.RGBA) {
	r.ops = append(r.ops, Op{Shape: ShapeLine, Points: []value.Pt{a, b}, Color: c, Width: width})
}

// Ops returns a copy of the recorded ops.
func (r *Recorder) Ops() []Op { return slices.Clone(r.ops) }

// Len returns the number of recorded ops.
func (r *Recorder) Len() int { return len(r.ops) }

// Reset drops every op, keeping the backing storage for the next frame.
func (r *Recorder) Reset() { r.ops = r.ops[:0] }

var _ block.Canvas = (*Recorder)(nil)
