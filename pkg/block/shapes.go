package block

import "github.com/matzehuels/plotline/pkg/value"

const strokeWidth = 2

// Circle draws a filled circle.
type Circle struct{}

func (Circle) Name() string { return "Circle" }

func (Circle) Ports() Layout {
	return Layout{Inputs: []PortSpec{
		Num("cx", 0),
		Num("cy", 0),
		Num("radius", 0),
		{Name: "color", Default: value.Color(value.Black)},
	}}
}

func (Circle) Run(in []value.Value, rc *RunContext) []value.Result {
	center := value.Pt{X: in[0].AsNumber(), Y: in[1].AsNumber()}
	rc.canvas().Circle(center, in[2].AsNumber(), in[3].AsColor())
	return nil
}

// Square draws the outline of a square anchored at its top-left corner.
type Square struct{}

func (Square) Name() string { return "Square" }

func (Square) Ports() Layout {
	return Layout{Inputs: []PortSpec{
		Num("x0", 0),
		Num("y0", 0),
		Num("size", 0),
		{Name: "color", Default: value.Color(value.Black)},
	}}
}

func (Square) Run(in []value.Value, rc *RunContext) []value.Result {
	size := in[2].AsNumber()
	rc.canvas().RectLines(in[0].AsNumber(), in[1].AsNumber(), size, size, strokeWidth, in[3].AsColor())
	return nil
}

// Line draws a segment between two coordinate pairs.
type Line struct{}

func (Line) Name() string { return "Line" }

func (Line) Ports() Layout {
	return Layout{Inputs: []PortSpec{
		Num("x1", 0),
		Num("y1", 0),
		Num("x2", 0),
		Num("y2", 0),
		{Name: "color", Default: value.Color(value.Black)},
	}}
}

func (Line) Run(in []value.Value, rc *RunContext) []value.Result {
	a := value.Pt{X: in[0].AsNumber(), Y: in[1].AsNumber()}
	b := value.Pt{X: in[2].AsNumber(), Y: in[3].AsNumber()}
	rc.canvas().Line(a, b, strokeWidth, in[4].AsColor())
	return nil
}

// PointConnection draws a red polyline through a list of points.
type PointConnection struct{}

func (PointConnection) Name() string { return "PointConnection" }

func (PointConnection) Ports() Layout {
	return Layout{Inputs: []PortSpec{
		{Name: "pts", Default: value.Points(nil)},
	}}
}

func (PointConnection) Run(in []value.Value, rc *RunContext) []value.Result {
	pts := in[0].AsListPoints()
	for i := 1; i < len(pts); i++ {
		rc.canvas().Line(pts[i-1], pts[i], strokeWidth, value.Red)
	}
	return nil
}
