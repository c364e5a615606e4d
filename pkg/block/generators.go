package block

import (
	"math"

	"github.com/matzehuels/plotline/pkg/value"
)

// MaxIterations bounds the number of elements a generator emits per call.
const MaxIterations = 1 << 16

// Iterate counts from start to end inclusive in steps of by, emitting the
// pass number alongside each step.
type Iterate struct{}

func (Iterate) Name() string { return "Iterate" }

func (Iterate) Ports() Layout {
	return Layout{
		Inputs:  []PortSpec{Num("pass", 0), Num("start", 0), Num("end", 100), Num("by", 10)},
		Outputs: []PortSpec{Num("pass", 0), Num("value", 0)},
	}
}

func (Iterate) Run(in []value.Value, _ *RunContext) []value.Result {
	pass := in[0].AsNumber()
	start, end, by := in[1].AsNumber(), in[2].AsNumber(), in[3].AsNumber()

	var passes, steps []value.Value
	if by > 0 {
		// Each step is computed from start so rounding does not accumulate;
		// the slack keeps an end that is a whole number of steps away.
		limit := end + by*1e-9
		for k := 0; k < MaxIterations; k++ {
			v := start + float64(k)*by
			if v > limit {
				break
			}
			passes = append(passes, value.Num(pass))
			steps = append(steps, value.Num(v))
		}
	}
	return []value.Result{value.Iteration(passes), value.Iteration(steps)}
}

// Grid emits the centers of a rows x cols grid spanning the screen.
type Grid struct{}

func (Grid) Name() string { return "Grid" }

func (Grid) Ports() Layout {
	return Layout{
		Inputs:  []PortSpec{Num("rows", 10), Num("cols", 10)},
		Outputs: []PortSpec{Num("xi", 0), Num("yi", 0)},
	}
}

func (Grid) Run(in []value.Value, rc *RunContext) []value.Result {
	rows, cols := in[0].AsNumber(), in[1].AsNumber()
	cellH, cellW := rc.ScreenH/rows, rc.ScreenW/cols
	nr, nc := count(rows), count(cols)
	if nr*nc > MaxIterations {
		nr, nc = 0, 0
	}

	xs := make([]value.Value, 0, nr*nc)
	ys := make([]value.Value, 0, nr*nc)
	y := cellH / 2
	for range nr {
		x := cellW / 2
		for range nc {
			xs = append(xs, value.Num(x))
			ys = append(ys, value.Num(y))
			x += cellW
		}
		y += cellH
	}
	return []value.Result{value.Iteration(xs), value.Iteration(ys)}
}

// SquareGrid tiles a square of side min(width, height) anchored at the origin
// and emits the four corners of every tile, clockwise from top-left.
type SquareGrid struct{}

func (SquareGrid) Name() string { return "SquareGrid" }

func (SquareGrid) Ports() Layout {
	return Layout{
		Inputs:  []PortSpec{Num("dimension", 10)},
		Outputs: []PortSpec{Pt("pt0"), Pt("pt1"), Pt("pt2"), Pt("pt3")},
	}
}

func (SquareGrid) Run(in []value.Value, rc *RunContext) []value.Result {
	dim := in[0].AsNumber()
	tile := min(rc.ScreenW, rc.ScreenH) / dim
	n := count(dim)
	if n*n > MaxIterations {
		n = 0
	}

	var corners [4][]value.Value
	y := 0.0
	for range n {
		x := 0.0
		for range n {
			corners[0] = append(corners[0], value.Point(x, y))
			corners[1] = append(corners[1], value.Point(x+tile, y))
			corners[2] = append(corners[2], value.Point(x+tile, y+tile))
			corners[3] = append(corners[3], value.Point(x, y+tile))
			x += tile
		}
		y += tile
	}
	return []value.Result{
		value.Iteration(corners[0]),
		value.Iteration(corners[1]),
		value.Iteration(corners[2]),
		value.Iteration(corners[3]),
	}
}

// Clock exposes the item's progress, optionally eased through a sigmoid,
// scaled by a factor.
type Clock struct{}

func (Clock) Name() string { return "Clock" }

func (Clock) Ports() Layout {
	return Layout{
		Inputs: []PortSpec{
			{Name: "smoothing", Default: value.Select("none", "sigmoid")},
			Num("sigmoid sensitivity", 6),
			Num("scale_by", 10),
		},
		Outputs: []PortSpec{Num("time", 0)},
	}
}

func (Clock) Run(in []value.Value, rc *RunContext) []value.Result {
	t := rc.Percentage
	if in[0].AsSelectedString() == "sigmoid" {
		s := in[1].AsNumber()
		t = sigmoid(t*s - s/2)
	}
	t *= in[2].AsNumber()
	return []value.Result{value.Single(value.Num(t))}
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// RandomOffset adds a uniform sample from [low, high) to source. An empty
// range adds low.
type RandomOffset struct{}

func (RandomOffset) Name() string { return "RandomOffset" }

func (RandomOffset) Ports() Layout {
	return Layout{
		Inputs:  []PortSpec{Num("source", 0), Num("low", -10), Num("high", 10)},
		Outputs: []PortSpec{Num("value", 0)},
	}
}

func (RandomOffset) Run(in []value.Value, rc *RunContext) []value.Result {
	low, high := in[1].AsNumber(), in[2].AsNumber()
	off := low
	if low < high {
		off = low + rc.rng().Float64()*(high-low)
	}
	return []value.Result{value.Single(value.Num(in[0].AsNumber() + off))}
}

// HslColor converts hue in degrees, saturation and lightness to a color.
type HslColor struct{}

func (HslColor) Name() string { return "HslColor" }

func (HslColor) Ports() Layout {
	return Layout{
		Inputs:  []PortSpec{Num("hue", 0), Num("saturation", 0.5), Num("lightness", 0.5)},
		Outputs: []PortSpec{{Name: "color", Default: value.Color(value.White)}},
	}
}

func (HslColor) Run(in []value.Value, _ *RunContext) []value.Result {
	c := value.HSL(in[0].AsNumber(), in[1].AsNumber(), in[2].AsNumber())
	return []value.Result{value.Single(value.Color(c))}
}

// count truncates a float count the way a UI slider value is read,
// treating negatives and NaN as zero.
func count(x float64) int {
	switch {
	case !(x > 0):
		return 0
	case x > MaxIterations:
		return MaxIterations
	}
	return int(x)
}
