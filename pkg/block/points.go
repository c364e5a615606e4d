package block

import "github.com/matzehuels/plotline/pkg/value"

// FlattenPoints gathers an iteration of points into one list.
type FlattenPoints struct{}

func (FlattenPoints) Name() string { return "FlattenPoints" }

func (FlattenPoints) Ports() Layout {
	return Layout{
		Inputs:  []PortSpec{Pt("pts")},
		Outputs: []PortSpec{{Name: "pts", Default: value.Points(nil)}},
		Flatten: true,
	}
}

func (FlattenPoints) Run(in []value.Value, _ *RunContext) []value.Result {
	if in[0].Kind() != value.KindListOfPoint {
		return nil
	}
	return []value.Result{value.Single(in[0])}
}

// RandomPoint picks one of two diagonals of a quad at random.
type RandomPoint struct{}

func (RandomPoint) Name() string { return "RandomPoint" }

func (RandomPoint) Ports() Layout {
	return Layout{
		Inputs:  []PortSpec{Pt("pt0"), Pt("pt1"), Pt("pt2"), Pt("pt3")},
		Outputs: []PortSpec{Pt("ptA"), Pt("ptB")},
	}
}

func (RandomPoint) Run(in []value.Value, rc *RunContext) []value.Result {
	a, b := in[1], in[3]
	if rc.rng().Float64() < 0.5 {
		a, b = in[0], in[2]
	}
	return []value.Result{
		value.Single(value.FromPt(a.AsPoint())),
		value.Single(value.FromPt(b.AsPoint())),
	}
}

// PtExtract splits a point into its coordinates.
type PtExtract struct{}

func (PtExtract) Name() string { return "PtExtract" }

func (PtExtract) Ports() Layout {
	return Layout{
		Inputs:  []PortSpec{Pt("pt")},
		Outputs: []PortSpec{Num("x", 0), Num("y", 0)},
	}
}

func (PtExtract) Run(in []value.Value, _ *RunContext) []value.Result {
	p := in[0].AsPoint()
	return []value.Result{value.Single(value.Num(p.X)), value.Single(value.Num(p.Y))}
}

// PtCombine builds a point from two coordinates.
type PtCombine struct{}

func (PtCombine) Name() string { return "PtCombine" }

func (PtCombine) Ports() Layout {
	return Layout{
		Inputs:  []PortSpec{Num("x", 0), Num("y", 0)},
		Outputs: []PortSpec{Pt("pt")},
	}
}

func (PtCombine) Run(in []value.Value, _ *RunContext) []value.Result {
	return []value.Result{value.Single(value.Point(in[0].AsNumber(), in[1].AsNumber()))}
}
