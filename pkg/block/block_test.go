package block

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/plotline/pkg/value"
)

type drawCall struct {
	shape string
	pts   []value.Pt
	color value.RGBA
}

type fakeCanvas struct{ calls []drawCall }

func (f *fakeCanvas) Circle(c value.Pt, r float64, col value.RGBA) {
	f.calls = append(f.calls, drawCall{"circle", []value.Pt{c, {X: r}}, col})
}

func (f *fakeCanvas) RectLines(x, y, w, h, _ float64, col value.RGBA) {
	f.calls = append(f.calls, drawCall{"rect", []value.Pt{{X: x, Y: y}, {X: w, Y: h}}, col})
}

func (f *fakeCanvas) Line(a, b value.Pt, _ float64, col value.RGBA) {
	f.calls = append(f.calls, drawCall{"line", []value.Pt{a, b}, col})
}

func defaults(k Kind) []value.Value {
	var in []value.Value
	for _, p := range k.Ports().Inputs {
		in = append(in, p.Default)
	}
	return in
}

func numbers(r value.Result) []float64 {
	var out []float64
	for _, v := range r.Values() {
		out = append(out, v.AsNumber())
	}
	return out
}

func TestNewAssignsIDs(t *testing.T) {
	var ids IDAllocator
	a := New(PtExtract{}, &ids)
	b := New(PtExtract{}, &ids)

	if a.ID != 1 || a.Name != "1 PtExtract" {
		t.Errorf("first block = %d %q, want 1 \"1 PtExtract\"", a.ID, a.Name)
	}
	seen := map[ID]bool{}
	for _, blk := range []*Block{a, b} {
		for _, id := range append([]ID{blk.ID}, portIDs(blk)...) {
			if seen[id] {
				t.Fatalf("duplicate id %d", id)
			}
			seen[id] = true
		}
	}
	if p := b.Output("y"); p == nil || p.Owner != b.ID || p.Direction != Output {
		t.Errorf("Output(y) = %+v", p)
	}
	if b.Input("nope") != nil {
		t.Error("Input(nope) should be nil")
	}
	if ids.Last() != b.Outputs[1].ID {
		t.Errorf("Last() = %d", ids.Last())
	}
}

func portIDs(b *Block) []ID {
	var ids []ID
	for _, p := range b.Ports() {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFlattenFlag(t *testing.T) {
	var ids IDAllocator
	if !New(FlattenPoints{}, &ids).FlattenInputs {
		t.Error("FlattenPoints should flatten inputs")
	}
	if New(PointConnection{}, &ids).FlattenInputs {
		t.Error("PointConnection should not flatten inputs")
	}
}

func TestIterate(t *testing.T) {
	tests := []struct {
		name           string
		start, end, by float64
		want           []float64
	}{
		{"defaults", 0, 100, 10, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		{"single", 5, 5, 1, []float64{5}},
		{"empty range", 5, 4, 1, nil},
		{"zero step", 0, 10, 0, nil},
		{"negative step", 0, 10, -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Iterate{}.Run([]value.Value{value.Num(2), value.Num(tt.start), value.Num(tt.end), value.Num(tt.by)}, NewRunContext(0, 0, 0, 0, nil))
			if len(out) != 2 || !out[0].IsIteration() || !out[1].IsIteration() {
				t.Fatalf("Run() = %v, want two iterations", out)
			}
			if got := numbers(out[1]); !slices.Equal(got, tt.want) {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
			if out[0].Len() != out[1].Len() {
				t.Errorf("pass has %d elements, value has %d", out[0].Len(), out[1].Len())
			}
		})
	}
}

func TestIterateFractionalStep(t *testing.T) {
	tests := []struct {
		end, by float64
		want    int
	}{
		{1, 0.1, 11},
		{0.3, 0.1, 4},
		{0.7, 0.07, 11},
	}

	for _, tt := range tests {
		out := Iterate{}.Run([]value.Value{value.Num(0), value.Num(0), value.Num(tt.end), value.Num(tt.by)}, NewRunContext(0, 0, 0, 0, nil))
		got := numbers(out[1])
		if len(got) != tt.want {
			t.Errorf("0..%v by %v: %d elements, want %d", tt.end, tt.by, len(got), tt.want)
			continue
		}
		if last := got[len(got)-1]; math.Abs(last-tt.end) > 1e-9 {
			t.Errorf("0..%v by %v: last = %v", tt.end, tt.by, last)
		}
	}
}

func TestGrid(t *testing.T) {
	rc := NewRunContext(200, 100, 0, 0, nil)
	out := Grid{}.Run([]value.Value{value.Num(2), value.Num(2)}, rc)

	if got := numbers(out[0]); !slices.Equal(got, []float64{50, 150, 50, 150}) {
		t.Errorf("xi = %v", got)
	}
	if got := numbers(out[1]); !slices.Equal(got, []float64{25, 25, 75, 75}) {
		t.Errorf("yi = %v", got)
	}

	out = Grid{}.Run([]value.Value{value.Num(-1), value.Num(3)}, rc)
	if out[0].Len() != 0 {
		t.Errorf("negative rows produced %d cells", out[0].Len())
	}
}

func TestSquareGrid(t *testing.T) {
	out := SquareGrid{}.Run([]value.Value{value.Num(2)}, NewRunContext(300, 100, 0, 0, nil))
	if len(out) != 4 {
		t.Fatalf("len(Run()) = %d, want 4", len(out))
	}
	for i, r := range out {
		if r.Len() != 4 {
			t.Errorf("corner %d has %d tiles, want 4", i, r.Len())
		}
	}
	last := []value.Pt{out[0].At(3).AsPoint(), out[1].At(3).AsPoint(), out[2].At(3).AsPoint(), out[3].At(3).AsPoint()}
	want := []value.Pt{{X: 50, Y: 50}, {X: 100, Y: 50}, {X: 100, Y: 100}, {X: 50, Y: 100}}
	if !slices.Equal(last, want) {
		t.Errorf("last tile = %v, want %v", last, want)
	}
}

func TestClock(t *testing.T) {
	in := defaults(Clock{})
	rc := NewRunContext(0, 0, 0.25, 0, nil)

	if got := (Clock{}).Run(in, rc)[0].Value().AsNumber(); got != 2.5 {
		t.Errorf("linear time = %v, want 2.5", got)
	}

	in[0] = in[0].WithIndex(1)
	rc.Percentage = 0.5
	if got := (Clock{}).Run(in, rc)[0].Value().AsNumber(); math.Abs(got-5) > 1e-12 {
		t.Errorf("sigmoid midpoint = %v, want 5", got)
	}
}

func TestHslColorReadsLightness(t *testing.T) {
	out := HslColor{}.Run([]value.Value{value.Num(0), value.Num(1), value.Num(1)}, nil)
	if got := out[0].Value().AsColor(); got != value.White {
		t.Errorf("HslColor(0, 1, 1) = %v, want white", got)
	}
}

func TestRandomOffset(t *testing.T) {
	run := func(seed uint64) float64 {
		out := RandomOffset{}.Run([]value.Value{value.Num(100), value.Num(-10), value.Num(10)}, NewRunContext(0, 0, 0, seed, nil))
		return out[0].Value().AsNumber()
	}

	a, b := run(42), run(42)
	if a != b {
		t.Errorf("same seed gave %v and %v", a, b)
	}
	if a < 90 || a >= 110 {
		t.Errorf("offset value %v outside [90, 110)", a)
	}

	out := RandomOffset{}.Run([]value.Value{value.Num(1), value.Num(5), value.Num(5)}, NewRunContext(0, 0, 0, 1, nil))
	if got := out[0].Value().AsNumber(); got != 6 {
		t.Errorf("empty range = %v, want source+low = 6", got)
	}
}

func TestRandomPointPicksDiagonal(t *testing.T) {
	in := []value.Value{value.Point(0, 0), value.Point(1, 0), value.Point(1, 1), value.Point(0, 1)}
	for seed := range uint64(16) {
		out := RandomPoint{}.Run(in, NewRunContext(0, 0, 0, seed, nil))
		a, b := out[0].Value().AsPoint(), out[1].Value().AsPoint()
		ok := (a == value.Pt{X: 0, Y: 0} && b == value.Pt{X: 1, Y: 1}) ||
			(a == value.Pt{X: 1, Y: 0} && b == value.Pt{X: 0, Y: 1})
		if !ok {
			t.Errorf("seed %d picked %v, %v", seed, a, b)
		}
	}
}

func TestDrawingBlocks(t *testing.T) {
	c := &fakeCanvas{}
	rc := NewRunContext(0, 0, 0, 0, c)

	if out := (Circle{}).Run([]value.Value{value.Num(1), value.Num(2), value.Num(3), value.Color(value.Blue)}, rc); out != nil {
		t.Errorf("Circle returned %v", out)
	}
	Square{}.Run(defaults(Square{}), rc)
	Line{}.Run(defaults(Line{}), rc)
	PointConnection{}.Run([]value.Value{value.Points([]value.Pt{{X: 0}, {X: 1}, {X: 2}})}, rc)

	shapes := make([]string, len(c.calls))
	for i, call := range c.calls {
		shapes[i] = call.shape
	}
	if !slices.Equal(shapes, []string{"circle", "rect", "line", "line", "line"}) {
		t.Fatalf("draw calls = %v", shapes)
	}
	if c.calls[0].color != value.Blue || c.calls[0].pts[0] != (value.Pt{X: 1, Y: 2}) {
		t.Errorf("circle call = %+v", c.calls[0])
	}
	if c.calls[3].color != value.Red {
		t.Errorf("polyline color = %v, want red", c.calls[3].color)
	}
}

func TestFlattenPoints(t *testing.T) {
	pts := value.Points([]value.Pt{{X: 1}, {X: 2}})
	out := FlattenPoints{}.Run([]value.Value{pts}, nil)
	if len(out) != 1 || !value.Equal(out[0].Value(), pts) {
		t.Errorf("Run(list) = %v", out)
	}
	if out := (FlattenPoints{}).Run([]value.Value{value.Point(1, 1)}, nil); out != nil {
		t.Errorf("Run(point) = %v, want nil", out)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	names := c.Names()
	if len(names) != 14 {
		t.Errorf("len(Names()) = %d, want 14", len(names))
	}
	if names[0] != "Clock" || names[len(names)-1] != "PtCombine" {
		t.Errorf("Names() = %v", names)
	}
	k, ok := c.Lookup("squaregrid")
	if !ok || k.Name() != "SquareGrid" {
		t.Errorf("Lookup(squaregrid) = %v, %v", k, ok)
	}
	if _, ok := c.Lookup("Spiral"); ok {
		t.Error("Lookup(Spiral) should fail")
	}

	c.Register(Circle{})
	if len(c.Names()) != 14 {
		t.Error("re-registering a kind should not grow the catalog")
	}
}
