package value

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotline/pkg/errors"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Default()
	log.SetDefault(log.New(&buf))
	t.Cleanup(func() { log.SetDefault(prev) })
	return &buf
}

func TestAccessorsMatching(t *testing.T) {
	if got := Num(2.5).AsNumber(); got != 2.5 {
		t.Errorf("AsNumber() = %v, want 2.5", got)
	}
	if got := Point(1, 2).AsPoint(); got != (Pt{1, 2}) {
		t.Errorf("AsPoint() = %v", got)
	}
	if got := Color(Red).AsColor(); got != Red {
		t.Errorf("AsColor() = %v", got)
	}
	if got := Numbers([]float64{1, 2}).AsListNumbers(); !slices.Equal(got, []float64{1, 2}) {
		t.Errorf("AsListNumbers() = %v", got)
	}
	if got := Points([]Pt{{1, 1}}).AsListPoints(); !slices.Equal(got, []Pt{{1, 1}}) {
		t.Errorf("AsListPoints() = %v", got)
	}
	if got := Select("none", "sigmoid").WithIndex(1).AsSelectedString(); got != "sigmoid" {
		t.Errorf("AsSelectedString() = %q", got)
	}
}

func TestAccessorsSoftFail(t *testing.T) {
	tests := []struct {
		name string
		read func() any
		want any
	}{
		{"number", func() any { return Point(3, 4).AsNumber() }, 0.0},
		{"point", func() any { return Num(3).AsPoint() }, Pt{}},
		{"color", func() any { return Num(3).AsColor() }, RGBA{}},
		{"selection", func() any { return Num(3).AsSelectedString() }, ""},
		{"list of numbers", func() any { return len(Num(3).AsListNumbers()) }, 0},
		{"list of points", func() any { return len(Numbers([]float64{1}).AsListPoints()) }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			if got := tt.read(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if !strings.Contains(buf.String(), "value type mismatch") {
				t.Errorf("expected mismatch diagnostic, log = %q", buf.String())
			}
		})
	}
}

func TestSelectionOutOfRange(t *testing.T) {
	buf := captureLog(t)
	if got := Select("a").WithIndex(4).AsSelectedString(); got != "" {
		t.Errorf("AsSelectedString() = %q, want empty", got)
	}
	if !strings.Contains(buf.String(), "out of range") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestSameKind(t *testing.T) {
	if !SameKind(Num(1), Num(2)) {
		t.Error("number should connect to number")
	}
	if SameKind(Num(1), Point(1, 1)) {
		t.Error("number must not connect to point")
	}
	if SameKind(Numbers(nil), Points(nil)) {
		t.Error("list kinds must not mix")
	}
}

func TestConstructorsCopy(t *testing.T) {
	xs := []float64{1, 2}
	v := Numbers(xs)
	xs[0] = 9
	if v.AsListNumbers()[0] != 1 {
		t.Error("Numbers should copy its input")
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		prev Result
		next Result
		want []float64
	}{
		{"single single", Single(Num(3)), Single(Num(7)), []float64{3, 7}},
		{"single iteration", Single(Num(1)), Iteration([]Value{Num(2), Num(3)}), []float64{1, 2, 3}},
		{"iteration single", Iteration([]Value{Num(1), Num(2)}), Single(Num(3)), []float64{1, 2, 3}},
		{"iteration iteration", Iteration([]Value{Num(1)}), Iteration([]Value{Num(2)}), []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.prev, tt.next)
			if !got.IsIteration() {
				t.Fatal("merged result should be an iteration")
			}
			var nums []float64
			for _, v := range got.Values() {
				nums = append(nums, v.AsNumber())
			}
			if !slices.Equal(nums, tt.want) {
				t.Errorf("Merge() = %v, want %v", nums, tt.want)
			}
		})
	}
}

func TestMergeDoesNotAlias(t *testing.T) {
	prev := Iteration([]Value{Num(1), Num(2)})
	m := Merge(prev, Single(Num(3)))
	_ = Merge(prev, Single(Num(4)))
	if got := m.At(2).AsNumber(); got != 3 {
		t.Errorf("At(2) = %v, want 3", got)
	}
	if prev.Len() != 2 {
		t.Errorf("prev.Len() = %d, want 2", prev.Len())
	}
}

func TestResultLen(t *testing.T) {
	if n := Single(Num(1)).Len(); n != 1 {
		t.Errorf("Single.Len() = %d", n)
	}
	if n := Iteration(nil).Len(); n != 0 {
		t.Errorf("empty Iteration.Len() = %d", n)
	}
	if v := Single(Num(5)).At(3); v.AsNumber() != 5 {
		t.Errorf("Single.At(3) = %v", v)
	}
}

func TestFlatten(t *testing.T) {
	got, err := Flatten([]Value{Point(0, 0), Point(1, 0), Point(1, 1), Point(0, 1)})
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	want := []Pt{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if !slices.Equal(got.AsListPoints(), want) {
		t.Errorf("Flatten(points) = %v, want %v", got.AsListPoints(), want)
	}

	got, err = Flatten([]Value{Num(1), Num(2)})
	if err != nil || !slices.Equal(got.AsListNumbers(), []float64{1, 2}) {
		t.Errorf("Flatten(numbers) = %v, %v", got, err)
	}

	got, err = Flatten(nil)
	if err != nil || got.Kind() != KindListOfNumber || len(got.AsListNumbers()) != 0 {
		t.Errorf("Flatten(nil) = %v, %v", got, err)
	}

	if _, err := Flatten([]Value{Color(Red)}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Flatten(colors) error = %v, want UNSUPPORTED", err)
	}
	if _, err := Flatten([]Value{Num(1), Point(1, 1)}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Flatten(mixed) error = %v, want UNSUPPORTED", err)
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    RGBA
	}{
		{"red", 0, 1, 0.5, Red},
		{"green", 120, 1, 0.5, Green},
		{"blue wraps", 600, 1, 0.5, Blue},
		{"negative hue", -240, 1, 0.5, Green},
		{"black", 0, 0.5, 0, Black},
		{"white", 0, 0.5, 1, White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HSL(tt.h, tt.s, tt.l)
			if !closeRGBA(got, tt.want) {
				t.Errorf("HSL(%v, %v, %v) = %v, want %v", tt.h, tt.s, tt.l, got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]RGBA{
		"black":   Black,
		"RED":     Red,
		"#0000ff": Blue,
		"#fff":    White,
	} {
		got, err := ParseColor(in)
		if err != nil {
			t.Errorf("ParseColor(%q) error = %v", in, err)
			continue
		}
		if !closeRGBA(got, want) {
			t.Errorf("ParseColor(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseColor("mauve-ish"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseColor(bad) error = %v", err)
	}
	if got := Blue.Hex(); got != "#0000ff" {
		t.Errorf("Hex() = %q", got)
	}
}

func closeRGBA(a, b RGBA) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}
