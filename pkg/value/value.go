package value

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// Kind identifies which variant a [Value] holds. Two ports can be wired only
// when their kinds are equal.
type Kind int

const (
	KindNumber Kind = iota
	KindPoint
	KindColor
	KindSelection
	KindListOfNumber
	KindListOfPoint
)

var kindNames = [...]string{
	KindNumber:       "number",
	KindPoint:        "point",
	KindColor:        "color",
	KindSelection:    "selection",
	KindListOfNumber: "list of numbers",
	KindListOfPoint:  "list of points",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Pt is a 2-D point in screen coordinates.
type Pt struct {
	X, Y float64
}

// RGBA is a color with channels in 0..1.
type RGBA struct {
	R, G, B, A float64
}

// Choice is an index into a fixed list of options.
type Choice struct {
	Index   int
	Options []string
}

// Value is a tagged union of the data types that flow between ports.
// The zero Value is the number 0.
type Value struct {
	kind   Kind
	num    float64
	pt     Pt
	color  RGBA
	choice Choice
	nums   []float64
	pts    []Pt
}

// Num returns a Number value.
func Num(x float64) Value { return Value{kind: KindNumber, num: x} }

// Point returns a Point value.
func Point(x, y float64) Value { return Value{kind: KindPoint, pt: Pt{X: x, Y: y}} }

// FromPt returns a Point value.
func FromPt(p Pt) Value { return Value{kind: KindPoint, pt: p} }

// Color returns a Color value.
func Color(c RGBA) Value { return Value{kind: KindColor, color: c} }

// Select returns a Selection value with the first option selected.
func Select(options ...string) Value {
	return Value{kind: KindSelection, choice: Choice{Options: slices.Clone(options)}}
}

// Numbers returns a ListOfNumber value. The slice is copied.
func Numbers(xs []float64) Value {
	return Value{kind: KindListOfNumber, nums: slices.Clone(xs)}
}

// Points returns a ListOfPoint value. The slice is copied.
func Points(ps []Pt) Value {
	return Value{kind: KindListOfPoint, pts: slices.Clone(ps)}
}

// Zero returns the zero value of kind k.
func Zero(k Kind) Value { return Value{kind: k} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// SameKind reports whether a and b may be connected. The compatibility table
// is exact: a number never connects to a point.
func SameKind(a, b Value) bool { return a.kind == b.kind }

// WithIndex returns a copy of a Selection value with a different selected
// index. Non-selection values are returned unchanged.
func (v Value) WithIndex(i int) Value {
	if v.kind != KindSelection {
		return v
	}
	v.choice.Options = slices.Clone(v.choice.Options)
	v.choice.Index = i
	return v
}

// Choice returns the selection payload, or the zero Choice for other kinds.
func (v Value) Choice() Choice { return v.choice }

func mismatch(want Kind, got Value) {
	log.Default().Warn("value type mismatch", "want", want, "got", got)
}

// AsNumber returns the number held by v. Any other variant logs a type
// mismatch and yields 0.
func (v Value) AsNumber() float64 {
	if v.kind != KindNumber {
		mismatch(KindNumber, v)
		return 0
	}
	return v.num
}

// AsPoint returns the point held by v, or (0, 0) on mismatch.
func (v Value) AsPoint() Pt {
	if v.kind != KindPoint {
		mismatch(KindPoint, v)
		return Pt{}
	}
	return v.pt
}

// AsColor returns the color held by v, or transparent black on mismatch.
func (v Value) AsColor() RGBA {
	if v.kind != KindColor {
		mismatch(KindColor, v)
		return RGBA{}
	}
	return v.color
}

// AsListNumbers returns the numbers held by v, or nil on mismatch.
// The returned slice must not be modified.
func (v Value) AsListNumbers() []float64 {
	if v.kind != KindListOfNumber {
		mismatch(KindListOfNumber, v)
		return nil
	}
	return v.nums
}

// AsListPoints returns the points held by v, or nil on mismatch.
// The returned slice must not be modified.
func (v Value) AsListPoints() []Pt {
	if v.kind != KindListOfPoint {
		mismatch(KindListOfPoint, v)
		return nil
	}
	return v.pts
}

// AsSelectedString returns the selected option, or "" on mismatch or when
// the index is out of range.
func (v Value) AsSelectedString() string {
	if v.kind != KindSelection {
		mismatch(KindSelection, v)
		return ""
	}
	i := v.choice.Index
	if i < 0 || i >= len(v.choice.Options) {
		log.Default().Warn("selection index out of range", "index", i, "options", len(v.choice.Options))
		return ""
	}
	return v.choice.Options[i]
}

// Equal reports whether a and b hold the same variant and payload.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		return a.num == b.num
	case KindPoint:
		return a.pt == b.pt
	case KindColor:
		return a.color == b.color
	case KindSelection:
		return a.choice.Index == b.choice.Index && slices.Equal(a.choice.Options, b.choice.Options)
	case KindListOfNumber:
		return slices.Equal(a.nums, b.nums)
	case KindListOfPoint:
		return slices.Equal(a.pts, b.pts)
	}
	return false
}

// String formats v for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return fmt.Sprintf("Number(%g)", v.num)
	case KindPoint:
		return fmt.Sprintf("Point(%g, %g)", v.pt.X, v.pt.Y)
	case KindColor:
		return fmt.Sprintf("Color(%.3g, %.3g, %.3g, %.3g)", v.color.R, v.color.G, v.color.B, v.color.A)
	case KindSelection:
		return fmt.Sprintf("Selection(%d of [%s])", v.choice.Index, strings.Join(v.choice.Options, ", "))
	case KindListOfNumber:
		return fmt.Sprintf("ListOfNumber(%d)", len(v.nums))
	case KindListOfPoint:
		return fmt.Sprintf("ListOfPoint(%d)", len(v.pts))
	}
	return v.kind.String()
}
