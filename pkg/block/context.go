package block

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/matzehuels/plotline/pkg/value"
)

// Canvas receives the drawing side effects of a pass.
type Canvas interface {
	Circle(center value.Pt, radius float64, c value.RGBA)
	RectLines(x, y, w, h, thickness float64, c value.RGBA)
	Line(a, b value.Pt, width float64, c value.RGBA)
}

// NopCanvas discards every draw call.
type NopCanvas struct{}

func (NopCanvas) Circle(value.Pt, float64, value.RGBA)                              {}
func (NopCanvas) RectLines(float64, float64, float64, float64, float64, value.RGBA) {}
func (NopCanvas) Line(value.Pt, value.Pt, float64, value.RGBA)                      {}

// RunContext is the per-pass environment handed to every block.
type RunContext struct {
	ScreenW, ScreenH float64

	// Percentage is the progress of the timeline item, in 0..1.
	Percentage float64

	Rand   *rand.Rand
	Canvas Canvas
}

// NewRunContext builds a context with a ChaCha8 generator seeded from seed.
// A nil canvas discards drawing.
func NewRunContext(w, h, pct float64, seed uint64, canvas Canvas) *RunContext {
	if canvas == nil {
		canvas = NopCanvas{}
	}
	return &RunContext{
		ScreenW:    w,
		ScreenH:    h,
		Percentage: pct,
		Rand:       NewRand(seed),
		Canvas:     canvas,
	}
}

// NewRand returns a ChaCha8 generator whose key is derived from seed.
func NewRand(seed uint64) *rand.Rand {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return rand.New(rand.NewChaCha8(key))
}

func (rc *RunContext) canvas() Canvas {
	if rc.Canvas == nil {
		return NopCanvas{}
	}
	return rc.Canvas
}

func (rc *RunContext) rng() *rand.Rand {
	if rc.Rand == nil {
		rc.Rand = NewRand(0)
	}
	return rc.Rand
}
