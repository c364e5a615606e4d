package timeline

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/engine"
	"github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/observability"
	"github.com/matzehuels/plotline/pkg/value"
)

const (
	DefaultTotalSecs = 30
	MinTotalSecs     = 5
	DefaultFPS       = 60
)

// Item is one graph instance scheduled on the timeline. X and Length are in
// timeline pixels; Y is the item's row position and decides draw order.
type Item struct {
	Name   string
	X, Y   float64
	Length float64
	Color  value.RGBA

	// Seed overrides the timeline seed for this item when set.
	Seed *uint64

	Graph *engine.Context
}

// Contains reports whether the playhead position x falls inside the item.
func (it *Item) Contains(x float64) bool {
	return x >= it.X && x < it.X+it.Length
}

// Timeline advances a playhead across items and evaluates the ones it
// touches.
type Timeline struct {
	Playhead  float64
	Width     float64
	TotalSecs float64
	FPS       float64
	Running   bool
	Seed      uint64
	Items     []*Item

	logger *log.Logger
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithTotalSecs sets the duration the full width represents. Values below
// MinTotalSecs are raised to it.
func WithTotalSecs(s float64) Option { return func(t *Timeline) { t.TotalSecs = s } }

// WithFPS sets the frame rate used to step the playhead.
func WithFPS(fps float64) Option { return func(t *Timeline) { t.FPS = fps } }

// WithSeed sets the seed shared by items without their own.
func WithSeed(seed uint64) Option { return func(t *Timeline) { t.Seed = seed } }

// WithLogger sets the logger for evaluation failures.
func WithLogger(l *log.Logger) Option {
	return func(t *Timeline) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns a paused timeline spanning width pixels.
func New(width float64, opts ...Option) *Timeline {
	t := &Timeline{
		Width:     width,
		TotalSecs: DefaultTotalSecs,
		FPS:       DefaultFPS,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.TotalSecs = max(t.TotalSecs, MinTotalSecs)
	if t.FPS <= 0 {
		t.FPS = DefaultFPS
	}
	return t
}

// Add appends an item and returns it.
func (t *Timeline) Add(it *Item) *Item {
	t.Items = append(t.Items, it)
	return it
}

// Item returns the item with the given name, or nil.
func (t *Timeline) Item(name string) *Item {
	for _, it := range t.Items {
		if it.Name == name {
			return it
		}
	}
	return nil
}

// Active is an item under the playhead.
type Active struct {
	Item     *Item
	Progress float64 // 0..1 through the item
}

// Active returns the items under the playhead in evaluation order, by
// descending Y. Items higher up on the timeline evaluate later and so draw
// on top. Items sharing a row keep their insertion order.
func (t *Timeline) Active() []Active {
	var out []Active
	for _, it := range t.Items {
		if it.Length > 0 && it.Contains(t.Playhead) {
			out = append(out, Active{Item: it, Progress: (t.Playhead - it.X) / it.Length})
		}
	}
	slices.SortStableFunc(out, func(a, b Active) int { return cmp.Compare(b.Item.Y, a.Item.Y) })
	return out
}

// Evaluated is the outcome of evaluating one item during a tick.
type Evaluated struct {
	Active
	Stats engine.PassStats
	Err   error
}

// Tick evaluates the active items and advances the playhead. See TickContext.
func (t *Timeline) Tick(screenW, screenH float64, canvas block.Canvas, q *ErrorQueue) []Evaluated {
	return t.TickContext(context.Background(), screenW, screenH, canvas, q)
}

// TickContext evaluates every active item in order with a fresh generator
// seeded from the item's seed. Once an item fails or q holds an error no
// further items are evaluated, and a failing item pauses the timeline. The playhead advances
// one frame while running and no errors are pending, wrapping to 0 past
// the end.
func (t *Timeline) TickContext(ctx context.Context, screenW, screenH float64, canvas block.Canvas, q *ErrorQueue) []Evaluated {
	start := time.Now()
	hooks := observability.Eval()

	var out []Evaluated
	failed := false
	for _, a := range t.Active() {
		if failed || q.HasErrors() {
			break
		}
		if a.Item.Graph == nil {
			continue
		}
		rc := block.NewRunContext(screenW, screenH, a.Progress, t.SeedFor(a.Item), canvas)

		hooks.OnItemStart(ctx, a.Item.Name, a.Progress)
		err := a.Item.Graph.Run(rc)
		stats := a.Item.Graph.LastStats()
		hooks.OnItemComplete(ctx, a.Item.Name, stats.Calls, stats.Duration, err)

		out = append(out, Evaluated{Active: a, Stats: stats, Err: err})
		if err != nil {
			failed = true
			t.Running = false
			t.logger.Error("evaluation failed", "item", a.Item.Name, "code", errors.GetCode(err), "err", err)
			q.Push(fmt.Sprintf("%s: %s", a.Item.Name, errors.UserMessage(err)))
		}
	}

	if t.Running && !q.HasErrors() {
		t.Playhead += t.Step()
		if t.Playhead > t.Width {
			t.Playhead = 0
		}
	}
	hooks.OnFrame(ctx, t.Seconds(), len(out), time.Since(start))
	return out
}

// SeedFor returns the seed an item is evaluated with.
func (t *Timeline) SeedFor(it *Item) uint64 {
	if it.Seed != nil {
		return *it.Seed
	}
	return t.Seed
}

// Step returns how far the playhead moves per frame.
func (t *Timeline) Step() float64 {
	return t.Width / t.TotalSecs / t.FPS
}

// Toggle flips auto-run.
func (t *Timeline) Toggle() { t.Running = !t.Running }

// Resume starts auto-run unless errors are still pending. It reports whether
// the timeline is running.
func (t *Timeline) Resume(q *ErrorQueue) bool {
	t.Running = !q.HasErrors()
	return t.Running
}

// Seek moves the playhead to x, clamped to the timeline.
func (t *Timeline) Seek(x float64) {
	t.Playhead = min(max(x, 0), t.Width)
}

// SeekSeconds moves the playhead to a time in seconds.
func (t *Timeline) SeekSeconds(s float64) {
	t.Seek(s * t.pxPerSec())
}

// Seconds returns the playhead position in seconds.
func (t *Timeline) Seconds() float64 {
	if t.Width <= 0 {
		return 0
	}
	return t.Playhead / t.pxPerSec()
}

// Span returns the start and end of an item in seconds.
func (t *Timeline) Span(it *Item) (start, end float64) {
	if t.Width <= 0 {
		return 0, 0
	}
	pps := t.pxPerSec()
	return it.X / pps, (it.X + it.Length) / pps
}

// Frames returns the number of frames in one sweep of the playhead.
func (t *Timeline) Frames() int {
	return int(t.TotalSecs * t.FPS)
}

// ItemAt returns the topmost item whose bar of height rowHeight contains
// (x, y), searching from the last added.
func (t *Timeline) ItemAt(x, y, rowHeight float64) (*Item, bool) {
	for _, it := range slices.Backward(t.Items) {
		if it.Contains(x) && y >= it.Y && y < it.Y+rowHeight {
			return it, true
		}
	}
	return nil, false
}

func (t *Timeline) pxPerSec() float64 { return t.Width / t.TotalSecs }
