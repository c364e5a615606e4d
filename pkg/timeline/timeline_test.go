package timeline

import (
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/engine"
	"github.com/matzehuels/plotline/pkg/value"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// circleGraph draws one circle whose radius is source plus a random offset.
func circleGraph(t *testing.T) *engine.Context {
	t.Helper()
	g := engine.New(engine.WithLogger(quietLogger()))
	off := g.AddBlock(block.RandomOffset{}, 0, 0)
	c := g.AddBlock(block.Circle{}, 0, 0)
	if ok, err := g.Connect(off.Output("value").ID, c.Input("radius").ID); !ok || err != nil {
		t.Fatalf("Connect() = %v, %v", ok, err)
	}
	return g
}

// brokenGraph fails every pass with an iteration mismatch.
func brokenGraph(t *testing.T) *engine.Context {
	t.Helper()
	g := engine.New(engine.WithLogger(quietLogger()))
	a := g.AddBlock(block.Iterate{}, 0, 0)
	b := g.AddBlock(block.Iterate{}, 0, 0)
	if err := g.SetInputValue(b.Input("end").ID, value.Num(50)); err != nil {
		t.Fatal(err)
	}
	line := g.AddBlock(block.Line{}, 0, 0)
	g.Connect(a.Output("value").ID, line.Input("x1").ID)
	g.Connect(b.Output("value").ID, line.Input("x2").ID)
	return g
}

func TestActiveOrderAndProgress(t *testing.T) {
	tl := New(300)
	low := tl.Add(&Item{Name: "low", X: 0, Y: 700, Length: 200})
	high := tl.Add(&Item{Name: "high", X: 50, Y: 600, Length: 100})
	tl.Add(&Item{Name: "later", X: 150, Y: 800, Length: 100})
	tl.Seek(100)

	active := tl.Active()
	if len(active) != 2 {
		t.Fatalf("len(Active()) = %d, want 2", len(active))
	}
	if active[0].Item != low || active[1].Item != high {
		t.Errorf("Active() order = %s, %s; want low, high", active[0].Item.Name, active[1].Item.Name)
	}
	if active[0].Progress != 0.5 || active[1].Progress != 0.5 {
		t.Errorf("progress = %v, %v; want 0.5, 0.5", active[0].Progress, active[1].Progress)
	}

	tl.Seek(150)
	var names []string
	for _, a := range tl.Active() {
		names = append(names, a.Item.Name)
	}
	if !slices.Equal(names, []string{"later", "low"}) {
		t.Errorf("Active() at 150 = %v, want [later low] (end is exclusive)", names)
	}
}

func TestTickAdvancesAndWraps(t *testing.T) {
	tl := New(300, WithTotalSecs(10), WithFPS(30))
	if got := tl.Step(); got != 1 {
		t.Fatalf("Step() = %v, want 1", got)
	}
	tl.Tick(0, 0, nil, nil)
	if tl.Playhead != 0 {
		t.Errorf("paused timeline moved to %v", tl.Playhead)
	}

	tl.Toggle()
	tl.Tick(0, 0, nil, nil)
	if tl.Playhead != 1 {
		t.Errorf("Playhead = %v after one frame, want 1", tl.Playhead)
	}

	tl.Seek(300)
	tl.Tick(0, 0, nil, nil)
	if tl.Playhead != 0 {
		t.Errorf("Playhead = %v past the end, want 0", tl.Playhead)
	}
}

func TestTotalSecsMinimum(t *testing.T) {
	if got := New(100, WithTotalSecs(1)).TotalSecs; got != MinTotalSecs {
		t.Errorf("TotalSecs = %v, want %v", got, MinTotalSecs)
	}
	tl := New(600)
	if tl.TotalSecs != DefaultTotalSecs || tl.FPS != DefaultFPS {
		t.Errorf("defaults = %v s at %v fps", tl.TotalSecs, tl.FPS)
	}
	tl.SeekSeconds(15)
	if tl.Playhead != 300 || tl.Seconds() != 15 {
		t.Errorf("SeekSeconds(15) put playhead at %v (%v s)", tl.Playhead, tl.Seconds())
	}
	start, end := tl.Span(&Item{X: 100, Length: 200})
	if start != 5 || end != 15 {
		t.Errorf("Span() = %v, %v; want 5, 15", start, end)
	}
}

func TestTickIsDeterministic(t *testing.T) {
	tl := New(100, WithSeed(7))
	tl.Add(&Item{Name: "a", Length: 100, Graph: circleGraph(t)})
	tl.Seek(10)

	draw := func() []float64 {
		c := &recordingCanvas{}
		for _, ev := range tl.Tick(640, 480, c, nil) {
			if ev.Err != nil {
				t.Fatalf("Tick() item error = %v", ev.Err)
			}
		}
		return c.radii
	}
	first, second := draw(), draw()
	if len(first) != 1 || !slices.Equal(first, second) {
		t.Errorf("radii %v then %v, want one identical radius", first, second)
	}
}

func TestPerItemSeed(t *testing.T) {
	seed := uint64(99)
	tl := New(100, WithSeed(7))
	it := &Item{Name: "a", Length: 100}
	if tl.SeedFor(it) != 7 {
		t.Error("item without seed should use the timeline seed")
	}
	it.Seed = &seed
	if tl.SeedFor(it) != 99 {
		t.Error("item seed should win")
	}
}

type recordingCanvas struct{ radii []float64 }

func (c *recordingCanvas) Circle(_ value.Pt, r float64, _ value.RGBA) {
	c.radii = append(c.radii, r)
}
func (c *recordingCanvas) RectLines(float64, float64, float64, float64, float64, value.RGBA) {}
func (c *recordingCanvas) Line(value.Pt, value.Pt, float64, value.RGBA)                      {}

func TestErrorPausesAndIsolates(t *testing.T) {
	tl := New(100, WithLogger(quietLogger()))
	// Higher Y evaluates first, so the broken item runs before the good one.
	tl.Add(&Item{Name: "good", Y: 10, Length: 100, Graph: circleGraph(t)})
	tl.Add(&Item{Name: "broken", Y: 20, Length: 100, Graph: brokenGraph(t)})
	tl.Running = true

	q := &ErrorQueue{}
	c := &recordingCanvas{}
	evs := tl.Tick(640, 480, c, q)

	if len(evs) != 1 || evs[0].Item.Name != "broken" || evs[0].Err == nil {
		t.Fatalf("Tick() = %+v, want one failed evaluation of broken", evs)
	}
	if tl.Running {
		t.Error("an error should pause the timeline")
	}
	if tl.Playhead != 0 {
		t.Errorf("Playhead moved to %v despite the error", tl.Playhead)
	}
	if len(c.radii) != 0 {
		t.Error("items after a failure should not be evaluated")
	}
	msgs := q.Messages()
	if len(msgs) != 2 || msgs[0] != PauseMessage || !strings.HasPrefix(msgs[1], "broken: ") {
		t.Errorf("queue = %q", msgs)
	}
	if !strings.Contains(msgs[1], "lengths dont match") {
		t.Errorf("message %q should describe the mismatch", msgs[1])
	}

	if tl.Resume(q) {
		t.Error("Resume should refuse while errors are pending")
	}
	if evs := tl.Tick(640, 480, c, q); len(evs) != 0 {
		t.Errorf("Tick() with pending errors evaluated %d items", len(evs))
	}

	q.Clear()
	if !tl.Resume(q) {
		t.Error("Resume should succeed once errors are dismissed")
	}
}

func TestErrorIsolatesWithoutQueue(t *testing.T) {
	tl := New(100, WithLogger(quietLogger()))
	tl.Add(&Item{Name: "good", Y: 10, Length: 100, Graph: circleGraph(t)})
	tl.Add(&Item{Name: "broken", Y: 20, Length: 100, Graph: brokenGraph(t)})
	tl.Running = true

	c := &recordingCanvas{}
	evs := tl.Tick(640, 480, c, nil)

	if len(evs) != 1 || evs[0].Item.Name != "broken" {
		t.Fatalf("Tick() evaluated %d items, want only broken", len(evs))
	}
	if len(c.radii) != 0 {
		t.Errorf("good item drew %d circles after broken failed", len(c.radii))
	}
	if tl.Running || tl.Playhead != 0 {
		t.Errorf("Running = %v, Playhead = %v after a failure", tl.Running, tl.Playhead)
	}
}

func TestErrorQueue(t *testing.T) {
	var q ErrorQueue
	q.Push("first")
	q.Push("second")
	if got := q.Messages(); !slices.Equal(got, []string{PauseMessage, "first", "second"}) {
		t.Fatalf("Messages() = %q", got)
	}
	if !q.Dismiss(0) || q.Len() != 2 {
		t.Errorf("Dismiss(0) left %d messages", q.Len())
	}
	if q.Dismiss(5) {
		t.Error("Dismiss(5) should report false")
	}
	q.Dismiss(0)
	q.Dismiss(0)
	if q.HasErrors() {
		t.Error("queue should be empty")
	}

	var nilQ *ErrorQueue
	nilQ.Push("ignored")
	if nilQ.HasErrors() || nilQ.Len() != 0 {
		t.Error("nil queue should stay empty")
	}
}

func TestItemAt(t *testing.T) {
	tl := New(300)
	a := tl.Add(&Item{Name: "a", X: 0, Y: 100, Length: 100})
	b := tl.Add(&Item{Name: "b", X: 50, Y: 100, Length: 100})

	if it, ok := tl.ItemAt(75, 110, 30); !ok || it != b {
		t.Errorf("ItemAt(75, 110) = %v, want b (added last)", it)
	}
	if it, ok := tl.ItemAt(10, 110, 30); !ok || it != a {
		t.Errorf("ItemAt(10, 110) = %v, want a", it)
	}
	if _, ok := tl.ItemAt(10, 140, 30); ok {
		t.Error("ItemAt below the row should miss")
	}
	if tl.Item("b") != b || tl.Item("zz") != nil {
		t.Error("Item() lookup by name")
	}
}
