// Package player drives a timeline frame by frame and captures what it
// draws.
//
// The interactive player, the render command and the preview server all
// evaluate timelines through a [Player]:
//
//	p := player.New(tl, 800, 600)
//	ops, err := p.Frame(ctx, 2.5) // still frame at 2.5s
//
//	tl.Running = true
//	ops, evaluated := p.Step(ctx) // live playback, advances the playhead
//
// A Player serializes access to its timeline; block graphs are not safe
// for concurrent evaluation.
package player

import (
	"context"
	"sync"

	"github.com/matzehuels/plotline/pkg/render/canvas"
	"github.com/matzehuels/plotline/pkg/timeline"
)

// Player evaluates a timeline onto a recorder of the given screen size.
type Player struct {
	tl            *timeline.Timeline
	width, height float64
	queue         *timeline.ErrorQueue
	rec           *canvas.Recorder
	mu            sync.Mutex
}

// New returns a player for tl drawing on a width x height screen.
func New(tl *timeline.Timeline, width, height float64) *Player {
	return &Player{
		tl:     tl,
		width:  width,
		height: height,
		queue:  &timeline.ErrorQueue{},
		rec:    canvas.NewRecorder(),
	}
}

// Timeline returns the driven timeline. Callers must not evaluate it while
// the player is in use.
func (p *Player) Timeline() *timeline.Timeline { return p.tl }

// Size returns the screen size.
func (p *Player) Size() (w, h float64) { return p.width, p.height }

// Frame evaluates the timeline at secs and returns the ops drawn. The
// playhead, auto-run state and error queue of live playback are left as
// they were. The first item failure is returned along with the ops drawn
// before it.
func (p *Player) Frame(ctx context.Context, secs float64) ([]canvas.Op, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	playhead, running := p.tl.Playhead, p.tl.Running
	defer func() { p.tl.Playhead, p.tl.Running = playhead, running }()

	p.tl.Running = false
	p.tl.SeekSeconds(secs)
	p.rec.Reset()
	for _, ev := range p.tl.TickContext(ctx, p.width, p.height, p.rec, &timeline.ErrorQueue{}) {
		if ev.Err != nil {
			return p.rec.Ops(), ev.Err
		}
	}
	return p.rec.Ops(), nil
}

// Step evaluates the current frame of live playback, advancing the playhead
// when the timeline is running. Failures go to the player's error queue.
func (p *Player) Step(ctx context.Context) ([]canvas.Op, []timeline.Evaluated) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rec.Reset()
	evaluated := p.tl.TickContext(ctx, p.width, p.height, p.rec, p.queue)
	return p.rec.Ops(), evaluated
}

// Queue returns the error queue of live playback.
func (p *Player) Queue() *timeline.ErrorQueue { return p.queue }

// Dismiss removes the oldest error message and resumes auto-run once the
// queue is empty. It reports whether the timeline is running afterwards.
func (p *Player) Dismiss() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue.Dismiss(0)
	if p.queue.HasErrors() {
		return false
	}
	return p.tl.Resume(p.queue)
}
