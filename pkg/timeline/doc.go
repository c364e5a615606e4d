// Package timeline schedules graph instances along a playhead.
//
// Each [Item] owns an [engine.Context] and occupies [X, X+Length) on the
// timeline. On every tick the items under the playhead are evaluated with
// their local progress and a random generator freshly seeded for that tick,
// so scrubbing back to a position redraws exactly what was drawn before.
//
// A failing item pauses the timeline and pushes its error to an
// [ErrorQueue]. Until every message is dismissed no item is evaluated and
// the playhead stays put.
package timeline
