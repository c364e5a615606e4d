package timeline

import "slices"

// PauseMessage is prepended to the queue by the first error of a session.
const PauseMessage = "Error during evaluation. Pausing preview. Close all error messages to resume"

// ErrorQueue collects evaluation failures until the user dismisses them.
// A nil queue accepts and discards messages.
type ErrorQueue struct {
	msgs []string
}

// Push appends msg, preceded by [PauseMessage] when the queue was empty.
func (q *ErrorQueue) Push(msg string) {
	if q == nil {
		return
	}
	if len(q.msgs) == 0 {
		q.msgs = append(q.msgs, PauseMessage)
	}
	q.msgs = append(q.msgs, msg)
}

// Dismiss removes message i and reports whether it existed.
func (q *ErrorQueue) Dismiss(i int) bool {
	if q == nil || i < 0 || i >= len(q.msgs) {
		return false
	}
	q.msgs = slices.Delete(q.msgs, i, i+1)
	return true
}

// Clear dismisses every message.
func (q *ErrorQueue) Clear() {
	if q != nil {
		q.msgs = nil
	}
}

// HasErrors reports whether any message is pending.
func (q *ErrorQueue) HasErrors() bool { return q != nil && len(q.msgs) > 0 }

// Len returns the number of pending messages.
func (q *ErrorQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.msgs)
}

// Messages returns a copy of the pending messages, oldest first.
func (q *ErrorQueue) Messages() []string {
	if q == nil {
		return nil
	}
	return slices.Clone(q.msgs)
}
