package anim

import (
	"sort"
	"time"
)

type timer struct {
	due time.Duration
	fn  func()
}

// Timers fires one-shot callbacks on the game clock.
type Timers struct {
	now     time.Duration
	pending []timer
}

// NewTimers creates an empty timer set at time zero.
func NewTimers() *Timers {
	return &Timers{}
}

// After schedules fn to run once delay has passed since the last Advance.
func (t *Timers) After(delay time.Duration, fn func()) {
	t.pending = append(t.pending, timer{due: t.now + delay, fn: fn})
}

// Pending returns the number of callbacks not yet fired.
func (t *Timers) Pending() int { return len(t.pending) }

// Advance moves the clock to now and fires every callback that is due,
// earliest first. Callbacks scheduled while firing wait for the next Advance.
func (t *Timers) Advance(now time.Duration) {
	t.now = now

	var due []timer
	keep := t.pending[:0]
	for _, tm := range t.pending {
		if tm.due <= now {
			due = append(due, tm)
		} else {
			keep = append(keep, tm)
		}
	}
	t.pending = keep

	sort.SliceStable(due, func(i, j int) bool { return due[i].due < due[j].due })
	for _, tm := range due {
		tm.fn()
	}
}
