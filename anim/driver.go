package anim

import (
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Driver owns the live tasks. It is not safe for concurrent use; the game
// loop drives it from a single goroutine.
type Driver struct {
	now    time.Duration
	nextID uint64
	tasks  []*task
	byID   map[uint64]*task
}

// NewDriver creates an empty driver at time zero.
func NewDriver() *Driver {
	return &Driver{byID: make(map[uint64]*task)}
}

// Now returns the time of the last Tick.
func (d *Driver) Now() time.Duration { return d.now }

// Active returns the number of scheduled tasks.
func (d *Driver) Active() int { return len(d.byID) }

// Position tweens the target's position from its current value to to.
// The start value is captured now, and written every tick until delay has
// passed.
func (d *Driver) Position(target Target, to r3.Vec, duration, delay time.Duration, onComplete func()) Handle {
	return d.add(&task{
		kind:       KindPosition,
		target:     target,
		fromPos:    target.Position(),
		toPos:      to,
		duration:   duration,
		delay:      delay,
		onComplete: onComplete,
	})
}

// Orientation tweens the target's orientation along the shortest arc.
func (d *Driver) Orientation(target Target, to quat.Number, duration, delay time.Duration) Handle {
	return d.add(&task{
		kind:     KindOrientation,
		target:   target,
		fromRot:  target.Orientation(),
		toRot:    to,
		duration: duration,
		delay:    delay,
	})
}

// Oscillate wobbles the target around its current pose. A zero duration runs
// until cancelled or superseded; otherwise the target is returned to its base
// pose and onComplete fires when duration elapses.
func (d *Driver) Oscillate(target Target, wave Wave, duration time.Duration, onComplete func()) Handle {
	return d.add(&task{
		kind:       KindOscillate,
		target:     target,
		fromPos:    target.Position(),
		fromRot:    target.Orientation(),
		wave:       wave,
		duration:   duration,
		onComplete: onComplete,
	})
}

func (d *Driver) add(t *task) Handle {
	d.nextID++
	t.id = d.nextID
	t.gen = t.target.Generation()
	t.start = d.now
	d.tasks = append(d.tasks, t)
	d.byID[t.id] = t
	return Handle{d: d, ids: []uint64{t.id}}
}

// Tick advances every task to now. Finished tasks are removed before their
// callbacks run, so tasks scheduled from a callback first advance on the next
// Tick.
func (d *Driver) Tick(now time.Duration) {
	d.now = now

	var done []*task
	live := d.tasks[:0]
	for _, t := range d.tasks {
		if t.cancelled {
			continue
		}
		if t.target.Generation() != t.gen {
			delete(d.byID, t.id)
			continue
		}
		if t.advance(now) {
			delete(d.byID, t.id)
			done = append(done, t)
			continue
		}
		live = append(live, t)
	}
	for i := len(live); i < len(d.tasks); i++ {
		d.tasks[i] = nil
	}
	d.tasks = live

	for _, t := range done {
		// A sibling's callback may already have superseded this target
		if t.onComplete != nil && !t.cancelled && t.target.Generation() == t.gen {
			t.onComplete()
		}
	}
}

func (d *Driver) cancel(id uint64) {
	if t, ok := d.byID[id]; ok {
		t.cancelled = true
		delete(d.byID, id)
	}
}

// Handle refers to one or more scheduled tasks. The zero Handle is valid and
// refers to nothing.
type Handle struct {
	d   *Driver
	ids []uint64
}

// Cancel stops every task in the handle. Cancelled tasks never write again
// and their callbacks never fire. Cancelling twice is a no-op.
func (h Handle) Cancel() {
	if h.d == nil {
		return
	}
	for _, id := range h.ids {
		h.d.cancel(id)
	}
}

// Active reports whether any task in the handle is still scheduled.
func (h Handle) Active() bool {
	if h.d == nil {
		return false
	}
	for _, id := range h.ids {
		if _, ok := h.d.byID[id]; ok {
			return true
		}
	}
	return false
}

// Join merges handles so they can be cancelled together.
func Join(hs ...Handle) Handle {
	var out Handle
	for _, h := range hs {
		if h.d == nil {
			continue
		}
		out.d = h.d
		out.ids = append(out.ids, h.ids...)
	}
	return out
}
