// Package anim schedules per-frame tweens of position and orientation.
//
// A Driver owns every live task and is advanced once per rendered frame with
// the current game time. Each task captures its target's animation
// generation when created; once the target's generation moves on, the task
// stops writing and its completion callback never fires. Together with
// Handle.Cancel this lets an entity hold at most one effective animation.
package anim

import (
	"math"
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/geom"
)

// Target is anything a task can move.
type Target interface {
	Position() r3.Vec
	SetPosition(r3.Vec)
	Orientation() quat.Number
	SetOrientation(quat.Number)
	// Generation is bumped by the owner whenever it replaces its animation.
	Generation() uint64
}

// Kind identifies what a task writes.
type Kind uint8

const (
	KindPosition Kind = iota
	KindOrientation
	KindOscillate
)

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindOrientation:
		return "orientation"
	case KindOscillate:
		return "oscillate"
	}
	return "unknown"
}

// Wave shapes an oscillation: a vertical bob plus a yaw wobble about up.
type Wave struct {
	Amplitude float64 // World units
	Tilt      float64 // Radians
	Period    time.Duration
}

// Ease is the S-curve t²(3−2t) on t clamped to [0,1].
func Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// task is one scheduled interpolation.
type task struct {
	id     uint64
	kind   Kind
	target Target
	gen    uint64

	fromPos, toPos r3.Vec
	fromRot, toRot quat.Number
	wave           Wave

	start    time.Duration
	delay    time.Duration
	duration time.Duration // Zero on an oscillation means unbounded

	onComplete func()
	cancelled  bool
}

// advance writes the task's value for now and reports whether it finished.
func (t *task) advance(now time.Duration) bool {
	raw := now - t.start - t.delay
	elapsed := raw
	if elapsed < 0 {
		elapsed = 0
	}

	switch t.kind {
	case KindPosition:
		t.target.SetPosition(geom.Lerp(t.fromPos, t.toPos, Ease(fraction(elapsed, t.duration))))
	case KindOrientation:
		t.target.SetOrientation(geom.Normalize(geom.Slerp(t.fromRot, t.toRot, Ease(fraction(elapsed, t.duration)))))
	case KindOscillate:
		if t.duration > 0 && raw >= t.duration {
			// Bounded oscillations end exactly on their base pose
			t.target.SetPosition(t.fromPos)
			t.target.SetOrientation(t.fromRot)
			return true
		}
		pos, rot := t.wave.at(t.fromPos, t.fromRot, elapsed)
		t.target.SetPosition(pos)
		t.target.SetOrientation(rot)
		return false
	}

	return raw >= t.duration
}

// at evaluates the wave around a base pose.
func (w Wave) at(basePos r3.Vec, baseRot quat.Number, elapsed time.Duration) (r3.Vec, quat.Number) {
	if w.Period <= 0 {
		return basePos, baseRot
	}
	s := math.Sin(2 * math.Pi * float64(elapsed) / float64(w.Period))
	pos := r3.Add(basePos, r3.Scale(w.Amplitude*s, geom.Up))
	rot := geom.Compose(baseRot, geom.FromAxisAngle(geom.Up, w.Tilt*s))
	return pos, rot
}

func fraction(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	f := float64(elapsed) / float64(duration)
	if f > 1 {
		return 1
	}
	return f
}
