package game

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/anim"
	"github.com/pthm-cable/d20/dice"
	"github.com/pthm-cable/d20/layout"
)

// moveRow tweens ds into the slots of row, in order. Each die also turns to
// the legible orientation for the value it already shows. Die i starts after
// stagger×i. Stored dice settle into the idle oscillation on arrival.
func (g *Game) moveRow(ds []*dice.Die, row layout.Row, stagger time.Duration) {
	if len(ds) == 0 {
		return
	}

	current := make([]r3.Vec, len(ds))
	for i, d := range ds {
		current[i] = d.Position()
		if h, ok := g.home[d]; ok {
			current[i] = h.position
		}
	}
	slots := g.layout.Positions(row, current)
	duration := g.cfg.Timing.MoveDuration

	for i, d := range ds {
		target := pose{
			position:    slots[i],
			orientation: g.hull.OrientationFor(d.Value()),
		}
		if h, ok := g.home[d]; ok && h == target && row != layout.RowScore {
			// Already in place; leave its current animation alone
			continue
		}
		g.home[d] = target

		var onArrive func()
		if row == layout.RowStored || row == layout.RowScore {
			onArrive = func() { g.idle(d) }
		}
		delay := stagger * time.Duration(i)
		d.Animate(func(d *dice.Die) anim.Handle {
			return anim.Join(
				g.driver.Position(d, target.position, duration, delay, onArrive),
				g.driver.Orientation(d, target.orientation, duration, delay),
			)
		})
	}
}

// idle starts the perpetual resting wobble around the die's slot.
func (g *Game) idle(d *dice.Die) {
	o := g.cfg.Oscillate
	g.oscillate(d, anim.Wave{Amplitude: o.IdleAmplitude, Tilt: o.IdleTilt, Period: o.IdlePeriod}, 0, nil)
}

// shake plays the bounded acknowledge wobble, then returns to idle.
func (g *Game) shake(d *dice.Die) {
	o := g.cfg.Oscillate
	wave := anim.Wave{Amplitude: o.ShakeAmplitude, Tilt: o.ShakeTilt, Period: o.ShakePeriod}
	g.oscillate(d, wave, g.cfg.Timing.ShakeDuration, func() { g.idle(d) })
}

// oscillate snaps d onto its slot so every wobble shares the same base.
func (g *Game) oscillate(d *dice.Die, wave anim.Wave, duration time.Duration, onComplete func()) {
	d.Animate(func(d *dice.Die) anim.Handle {
		if h, ok := g.home[d]; ok {
			d.SetPosition(h.position)
			d.SetOrientation(h.orientation)
		}
		return g.driver.Oscillate(d, wave, duration, onComplete)
	})
}
