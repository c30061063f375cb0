package dice

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/anim"
	"github.com/pthm-cable/d20/components"
	"github.com/pthm-cable/d20/config"
	"github.com/pthm-cable/d20/geom"
	"github.com/pthm-cable/d20/hull"
	"github.com/pthm-cable/d20/physics"
)

func newTestDie(t *testing.T, pos r3.Vec) (*Die, *physics.World, *Scene) {
	t.Helper()
	cfg := config.Default()
	w := physics.NewWorld(physics.ParamsFromConfig(cfg))
	scene := NewScene()
	body := w.AddBody(physics.BodyDef{Radius: cfg.Dice.Radius, Mass: 1, Position: pos})
	return New(0, body, scene, hull.D20, cfg.Dice.Radius), w, scene
}

func transformOf(s *Scene, d *Die) components.Transform {
	tr, _, _ := s.get(d.Entity())
	return *tr
}

func TestSettersMirrorBodyIntoEntity(t *testing.T) {
	d, _, s := newTestDie(t, r3.Vec{Y: 3})

	d.SetPosition(r3.Vec{X: 1, Y: 2, Z: 3})
	q := hull.D20.OrientationFor(17)
	d.SetOrientation(q)

	tr := transformOf(s, d)
	if tr.Position != d.Position() {
		t.Errorf("entity position %v, body %v", tr.Position, d.Position())
	}
	if tr.Orientation != d.Orientation() {
		t.Errorf("entity orientation %v, body %v", tr.Orientation, d.Orientation())
	}
	if d.Value() != 17 {
		t.Errorf("value %d, want 17", d.Value())
	}
}

func TestSyncAfterStep(t *testing.T) {
	d, w, s := newTestDie(t, r3.Vec{Y: 5})
	d.SetVelocity(r3.Vec{X: 3})

	w.Step(1.0 / 60.0)
	d.Sync()

	tr := transformOf(s, d)
	if tr.Position != d.Position() {
		t.Errorf("entity position %v, body %v after sync", tr.Position, d.Position())
	}
	_, sh, _ := s.get(d.Entity())
	for i, n := range sh.Normals {
		if r3.Norm(r3.Sub(n, hull.D20.WorldNormal(d.Orientation(), i))) > 1e-12 {
			t.Fatalf("face %d normal not recomputed", i)
		}
	}
}

func TestIsMoving(t *testing.T) {
	d, _, _ := newTestDie(t, r3.Vec{Y: 1})
	tests := []struct {
		name   string
		linear r3.Vec
		want   bool
	}{
		{"still", r3.Vec{}, false},
		{"below threshold", r3.Vec{X: 0.05}, false},
		{"at threshold", r3.Vec{X: DefaultMotionThreshold}, false},
		{"above threshold", r3.Vec{Z: 0.2}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d.SetVelocity(tc.linear)
			if got := d.IsMoving(DefaultMotionThreshold); got != tc.want {
				t.Errorf("IsMoving = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFreezeAndThaw(t *testing.T) {
	d, w, _ := newTestDie(t, r3.Vec{Y: 5})
	d.Freeze()
	if !d.IsFrozen() || d.IsMoving(DefaultMotionThreshold) {
		t.Fatal("frozen die should be asleep and still")
	}

	w.Step(1.0 / 60.0)
	if d.Position().Y != 5 {
		t.Errorf("frozen die moved to y=%f", d.Position().Y)
	}

	d.Thaw()
	if d.IsFrozen() {
		t.Fatal("thawed die still frozen")
	}
	w.Step(1.0 / 60.0)
	if d.Position().Y >= 5 {
		t.Errorf("thawed die should fall, y=%f", d.Position().Y)
	}
}

func TestThrowAimsAtCenter(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(3))
	p := cfg.Throw
	p.Jitter = 0

	d, _, _ := newTestDie(t, r3.Vec{X: 8, Y: 4})
	d.Freeze()
	d.Throw(rng, p)

	if d.IsFrozen() {
		t.Error("throw should thaw the die")
	}
	v := d.Velocity()
	speed := r3.Norm(v)
	if speed < p.MinSpeed || speed >= p.MaxSpeed {
		t.Errorf("speed %f outside [%f, %f)", speed, p.MinSpeed, p.MaxSpeed)
	}
	want := r3.Unit(r3.Vec{X: -8, Y: -4})
	if r3.Norm(r3.Sub(r3.Unit(v), want)) > 1e-9 {
		t.Errorf("direction %v, want %v", r3.Unit(v), want)
	}
	if w := r3.Norm(d.AngularVelocity()); w > p.Spin {
		t.Errorf("spin %f exceeds %f", w, p.Spin)
	}
}

func TestThrowFromOriginUsesJitter(t *testing.T) {
	cfg := config.Default()
	d, _, _ := newTestDie(t, r3.Vec{})
	d.Throw(rand.New(rand.NewSource(1)), cfg.Throw)
	if n := r3.Norm(d.Velocity()); math.IsNaN(n) || n < cfg.Throw.MinSpeed {
		t.Errorf("throw from origin produced velocity %v", d.Velocity())
	}
}

func TestAnimateKeepsOneActive(t *testing.T) {
	d, _, _ := newTestDie(t, r3.Vec{Y: 1})
	drv := anim.NewDriver()

	var first, second anim.Handle
	d.Animate(func(d *Die) anim.Handle {
		first = drv.Position(d, r3.Vec{X: -5, Y: 1}, 100*time.Millisecond, 0, nil)
		return first
	})
	d.Animate(func(d *Die) anim.Handle {
		second = drv.Position(d, r3.Vec{X: 5, Y: 1}, 100*time.Millisecond, 0, nil)
		return second
	})

	if first.Active() {
		t.Error("first animation still scheduled after being replaced")
	}
	if !second.Active() || drv.Active() != 1 {
		t.Errorf("expected exactly one active task, got %d", drv.Active())
	}
	if !d.Animating() {
		t.Error("expected die to report an animation in flight")
	}

	drv.Tick(100 * time.Millisecond)
	if d.Position().X != 5 {
		t.Errorf("die ended at x=%f, want 5", d.Position().X)
	}
	if d.Animating() {
		t.Error("expected animation to be finished")
	}
}

func TestThrowCancelsAnimation(t *testing.T) {
	cfg := config.Default()
	d, _, _ := newTestDie(t, r3.Vec{Y: 1})
	drv := anim.NewDriver()

	fired := false
	d.Animate(func(d *Die) anim.Handle {
		return drv.Position(d, r3.Vec{X: 5, Y: 1}, 100*time.Millisecond, 0, func() { fired = true })
	})
	d.Throw(rand.New(rand.NewSource(9)), cfg.Throw)

	before := d.Position()
	drv.Tick(200 * time.Millisecond)
	if d.Position() != before || fired {
		t.Error("animation kept running after throw")
	}
}

func TestSettleHoldsRolledValue(t *testing.T) {
	cfg := config.Default()
	d, _, _ := newTestDie(t, r3.Vec{Y: 1})

	d.SetOrientation(hull.D20.OrientationFor(17))
	if d.IsSettled() {
		t.Fatal("die settled before Settle")
	}
	d.Settle()

	// Turning the die afterwards must not change what it rolled
	d.SetOrientation(hull.D20.OrientationFor(3))
	if d.Value() != 17 {
		t.Errorf("value %d after turning, want rolled 17", d.Value())
	}
	if d.FaceUp() != 3 {
		t.Errorf("face up %d, want 3", d.FaceUp())
	}

	d.Throw(rand.New(rand.NewSource(2)), cfg.Throw)
	if d.IsSettled() {
		t.Error("throw kept the rolled value")
	}
	if d.Value() != d.FaceUp() {
		t.Errorf("in flight value %d, face up %d", d.Value(), d.FaceUp())
	}
}

func TestSetSelectedAndEach(t *testing.T) {
	d, _, s := newTestDie(t, r3.Vec{Y: 1})
	d.SetSelected(true)
	d.SetOrientation(geom.Identity)

	count := 0
	s.Each(func(e ecs.Entity, _ *components.Transform, _ *components.Shading, c *components.Die) {
		count++
		if e != d.Entity() || !c.Selected {
			t.Errorf("unexpected entity state: %v selected=%v", e, c.Selected)
		}
	})
	if count != 1 {
		t.Errorf("visited %d entities, want 1", count)
	}
}
