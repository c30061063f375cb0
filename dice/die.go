package dice

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/anim"
	"github.com/pthm-cable/d20/components"
	"github.com/pthm-cable/d20/config"
	"github.com/pthm-cable/d20/hull"
	"github.com/pthm-cable/d20/physics"
)

// DefaultMotionThreshold is the speed below which a die counts as settled.
const DefaultMotionThreshold = 0.1

// Die pairs one rigid body with one renderable entity. The body is the
// authority for pose; every setter writes the body first and then mirrors it
// into the entity, so the two never drift apart.
type Die struct {
	id     int
	body   physics.Body
	entity ecs.Entity
	scene  *Scene
	hull   *hull.Hull

	generation uint64
	current    anim.Handle

	// Face value captured by Settle, 0 while in flight
	rolled int
}

// New creates a die over body and spawns its entity in scene.
func New(id int, body physics.Body, scene *Scene, h *hull.Hull, radius float64) *Die {
	d := &Die{
		id:    id,
		body:  body,
		scene: scene,
		hull:  h,
	}
	d.entity = scene.spawn(
		&components.Transform{},
		&components.Shading{},
		&components.Die{ID: id, Radius: radius},
	)
	d.Sync()
	return d
}

// ID returns the die's spawn index.
func (d *Die) ID() int { return d.id }

// Entity returns the die's renderable entity.
func (d *Die) Entity() ecs.Entity { return d.entity }

// Generation counts animation replacements.
func (d *Die) Generation() uint64 { return d.generation }

// Position returns the body position.
func (d *Die) Position() r3.Vec { return d.body.Position() }

// Orientation returns the body orientation.
func (d *Die) Orientation() quat.Number { return d.body.Orientation() }

// Velocity returns the body's linear velocity.
func (d *Die) Velocity() r3.Vec { return d.body.Velocity() }

// AngularVelocity returns the body's angular velocity.
func (d *Die) AngularVelocity() r3.Vec { return d.body.AngularVelocity() }

// SetPosition moves the body and mirrors it to the entity.
func (d *Die) SetPosition(p r3.Vec) {
	d.body.SetPosition(p)
	t, _, _ := d.scene.get(d.entity)
	t.Position = d.body.Position()
}

// SetOrientation turns the body and mirrors it to the entity.
func (d *Die) SetOrientation(q quat.Number) {
	d.body.SetOrientation(q)
	t, sh, _ := d.scene.get(d.entity)
	t.Orientation = d.body.Orientation()
	d.shade(t, sh)
}

// SetVelocity sets linear velocity on the body only.
func (d *Die) SetVelocity(v r3.Vec) {
	d.body.SetVelocity(v)
}

// Sync copies the body pose into the entity and recomputes face normals.
// Call it after every physics step.
func (d *Die) Sync() {
	t, sh, _ := d.scene.get(d.entity)
	t.Position = d.body.Position()
	t.Orientation = d.body.Orientation()
	d.shade(t, sh)
}

func (d *Die) shade(t *components.Transform, sh *components.Shading) {
	for i := range sh.Normals {
		sh.Normals[i] = d.hull.WorldNormal(t.Orientation, i)
	}
}

// IsMoving reports whether linear or angular speed exceeds threshold.
func (d *Die) IsMoving(threshold float64) bool {
	return r3.Norm(d.body.Velocity()) > threshold || r3.Norm(d.body.AngularVelocity()) > threshold
}

// Freeze makes the body static and asleep so physics no longer moves it.
func (d *Die) Freeze() {
	d.body.SetVelocity(r3.Vec{})
	d.body.SetAngularVelocity(r3.Vec{})
	d.body.SetMass(0)
	d.body.Sleep()
}

// Thaw returns the body to the simulation.
func (d *Die) Thaw() {
	d.body.SetMass(1)
	d.body.WakeUp()
}

// IsFrozen reports whether the body is asleep.
func (d *Die) IsFrozen() bool {
	return d.body.Sleeping()
}

// SetSelected flags the entity for highlight rendering.
func (d *Die) SetSelected(selected bool) {
	_, _, c := d.scene.get(d.entity)
	c.Selected = selected
}

// Settle records the face value currently up as the die's rolled value.
// It holds until the next Throw, however the die is turned in between.
func (d *Die) Settle() {
	d.rolled = d.FaceUp()
}

// IsSettled reports whether a rolled value has been captured.
func (d *Die) IsSettled() bool {
	return d.rolled != 0
}

// Value is the rolled value once settled, otherwise the face currently up.
func (d *Die) Value() int {
	if d.rolled != 0 {
		return d.rolled
	}
	return d.FaceUp()
}

// FaceUp reads the face value currently up from the body orientation.
func (d *Die) FaceUp() int {
	return d.hull.ValueUp(d.body.Orientation())
}

// Animate replaces the die's animation. The previous handle is cancelled and
// the generation bumped before factory runs, so anything still scheduled
// against the old generation becomes inert.
func (d *Die) Animate(factory func(*Die) anim.Handle) {
	d.stopAnimation()
	d.current = factory(d)
}

// Animating reports whether the die's animation is still playing.
func (d *Die) Animating() bool {
	return d.current.Active()
}

func (d *Die) stopAnimation() {
	d.current.Cancel()
	d.current = anim.Handle{}
	d.generation++
}

// Throw cancels any animation, clears the rolled value, wakes the die, and
// launches it toward the tray center. The direction is the unit vector toward the origin blended
// with a random jitter; the speed is drawn from [MinSpeed, MaxSpeed).
func (d *Die) Throw(rng *rand.Rand, p config.ThrowConfig) {
	d.stopAnimation()
	d.rolled = 0
	d.Thaw()

	var toCenter r3.Vec
	if pos := d.body.Position(); r3.Norm(pos) > 0 {
		toCenter = r3.Unit(r3.Scale(-1, pos))
	}
	jitter := r3.Vec{
		X: rng.Float64()*2 - 1,
		Y: rng.Float64()*2 - 1,
		Z: rng.Float64()*2 - 1,
	}

	dir := r3.Add(toCenter, r3.Scale(p.Jitter, jitter))
	if r3.Norm(dir) == 0 {
		dir = r3.Vec{Y: -1}
	}
	dir = r3.Unit(dir)

	speed := p.MinSpeed + rng.Float64()*(p.MaxSpeed-p.MinSpeed)
	d.body.SetVelocity(r3.Scale(speed, dir))

	spinAxis := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
	if r3.Norm(spinAxis) > 0 {
		d.body.SetAngularVelocity(r3.Scale(p.Spin*rng.Float64(), r3.Unit(spinAxis)))
	}
}

// Speed is the larger of linear and angular speed, for logging.
func (d *Die) Speed() float64 {
	return math.Max(r3.Norm(d.body.Velocity()), r3.Norm(d.body.AngularVelocity()))
}
