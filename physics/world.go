package physics

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/config"
	"github.com/pthm-cable/d20/geom"
)

// Params holds reference engine tuning.
type Params struct {
	Gravity        float64
	LinearDamping  float64 // Fraction of velocity lost per second
	AngularDamping float64
	Restitution    float64
	Friction       float64 // Tangential velocity kept per floor contact step
	SleepSpeed     float64
	SleepTime      float64 // Seconds

	Bounds Bounds
}

// Bounds is the box bodies are kept inside. Top is open.
type Bounds struct {
	Left, Right float64 // X
	Far, Near   float64 // Z
	Floor       float64 // Y
}

// ParamsFromConfig maps the loaded config onto engine params.
func ParamsFromConfig(cfg *config.Config) Params {
	p := cfg.Physics
	a := cfg.Arena
	return Params{
		Gravity:        p.Gravity,
		LinearDamping:  p.LinearDamping,
		AngularDamping: p.AngularDamping,
		Restitution:    p.Restitution,
		Friction:       p.Friction,
		SleepSpeed:     p.SleepSpeed,
		SleepTime:      p.SleepTime,
		Bounds: Bounds{
			Left: a.Left, Right: a.Right,
			Far: a.Far, Near: a.Near,
			Floor: a.Floor,
		},
	}
}

// World is a minimal damped integrator: gravity, floor and wall contacts
// against each body's bounding sphere, and sleeping. Bodies do not collide
// with each other.
type World struct {
	params Params
	bodies []*RigidBody
}

// NewWorld creates an empty world.
func NewWorld(params Params) *World {
	return &World{params: params}
}

// AddBody creates and registers a body.
func (w *World) AddBody(def BodyDef) Body {
	q := def.Orientation
	if q == (quat.Number{}) {
		q = geom.Identity
	}
	b := &RigidBody{
		radius:      def.Radius,
		mass:        def.Mass,
		position:    def.Position,
		orientation: geom.Normalize(q),
	}
	w.bodies = append(w.bodies, b)
	return b
}

// Bodies returns the registered bodies.
func (w *World) Bodies() []*RigidBody { return w.bodies }

// Step advances every dynamic, awake body by dt seconds.
func (w *World) Step(dt float64) {
	p := &w.params
	linKeep := math.Pow(1-clamp01(p.LinearDamping), dt)
	angKeep := math.Pow(1-clamp01(p.AngularDamping), dt)

	for _, b := range w.bodies {
		if b.mass == 0 || b.sleeping {
			continue
		}

		b.velocity.Y -= p.Gravity * dt
		b.velocity = r3.Scale(linKeep, b.velocity)
		b.angular = r3.Scale(angKeep, b.angular)

		b.position = r3.Add(b.position, r3.Scale(dt, b.velocity))
		b.orientation = geom.IntegrateAngular(b.orientation, b.angular, dt)

		w.resolveContacts(b, dt)
		w.updateSleep(b, dt)
	}
}

// resolveContacts keeps the body inside the bounds.
func (w *World) resolveContacts(b *RigidBody, dt float64) {
	p := &w.params
	r := b.radius

	// Floor: bounce, then kill the small rebound gravity reintroduces each step
	if floor := p.Bounds.Floor + r; b.position.Y < floor {
		b.position.Y = floor
		if b.velocity.Y < 0 {
			b.velocity.Y = -b.velocity.Y * p.Restitution
			if b.velocity.Y < 2*p.Gravity*dt {
				b.velocity.Y = 0
			}
		}
		b.velocity.X *= p.Friction
		b.velocity.Z *= p.Friction
		b.angular = r3.Scale(p.Friction, b.angular)
	}

	// Walls (X)
	if minX := p.Bounds.Left + r; b.position.X < minX {
		b.position.X = minX
		b.velocity.X = math.Abs(b.velocity.X) * p.Restitution
	} else if maxX := p.Bounds.Right - r; b.position.X > maxX {
		b.position.X = maxX
		b.velocity.X = -math.Abs(b.velocity.X) * p.Restitution
	}

	// Walls (Z)
	if minZ := p.Bounds.Far + r; b.position.Z < minZ {
		b.position.Z = minZ
		b.velocity.Z = math.Abs(b.velocity.Z) * p.Restitution
	} else if maxZ := p.Bounds.Near - r; b.position.Z > maxZ {
		b.position.Z = maxZ
		b.velocity.Z = -math.Abs(b.velocity.Z) * p.Restitution
	}
}

// updateSleep puts a body to sleep once it has stayed slow for SleepTime.
func (w *World) updateSleep(b *RigidBody, dt float64) {
	p := &w.params
	if r3.Norm(b.velocity) < p.SleepSpeed && r3.Norm(b.angular) < p.SleepSpeed {
		b.slowFor += dt
		if b.slowFor >= p.SleepTime {
			b.Sleep()
		}
		return
	}
	b.slowFor = 0
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// RigidBody is the reference engine's Body.
type RigidBody struct {
	radius      float64
	mass        float64
	position    r3.Vec
	orientation quat.Number
	velocity    r3.Vec
	angular     r3.Vec
	sleeping    bool
	slowFor     float64
}

func (b *RigidBody) Position() r3.Vec { return b.position }
func (b *RigidBody) SetPosition(p r3.Vec) { b.position = p }
func (b *RigidBody) Orientation() quat.Number { return b.orientation }
func (b *RigidBody) SetOrientation(q quat.Number) { b.orientation = geom.Normalize(q) }
func (b *RigidBody) Velocity() r3.Vec { return b.velocity }
func (b *RigidBody) SetVelocity(v r3.Vec) { b.velocity = v }
func (b *RigidBody) AngularVelocity() r3.Vec { return b.angular }
func (b *RigidBody) SetAngularVelocity(w r3.Vec) { b.angular = w }
func (b *RigidBody) Mass() float64 { return b.mass }
func (b *RigidBody) SetMass(m float64) { b.mass = m }
func (b *RigidBody) Sleeping() bool { return b.sleeping }
func (b *RigidBody) Radius() float64 { return b.radius }

// Sleep stops the body and excludes it from integration.
func (b *RigidBody) Sleep() {
	b.sleeping = true
	b.velocity = r3.Vec{}
	b.angular = r3.Vec{}
	b.slowFor = 0
}

// WakeUp returns the body to integration.
func (b *RigidBody) WakeUp() {
	b.sleeping = false
	b.slowFor = 0
}
