// Package physics defines the rigid-body contract the dice consume and a
// small reference engine that satisfies it for headless runs and tests.
package physics

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a simulated rigid body. Mass 0 means static: the engine never
// integrates it.
type Body interface {
	Position() r3.Vec
	SetPosition(r3.Vec)
	Orientation() quat.Number
	SetOrientation(quat.Number)
	Velocity() r3.Vec
	SetVelocity(r3.Vec)
	AngularVelocity() r3.Vec
	SetAngularVelocity(r3.Vec)
	Mass() float64
	SetMass(float64)
	Sleeping() bool
	Sleep()
	WakeUp()
}

// BodyDef describes a body to create.
type BodyDef struct {
	Radius      float64 // Bounding radius used for contacts
	Mass        float64
	Position    r3.Vec
	Orientation quat.Number
}

// Engine advances the simulation and owns its bodies.
type Engine interface {
	AddBody(def BodyDef) Body
	Step(dt float64)
}
