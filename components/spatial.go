// Package components defines the ECS components that mirror each die into
// the renderable scene.
package components

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/hull"
)

// Transform is the renderable pose of an entity. For a die it must equal the
// rigid-body pose after every physics step and animation tick.
type Transform struct {
	Position    r3.Vec
	Orientation quat.Number
}

// Shading holds per-face world normals, recomputed on every sync.
type Shading struct {
	Normals [hull.NumFaces]r3.Vec
}

// Die tags a renderable entity as a die.
type Die struct {
	ID       int
	Radius   float64
	Selected bool
}
