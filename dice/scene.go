// Package dice binds each physics body to a renderable ECS entity and layers
// the die behaviours on top: settle detection, freezing, throwing, and a
// single owned animation per die.
package dice

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/d20/components"
)

// Scene is the ECS world holding every die's renderable state.
type Scene struct {
	world *ecs.World

	dieMapper *ecs.Map3[
		components.Transform,
		components.Shading,
		components.Die,
	]
	dieFilter *ecs.Filter3[
		components.Transform,
		components.Shading,
		components.Die,
	]
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world: world,
		dieMapper: ecs.NewMap3[
			components.Transform,
			components.Shading,
			components.Die,
		](world),
		dieFilter: ecs.NewFilter3[
			components.Transform,
			components.Shading,
			components.Die,
		](world),
	}
}

func (s *Scene) spawn(t *components.Transform, sh *components.Shading, d *components.Die) ecs.Entity {
	return s.dieMapper.NewEntity(t, sh, d)
}

func (s *Scene) get(e ecs.Entity) (*components.Transform, *components.Shading, *components.Die) {
	return s.dieMapper.Get(e)
}

// Each visits every die entity. The pointers are only valid during the call.
func (s *Scene) Each(fn func(e ecs.Entity, t *components.Transform, sh *components.Shading, d *components.Die)) {
	query := s.dieFilter.Query()
	for query.Next() {
		t, sh, d := query.Get()
		fn(query.Entity(), t, sh, d)
	}
}
