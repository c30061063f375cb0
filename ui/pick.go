package ui

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/camera"
)

// Positioned is anything with a world position that can be picked.
type Positioned interface {
	Position() r3.Vec
}

// Pick returns the item whose bounding sphere the ray through screen pixel
// (sx, sy) hits first. ok is false when nothing is under the cursor.
func Pick[T Positioned](cam *camera.Camera, items []T, radius, sx, sy float64) (hit T, ok bool) {
	origin, dir := cam.Ray(sx, sy)
	best := 0.0
	for _, it := range items {
		d, hitIt := camera.RaySphere(origin, dir, it.Position(), radius)
		if !hitIt {
			continue
		}
		if !ok || d < best {
			hit, best, ok = it, d, true
		}
	}
	return hit, ok
}
