package hull

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/geom"
)

// WorldNormal returns the world-space normal of a face for an orientation.
func (h *Hull) WorldNormal(orientation quat.Number, face int) r3.Vec {
	return geom.Rotate(orientation, h.normals[face])
}

// TopFace returns the internal index of the face whose world normal is most
// aligned with world up. Exact ties resolve to the lowest index.
func (h *Hull) TopFace(orientation quat.Number) int {
	best := -1
	bestDot := math.Inf(-1)
	for i := range h.normals {
		d := r3.Dot(h.WorldNormal(orientation, i), geom.Up)
		if d > bestDot {
			best, bestDot = i, d
		}
	}
	if best < 0 {
		// Every dot was NaN: the orientation is not a rotation
		panic(fmt.Sprintf("hull: no top face for orientation %v", orientation))
	}
	return best
}

// ValueUp resolves the canonical face value facing up.
func (h *Hull) ValueUp(orientation quat.Number) int {
	return h.Value(h.TopFace(orientation))
}
