package hull

import (
	"fmt"

	"gonum.org/v1/gonum/num/quat"

	"github.com/pthm-cable/d20/geom"
)

// AlignUp returns the shortest-arc rotation that turns the face carrying
// value onto world up, without the legibility spin.
func (h *Hull) AlignUp(value int) quat.Number {
	face, ok := h.index[value]
	if !ok {
		panic(fmt.Sprintf("hull: no face carries value %d", value))
	}
	return geom.ShortestArc(h.normals[face], geom.Up)
}

// OrientationFor returns the orientation that presents value on top with its
// numeral upright for the viewer. The face is aligned to up first, then the
// die is turned about up by the calibrated spin, so the spin never moves the
// face off the top.
func (h *Hull) OrientationFor(value int) quat.Number {
	align := h.AlignUp(value)
	spin := geom.FromAxisAngle(geom.Up, h.spin[value])
	return geom.Normalize(geom.Compose(align, spin))
}
