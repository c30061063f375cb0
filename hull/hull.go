// Package hull holds the fixed convex-hull topology of the 20-sided die and
// the two pure geometry functions built on it: resolving which face value is
// up for an orientation, and synthesizing the orientation that presents a
// chosen value upright and legible.
package hull

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NumFaces is the number of faces on the die.
const NumFaces = 20

// CalibrationVersion identifies the FaceValues/SpinAngles pair. Changing the
// hull tessellation requires regenerating both tables and bumping this.
const CalibrationVersion = 1

// Face is a triangle given by three indices into the hull's vertex set,
// wound counter-clockwise when seen from outside.
type Face [3]int

// Hull is an immutable convex polyhedron with a value assigned to each face.
type Hull struct {
	vertices  []r3.Vec
	faces     []Face
	values    []int           // internal face index -> canonical value
	index     map[int]int     // canonical value -> internal face index
	spin      map[int]float64 // canonical value -> spin about up (radians)
	normals   []r3.Vec        // body-local unit normals
	tangents  []r3.Vec        // body-local numeral "up" directions
	centroids []r3.Vec
}

// New builds a hull from raw topology and calibration tables.
// It validates that values form a permutation of 1..len(faces).
func New(vertices []r3.Vec, faces []Face, values []int, spin map[int]float64) (*Hull, error) {
	if len(values) != len(faces) {
		return nil, fmt.Errorf("hull: %d faces but %d values", len(faces), len(values))
	}

	h := &Hull{
		vertices:  vertices,
		faces:     faces,
		values:    values,
		index:     make(map[int]int, len(faces)),
		spin:      spin,
		normals:   make([]r3.Vec, len(faces)),
		tangents:  make([]r3.Vec, len(faces)),
		centroids: make([]r3.Vec, len(faces)),
	}

	for i, f := range faces {
		for _, vi := range f {
			if vi < 0 || vi >= len(vertices) {
				return nil, fmt.Errorf("hull: face %d references vertex %d of %d", i, vi, len(vertices))
			}
		}

		v := values[i]
		if v < 1 || v > len(faces) {
			return nil, fmt.Errorf("hull: face %d has value %d outside 1..%d", i, v, len(faces))
		}
		if prev, dup := h.index[v]; dup {
			return nil, fmt.Errorf("hull: value %d assigned to faces %d and %d", v, prev, i)
		}
		h.index[v] = i

		a, b, c := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		if r3.Norm(n) == 0 {
			return nil, fmt.Errorf("hull: face %d is degenerate", i)
		}
		h.normals[i] = r3.Unit(n)
		h.centroids[i] = r3.Scale(1.0/3.0, r3.Add(r3.Add(a, b), c))
		h.tangents[i] = r3.Unit(r3.Sub(a, h.centroids[i]))
	}

	return h, nil
}

// NumFaces returns the number of faces.
func (h *Hull) NumFaces() int { return len(h.faces) }

// Faces returns the face list in internal order.
func (h *Hull) Faces() []Face { return h.faces }

// Vertices returns the vertex set.
func (h *Hull) Vertices() []r3.Vec { return h.vertices }

// Value maps an internal face index to its canonical value.
// An index outside the hull is an invariant violation and panics.
func (h *Hull) Value(face int) int {
	if face < 0 || face >= len(h.values) {
		panic(fmt.Sprintf("hull: internal face index %d outside 0..%d", face, len(h.values)-1))
	}
	return h.values[face]
}

// FaceOf maps a canonical value back to its internal face index.
func (h *Hull) FaceOf(value int) (int, bool) {
	i, ok := h.index[value]
	return i, ok
}

// LocalNormal returns the body-local unit normal of a face.
func (h *Hull) LocalNormal(face int) r3.Vec { return h.normals[face] }

// LocalTangent returns the body-local direction the numeral's top points to.
func (h *Hull) LocalTangent(face int) r3.Vec { return h.tangents[face] }

// Centroid returns the body-local centroid of a face.
func (h *Hull) Centroid(face int) r3.Vec { return h.centroids[face] }

// Spin returns the calibrated spin angle for a value, zero if uncalibrated.
func (h *Hull) Spin(value int) float64 { return h.spin[value] }

// D20 is the shared die hull.
var D20 = mustD20()

func mustD20() *Hull {
	h, err := New(icosahedronVertices(), icosahedronFaces, FaceValues, SpinAngles)
	if err != nil {
		panic(err)
	}
	return h
}

// icosahedronVertices returns the 12 unit-sphere vertices in engine
// construction order.
func icosahedronVertices() []r3.Vec {
	t := (1 + math.Sqrt(5)) / 2
	raw := []r3.Vec{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	out := make([]r3.Vec, len(raw))
	for i, v := range raw {
		out[i] = r3.Unit(v)
	}
	return out
}

var icosahedronFaces = []Face{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}
