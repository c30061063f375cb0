// Package geom provides the quaternion and vector helpers shared by the
// hull, die and animation packages. Orientations are unit quaternions
// (quat.Number with Real = w); points and directions are r3.Vec.
package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the world up direction.
var Up = r3.Vec{Y: 1}

// Identity is the identity rotation.
var Identity = quat.Number{Real: 1}

// FromAxisAngle returns the rotation of angle radians about axis.
// The axis does not need to be normalized.
func FromAxisAngle(axis r3.Vec, angle float64) quat.Number {
	return quat.Number(r3.NewRotation(angle, axis))
}

// Rotate applies the rotation q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// Compose returns the rotation that applies first and then second.
func Compose(first, second quat.Number) quat.Number {
	return quat.Mul(second, first)
}

// Normalize scales q to unit length. The zero quaternion maps to Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// Dot returns the 4D dot product of a and b.
func Dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// ShortestArc returns the minimal rotation taking direction from onto
// direction to. Both inputs are normalized first. Antiparallel inputs
// yield a half turn about an axis orthogonal to from.
func ShortestArc(from, to r3.Vec) quat.Number {
	from = r3.Unit(from)
	to = r3.Unit(to)
	d := r3.Dot(from, to)
	if d < -1+1e-9 {
		axis := r3.Cross(r3.Vec{X: 1}, from)
		if r3.Norm2(axis) < 1e-12 {
			axis = r3.Cross(r3.Vec{Y: 1}, from)
		}
		axis = r3.Unit(axis)
		return quat.Number{Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
	}
	c := r3.Cross(from, to)
	return Normalize(quat.Number{Real: 1 + d, Imag: c.X, Jmag: c.Y, Kmag: c.Z})
}

// Slerp interpolates between a and b along the shorter great arc.
// t is not clamped.
func Slerp(a, b quat.Number, t float64) quat.Number {
	d := Dot(a, b)
	if d < 0 {
		b = quat.Scale(-1, b)
		d = -d
	}
	if d > 0.9995 {
		// Nearly parallel: normalized lerp avoids dividing by sin(~0)
		return Normalize(quat.Add(a, quat.Scale(t, quat.Sub(b, a))))
	}
	theta := math.Acos(d)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return quat.Add(quat.Scale(wa, a), quat.Scale(wb, b))
}

// Lerp linearly interpolates between two points.
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// Angle returns the rotation angle in radians between two orientations,
// in [0, pi].
func Angle(a, b quat.Number) float64 {
	d := math.Abs(Dot(Normalize(a), Normalize(b)))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// IntegrateAngular advances orientation q by angular velocity w (rad/s)
// over dt seconds and renormalizes.
func IntegrateAngular(q quat.Number, w r3.Vec, dt float64) quat.Number {
	speed := r3.Norm(w)
	if speed == 0 {
		return q
	}
	step := FromAxisAngle(w, speed*dt)
	return Normalize(quat.Mul(step, q))
}
