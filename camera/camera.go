// Package camera provides the fixed perspective view over the dice tray.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/config"
)

// Camera orbits a target point at a fixed elevation. Zoom divides the
// orbit distance, so zooming in moves the eye toward the target.
type Camera struct {
	Target   r3.Vec
	Distance float64
	Pitch    float64 // Radians above the horizon
	Yaw      float64 // Radians around +Y, 0 = eye on +Z
	FovY     float64 // Degrees
	Zoom     float64

	// Viewport dimensions in pixels
	ViewportW float64
	ViewportH float64

	MinZoom float64
	MaxZoom float64

	home config.CameraConfig
}

// New creates a camera looking at the world origin.
func New(cfg config.CameraConfig, viewportW, viewportH float64) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		home:      cfg,
	}
	c.Reset()
	return c
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() r3.Vec {
	d := c.Distance / c.Zoom
	cp := math.Cos(c.Pitch)
	return r3.Add(c.Target, r3.Vec{
		X: d * cp * math.Sin(c.Yaw),
		Y: d * math.Sin(c.Pitch),
		Z: d * cp * math.Cos(c.Yaw),
	})
}

// Up returns the world up vector used for the view.
func (c *Camera) Up() r3.Vec {
	return r3.Vec{Y: 1}
}

// basis returns the forward, right and up axes of the view.
func (c *Camera) basis() (forward, right, up r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Eye()))
	right = r3.Unit(r3.Cross(forward, c.Up()))
	up = r3.Cross(right, forward)
	return forward, right, up
}

func (c *Camera) halfExtents() (float64, float64) {
	ty := math.Tan(c.FovY * math.Pi / 360)
	aspect := 1.0
	if c.ViewportH > 0 {
		aspect = c.ViewportW / c.ViewportH
	}
	return ty * aspect, ty
}

// Ray returns the origin and unit direction of the ray through the screen
// pixel (sx, sy).
func (c *Camera) Ray(sx, sy float64) (origin, dir r3.Vec) {
	forward, right, up := c.basis()
	hx, hy := c.halfExtents()

	nx := 2*sx/c.ViewportW - 1
	ny := 1 - 2*sy/c.ViewportH

	dir = r3.Add(forward, r3.Add(r3.Scale(nx*hx, right), r3.Scale(ny*hy, up)))
	return c.Eye(), r3.Unit(dir)
}

// WorldToScreen projects p to screen pixels. ok is false when p is behind
// the eye.
func (c *Camera) WorldToScreen(p r3.Vec) (sx, sy float64, ok bool) {
	forward, right, up := c.basis()
	hx, hy := c.halfExtents()

	v := r3.Sub(p, c.Eye())
	z := r3.Dot(v, forward)
	if z <= 0 {
		return 0, 0, false
	}
	nx := r3.Dot(v, right) / (z * hx)
	ny := r3.Dot(v, up) / (z * hy)

	sx = (nx + 1) / 2 * c.ViewportW
	sy = (1 - ny) / 2 * c.ViewportH
	return sx, sy, true
}

// Orbit rotates the eye around the target by dyaw radians.
func (c *Camera) Orbit(dyaw float64) {
	c.Yaw = math.Mod(c.Yaw+dyaw, 2*math.Pi)
}

// SetZoom sets the zoom level, clamped to the configured range.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset restores the configured view.
func (c *Camera) Reset() {
	c.Target = r3.Vec{}
	c.Distance = c.home.Distance
	c.Pitch = c.home.Pitch
	c.Yaw = c.home.Yaw
	c.FovY = c.home.FovY
	c.MinZoom = c.home.MinZoom
	c.MaxZoom = c.home.MaxZoom
	c.SetZoom(1.0)
}

// Resize updates viewport dimensions (e.g., on window resize).
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// RaySphere returns the distance along a unit ray to the first hit on a
// sphere, or false when the ray misses it or the sphere is behind.
func RaySphere(origin, dir, center r3.Vec, radius float64) (float64, bool) {
	oc := r3.Sub(origin, center)
	b := r3.Dot(oc, dir)
	cc := r3.Dot(oc, oc) - radius*radius
	disc := b*b - cc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
