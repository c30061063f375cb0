package renderer

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Light is a single directional light with an ambient floor.
type Light struct {
	dir     r3.Vec // Unit vector toward the light
	ambient float64
}

// NewLight creates a light shining from dir. A zero dir lights from
// straight above.
func NewLight(dir [3]float64, ambient float64) Light {
	v := r3.Vec{X: dir[0], Y: dir[1], Z: dir[2]}
	if r3.Norm(v) == 0 {
		v = r3.Vec{Y: 1}
	}
	return Light{dir: r3.Unit(v), ambient: clamp01(ambient)}
}

// Intensity returns the Lambert brightness of a face with the given world
// normal, in [ambient, 1].
func (l Light) Intensity(normal r3.Vec) float64 {
	k := r3.Dot(normal, l.dir)
	if k < 0 {
		k = 0
	}
	return l.ambient + (1-l.ambient)*k
}

// Shade scales base by the face intensity. Alpha is kept.
func (l Light) Shade(base color.RGBA, normal r3.Vec) color.RGBA {
	k := l.Intensity(normal)
	return color.RGBA{
		R: uint8(float64(base.R) * k),
		G: uint8(float64(base.G) * k),
		B: uint8(float64(base.B) * k),
		A: base.A,
	}
}

// RGB converts a configured 0-255 color triple to an opaque color.
func RGB(c [3]int) color.RGBA {
	return color.RGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: 255}
}

func channel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
