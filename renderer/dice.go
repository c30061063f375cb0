package renderer

import (
	"image/color"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/components"
	"github.com/pthm-cable/d20/config"
	"github.com/pthm-cable/d20/dice"
	"github.com/pthm-cable/d20/geom"
	"github.com/pthm-cable/d20/hull"
)

// DiceRenderer draws every die in a scene as flat-shaded triangles.
type DiceRenderer struct {
	hull  *hull.Hull
	light Light

	base     color.RGBA
	selected color.RGBA
	scoring  color.RGBA
	edges    bool

	// Scratch for per-die world vertices
	verts []rl.Vector3
}

// NewDiceRenderer creates a renderer for dice built on h.
func NewDiceRenderer(h *hull.Hull, cfg config.RenderConfig) *DiceRenderer {
	return &DiceRenderer{
		hull:     h,
		light:    NewLight(cfg.Light, cfg.Ambient),
		base:     RGB(cfg.Die),
		selected: RGB(cfg.Selected),
		scoring:  RGB(cfg.Scoring),
		edges:    cfg.Edges,
		verts:    make([]rl.Vector3, len(h.Vertices())),
	}
}

// Draw renders the dice. Must be called between BeginMode3D and EndMode3D.
// scoring reports whether the die with the given id is in a score sequence.
func (r *DiceRenderer) Draw(scene *dice.Scene, scoring func(id int) bool) {
	scene.Each(func(_ ecs.Entity, t *components.Transform, sh *components.Shading, d *components.Die) {
		base := r.base
		switch {
		case scoring != nil && scoring(d.ID):
			base = r.scoring
		case d.Selected:
			base = r.selected
		}

		for i, v := range r.hull.Vertices() {
			w := r3.Add(t.Position, geom.Rotate(t.Orientation, r3.Scale(d.Radius, v)))
			r.verts[i] = vec3(w)
		}

		edge := color.RGBA{A: 255}
		for f, face := range r.hull.Faces() {
			a, b, c := r.verts[face[0]], r.verts[face[1]], r.verts[face[2]]
			rl.DrawTriangle3D(a, b, c, r.light.Shade(base, sh.Normals[f]))
			if r.edges {
				rl.DrawLine3D(a, b, edge)
				rl.DrawLine3D(b, c, edge)
				rl.DrawLine3D(c, a, edge)
			}
		}
	})
}

// DrawLabels writes each die's up-facing value over it in screen space.
// Must be called outside 3D mode.
func (r *DiceRenderer) DrawLabels(scene *dice.Scene, cam rl.Camera3D, fontSize int32) {
	scene.Each(func(_ ecs.Entity, t *components.Transform, _ *components.Shading, d *components.Die) {
		label := strconv.Itoa(r.hull.ValueUp(t.Orientation))

		above := r3.Add(t.Position, r3.Vec{Y: d.Radius * 1.6})
		p := rl.GetWorldToScreen(vec3(above), cam)
		w := rl.MeasureText(label, fontSize)
		rl.DrawText(label, int32(p.X)-w/2, int32(p.Y)-fontSize/2, fontSize, rl.RayWhite)
	})
}

