package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/camera"
	"github.com/pthm-cable/d20/config"
	"github.com/pthm-cable/d20/layout"
)

// TrayRenderer draws the arena floor and the guides for each tray row.
type TrayRenderer struct {
	arena  config.ArenaConfig
	layout layout.Layout

	Background color.RGBA
	floor      color.RGBA
	guide      color.RGBA
}

// NewTrayRenderer creates a tray renderer from config.
func NewTrayRenderer(cfg *config.Config) *TrayRenderer {
	floor := RGB(cfg.Render.Floor)
	return &TrayRenderer{
		arena:      cfg.Arena,
		layout:     layout.FromConfig(cfg),
		Background: RGB(cfg.Render.Background),
		floor:      floor,
		guide:      color.RGBA{R: floor.R / 2, G: floor.G / 2, B: floor.B / 2, A: 255},
	}
}

// Draw renders the floor and row guides. Must be called in 3D mode.
func (r *TrayRenderer) Draw() {
	a := r.arena
	center := r3.Vec{X: (a.Left + a.Right) / 2, Y: a.Floor, Z: (a.Far + a.Near) / 2}
	size := rl.Vector2{X: float32(a.Right - a.Left), Y: float32(a.Near - a.Far)}
	rl.DrawPlane(vec3(center), size, r.floor)

	// Lift guides a little so they don't z-fight the floor
	y := a.Floor + 0.01
	left, right := a.Left+a.Margin, a.Right-a.Margin
	for _, row := range []layout.Row{layout.RowStored, layout.RowStaged, layout.RowScore} {
		z := r.layout.Depth(row)
		rl.DrawLine3D(vec3(r3.Vec{X: left, Y: y, Z: z}), vec3(r3.Vec{X: right, Y: y, Z: z}), r.guide)
	}
}

// Camera3D converts the orbit camera into a raylib camera.
func Camera3D(c *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(c.Eye()),
		Target:     vec3(c.Target),
		Up:         vec3(c.Up()),
		Fovy:       float32(c.FovY),
		Projection: rl.CameraPerspective,
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
