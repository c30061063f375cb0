// Face preview tool - shows the rest orientation for each face value so the
// spin table can be checked by eye.
//
// Usage: go run ./cmd/facepreview
package main

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/num/quat"

	"github.com/pthm-cable/d20/camera"
	"github.com/pthm-cable/d20/config"
	"github.com/pthm-cable/d20/dice"
	"github.com/pthm-cable/d20/geom"
	"github.com/pthm-cable/d20/hull"
	"github.com/pthm-cable/d20/physics"
	"github.com/pthm-cable/d20/renderer"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	panelX       = 620
	panelWidth   = windowWidth - panelX - 20
)

// previewState holds the slider values.
type previewState struct {
	Value     int
	SpinDelta float32 // Extra turn about up on top of the table, radians
	UseSpin   bool    // Apply the calibrated spin
	Orbit     float32
}

func defaultState() previewState {
	return previewState{Value: 20, UseSpin: true}
}

func main() {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Face Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cfg := config.Default()

	// One die, held still in a world that never steps
	world := physics.NewWorld(physics.ParamsFromConfig(cfg))
	scene := dice.NewScene()
	body := world.AddBody(physics.BodyDef{Radius: 2, Mass: 0})
	die := dice.New(0, body, scene, hull.D20, 2)

	camCfg := cfg.Camera
	camCfg.Distance = 9
	cam := camera.New(camCfg, panelX, windowHeight)
	draw := renderer.NewDiceRenderer(hull.D20, cfg.Render)

	state := defaultState()

	for !rl.WindowShouldClose() {
		die.SetOrientation(orientation(state))
		cam.Yaw = float64(state.Orbit)

		rl.BeginDrawing()
		rl.ClearBackground(renderer.RGB(cfg.Render.Background))

		view := renderer.Camera3D(cam)
		rl.BeginMode3D(view)
		rl.DrawGrid(10, 1)
		draw.Draw(scene, nil)
		rl.EndMode3D()
		draw.DrawLabels(scene, view, 28)

		resolved := hull.D20.ValueUp(die.Orientation())
		rl.DrawText(fmt.Sprintf("Requested %d, resolves to %d", state.Value, resolved), 15, windowHeight-60, 18, rl.LightGray)
		rl.DrawText(fmt.Sprintf("Table spin: %.4f rad", hull.D20.Spin(state.Value)), 15, windowHeight-35, 18, rl.LightGray)

		state = drawPanel(state)

		rl.EndDrawing()
	}
}

// orientation returns the pose shown for state.
func orientation(s previewState) (q quat.Number) {
	if s.UseSpin {
		q = hull.D20.OrientationFor(s.Value)
	} else {
		q = hull.D20.AlignUp(s.Value)
	}
	if s.SpinDelta != 0 {
		q = geom.Compose(q, geom.FromAxisAngle(geom.Up, float64(s.SpinDelta)))
	}
	return geom.Normalize(q)
}

func drawPanel(s previewState) previewState {
	x := float32(panelX)
	y := float32(10)

	rl.DrawText("Face Orientation", int32(x), int32(y), 20, rl.RayWhite)
	y += 35

	rl.DrawText("Face value", int32(x), int32(y), 14, rl.Gray)
	y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - 60, Height: 20},
		"1", "20",
		float32(s.Value), 1, hull.NumFaces,
	)
	s.Value = int(math.Round(float64(v)))
	rl.DrawText(fmt.Sprintf("%d", s.Value), int32(x+panelWidth-50), int32(y+2), 16, rl.RayWhite)
	y += 35

	rl.DrawText("Extra spin about up", int32(x), int32(y), 14, rl.Gray)
	y += 18
	s.SpinDelta = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - 60, Height: 20},
		"-pi", "pi",
		s.SpinDelta, -math.Pi, math.Pi,
	)
	rl.DrawText(fmt.Sprintf("%.2f", s.SpinDelta), int32(x+panelWidth-50), int32(y+2), 16, rl.RayWhite)
	y += 35

	rl.DrawText("Camera orbit", int32(x), int32(y), 14, rl.Gray)
	y += 18
	s.Orbit = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - 60, Height: 20},
		"-pi", "pi",
		s.Orbit, -math.Pi, math.Pi,
	)
	y += 45

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, toggleText(s.UseSpin, "Spin: on", "Spin: off")) {
		s.UseSpin = !s.UseSpin
	}
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 30}, "Reset All") {
		s = defaultState()
	}
	y += 45

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, "< Prev") && s.Value > 1 {
		s.Value--
	}
	if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 30}, "Next >") && s.Value < hull.NumFaces {
		s.Value++
	}

	return s
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
