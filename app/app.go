// Package app is the graphical shell around the game: window, camera,
// input, and drawing. The game itself never touches raylib.
package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/d20/camera"
	"github.com/pthm-cable/d20/dice"
	"github.com/pthm-cable/d20/game"
	"github.com/pthm-cable/d20/hull"
	"github.com/pthm-cable/d20/renderer"
	"github.com/pthm-cable/d20/telemetry"
	"github.com/pthm-cable/d20/ui"
)

// App holds the window-side state for one game.
type App struct {
	game   *game.Game
	output *telemetry.OutputManager

	camera *camera.Camera
	dice   *renderer.DiceRenderer
	tray   *renderer.TrayRenderer

	hud       *ui.HUD
	inspector *ui.Inspector
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	overlays  *ui.OverlayRegistry

	hovered *dice.Die

	screenWidth  float32
	screenHeight float32
}

// New creates the shell. The raylib window must already be open.
func New(g *game.Game, output *telemetry.OutputManager) *App {
	cfg := g.Config()
	w, h := cfg.Derived.ScreenW32, cfg.Derived.ScreenH32

	return &App{
		game:         g,
		output:       output,
		camera:       camera.New(cfg.Camera, float64(w), float64(h)),
		dice:         renderer.NewDiceRenderer(hull.D20, cfg.Render),
		tray:         renderer.NewTrayRenderer(cfg),
		hud:          ui.NewHUD(),
		inspector:    ui.NewInspector(int32(w)-230, 10, 220),
		perfPanel:    ui.NewPerfPanel(int32(w)-230, 10, 220),
		controls:     ui.NewControlsPanel(10, 120, 200),
		overlays:     ui.NewOverlayRegistry(),
		screenWidth:  w,
		screenHeight: h,
	}
}

// Run drives the game one fixed step per rendered frame until the window
// closes.
func (a *App) Run() {
	dt := a.game.Config().Derived.DT
	for !rl.WindowShouldClose() {
		a.handleInput()
		a.game.Update(dt)
		a.Draw()
	}
	slog.Info("window closed", "frame", a.game.Frame(), "round", a.game.Round())
}
