package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/d20/renderer"
	"github.com/pthm-cable/d20/ui"
)

const controlsLegend = "Click: select | D: discard | S: score | Wheel: zoom | Arrows: orbit | Tab: overlays | F12: screenshot"

// Draw renders one frame.
func (a *App) Draw() {
	a.game.Perf().RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(a.tray.Background)

	cam := renderer.Camera3D(a.camera)
	rl.BeginMode3D(cam)
	if a.overlays.IsEnabled(ui.OverlayGuides) {
		a.tray.Draw()
	}
	dice := a.game.Dice()
	a.dice.Draw(a.game.Scene(), func(id int) bool { return a.game.IsScoring(dice[id]) })
	rl.EndMode3D()

	if a.overlays.IsEnabled(ui.OverlayLabels) {
		a.dice.DrawLabels(a.game.Scene(), cam, 20)
	}

	a.drawHUD()

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	g := a.game
	cfg := g.Config()

	action := a.hud.Draw(ui.HUDData{
		Title:        "d20",
		State:        g.State().String(),
		Busy:         g.Busy(),
		Round:        g.Round(),
		Tray:         g.TrayValues(),
		Selected:     len(g.Selection()),
		Capacity:     cfg.Selection.Capacity,
		LastScore:    g.LastScore(),
		FPS:          rl.GetFPS(),
		ScreenWidth:  int32(a.screenWidth),
		ScreenHeight: int32(a.screenHeight),
	})
	a.handleAction(action)
	a.hud.DrawControls(int32(a.screenHeight), controlsLegend)

	a.controls.Draw(a.overlays)

	switch {
	case a.overlays.IsEnabled(ui.OverlayInspector) && a.hovered != nil:
		a.inspector.Draw(ui.InspectDie(g, a.hovered))
	case a.overlays.IsEnabled(ui.OverlayPerf):
		a.perfPanel.Draw(g.Perf().Stats(), g.PendingTimers())
	}
}
