package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/d20/ui"
)

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyF12) {
		a.screenshot()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.controls.Toggle()
	}
	for _, key := range a.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			id, on, _ := a.overlays.HandleKeyPress(key)
			slog.Debug("overlay toggled", "overlay", string(id), "enabled", on)
		}
	}

	if rl.IsKeyPressed(rl.KeyD) {
		a.game.Discard()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.game.Score()
	}

	a.handleCameraInput()

	mouse := rl.GetMousePosition()
	radius := a.game.Config().Dice.Radius
	a.hovered = nil
	if d, ok := ui.Pick(a.camera, a.game.Dice(), radius, float64(mouse.X), float64(mouse.Y)); ok {
		a.hovered = d
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			a.game.ToggleSelect(d)
		}
	}
}

// handleAction applies a HUD button press.
func (a *App) handleAction(action ui.Action) {
	switch action {
	case ui.ActionDiscard:
		a.game.Discard()
	case ui.ActionScore:
		a.game.Score()
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h

	a.camera.Resize(float64(w), float64(h))
	a.inspector.SetPosition(int32(w)-230, 10)
	a.perfPanel.SetPosition(int32(w)-230, 10)
}

// handleCameraInput processes orbit and zoom controls.
func (a *App) handleCameraInput() {
	const orbitSpeed = 0.03

	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Orbit(orbitSpeed)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Orbit(-orbitSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.camera.ZoomBy(1.0 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}
}

// screenshot saves the current frame as WebP in the output directory.
func (a *App) screenshot() {
	if a.output == nil {
		slog.Warn("screenshot skipped", "reason", "no output directory")
		return
	}
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)

	path, err := a.output.WriteScreenshot(img.ToImage())
	if err != nil {
		slog.Error("failed to write screenshot", "error", err)
		return
	}
	slog.Info("screenshot", "path", path, "frame", a.game.Frame())
}
