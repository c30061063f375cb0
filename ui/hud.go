package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/d20/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	State        string
	Busy         bool
	Round        int
	Tray         telemetry.Values
	Selected     int
	Capacity     int
	LastScore    telemetry.Values
	FPS          int32
	ScreenWidth  int32
	ScreenHeight int32
}

// Action is a HUD button press.
type Action int

const (
	ActionNone Action = iota
	ActionDiscard
	ActionScore
)

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD and returns the button pressed this frame, if any.
// The buttons are disabled unless the selection can be acted on.
func (h *HUD) Draw(data HUDData) Action {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Round: %d | Phase: %s | FPS: %d", data.Round, data.State, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(fmt.Sprintf("Tray: %s", valuesText(data.Tray)), 10, 55, 16, rl.LightGray)
	rl.DrawText(
		fmt.Sprintf("Selected: %d/%d | Last score: %s (%d)",
			data.Selected, data.Capacity, valuesText(data.LastScore), data.LastScore.Sum()),
		10, 75, 16, rl.LightGray,
	)
	if data.Busy {
		rl.DrawText("Scoring...", 10, 95, 16, h.renderer.Theme.AccentColor)
	}

	return h.drawButtons(data)
}

func (h *HUD) drawButtons(data HUDData) Action {
	const bw, bh = 120, 32
	y := float32(data.ScreenHeight - bh - 40)
	x := float32(data.ScreenWidth)/2 - bw - 5

	enabled := data.State == "selecting" && !data.Busy && data.Selected > 0
	if !enabled {
		gui.Disable()
		defer gui.Enable()
	}

	action := ActionNone
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: bh}, "Discard [D]") && enabled {
		action = ActionDiscard
	}
	if gui.Button(rl.Rectangle{X: x + bw + 10, Y: y, Width: bw, Height: bh}, "Score [S]") && enabled {
		action = ActionScore
	}
	return action
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func valuesText(v telemetry.Values) string {
	if len(v) == 0 {
		return "-"
	}
	return v.String()
}

// PerfPanel renders per-phase frame timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel along with the number of deferred
// game steps still waiting to fire.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, pendingTimers int) {
	r := p.renderer
	padding := r.Theme.Padding
	height := int32(len(telemetry.Phases))*14 + 72 + padding*2

	r.DrawPanel(p.x, p.y, p.width, height)
	x := p.x + padding
	y := p.y + padding

	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s avg, %s max", stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 12, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("%.0f ticks/s", stats.TicksPerSecond), x, y, 12, rl.LightGray)
	y += 16
	rl.DrawText(fmt.Sprintf("Pending timers: %d", pendingTimers), x, y, 12, rl.LightGray)
	y += 20

	for _, phase := range telemetry.Phases {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
