package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/dice"
	"github.com/pthm-cable/d20/game"
)

// DieInfo is the inspector's view of one die.
type DieInfo struct {
	ID        int
	Value     int
	Row       string
	Speed     float64
	Spin      float64
	Height    float64
	Frozen    bool
	Selected  bool
	Scoring   bool
	Animating bool
}

// InspectDie collects the state the inspector shows for d.
func InspectDie(g *game.Game, d *dice.Die) DieInfo {
	return DieInfo{
		ID:        d.ID(),
		Value:     d.Value(),
		Row:       g.RowOf(d).String(),
		Speed:     r3.Norm(d.Velocity()),
		Spin:      r3.Norm(d.AngularVelocity()),
		Height:    d.Position().Y,
		Frozen:    d.IsFrozen(),
		Selected:  g.IsSelected(d),
		Scoring:   g.IsScoring(d),
		Animating: d.Animating(),
	}
}

// DieSections describes the inspector panel layout.
func DieSections() []SectionDescriptor {
	info := func(data any) DieInfo { return data.(DieInfo) }
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	return []SectionDescriptor{
		{
			Title: "Face",
			Fields: []FieldDescriptor{
				{Label: "Value", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(info(d).Value) }},
				{Label: "Row", Widget: WidgetText, TextGetter: func(d any) string { return info(d).Row }},
			},
		},
		{
			Title: "Motion",
			Fields: []FieldDescriptor{
				{Label: "Speed", Widget: WidgetBar, Range: FieldRange{Max: 50}, Getter: func(d any) float32 { return float32(info(d).Speed) }},
				{Label: "Spin", Widget: WidgetBar, Range: FieldRange{Max: 12}, Getter: func(d any) float32 { return float32(info(d).Spin) }},
				{Label: "Height", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 { return float32(info(d).Height) }},
				{Label: "Frozen", Widget: WidgetText, TextGetter: func(d any) string { return yesNo(info(d).Frozen) }},
			},
		},
		{
			Title: "Selection",
			Fields: []FieldDescriptor{
				{Label: "Selected", Widget: WidgetText, TextGetter: func(d any) string { return yesNo(info(d).Selected) }},
				{Label: "Scoring", Widget: WidgetText, TextGetter: func(d any) string { return yesNo(info(d).Scoring) }},
				{Label: "Animating", Widget: WidgetText, TextGetter: func(d any) string { return yesNo(info(d).Animating) }},
			},
		},
	}
}

// Inspector renders the die inspection panel.
type Inspector struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		sections: DieSections(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for info.
func (ins *Inspector) Draw(info DieInfo) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	height := padding*2 + r.Theme.LineHeight + 4
	for _, sd := range ins.sections {
		height += r.SectionHeight(sd, info)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	x := ins.x + padding
	y := ins.y + padding
	rl.DrawText(fmt.Sprintf("Die #%d", info.ID), x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	contentWidth := ins.width - padding*2
	for _, sd := range ins.sections {
		y = r.DrawSection(x, y, sd, info, contentWidth)
	}
	return ins.y + height
}
