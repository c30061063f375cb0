package game

import (
	"log/slog"
	"sort"
	"time"

	"github.com/pthm-cable/d20/dice"
	"github.com/pthm-cable/d20/layout"
	"github.com/pthm-cable/d20/telemetry"
)

// accepting reports whether selection input is allowed right now, logging
// the reason when it is not.
func (g *Game) accepting(action string) bool {
	if g.busy {
		slog.Debug("input ignored", "action", action, "reason", "score sequence pending")
		return false
	}
	if g.state != StateSelecting {
		slog.Debug("input ignored", "action", action, "reason", g.state.String())
		return false
	}
	return true
}

// Select stages d for the next discard or score. It is a no-op when the
// selection is full, when d is already selected, or outside the selecting
// phase.
func (g *Game) Select(d *dice.Die) bool {
	if !g.accepting("select") || g.IsSelected(d) {
		return false
	}
	if len(g.selection) >= g.cfg.Selection.Capacity {
		slog.Debug("input ignored", "action", "select", "reason", "selection full")
		return false
	}

	g.selection = append(g.selection, d)
	sortByValue(g.selection)
	d.SetSelected(true)
	slog.Debug("selected", "die", d.ID(), "value", d.Value(), "selection", len(g.selection))

	g.relayout()
	return true
}

// Unselect returns d to the stored row.
func (g *Game) Unselect(d *dice.Die) bool {
	if !g.accepting("unselect") {
		return false
	}
	i := indexOf(g.selection, d)
	if i < 0 {
		return false
	}

	g.selection = append(g.selection[:i], g.selection[i+1:]...)
	d.SetSelected(false)
	slog.Debug("unselected", "die", d.ID(), "selection", len(g.selection))

	g.relayout()
	return true
}

// ToggleSelect selects d if it is not selected and unselects it otherwise.
func (g *Game) ToggleSelect(d *dice.Die) bool {
	if g.IsSelected(d) {
		return g.Unselect(d)
	}
	return g.Select(d)
}

// Discard re-throws the selected dice.
func (g *Game) Discard() bool {
	if !g.accepting("discard") {
		return false
	}
	if len(g.selection) == 0 {
		slog.Debug("input ignored", "action", "discard", "reason", "empty selection")
		return false
	}

	discarded := g.takeSelection()
	g.record(telemetry.RoundStats{
		Event:  telemetry.EventDiscard,
		Values: valuesOf(discarded),
	})
	g.throw(discarded)
	return true
}

// Score moves the selected dice into the scoring row, plays a staggered
// acknowledge shake on each, and then re-throws them. The selection is
// cleared immediately; the game stays busy until the re-throw.
func (g *Game) Score() bool {
	if !g.accepting("score") {
		return false
	}
	if len(g.selection) == 0 {
		slog.Debug("input ignored", "action", "score", "reason", "empty selection")
		return false
	}

	scored := g.takeSelection()
	g.busy = true
	for _, d := range scored {
		g.scoring[d] = true
	}
	g.lastScore = valuesOf(scored)

	t := g.cfg.Timing
	g.moveRow(g.stored(), layout.RowStored, 0)
	g.moveRow(scored, layout.RowScore, t.ScoreStagger)

	for i, d := range scored {
		g.timers.After(t.ShakeDelay+t.ShakeInterval*time.Duration(i), func() { g.shake(d) })
	}
	finish := t.ShakeDelay + t.ShakeDuration + t.ShakeInterval*time.Duration(len(scored))
	g.timers.After(finish, func() { g.finishScore(scored) })

	g.record(telemetry.RoundStats{
		Event:  telemetry.EventScore,
		Values: g.lastScore,
	})
	return true
}

func (g *Game) finishScore(scored []*dice.Die) {
	for _, d := range scored {
		delete(g.scoring, d)
	}
	g.busy = false
	g.throw(scored)
}

// takeSelection clears the selection and returns what it held.
func (g *Game) takeSelection() []*dice.Die {
	out := g.selection
	g.selection = nil
	for _, d := range out {
		d.SetSelected(false)
	}
	return out
}

// stored returns the tray dice that are neither selected nor scoring,
// highest value first.
func (g *Game) stored() []*dice.Die {
	var out []*dice.Die
	for _, d := range g.dice {
		if !g.scoring[d] && !g.IsSelected(d) {
			out = append(out, d)
		}
	}
	sortByValue(out)
	return out
}

// relayout moves both tray rows to their slots.
func (g *Game) relayout() {
	g.moveRow(g.stored(), layout.RowStored, 0)
	g.moveRow(g.selection, layout.RowStaged, 0)
}

// sortByValue orders dice by descending face value, then by id.
func sortByValue(ds []*dice.Die) {
	sort.SliceStable(ds, func(i, j int) bool {
		vi, vj := ds[i].Value(), ds[j].Value()
		if vi != vj {
			return vi > vj
		}
		return ds[i].ID() < ds[j].ID()
	})
}
