package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/d20/dice"
	"github.com/pthm-cable/d20/layout"
	"github.com/pthm-cable/d20/telemetry"
)

// Update advances one frame: physics, die sync and freezing, the state
// machine, deferred timers, then animation.
func (g *Game) Update(dt time.Duration) {
	g.now += dt
	g.frame++

	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhasePhysics)
	g.engine.Step(dt.Seconds())

	g.perf.StartPhase(telemetry.PhaseSync)
	threshold := g.cfg.Motion.Threshold
	for _, d := range g.dice {
		d.Sync()
		if !d.IsFrozen() && !d.IsMoving(threshold) {
			d.Freeze()
		}
	}

	g.perf.StartPhase(telemetry.PhaseState)
	if g.state == StateThrowing {
		g.checkSettled()
	}

	g.perf.StartPhase(telemetry.PhaseTimers)
	g.timers.Advance(g.now)

	g.perf.StartPhase(telemetry.PhaseAnimation)
	g.driver.Tick(g.now)

	g.perf.EndTick()

	if every := int64(g.cfg.Telemetry.LogPerfEvery); g.cfg.Telemetry.Enabled && every > 0 && g.frame%every == 0 {
		g.flushPerf()
	}
}

// checkSettled leaves the throwing phase once every die is asleep or the
// settle timeout has run out since the last throw.
func (g *Game) checkSettled() {
	allFrozen := true
	for _, d := range g.dice {
		if !d.IsFrozen() {
			allFrozen = false
			break
		}
	}

	elapsed := g.now - g.lastThrow
	forced := !allFrozen && elapsed >= g.cfg.Timing.SettleTimeout
	if !allFrozen && !forced {
		return
	}

	for _, d := range g.dice {
		d.Freeze()
		if !d.IsSettled() {
			d.Settle()
		}
	}
	g.round++
	g.setState(StateSelecting)
	g.relayout()

	g.record(telemetry.RoundStats{
		Event:    telemetry.EventSettle,
		Thrown:   g.thrown,
		Forced:   forced,
		SettleMS: elapsed.Milliseconds(),
		Values:   g.TrayValues(),
	})
}

// throw launches ds and restarts the settle clock.
func (g *Game) throw(ds []*dice.Die) {
	for _, d := range ds {
		delete(g.home, d)
		d.Throw(g.rng, g.cfg.Throw)
	}
	g.lastThrow = g.now
	g.thrown = len(ds)
	slog.Debug("throw", "dice", len(ds), "clock_ms", g.now.Milliseconds())
	g.setState(StateThrowing)
}

func (g *Game) setState(s State) {
	if g.state == s {
		return
	}
	slog.Info("phase_change",
		"from", g.state.String(),
		"to", s.String(),
		"round", g.round,
		"clock_ms", g.now.Milliseconds(),
	)
	g.state = s
}

// record stamps and emits a round record.
func (g *Game) record(r telemetry.RoundStats) {
	r.Round = g.round
	r.ClockMS = g.now.Milliseconds()
	r.Sum = r.Values.Sum()

	slog.Info(r.Event, "round", r)
	if err := g.output.WriteRound(r); err != nil {
		slog.Error("failed to write round", "error", err)
	}
	if g.onRound != nil {
		g.onRound(r)
	}
}

func (g *Game) flushPerf() {
	stats := g.perf.Stats()
	stats.LogStats()
	if err := g.output.WritePerf(stats, g.frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// RowOf reports which layout row d belongs to.
func (g *Game) RowOf(d *dice.Die) layout.Row {
	switch {
	case g.scoring[d]:
		return layout.RowScore
	case g.IsSelected(d):
		return layout.RowStaged
	}
	return layout.RowStored
}
