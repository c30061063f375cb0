package game

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/config"
	"github.com/pthm-cable/d20/dice"
	"github.com/pthm-cable/d20/geom"
	"github.com/pthm-cable/d20/layout"
	"github.com/pthm-cable/d20/physics"
	"github.com/pthm-cable/d20/telemetry"
)

const frame = 10 * time.Millisecond

// fakeBody holds its pose still while awake; only velocities change.
type fakeBody struct {
	pos      r3.Vec
	rot      quat.Number
	vel, ang r3.Vec
	mass     float64
	asleep   bool
}

func (b *fakeBody) Position() r3.Vec { return b.pos }
func (b *fakeBody) SetPosition(p r3.Vec) { b.pos = p }
func (b *fakeBody) Orientation() quat.Number { return b.rot }
func (b *fakeBody) SetOrientation(q quat.Number) { b.rot = q }
func (b *fakeBody) Velocity() r3.Vec { return b.vel }
func (b *fakeBody) SetVelocity(v r3.Vec) { b.vel = v }
func (b *fakeBody) AngularVelocity() r3.Vec { return b.ang }
func (b *fakeBody) SetAngularVelocity(w r3.Vec) { b.ang = w }
func (b *fakeBody) Mass() float64 { return b.mass }
func (b *fakeBody) SetMass(m float64) { b.mass = m }
func (b *fakeBody) Sleeping() bool { return b.asleep }
func (b *fakeBody) Sleep() { b.asleep = true }
func (b *fakeBody) WakeUp() { b.asleep = false }

// fakeEngine scales every awake dynamic body's velocities by decay per step.
type fakeEngine struct {
	decay  float64
	bodies []*fakeBody
}

func (e *fakeEngine) AddBody(def physics.BodyDef) physics.Body {
	b := &fakeBody{pos: def.Position, rot: geom.Normalize(def.Orientation), mass: def.Mass}
	e.bodies = append(e.bodies, b)
	return b
}

func (e *fakeEngine) Step(float64) {
	for _, b := range e.bodies {
		if b.mass == 0 || b.asleep {
			continue
		}
		b.vel = r3.Scale(e.decay, b.vel)
		b.ang = r3.Scale(e.decay, b.ang)
	}
}

func newTestGame(t *testing.T, decay float64) (*Game, *[]telemetry.RoundStats) {
	t.Helper()
	cfg := config.Default()
	var rounds []telemetry.RoundStats
	g := NewGame(cfg, Options{
		Seed:    1,
		Engine:  &fakeEngine{decay: decay},
		OnRound: func(r telemetry.RoundStats) { rounds = append(rounds, r) },
	})
	return g, &rounds
}

// run advances the game by d in fixed frames.
func run(g *Game, d time.Duration) {
	for end := g.Now() + d; g.Now() < end; {
		g.Update(frame)
	}
}

// settle runs until the game reaches the selecting phase.
func settle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 200 && g.State() != StateSelecting; i++ {
		g.Update(frame)
	}
	if g.State() != StateSelecting {
		t.Fatalf("game did not settle, state %s", g.State())
	}
}

func TestInitialState(t *testing.T) {
	g, _ := newTestGame(t, 0.5)
	if g.State() != StateThrowing {
		t.Errorf("initial state %s, want throwing", g.State())
	}
	if len(g.Dice()) != 9 {
		t.Fatalf("spawned %d dice, want 9", len(g.Dice()))
	}
	for _, d := range g.Dice() {
		if d.IsFrozen() || !d.IsMoving(dice.DefaultMotionThreshold) {
			t.Errorf("die %d should start in flight", d.ID())
		}
	}
}

func TestSettleBeforeTimeout(t *testing.T) {
	g, rounds := newTestGame(t, 0.5)
	for g.State() == StateThrowing && g.Now() < time.Second {
		g.Update(frame)
	}

	if g.State() != StateSelecting {
		t.Fatalf("state %s after %v, want selecting", g.State(), g.Now())
	}
	if g.Now() >= time.Second {
		t.Errorf("settled at %v, expected before the timeout", g.Now())
	}
	for _, d := range g.Dice() {
		if !d.IsFrozen() {
			t.Errorf("die %d not frozen after settle", d.ID())
		}
	}
	if len(*rounds) != 1 || (*rounds)[0].Forced || (*rounds)[0].Thrown != 9 {
		t.Errorf("unexpected settle record %+v", *rounds)
	}
}

func TestForcedSettleAtTimeout(t *testing.T) {
	g, rounds := newTestGame(t, 1)

	run(g, 990*time.Millisecond)
	if g.State() != StateThrowing {
		t.Fatalf("settled early at %v", g.Now())
	}
	for _, d := range g.Dice() {
		if d.IsFrozen() {
			t.Fatalf("die %d frozen before timeout", d.ID())
		}
	}

	g.Update(frame)
	if g.Now() != time.Second {
		t.Fatalf("clock at %v, want 1s", g.Now())
	}
	if g.State() != StateSelecting {
		t.Fatalf("state %s at the timeout boundary, want selecting", g.State())
	}
	for _, d := range g.Dice() {
		if !d.IsFrozen() {
			t.Errorf("die %d still thawed after forced settle", d.ID())
		}
	}
	if len(*rounds) != 1 || !(*rounds)[0].Forced || (*rounds)[0].SettleMS != 1000 {
		t.Errorf("unexpected settle record %+v", *rounds)
	}
}

func TestSettleSortsTray(t *testing.T) {
	g, _ := newTestGame(t, 0.5)
	settle(t, g)

	before := make(map[*dice.Die]int)
	for _, d := range g.Dice() {
		before[d] = d.Value()
	}
	run(g, g.Config().Timing.MoveDuration)

	stored := g.stored()
	depth := g.Config().Layout.StoredDepth
	for i, d := range stored {
		if d.Value() != before[d] || d.FaceUp() != before[d] {
			t.Errorf("die %d changed value %d -> %d while moving", d.ID(), before[d], d.FaceUp())
		}
		if math.Abs(d.Position().Z-depth) > 1e-9 {
			t.Errorf("die %d at depth %f, want %f", d.ID(), d.Position().Z, depth)
		}
		if i == 0 {
			continue
		}
		prev := stored[i-1]
		if prev.Value() < d.Value() {
			t.Errorf("tray not sorted: %d before %d", prev.Value(), d.Value())
		}
		if prev.Position().X >= d.Position().X {
			t.Errorf("tray slots not increasing at %d", i)
		}
	}
}

func TestRelayoutMidMoveKeepsRolledValues(t *testing.T) {
	cfg := config.Default()
	for seed := int64(0); seed < 100; seed++ {
		g := NewGame(cfg, Options{Seed: seed})
		for i := 0; i < 1000 && g.State() != StateSelecting; i++ {
			g.Update(cfg.Derived.DT)
		}
		if g.State() != StateSelecting {
			t.Fatalf("seed %d: game did not settle", seed)
		}

		rolled := make(map[*dice.Die]int)
		for _, d := range g.Dice() {
			rolled[d] = d.Value()
		}

		// Re-layout every frame while the dice are still turning
		ds := g.Dice()
		for i := 0; i < 12; i++ {
			g.ToggleSelect(ds[i%len(ds)])
			g.Update(cfg.Derived.DT)
		}
		run(g, time.Second)

		for _, d := range ds {
			if d.Value() != rolled[d] || d.FaceUp() != rolled[d] {
				t.Errorf("seed %d: die %d rolled %d, now value %d face up %d",
					seed, d.ID(), rolled[d], d.Value(), d.FaceUp())
			}
		}
		stored := g.stored()
		for i := 1; i < len(stored); i++ {
			if stored[i-1].Value() < stored[i].Value() {
				t.Errorf("seed %d: tray not sorted at %d", seed, i)
			}
		}
	}
}

func TestSelectCapacity(t *testing.T) {
	g, _ := newTestGame(t, 0.5)
	settle(t, g)

	capacity := g.Config().Selection.Capacity
	for i, d := range g.Dice() {
		ok := g.Select(d)
		if want := i < capacity; ok != want {
			t.Errorf("select #%d returned %v, want %v", i+1, ok, want)
		}
	}
	if n := len(g.Selection()); n != capacity {
		t.Errorf("selection holds %d, want %d", n, capacity)
	}

	sel := g.Selection()
	for i := 1; i < len(sel); i++ {
		if sel[i-1].Value() < sel[i].Value() {
			t.Errorf("selection not sorted at %d", i)
		}
	}
	if g.Select(sel[0]) {
		t.Error("selecting a selected die should be a no-op")
	}
}

func TestSelectIgnoredWhileThrowing(t *testing.T) {
	g, _ := newTestGame(t, 1)
	if g.Select(g.Dice()[0]) || len(g.Selection()) != 0 {
		t.Error("select accepted during throwing")
	}
}

func TestToggleSelectMovesBetweenRows(t *testing.T) {
	g, _ := newTestGame(t, 0.5)
	settle(t, g)
	d := g.Dice()[4]
	cfg := g.Config()

	if !g.ToggleSelect(d) || g.RowOf(d) != layout.RowStaged {
		t.Fatal("toggle did not stage the die")
	}
	run(g, cfg.Timing.MoveDuration)
	if math.Abs(d.Position().Z-cfg.Layout.StagedDepth) > 1e-9 {
		t.Errorf("staged die at depth %f, want %f", d.Position().Z, cfg.Layout.StagedDepth)
	}

	if !g.ToggleSelect(d) || g.RowOf(d) != layout.RowStored {
		t.Fatal("toggle did not return the die")
	}
	run(g, cfg.Timing.MoveDuration)
	if math.Abs(d.Position().Z-cfg.Layout.StoredDepth) > 1e-9 {
		t.Errorf("stored die at depth %f, want %f", d.Position().Z, cfg.Layout.StoredDepth)
	}
	if g.Unselect(d) {
		t.Error("unselecting an unselected die should be a no-op")
	}
}

func TestDiscardEmptySelectionIsNoop(t *testing.T) {
	g, _ := newTestGame(t, 0.5)
	settle(t, g)

	type snapshot struct {
		pos r3.Vec
		rot quat.Number
	}
	before := make([]snapshot, len(g.Dice()))
	for i, d := range g.Dice() {
		before[i] = snapshot{d.Position(), d.Orientation()}
	}

	if g.Discard() {
		t.Error("discard with empty selection reported success")
	}
	if g.Score() {
		t.Error("score with empty selection reported success")
	}
	if g.State() != StateSelecting {
		t.Errorf("state changed to %s", g.State())
	}
	for i, d := range g.Dice() {
		if d.Position() != before[i].pos || d.Orientation() != before[i].rot {
			t.Errorf("die %d moved", d.ID())
		}
	}
}

func TestDiscardRethrowsSelection(t *testing.T) {
	g, rounds := newTestGame(t, 0.5)
	settle(t, g)

	picked := g.Dice()[:2]
	for _, d := range picked {
		g.Select(d)
	}
	if !g.Discard() {
		t.Fatal("discard refused")
	}
	if g.State() != StateThrowing || len(g.Selection()) != 0 {
		t.Fatalf("after discard: state %s, selection %d", g.State(), len(g.Selection()))
	}
	for _, d := range picked {
		if d.IsFrozen() {
			t.Errorf("discarded die %d not thrown", d.ID())
		}
	}
	for _, d := range g.Dice()[2:] {
		if !d.IsFrozen() {
			t.Errorf("kept die %d was thrown", d.ID())
		}
	}

	settle(t, g)
	last := (*rounds)[len(*rounds)-1]
	if last.Event != telemetry.EventSettle || last.Thrown != 2 {
		t.Errorf("unexpected record after re-settle %+v", last)
	}
}

func TestScoreSequence(t *testing.T) {
	g, rounds := newTestGame(t, 0.5)
	settle(t, g)
	cfg := g.Config()
	tm := cfg.Timing

	scored := g.stored()[:3]
	for _, d := range scored {
		if !g.Select(d) {
			t.Fatalf("select die %d refused", d.ID())
		}
	}
	start := g.Now()

	if !g.Score() {
		t.Fatal("score refused")
	}
	if len(g.Selection()) != 0 {
		t.Error("selection not cleared immediately")
	}
	if !g.Busy() {
		t.Error("game should be busy during the score sequence")
	}
	if n := g.PendingTimers(); n != 4 {
		t.Errorf("%d timers pending, want 3 shakes and the re-throw", n)
	}
	if g.Select(g.stored()[0]) {
		t.Error("select accepted while busy")
	}
	if last := (*rounds)[len(*rounds)-1]; last.Event != telemetry.EventScore || len(last.Values) != 3 {
		t.Errorf("unexpected score record %+v", last)
	}

	run(g, tm.ScoreStagger*2+tm.MoveDuration)
	for _, d := range scored {
		if math.Abs(d.Position().Z-cfg.Layout.ScoreDepth) > 1e-9 {
			t.Errorf("die %d at depth %f, want score row %f", d.ID(), d.Position().Z, cfg.Layout.ScoreDepth)
		}
		if g.RowOf(d) != layout.RowScore {
			t.Errorf("die %d not in score row", d.ID())
		}
	}

	finish := tm.ShakeDelay + tm.ShakeDuration + tm.ShakeInterval*3
	run(g, start+finish-frame-g.Now())
	if g.State() != StateSelecting || !g.Busy() {
		t.Fatalf("sequence ended early at %v", g.Now()-start)
	}

	g.Update(frame)
	if g.Now()-start != finish {
		t.Fatalf("clock drifted: %v", g.Now()-start)
	}
	if g.State() != StateThrowing || g.Busy() {
		t.Fatalf("state %s busy %v at sequence end", g.State(), g.Busy())
	}
	if n := g.PendingTimers(); n != 0 {
		t.Errorf("%d timers left after the sequence", n)
	}
	for _, d := range scored {
		if d.IsFrozen() {
			t.Errorf("scored die %d was not re-thrown", d.ID())
		}
	}
}

func TestAutoPlayWithReferencePhysics(t *testing.T) {
	cfg := config.Default()
	g := NewGame(cfg, Options{Seed: 7})

	scores := 0
	for i := 0; i < 2000 && scores < 3; i++ {
		g.Update(cfg.Derived.DT)
		if g.AutoPlay(3) {
			scores++
		}
	}
	if scores < 3 {
		t.Fatalf("only %d scores in %d rounds", scores, g.Round())
	}
	if n := len(g.LastScore()); n != 3 {
		t.Errorf("last score has %d values, want 3", n)
	}
	for i := 1; i < len(g.LastScore()); i++ {
		if g.LastScore()[i-1] < g.LastScore()[i] {
			t.Errorf("score values not sorted: %v", g.LastScore())
		}
	}
}
