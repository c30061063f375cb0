// Package game runs the dice tray: it owns the dice, advances physics and
// animation once per frame, and moves between the throwing and selecting
// phases in response to settling and player input.
package game

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/d20/anim"
	"github.com/pthm-cable/d20/config"
	"github.com/pthm-cable/d20/dice"
	"github.com/pthm-cable/d20/geom"
	"github.com/pthm-cable/d20/hull"
	"github.com/pthm-cable/d20/layout"
	"github.com/pthm-cable/d20/physics"
	"github.com/pthm-cable/d20/telemetry"
)

// State is the game phase.
type State uint8

const (
	StateThrowing State = iota
	StateSelecting
)

func (s State) String() string {
	switch s {
	case StateThrowing:
		return "throwing"
	case StateSelecting:
		return "selecting"
	}
	return "unknown"
}

// Options configure a new game.
type Options struct {
	Seed int64

	// Engine simulates the dice. Nil uses the reference physics.World.
	Engine physics.Engine

	// Output receives rounds.csv and perf.csv rows. May be nil.
	Output *telemetry.OutputManager

	// OnRound is called for every settle, score, and discard record.
	OnRound func(telemetry.RoundStats)
}

// pose is a die's resting slot, the base its oscillations return to.
type pose struct {
	position    r3.Vec
	orientation quat.Number
}

// Game holds the complete tray state.
type Game struct {
	cfg    *config.Config
	rng    *rand.Rand
	engine physics.Engine
	hull   *hull.Hull
	layout layout.Layout

	scene  *dice.Scene
	dice   []*dice.Die
	driver *anim.Driver
	timers *anim.Timers

	// Game clock, advanced by Update
	now   time.Duration
	frame int64

	state     State
	lastThrow time.Duration
	thrown    int

	selection []*dice.Die
	scoring   map[*dice.Die]bool
	home      map[*dice.Die]pose
	busy      bool

	round     int
	lastScore telemetry.Values

	perf    *telemetry.PerfCollector
	output  *telemetry.OutputManager
	onRound func(telemetry.RoundStats)
}

// NewGame spawns the dice at random points above the arena and throws them.
func NewGame(cfg *config.Config, opts Options) *Game {
	engine := opts.Engine
	if engine == nil {
		engine = physics.NewWorld(physics.ParamsFromConfig(cfg))
	}

	g := &Game{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		engine:  engine,
		hull:    hull.D20,
		layout:  layout.FromConfig(cfg),
		scene:   dice.NewScene(),
		driver:  anim.NewDriver(),
		timers:  anim.NewTimers(),
		scoring: make(map[*dice.Die]bool),
		home:    make(map[*dice.Die]pose),
		perf:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:  opts.Output,
		onRound: opts.OnRound,
	}

	r := cfg.Dice.Radius
	a := cfg.Arena
	for i := 0; i < cfg.Dice.Count; i++ {
		pos := r3.Vec{
			X: a.Left + r + g.rng.Float64()*(a.Right-a.Left-2*r),
			Y: a.Floor + cfg.Dice.SpawnHeight,
			Z: a.Far + r + g.rng.Float64()*(a.Near-a.Far-2*r),
		}
		body := engine.AddBody(physics.BodyDef{
			Radius:      r,
			Mass:        1,
			Position:    pos,
			Orientation: g.randomOrientation(),
		})
		g.dice = append(g.dice, dice.New(i, body, g.scene, g.hull, r))
	}

	g.throw(g.dice)
	return g
}

func (g *Game) randomOrientation() quat.Number {
	axis := r3.Vec{X: g.rng.NormFloat64(), Y: g.rng.NormFloat64(), Z: g.rng.NormFloat64()}
	if r3.Norm(axis) == 0 {
		return geom.Identity
	}
	return geom.FromAxisAngle(r3.Unit(axis), g.rng.Float64()*2*math.Pi)
}

// State returns the current phase.
func (g *Game) State() State { return g.state }

// Busy reports whether a score sequence is still playing.
func (g *Game) Busy() bool { return g.busy }

// Now returns the game clock.
func (g *Game) Now() time.Duration { return g.now }

// Frame returns the number of Update calls so far.
func (g *Game) Frame() int64 { return g.frame }

// Round returns the number of settles so far.
func (g *Game) Round() int { return g.round }

// Dice returns every die in spawn order.
func (g *Game) Dice() []*dice.Die { return g.dice }

// Scene returns the renderable ECS scene.
func (g *Game) Scene() *dice.Scene { return g.scene }

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// PendingTimers returns the number of deferred steps still scheduled.
func (g *Game) PendingTimers() int { return g.timers.Pending() }

// LastScore returns the values of the most recent score, highest first.
func (g *Game) LastScore() telemetry.Values { return g.lastScore }

// Selection returns a copy of the selection set, highest value first.
func (g *Game) Selection() []*dice.Die {
	out := make([]*dice.Die, len(g.selection))
	copy(out, g.selection)
	return out
}

// IsSelected reports whether d is in the selection set.
func (g *Game) IsSelected(d *dice.Die) bool {
	return indexOf(g.selection, d) >= 0
}

// IsScoring reports whether d is part of a pending score sequence.
func (g *Game) IsScoring(d *dice.Die) bool {
	return g.scoring[d]
}

// TrayValues returns the face values of the stored row, highest first.
func (g *Game) TrayValues() telemetry.Values {
	return valuesOf(g.stored())
}

func indexOf(ds []*dice.Die, d *dice.Die) int {
	for i, x := range ds {
		if x == d {
			return i
		}
	}
	return -1
}

func valuesOf(ds []*dice.Die) telemetry.Values {
	out := make(telemetry.Values, len(ds))
	for i, d := range ds {
		out[i] = d.Value()
	}
	return out
}
