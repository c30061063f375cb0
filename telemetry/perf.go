// Package telemetry records frame timings and per-round outcomes, logs them
// through slog, and writes them as CSV.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one game frame, in execution order.
const (
	PhasePhysics   = "physics"
	PhaseSync      = "sync"
	PhaseState     = "state"
	PhaseTimers    = "timers"
	PhaseAnimation = "animation"
)

// Phases lists every frame phase in execution order.
var Phases = []string{PhasePhysics, PhaseSync, PhaseState, PhaseTimers, PhaseAnimation}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector keeps a rolling window of frame samples.
type PerfCollector struct {
	window []PerfSample
	next   int
	filled int

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      string

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		window:  make([]PerfSample, windowSize),
		current: make(map[string]time.Duration),
	}
}

// StartTick begins timing a frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = make(map[string]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens the next one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the frame and stores its sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""

	p.window[p.next] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.current,
	}
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

// RecordFrame measures wall time between rendered frames.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of the average tick

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregates over the samples collected so far.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i, sample := range p.window[:p.filled] {
		total += sample.TickDuration
		if i == 0 || sample.TickDuration < s.MinTickDuration {
			s.MinTickDuration = sample.TickDuration
		}
		if sample.TickDuration > s.MaxTickDuration {
			s.MaxTickDuration = sample.TickDuration
		}
		for phase, d := range sample.Phases {
			sums[phase] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	for phase, sum := range sums {
		avg := sum / n
		s.PhaseAvg[phase] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[phase] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the aggregate at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	Frame        int64   `csv:"frame"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	PhysicsPct   float64 `csv:"physics_pct"`
	SyncPct      float64 `csv:"sync_pct"`
	StatePct     float64 `csv:"state_pct"`
	TimersPct    float64 `csv:"timers_pct"`
	AnimationPct float64 `csv:"animation_pct"`
}

// ToCSV flattens the stats for the frame they were taken at.
func (s PerfStats) ToCSV(frame int64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:        frame,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		PhysicsPct:   s.PhasePct[PhasePhysics],
		SyncPct:      s.PhasePct[PhaseSync],
		StatePct:     s.PhasePct[PhaseState],
		TimersPct:    s.PhasePct[PhaseTimers],
		AnimationPct: s.PhasePct[PhaseAnimation],
	}
}
