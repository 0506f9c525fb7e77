package telemetry

import (
	"log/slog"
	"time"
)

// Phase is a timed section of the simulation step.
type Phase uint8

const (
	PhaseIntents Phase = iota
	PhaseSpatialGrid
	PhaseMunchers
	PhaseProjectiles
	PhaseCleanup
	PhaseSpawn
	PhaseTelemetry
	NumPhases
)

var phaseNames = [NumPhases]string{
	PhaseIntents:     "intents",
	PhaseSpatialGrid: "spatial_grid",
	PhaseMunchers:    "munchers",
	PhaseProjectiles: "projectiles",
	PhaseCleanup:     "cleanup",
	PhaseSpawn:       "spawn",
	PhaseTelemetry:   "telemetry",
}

func (p Phase) String() string {
	if p >= NumPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists the step phases in execution order.
var Phases = [NumPhases]Phase{
	PhaseIntents, PhaseSpatialGrid, PhaseMunchers, PhaseProjectiles,
	PhaseCleanup, PhaseSpawn, PhaseTelemetry,
}

// PerfSample is the timing of one step: wall time per phase and how many
// entities each phase handled.
type PerfSample struct {
	TickDuration time.Duration
	Phases       [NumPhases]time.Duration
	Load         [NumPhases]int
}

// PerfCollector keeps the last windowSize step samples in a ring.
type PerfCollector struct {
	samples []PerfSample
	next    int
	count   int

	cur        PerfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize steps (60 if < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]PerfSample, windowSize)}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = PerfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase and starts timing phase, which is about
// to handle load entities.
func (p *PerfCollector) StartPhase(phase Phase, load int) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
	p.cur.Load[phase] += load
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the last phase and stores the step's sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.TickDuration = now.Sub(p.tickStart)

	p.samples[p.next] = p.cur
	p.next = (p.next + 1) % len(p.samples)
	p.count = min(p.count+1, len(p.samples))
}

// RecordFrame marks a presented frame; the gap to the previous one gives FPS.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the samples in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg  [NumPhases]time.Duration
	PhasePct  [NumPhases]float64 // share of the average step
	PhaseLoad [NumPhases]float64 // mean entities handled per step
	PerEntity [NumPhases]time.Duration

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes the window aggregate. An empty window yields zero stats.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frameDuration}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [NumPhases]time.Duration
	var loadSum [NumPhases]int
	for i, smp := range p.samples[:p.count] {
		total += smp.TickDuration
		if i == 0 || smp.TickDuration < s.MinTickDuration {
			s.MinTickDuration = smp.TickDuration
		}
		s.MaxTickDuration = max(s.MaxTickDuration, smp.TickDuration)
		for ph := range NumPhases {
			phaseSum[ph] += smp.Phases[ph]
			loadSum[ph] += smp.Load[ph]
		}
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	for ph := range NumPhases {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		s.PhaseLoad[ph] = float64(loadSum[ph]) / float64(p.count)
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
		if loadSum[ph] > 0 {
			s.PerEntity[ph] = phaseSum[ph] / time.Duration(loadSum[ph])
		}
	}
	return s
}

// LogStats logs the window aggregate at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% of the step are left out.
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
	for _, ph := range Phases {
		if s.PhasePct[ph] < 0.1 {
			continue
		}
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(s.PhasePct[ph]*10))/10))
		if s.PerEntity[ph] > 0 {
			attrs = append(attrs, slog.Int64(ph.String()+"_ns_each", s.PerEntity[ph].Nanoseconds()))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	IntentsPct     float64 `csv:"intents_pct"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	MunchersPct    float64 `csv:"munchers_pct"`
	ProjectilesPct float64 `csv:"projectiles_pct"`
	CleanupPct     float64 `csv:"cleanup_pct"`
	SpawnPct       float64 `csv:"spawn_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`

	MeanMunchers    float64 `csv:"mean_munchers"`
	MuncherTurnNS   int64   `csv:"muncher_turn_ns"`
	MeanProjectiles float64 `csv:"mean_projectiles"`
	ProjectileNS    int64   `csv:"projectile_ns"`
	PickupsIndexed  float64 `csv:"pickups_indexed"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		IntentsPct:     s.PhasePct[PhaseIntents],
		SpatialGridPct: s.PhasePct[PhaseSpatialGrid],
		MunchersPct:    s.PhasePct[PhaseMunchers],
		ProjectilesPct: s.PhasePct[PhaseProjectiles],
		CleanupPct:     s.PhasePct[PhaseCleanup],
		SpawnPct:       s.PhasePct[PhaseSpawn],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],

		MeanMunchers:    s.PhaseLoad[PhaseMunchers],
		MuncherTurnNS:   s.PerEntity[PhaseMunchers].Nanoseconds(),
		MeanProjectiles: s.PhaseLoad[PhaseProjectiles],
		ProjectileNS:    s.PerEntity[PhaseProjectiles].Nanoseconds(),
		PickupsIndexed:  s.PhaseLoad[PhaseSpatialGrid],
	}
}
