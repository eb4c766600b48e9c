package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a simulation step.
type Phase int

// Phases of a simulation step, in step order.
const (
	PhaseEnemy Phase = iota
	PhaseTracking
	PhaseTubes
	PhaseBubbling
	PhaseBubbles
	PhaseShips
	PhaseSubmarines
	PhaseRockets
	PhasePhysics
	PhaseExploding
	PhaseDamage
	PhaseFlush
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"enemy", "tracking", "torpedo_tubes", "bubbling", "bubbles",
	"ships", "submarines", "rockets", "physics",
	"exploding", "damage", "flush", "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps the timings of the most recent steps in a ring.
// Time between StartPhase calls is charged to the phase started last.
type PerfCollector struct {
	ring   []tickTiming
	next   int
	filled int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector over the last size steps.
func NewPerfCollector(size int) *PerfCollector {
	if size < 1 {
		size = 60
	}
	return &PerfCollector{ring: make([]tickTiming, size)}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.cur = tickTiming{}
	p.tickStart = time.Now()
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.endPhase(now)
	p.phase, p.phaseStart, p.inPhase = ph, now, true
}

func (p *PerfCollector) endPhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick ends the step and stores it, evicting the oldest when full.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.endPhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// PerfStats summarizes the stored step timings.
type PerfStats struct {
	Ticks          int
	MeanTick       time.Duration
	P99Tick        time.Duration
	MaxTick        time.Duration
	TicksPerSecond float64

	PhaseMean  [numPhases]time.Duration
	PhaseShare [numPhases]float64 // percent of the mean step
}

// Share returns the percentage of a mean step spent in ph.
func (s PerfStats) Share(ph Phase) float64 { return s.PhaseShare[ph] }

// Stats summarizes the ring. An empty collector yields zero stats.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Ticks: p.filled}
	if p.filled == 0 {
		return s
	}

	totals := make([]float64, p.filled)
	var sums [numPhases]time.Duration
	for i, tt := range p.ring[:p.filled] {
		totals[i] = float64(tt.total)
		for ph, d := range tt.phases {
			sums[ph] += d
		}
	}
	slices.Sort(totals)

	mean := stat.Mean(totals, nil)
	s.MeanTick = time.Duration(mean)
	s.P99Tick = time.Duration(stat.Quantile(0.99, stat.Empirical, totals, nil))
	s.MaxTick = time.Duration(floats.Max(totals))
	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
	}
	for ph, sum := range sums {
		s.PhaseMean[ph] = sum / time.Duration(p.filled)
		if mean > 0 {
			s.PhaseShare[ph] = float64(s.PhaseMean[ph]) / mean * 100
		}
	}
	return s
}

// LogValue implements slog.LogValuer. Phases under 0.1% are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("mean_tick_us", s.MeanTick.Microseconds()),
		slog.Int64("p99_tick_us", s.P99Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for ph, share := range s.PhaseShare {
		if share > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", share))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the step timings using slog.
func (s PerfStats) LogStats() {
	slog.Info("perf_window", "perf", s)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	MeanTickUS    int64   `csv:"mean_tick_us"`
	P99TickUS     int64   `csv:"p99_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	EnemyPct      float64 `csv:"enemy_pct"`
	TrackingPct   float64 `csv:"tracking_pct"`
	TubesPct      float64 `csv:"torpedo_tubes_pct"`
	BubblingPct   float64 `csv:"bubbling_pct"`
	BubblesPct    float64 `csv:"bubbles_pct"`
	ShipsPct      float64 `csv:"ships_pct"`
	SubmarinesPct float64 `csv:"submarines_pct"`
	RocketsPct    float64 `csv:"rockets_pct"`
	PhysicsPct    float64 `csv:"physics_pct"`
	ExplodingPct  float64 `csv:"exploding_pct"`
	DamagePct     float64 `csv:"damage_pct"`
	FlushPct      float64 `csv:"flush_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	sh := s.PhaseShare
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		MeanTickUS:    s.MeanTick.Microseconds(),
		P99TickUS:     s.P99Tick.Microseconds(),
		MaxTickUS:     s.MaxTick.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		EnemyPct:      sh[PhaseEnemy],
		TrackingPct:   sh[PhaseTracking],
		TubesPct:      sh[PhaseTubes],
		BubblingPct:   sh[PhaseBubbling],
		BubblesPct:    sh[PhaseBubbles],
		ShipsPct:      sh[PhaseShips],
		SubmarinesPct: sh[PhaseSubmarines],
		RocketsPct:    sh[PhaseRockets],
		PhysicsPct:    sh[PhasePhysics],
		ExplodingPct:  sh[PhaseExploding],
		DamagePct:     sh[PhaseDamage],
		FlushPct:      sh[PhaseFlush],
		TelemetryPct:  sh[PhaseTelemetry],
	}
}
