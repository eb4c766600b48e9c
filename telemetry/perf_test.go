package telemetry

import (
	"testing"
	"time"
)

func timedTicks(pc *PerfCollector, n int, phases map[Phase]time.Duration, order ...Phase) {
	for range n {
		pc.StartTick()
		for _, ph := range order {
			pc.StartPhase(ph)
			time.Sleep(phases[ph])
		}
		pc.EndTick()
	}
}

func TestPerfCollector_PhaseShares(t *testing.T) {
	pc := NewPerfCollector(10)
	timedTicks(pc, 5, map[Phase]time.Duration{
		PhaseBubbles: 50 * time.Microsecond,
		PhasePhysics: 2 * time.Millisecond,
	}, PhaseBubbles, PhasePhysics)

	stats := pc.Stats()
	if stats.Ticks != 5 {
		t.Errorf("ticks = %d, want 5", stats.Ticks)
	}
	if stats.MeanTick <= 0 || stats.TicksPerSecond <= 0 {
		t.Fatalf("no timing recorded: %+v", stats)
	}
	if stats.PhaseMean[PhasePhysics] < 2*time.Millisecond {
		t.Errorf("physics mean %v shorter than its sleep", stats.PhaseMean[PhasePhysics])
	}
	if stats.Share(PhasePhysics) <= stats.Share(PhaseBubbles) {
		t.Errorf("physics share %v%% not above bubbles %v%%", stats.Share(PhasePhysics), stats.Share(PhaseBubbles))
	}
	if stats.Share(PhaseEnemy) != 0 {
		t.Errorf("untimed phase has share %v%%", stats.Share(PhaseEnemy))
	}
	if stats.P99Tick > stats.MaxTick || stats.MeanTick > stats.MaxTick {
		t.Errorf("tick summary out of order: mean %v p99 %v max %v", stats.MeanTick, stats.P99Tick, stats.MaxTick)
	}
}

func TestPerfCollector_RingEvictsOldest(t *testing.T) {
	pc := NewPerfCollector(3)
	timedTicks(pc, 3, map[Phase]time.Duration{PhaseDamage: 5 * time.Millisecond}, PhaseDamage)
	timedTicks(pc, 3, nil, PhaseFlush)

	stats := pc.Stats()
	if stats.Ticks != 3 {
		t.Errorf("ticks = %d, want the ring size", stats.Ticks)
	}
	if stats.PhaseMean[PhaseDamage] != 0 {
		t.Errorf("evicted damage timings still counted: %v", stats.PhaseMean[PhaseDamage])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.Ticks != 0 || stats.MeanTick != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats = %+v", stats)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	var s PerfStats
	s.MeanTick = 1500 * time.Microsecond
	s.PhaseShare[PhasePhysics] = 60
	s.PhaseShare[PhaseTelemetry] = 5

	row := s.ToCSV(400)
	if row.WindowEnd != 400 || row.MeanTickUS != 1500 {
		t.Errorf("row = %+v", row)
	}
	if row.PhysicsPct != 60 || row.TelemetryPct != 5 || row.EnemyPct != 0 {
		t.Errorf("phase columns = %+v", row)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseTubes.String() != "torpedo_tubes" || PhaseTelemetry.String() != "telemetry" {
		t.Errorf("names = %q, %q", PhaseTubes, PhaseTelemetry)
	}
	if Phase(99).String() != "unknown" {
		t.Errorf("out of range phase = %q", Phase(99))
	}
}
