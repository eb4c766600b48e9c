package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/geom"
	"github.com/pthm-cable/depthcharge/telemetry"
)

// census holds the queries used to sample the world for telemetry.
type census struct {
	enemies   ecs.Filter3[components.Enemy, components.Location, components.Physical]
	torpedoes ecs.Filter3[components.Rocket, components.Location, components.Physical]
	bubbles   ecs.Filter1[components.Bubble]
	vessel    *ecs.Map5[components.Location, components.Physical, components.Ship, components.Submarine, components.Damageable]
}

func newCensus(w *ecs.World) census {
	return census{
		enemies:   *ecs.NewFilter3[components.Enemy, components.Location, components.Physical](w),
		torpedoes: *ecs.NewFilter3[components.Rocket, components.Location, components.Physical](w),
		bubbles:   *ecs.NewFilter1[components.Bubble](w),
		vessel:    ecs.NewMap5[components.Location, components.Physical, components.Ship, components.Submarine, components.Damageable](w),
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Sim) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}
	s.flushWindow()
}

// flushWindow closes the current stats window.
func (s *Sim) flushWindow() {
	stats := s.collector.Flush(s.tick, s.samplePopulation(), s.samplePlayer())
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if s.outputManager.Enabled() {
		rows := telemetry.VesselRecords(stats.WindowEndTick, s.vesselStates())
		if err := s.outputManager.WriteVessels(rows); err != nil {
			slog.Error("failed to write vessels", "error", err)
		}
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if s.snapshotDir != "" {
			s.saveSnapshot(&bm)
		}
	}
}

// samplePopulation counts entities and collects enemy depths and speeds.
func (s *Sim) samplePopulation() telemetry.Population {
	var pop telemetry.Population

	eq := s.census.enemies.Query()
	for eq.Next() {
		_, loc, phys := eq.Get()
		pop.Enemies++
		pop.EnemyDepths = append(pop.EnemyDepths, s.sea.Depth(loc.Position))
		pop.EnemySpeeds = append(pop.EnemySpeeds, r3.Norm(phys.Velocity))
	}

	tq := s.census.torpedoes.Query()
	for tq.Next() {
		pop.Torpedoes++
	}

	bq := s.census.bubbles.Query()
	for bq.Next() {
		pop.Bubbles++
	}
	return pop
}

// samplePlayer reads the player's submarine. A destroyed player yields the
// zero state.
func (s *Sim) samplePlayer() telemetry.PlayerState {
	if !s.PlayerAlive() {
		return telemetry.PlayerState{}
	}
	loc, phys, ship, sub, dmg := s.census.vessel.Get(s.player)
	return telemetry.PlayerState{
		Alive:     true,
		Depth:     s.sea.Depth(loc.Position),
		Speed:     r3.Norm(phys.Velocity),
		Diesel:    ship.Diesel.Level(),
		Battery:   sub.Battery.Level(),
		Ballast:   sub.Ballast.Level(),
		HitPoints: dmg.HitPoints.Amount(),
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (s *Sim) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(s.createSnapshot(bookmark), s.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}

// createSnapshot builds a snapshot of every vessel.
func (s *Sim) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		Seed:     s.seed,
		Tick:     s.tick,
		SimTime:  s.elapsed,
		Vessels:  s.vesselStates(),
		Bookmark: bookmark,
	}
}

// vesselStates lists the player, then enemies, then torpedoes.
func (s *Sim) vesselStates() []telemetry.VesselState {
	var vessels []telemetry.VesselState
	if s.PlayerAlive() {
		vessels = append(vessels, s.submarineState(s.player, "player"))
	}

	eq := s.census.enemies.Query()
	for eq.Next() {
		vessels = append(vessels, s.submarineState(eq.Entity(), "enemy"))
	}

	tq := s.census.torpedoes.Query()
	for tq.Next() {
		_, loc, phys := tq.Get()
		vessels = append(vessels, bodyState(tq.Entity(), "torpedo", loc, phys))
	}
	return vessels
}

func (s *Sim) submarineState(e ecs.Entity, role string) telemetry.VesselState {
	loc, phys, ship, sub, dmg := s.census.vessel.Get(e)
	state := bodyState(e, role, loc, phys)
	state.HitPoints = dmg.HitPoints.Amount()
	state.Diesel = ship.Diesel.Level()
	state.Battery = sub.Battery.Level()
	state.Ballast = sub.Ballast.Level()
	return state
}

func bodyState(e ecs.Entity, role string, loc *components.Location, phys *components.Physical) telemetry.VesselState {
	p, v := loc.Position, phys.Velocity
	return telemetry.VesselState{
		ID:     uint32(e.ID()),
		Role:   role,
		Pos:    [3]float64{p.X, p.Y, p.Z},
		Vel:    [3]float64{v.X, v.Y, v.Z},
		Yaw:    geom.Yaw(loc.Direction),
		Radius: phys.Radius(),
	}
}
