package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/depthcharge/systems"
	"github.com/pthm-cable/depthcharge/telemetry"
)

// Step advances the simulation by one fixed tick. Systems run in a fixed
// order and queued structural changes are applied after each of them, so
// every system sees the entities created or removed by the ones before it.
func (s *Sim) Step() error {
	t := systems.Time{Delta: s.cfg.Physics.DT, Elapsed: s.elapsed}
	cmds := &s.cmds

	s.perfCollector.StartTick()

	s.phase(telemetry.PhaseEnemy, func() { s.enemy.Update(t, cmds) })
	s.phase(telemetry.PhaseTracking, s.tracking.Update)
	s.phase(telemetry.PhaseTubes, func() { s.tubes.Update(t, cmds) })
	s.phase(telemetry.PhaseBubbling, func() { s.bubbling.Update(t, cmds) })
	s.phase(telemetry.PhaseBubbles, func() { s.bubbles.Update(t, cmds) })
	s.phase(telemetry.PhaseShips, func() { s.ships.Update(t) })

	var err error
	s.phase(telemetry.PhaseSubmarines, func() { err = s.submarines.Update(t) })
	if err != nil {
		s.perfCollector.EndTick()
		return fmt.Errorf("tick %d: %w", s.tick, err)
	}
	s.phase(telemetry.PhaseRockets, func() { s.rockets.Update(t) })

	s.phase(telemetry.PhasePhysics, func() { err = s.physics.Update(t) })
	if err != nil {
		s.perfCollector.EndTick()
		return fmt.Errorf("tick %d: %w", s.tick, err)
	}

	s.phase(telemetry.PhaseExploding, func() { s.exploding.Update(t, cmds) })
	s.phase(telemetry.PhaseDamage, func() { s.damage.Update(t, cmds) })

	s.tick++
	s.elapsed += t.Delta
	s.recordEvents()

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	s.perfCollector.EndTick()
	return nil
}

// phase runs one system and applies what it queued.
func (s *Sim) phase(ph telemetry.Phase, update func()) {
	s.perfCollector.StartPhase(ph)
	update()
	if !s.cmds.Pending() {
		return
	}
	s.perfCollector.StartPhase(telemetry.PhaseFlush)
	removed := s.cmds.Flush(s.world, s.factory)
	s.collector.RecordRemovals(removed)
}

// recordEvents moves this tick's events into the window collector and
// events.csv.
func (s *Sim) recordEvents() {
	ev := &s.cmds.Events
	s.collector.RecordExplosions(ev.Explosions)
	s.collector.RecordDestroyed(ev.Destroyed)
	s.collector.RecordLaunches(ev.TorpedoesLaunched)
	s.collector.RecordEnemySpawns(ev.EnemiesSpawned)
	s.collector.RecordBubbles(s.factory.TakeBubbles())

	if s.outputManager.Enabled() && len(ev.Log) > 0 {
		s.eventRows = s.eventRows[:0]
		for _, e := range ev.Log {
			s.eventRows = append(s.eventRows, eventRecord(s.tick, e))
		}
		if err := s.outputManager.WriteEvents(s.eventRows); err != nil {
			slog.Error("failed to write events", "error", err)
		}
	}
	ev.Reset()
}

func eventRecord(tick int32, e systems.Event) telemetry.EventRecord {
	rec := telemetry.EventRecord{
		Tick:  tick,
		Kind:  string(e.Kind),
		X:     e.Pos.X,
		Depth: -e.Pos.Y,
		Z:     e.Pos.Z,
		Value: e.Value,
	}
	if !e.Entity.IsZero() {
		rec.Entity = uint32(e.Entity.ID())
	}
	return rec
}

// Run steps the simulation until maxTicks is reached (0 = unlimited), the
// player is destroyed, or ctx is cancelled.
func (s *Sim) Run(ctx context.Context, maxTicks int) error {
	for {
		if err := ctx.Err(); err != nil {
			slog.Info("simulation_cancelled", "tick", s.tick)
			return nil
		}
		if err := s.Step(); err != nil {
			return err
		}
		if maxTicks > 0 && int(s.tick) >= maxTicks {
			slog.Info("max_ticks_reached", "tick", s.tick, "sim_time", s.elapsed)
			return nil
		}
		if !s.PlayerAlive() {
			if s.collector.Partial(s.tick) {
				s.flushWindow()
			}
			slog.Info("player_destroyed", "tick", s.tick, "sim_time", s.elapsed)
			return nil
		}
	}
}
