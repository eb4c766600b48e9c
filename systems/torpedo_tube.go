package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/depthcharge/components"
)

// TorpedoTubeSystem reloads tubes and launches requested torpedoes.
type TorpedoTubeSystem struct {
	filter ecs.Filter2[components.Location, components.TorpedoTube]
}

// NewTorpedoTubeSystem creates a new torpedo tube system.
func NewTorpedoTubeSystem(w *ecs.World) *TorpedoTubeSystem {
	return &TorpedoTubeSystem{
		filter: *ecs.NewFilter2[components.Location, components.TorpedoTube](w),
	}
}

// Update reloads every tube and queues launches.
func (s *TorpedoTubeSystem) Update(t Time, cmds *Commands) {
	query := s.filter.Query()
	for query.Next() {
		loc, tube := query.Get()
		tube.UntilReloaded -= t.Delta
		if !tube.Requested || !tube.Ready() {
			continue
		}

		source, at := query.Entity(), *loc
		size, speed := tube.SizeFactor, tube.SpeedFactor
		cmds.Spawn(func(sp Spawner) { sp.Torpedo(source, at, size, speed) })
		tube.UntilReloaded = tube.Reload
		tube.Requested = false
		cmds.Events.Add(Event{Kind: EventLaunch, Entity: source, Pos: at.Position, Value: size})
		slog.Debug("torpedo_launched", "source", source.ID(), "size", size, "speed", speed)
	}
}
