package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/depthcharge/components"
)

// DamageSystem removes destroyed entities and regenerates hit points.
type DamageSystem struct {
	filter      ecs.Filter2[components.Damageable, components.Location]
	debrisRange float64
}

// NewDamageSystem creates a new damage system. Destroyed hulls leave a
// bubble cloud debrisRange meters across.
func NewDamageSystem(w *ecs.World, debrisRange float64) *DamageSystem {
	return &DamageSystem{
		filter:      *ecs.NewFilter2[components.Damageable, components.Location](w),
		debrisRange: debrisRange,
	}
}

// Update queues removal of destroyed entities; the rest regenerate.
func (s *DamageSystem) Update(t Time, cmds *Commands) {
	query := s.filter.Query()
	for query.Next() {
		dmg, loc := query.Get()
		if dmg.IsDestroyed() {
			e := query.Entity()
			pos, debris, radius := loc.Position, dmg.Debris, s.debrisRange
			cmds.Remove(e)
			cmds.Spawn(func(sp Spawner) { sp.Explosion(pos, debris, radius) })
			cmds.Events.Add(Event{Kind: EventDestroyed, Entity: e, Pos: pos, Value: debris})
			slog.Info("entity_destroyed", "entity", e.ID(), "x", pos.X, "depth", -pos.Y, "z", pos.Z)
			continue
		}
		dmg.HitPoints.Update(t.Delta)
	}
}
