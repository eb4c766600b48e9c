package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/geom"
)

// ExplodingSystem counts down warheads, runs proximity fuses and resolves
// area damage. Targets are hashed into a spatial grid at most once per tick,
// and only when a fuse needs them.
type ExplodingSystem struct {
	warheads ecs.Filter2[components.Location, components.Exploding]
	targets  ecs.Filter2[components.Location, components.Damageable]
	interval float64
	pending  float64
	indexed  bool

	scratch   []target
	grid      *SpatialGrid
	neighbors []Neighbor
}

// gridCellSize is the edge of a spatial grid cell in m, on the order of the
// largest damage radius.
const gridCellSize = 100

type target struct {
	entity ecs.Entity
	dmg    components.Damageable
}

// NewExplodingSystem creates a new exploding system scanning every interval seconds.
func NewExplodingSystem(w *ecs.World, interval float64) *ExplodingSystem {
	return &ExplodingSystem{
		warheads: *ecs.NewFilter2[components.Location, components.Exploding](w),
		targets:  *ecs.NewFilter2[components.Location, components.Damageable](w),
		interval: interval,
		grid:     NewSpatialGrid(gridCellSize),
	}
}

// ExplosionDamage returns the damage dealt at squared distance dist2 from a
// blast. Damage falls off linearly in squared distance and is zero from the
// radius outward.
func ExplosionDamage(damage, radius, dist2 float64) (float64, bool) {
	r2 := radius * radius
	if dist2 >= r2 {
		return 0, false
	}
	return geom.MapRange(dist2, 0, r2, damage, 0), true
}

// Update advances warhead timers by t.Delta and queues explosions on cmds.
// Timed warheads go off on the tick their fuse runs out; proximity fuses are
// only checked on scan ticks.
func (s *ExplodingSystem) Update(t Time, cmds *Commands) {
	s.pending += t.Delta
	scan := s.pending >= s.interval
	if scan {
		s.pending = 0
	}
	s.indexed = false

	query := s.warheads.Query()
	for query.Next() {
		self := query.Entity()
		loc, ex := query.Get()

		ex.UntilArmed -= t.Delta
		ex.UntilExplode -= t.Delta

		if ex.ShouldExplode() || (scan && ex.IsArmed() && s.triggered(self, loc.Position, ex)) {
			s.explode(self, loc.Position, ex, cmds)
		}
	}
}

// index hashes every damageable target into the grid, once per tick.
func (s *ExplodingSystem) index() {
	if s.indexed {
		return
	}
	s.indexed = true
	s.scratch = s.scratch[:0]
	s.grid.Clear()
	tq := s.targets.Query()
	for tq.Next() {
		loc, dmg := tq.Get()
		s.grid.Insert(len(s.scratch), loc.Position)
		s.scratch = append(s.scratch, target{entity: tq.Entity(), dmg: *dmg})
	}
}

func (s *ExplodingSystem) triggered(self ecs.Entity, pos r3.Vec, ex *components.Exploding) bool {
	s.index()
	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], pos, ex.ProximityRadius)
	for _, n := range s.neighbors {
		tg := &s.scratch[n.Index]
		if tg.entity != self && tg.entity != ex.Ignore {
			return true
		}
	}
	return false
}

func (s *ExplodingSystem) explode(self ecs.Entity, pos r3.Vec, ex *components.Exploding, cmds *Commands) {
	hits := 0
	s.index()
	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], pos, ex.DamageRadius)
	for _, n := range s.neighbors {
		tg := &s.scratch[n.Index]
		if tg.entity == self {
			continue
		}
		if dmg, ok := ExplosionDamage(ex.Damage, ex.DamageRadius, n.DistSq); ok {
			tg.dmg.AddDamage(dmg)
			hits++
		}
	}

	damage, radius := ex.Damage, ex.DamageRadius
	cmds.Remove(self)
	cmds.Spawn(func(sp Spawner) { sp.Explosion(pos, damage, radius) })
	cmds.Events.Add(Event{Kind: EventExplosion, Entity: self, Pos: pos, Value: damage})
	slog.Debug("explosion", "damage", damage, "radius", radius, "hits", hits)
}
