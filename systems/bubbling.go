package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/geom"
)

// BubblingSystem emits bubble clouds from bubbling entities.
type BubblingSystem struct {
	filter ecs.Filter2[components.Location, components.Bubbling]
	rng    *rand.Rand
}

// NewBubblingSystem creates a new bubbling system.
func NewBubblingSystem(w *ecs.World, rng *rand.Rand) *BubblingSystem {
	return &BubblingSystem{
		filter: *ecs.NewFilter2[components.Location, components.Bubbling](w),
		rng:    rng,
	}
}

// Update counts down every source and queues a cloud when one is due.
func (s *BubblingSystem) Update(t Time, cmds *Commands) {
	query := s.filter.Query()
	for query.Next() {
		loc, b := query.Get()
		b.UntilNext -= t.Delta
		if b.UntilNext > 0 {
			continue
		}

		count := b.Count
		if b.VaryingCount && b.Count > 0 {
			count = s.rng.IntN(b.Count)
		}

		pos := r3.Add(loc.Position, geom.Rotate(loc.Direction, b.Offset))
		cloud := b.CloudDiameter
		if b.Cluster {
			pos = r3.Add(pos, r3.Scale(cloud, r3.Vec{X: s.rng.NormFloat64(), Y: s.rng.NormFloat64(), Z: s.rng.NormFloat64()}))
			cloud *= 0.01
		}

		diameter, lifeTime, varying := b.Diameter, b.LifeTime, b.VaryingSizes
		cmds.Spawn(func(sp Spawner) {
			if varying {
				sp.VaryingBubbleCloud(pos, count, diameter, cloud, lifeTime)
			} else {
				sp.BubbleCloud(pos, count, diameter, cloud, lifeTime)
			}
		})

		if b.VaryingInterval {
			b.UntilNext = s.rng.Float64()*b.Interval + b.Interval*0.5
		} else {
			// Small jitter keeps sources from bubbling in lockstep.
			b.UntilNext = b.Interval + s.rng.Float64()*0.1
		}
	}
}
