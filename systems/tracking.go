package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/geom"
)

// TrackingSystem moves followers along with the entity they track.
type TrackingSystem struct {
	world     *ecs.World
	filter    ecs.Filter2[components.Location, components.Tracking]
	locations *ecs.Map[components.Location]
}

// NewTrackingSystem creates a new tracking system.
func NewTrackingSystem(w *ecs.World) *TrackingSystem {
	return &TrackingSystem{
		world:     w,
		filter:    *ecs.NewFilter2[components.Location, components.Tracking](w),
		locations: ecs.NewMap[components.Location](w),
	}
}

// Update places every follower at its offset from the target. Followers
// whose target is gone keep their last location.
func (s *TrackingSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		loc, tr := query.Get()
		if !s.world.Alive(tr.Target) || !s.locations.Has(tr.Target) {
			continue
		}
		target := s.locations.Get(tr.Target)
		loc.Position = r3.Add(target.Position, geom.Rotate(target.Direction, tr.Offset))
		loc.Direction = quat.Mul(tr.Direction, target.Direction)
	}
}
