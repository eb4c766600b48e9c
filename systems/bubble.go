package systems

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/config"
	"github.com/pthm-cable/depthcharge/geom"
	"github.com/pthm-cable/depthcharge/ocean"
)

// minGasDensityMargin keeps bubble gas denser than surface air.
const minGasDensityMargin = 0.1

// BubbleSystem compresses and expands bubbles with the surrounding
// pressure, wobbles them as they rise, and pops them.
type BubbleSystem struct {
	filter ecs.Filter3[components.Bubble, components.Location, components.Physical]
	sea    *ocean.Sea
	cfg    config.BubblesConfig
	wobble opensimplex.Noise
}

// NewBubbleSystem creates a new bubble system. The wobble noise is seeded from rng.
func NewBubbleSystem(w *ecs.World, sea *ocean.Sea, cfg config.BubblesConfig, rng *rand.Rand) *BubbleSystem {
	return &BubbleSystem{
		filter: *ecs.NewFilter3[components.Bubble, components.Location, components.Physical](w),
		sea:    sea,
		cfg:    cfg,
		wobble: opensimplex.New(int64(rng.Uint64())),
	}
}

// Update ages every bubble and queues removal of expired ones.
func (s *BubbleSystem) Update(t Time, cmds *Commands) {
	query := s.filter.Query()
	for query.Next() {
		b, loc, phys := query.Get()
		pop, err := s.updateBubble(t, b, loc, phys)
		if err != nil {
			slog.Warn("bubble_popped", "entity", query.Entity().ID(), "error", err)
		}
		if pop || err != nil {
			cmds.Remove(query.Entity())
		}
	}
}

// updateBubble returns true when the bubble should be removed. A bubble
// whose size can no longer be represented is reported with an error.
func (s *BubbleSystem) updateBubble(t Time, b *components.Bubble, loc *components.Location, phys *components.Physical) (bool, error) {
	b.Age += t.Delta

	gas := math.Max(s.sea.AirDensity()+minGasDensityMargin, s.sea.GasDensity(loc.Position))
	if err := phys.SetDensity(gas); err != nil {
		return true, err
	}

	radius := phys.Radius()
	if !b.Floating {
		// Larger bubbles wobble slower but drift further.
		freq := s.cfg.WobblesPerSecond * geom.MapClamp(radius, 0, 1, 1, 0.3)
		force := s.cfg.DriftForce * geom.MapClamp(radius, 0, 1, 0, 2)
		phase := t.Elapsed * freq
		phys.Thrust.X += force * s.wobble.Eval2(phase+b.WobbleStart*134.321+12.12, 0)
		phys.Thrust.Z += force * s.wobble.Eval2(phase+b.WobbleStart*732.132+43.32, 0)
	}

	depth := s.sea.Depth(loc.Position)
	if !b.Floating && depth <= s.cfg.FloatDepth {
		b.Floating = true
		if radius > s.cfg.MaxSurfaceRadius {
			if err := phys.SetRadius(s.cfg.MaxSurfaceRadius); err != nil {
				return true, err
			}
		}
	}
	if b.Floating {
		phys.Velocity.Y *= 0.1
	}

	return depth < -s.cfg.RemoveAbove || b.SecondsLeft() <= 0, nil
}
