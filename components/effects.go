package components

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/geom"
)

// Bubble is a rising gas bubble.
type Bubble struct {
	LifeTime    float64 // seconds
	Age         float64 // seconds
	WobbleStart float64 // phase seed in [0, 1)
	Floating    bool    // reached the surface
}

// NewBubble returns a fresh bubble with a random wobble phase.
func NewBubble(lifeTime float64, rng *rand.Rand) Bubble {
	return Bubble{LifeTime: lifeTime, WobbleStart: rng.Float64()}
}

// SecondsLeft returns the remaining lifetime.
func (b *Bubble) SecondsLeft() float64 { return b.LifeTime - b.Age }

// BubblingSpec configures a periodic bubble source.
type BubblingSpec struct {
	Interval        float64 `yaml:"interval"`       // seconds between clouds
	Count           int     `yaml:"count"`          // bubbles per cloud
	Diameter        float64 `yaml:"diameter"`       // m
	CloudDiameter   float64 `yaml:"cloud_diameter"` // m
	LifeTime        float64 `yaml:"life_time"`      // seconds
	VaryingSizes    bool    `yaml:"varying_sizes"`
	VaryingCount    bool    `yaml:"varying_count"`
	VaryingInterval bool    `yaml:"varying_interval"`
	Cluster         bool    `yaml:"cluster"`
}

// Bubbling emits bubble clouds at an offset from its entity.
type Bubbling struct {
	BubblingSpec
	Offset    r3.Vec // in the entity's model space
	UntilNext float64
}

// NewBubbling starts the countdown at a random point in the first interval.
func NewBubbling(spec BubblingSpec, offset r3.Vec, rng *rand.Rand) Bubbling {
	return Bubbling{
		BubblingSpec: spec,
		Offset:       offset,
		UntilNext:    rng.Float64() * spec.Interval,
	}
}

// Tracking pins an entity to another one. Target is a weak reference: when
// it is gone the follower is left where it is.
type Tracking struct {
	Target    ecs.Entity
	Offset    r3.Vec      // in the target's model space
	Direction quat.Number // relative to the target's orientation
}

// NewTracking follows target at offset with the same orientation.
func NewTracking(target ecs.Entity, offset r3.Vec) Tracking {
	return Tracking{Target: target, Offset: offset, Direction: geom.Identity}
}
