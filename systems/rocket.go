package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/parts"
)

// RocketSystem runs torpedo engines and fins.
type RocketSystem struct {
	filter ecs.Filter3[components.Rocket, components.Location, components.Physical]
}

// NewRocketSystem creates a new rocket system.
func NewRocketSystem(w *ecs.World) *RocketSystem {
	return &RocketSystem{
		filter: *ecs.NewFilter3[components.Rocket, components.Location, components.Physical](w),
	}
}

// Update advances every rocket by t.Delta.
func (s *RocketSystem) Update(t Time) {
	query := s.filter.Query()
	for query.Next() {
		rocket, loc, phys := query.Get()
		UpdateRocket(t.Delta, rocket, loc, phys)
	}
}

// UpdateRocket advances a single rocket by dt.
func UpdateRocket(dt float64, rocket *components.Rocket, loc *components.Location, phys *components.Physical) {
	supplied(rocket.Propellant, rocket.Engine)
	parts.UpdateSystem(&rocket.System, dt)

	drain(rocket.Propellant, rocket.PropellantConsumption*rocket.Engine.PosMagnitude()*dt)
	if supplied(rocket.Propellant, rocket.Engine) {
		pushForward(phys, loc, rocket.Engine.Value())
	}
	yaw(loc, rocket.Rudder.Value()*dt)
	pitch(loc, rocket.DiveFins.Value()*dt)
}
