package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/geom"
	"github.com/pthm-cable/depthcharge/parts"
)

// ShipSystem runs diesel propulsion and rudder steering.
type ShipSystem struct {
	filter ecs.Filter3[components.Ship, components.Location, components.Physical]
}

// NewShipSystem creates a new ship system.
func NewShipSystem(w *ecs.World) *ShipSystem {
	return &ShipSystem{
		filter: *ecs.NewFilter3[components.Ship, components.Location, components.Physical](w),
	}
}

// Update advances controls, burns diesel and applies thrust and turning.
func (s *ShipSystem) Update(t Time) {
	query := s.filter.Query()
	for query.Next() {
		ship, loc, phys := query.Get()
		UpdateShip(t.Delta, ship, loc, phys)
	}
}

// UpdateShip advances a single ship by dt.
func UpdateShip(dt float64, ship *components.Ship, loc *components.Location, phys *components.Physical) {
	supplied(ship.Diesel, ship.Engine)
	parts.UpdateSystem(&ship.System, dt)

	drain(ship.Diesel, ship.DieselConsumption*ship.Engine.PosMagnitude()*dt)
	if supplied(ship.Diesel, ship.Engine) {
		pushForward(phys, loc, ship.Engine.Value())
	}
	yaw(loc, ship.Rudder.Value()*dt)
}

// supplied reports whether tank holds anything. While it is empty the
// targets of its consumers are held at zero.
func supplied(tank *parts.Tank, consumers ...*parts.Controllable) bool {
	if !tank.IsEmpty() {
		return true
	}
	for _, c := range consumers {
		c.SetTarget(0)
	}
	return false
}

// drain removes amount from t, ignoring non-positive amounts.
func drain(t *parts.Tank, amount float64) {
	if amount > 0 {
		t.Remove(amount)
	}
}

// pushForward adds thrust newtons along the body's forward axis.
func pushForward(phys *components.Physical, loc *components.Location, thrust float64) {
	if thrust == 0 {
		return
	}
	phys.Thrust = r3.Add(phys.Thrust, r3.Scale(thrust, geom.Forward(loc.Direction)))
}

// yaw turns about the world up axis by the given number of turns.
func yaw(loc *components.Location, turns float64) {
	if turns == 0 {
		return
	}
	turn := geom.AxisAngle(geom.AxisY, geom.Tau*turns)
	loc.Direction = geom.Normalize(quat.Mul(turn, loc.Direction))
}

// pitch turns about the body's own Z axis by the given number of turns.
func pitch(loc *components.Location, turns float64) {
	if turns == 0 {
		return
	}
	turn := geom.AxisAngle(geom.AxisZ, geom.Tau*turns)
	loc.Direction = geom.Normalize(quat.Mul(loc.Direction, turn))
}
