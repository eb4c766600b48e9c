package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/geom"
	"github.com/pthm-cable/depthcharge/ocean"
	"github.com/pthm-cable/depthcharge/parts"
)

// SubmarineSystem runs ballast, battery and dive/surface mode switching.
// The diesel side of a submarine is handled by ShipSystem.
type SubmarineSystem struct {
	filter ecs.Filter4[components.Submarine, components.Ship, components.Location, components.Physical]
	sea    *ocean.Sea
}

// NewSubmarineSystem creates a new submarine system.
func NewSubmarineSystem(w *ecs.World, sea *ocean.Sea) *SubmarineSystem {
	return &SubmarineSystem{
		filter: *ecs.NewFilter4[components.Submarine, components.Ship, components.Location, components.Physical](w),
		sea:    sea,
	}
}

// Update advances every submarine by t.Delta.
func (s *SubmarineSystem) Update(t Time) error {
	query := s.filter.Query()
	for query.Next() {
		sub, ship, loc, phys := query.Get()
		if err := UpdateSubmarine(t.Delta, s.sea, sub, ship, loc, phys); err != nil {
			id := query.Entity().ID()
			query.Close()
			return fmt.Errorf("submarine %d: %w", id, err)
		}
	}
	return nil
}

// UpdateSubmarine advances a single submarine by dt.
func UpdateSubmarine(dt float64, sea *ocean.Sea, sub *components.Submarine, ship *components.Ship,
	loc *components.Location, phys *components.Physical) error {
	supplied(sub.Battery, sub.Motor, sub.Pump)
	parts.UpdateSystem(&sub.System, dt)
	hours := dt / 3600

	// Diesel needs air; the electric motor is only used submerged.
	dived := sea.Depth(loc.Position) > sub.DiveDepth
	if dived {
		ship.Engine.SetTarget(0)
		sub.Charger.SetTarget(0)
	} else {
		sub.Motor.SetTarget(0)
	}
	if sub.Dived != dived {
		if !dived && sub.Battery.AlarmStatus().AtLeast(parts.AlarmWarning) {
			sub.Charger.SetTarget(1)
		}
		sub.Dived = dived
	}

	// Charging burns diesel
	if charge := sub.Charger.Value() * dt; charge > 0 && !ship.Diesel.IsEmpty() {
		drain(ship.Diesel, sub.ChargerDieselUse*sub.Charger.PosMagnitude()*dt)
		sub.Battery.Add(charge)
	}
	if sub.Battery.IsFull() || ship.Diesel.IsEmpty() {
		sub.Charger.SetTarget(0)
	}

	watts := sub.LifeSupportConsumption +
		sub.MotorConsumption*sub.Motor.PosMagnitude() +
		sub.PumpConsumption*sub.Pump.PosMagnitude()
	drain(sub.Battery, watts*hours)
	powered := supplied(sub.Battery, sub.Motor, sub.Pump)

	// Ballast
	if powered {
		sub.Ballast.Change(sub.Pump.Value() * dt)
	}
	if (sub.Pump.Target() > 0 && sub.Ballast.IsFull()) || (sub.Pump.Target() < 0 && sub.Ballast.IsEmpty()) {
		sub.Pump.SetTarget(0)
	}
	density := geom.MapRange(sub.Ballast.Level(), 0, 1, sub.MinDensity, sub.MaxDensity)
	if err := phys.SetDensity(density); err != nil {
		return fmt.Errorf("ballast density: %w", err)
	}

	if powered {
		pushForward(phys, loc, sub.Motor.Value())
	}

	// Level out slowly, keeping the heading.
	if sub.RealignTime > 0 {
		level := geom.AxisAngle(geom.AxisY, geom.Yaw(loc.Direction))
		loc.Direction = geom.Slerp(loc.Direction, level, geom.Clamp(dt/sub.RealignTime, 0, 1))
	}
	pitch(loc, sub.DiveFins.Value()*dt)
	return nil
}
