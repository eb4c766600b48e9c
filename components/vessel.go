package components

import (
	"fmt"

	"github.com/pthm-cable/depthcharge/parts"
)

// ShipSpec configures the surface propulsion every vessel has.
type ShipSpec struct {
	Engine            parts.ControllableSpec `yaml:"engine"`             // diesel thrust, N
	Rudder            parts.ControllableSpec `yaml:"rudder"`             // turns per second
	Diesel            parts.TankSpec         `yaml:"diesel"`             // liters
	DieselConsumption float64                `yaml:"diesel_consumption"` // l/s at full throttle
}

// Ship is a diesel-driven hull with a rudder.
type Ship struct {
	parts.System

	Engine *parts.Controllable
	Rudder *parts.Controllable
	Diesel *parts.Tank

	DieselConsumption float64
}

// NewShip builds a ship from spec.
func NewShip(spec ShipSpec) (Ship, error) {
	var s Ship
	var err error
	if s.Engine, err = s.Controllable(spec.Engine); err != nil {
		return Ship{}, fmt.Errorf("ship engine: %w", err)
	}
	if s.Rudder, err = s.Controllable(spec.Rudder); err != nil {
		return Ship{}, fmt.Errorf("ship rudder: %w", err)
	}
	if s.Diesel, err = s.Tank(spec.Diesel); err != nil {
		return Ship{}, fmt.Errorf("ship diesel: %w", err)
	}
	s.DieselConsumption = spec.DieselConsumption
	return s, nil
}

// SubmarineSpec configures the submerged systems of a submarine.
type SubmarineSpec struct {
	Motor    parts.ControllableSpec `yaml:"motor"`     // electric thrust, N
	DiveFins parts.ControllableSpec `yaml:"dive_fins"` // turns per second
	Pump     parts.ControllableSpec `yaml:"pump"`      // ballast m3/s
	Charger  parts.ControllableSpec `yaml:"charger"`   // Wh/s
	Ballast  parts.TankSpec         `yaml:"ballast"`   // m3
	Battery  parts.TankSpec         `yaml:"battery"`   // Wh

	MotorConsumption       float64 `yaml:"motor_consumption"`        // W at full throttle
	PumpConsumption        float64 `yaml:"pump_consumption"`         // W at full speed
	LifeSupportConsumption float64 `yaml:"life_support_consumption"` // W
	ChargerDieselUse       float64 `yaml:"charger_diesel_use"`       // l/s at full charge

	MinDensity  float64 `yaml:"min_density"`  // kg/m3 with empty ballast
	MaxDensity  float64 `yaml:"max_density"`  // kg/m3 with full ballast
	RealignTime float64 `yaml:"realign_time"` // seconds to level out
	DiveDepth   float64 `yaml:"dive_depth"`   // m below which diesel is unusable
}

// Submarine is the ballast and battery side of a submarine. It always sits
// on an entity that also has a Ship.
type Submarine struct {
	parts.System

	Motor    *parts.Controllable
	DiveFins *parts.Controllable
	Pump     *parts.Controllable
	Charger  *parts.Controllable
	Ballast  *parts.Tank
	Battery  *parts.Tank

	MotorConsumption       float64
	PumpConsumption        float64
	LifeSupportConsumption float64
	ChargerDieselUse       float64
	MinDensity             float64
	MaxDensity             float64
	RealignTime            float64
	DiveDepth              float64

	// Dived is true while below DiveDepth.
	Dived bool
}

// NewSubmarine builds a submarine from spec.
func NewSubmarine(spec SubmarineSpec) (Submarine, error) {
	var s Submarine
	var err error
	for _, c := range []struct {
		dst  **parts.Controllable
		spec parts.ControllableSpec
	}{
		{&s.Motor, spec.Motor},
		{&s.DiveFins, spec.DiveFins},
		{&s.Pump, spec.Pump},
		{&s.Charger, spec.Charger},
	} {
		if *c.dst, err = s.Controllable(c.spec); err != nil {
			return Submarine{}, fmt.Errorf("submarine: %w", err)
		}
	}
	if s.Ballast, err = s.Tank(spec.Ballast); err != nil {
		return Submarine{}, fmt.Errorf("submarine ballast: %w", err)
	}
	if s.Battery, err = s.Tank(spec.Battery); err != nil {
		return Submarine{}, fmt.Errorf("submarine battery: %w", err)
	}
	if !(spec.MinDensity > 0) || spec.MaxDensity < spec.MinDensity {
		return Submarine{}, fmt.Errorf("%w: density range %v..%v", ErrDegenerateBody, spec.MinDensity, spec.MaxDensity)
	}

	s.MotorConsumption = spec.MotorConsumption
	s.PumpConsumption = spec.PumpConsumption
	s.LifeSupportConsumption = spec.LifeSupportConsumption
	s.ChargerDieselUse = spec.ChargerDieselUse
	s.MinDensity = spec.MinDensity
	s.MaxDensity = spec.MaxDensity
	s.RealignTime = spec.RealignTime
	s.DiveDepth = spec.DiveDepth
	return s, nil
}

// RocketSpec configures a self-propelled torpedo.
type RocketSpec struct {
	Engine                parts.ControllableSpec `yaml:"engine"`
	DiveFins              parts.ControllableSpec `yaml:"dive_fins"`
	Rudder                parts.ControllableSpec `yaml:"rudder"`
	Propellant            parts.TankSpec         `yaml:"propellant"`             // liters
	PropellantConsumption float64                `yaml:"propellant_consumption"` // l/s at full thrust
}

// Rocket is a simple engine with fins, used by torpedoes.
type Rocket struct {
	parts.System

	Engine     *parts.Controllable
	DiveFins   *parts.Controllable
	Rudder     *parts.Controllable
	Propellant *parts.Tank

	PropellantConsumption float64
}

// NewRocket builds a rocket whose engine tops out at thrust newtons and is
// already commanded to full power.
func NewRocket(spec RocketSpec, thrust float64) (Rocket, error) {
	var r Rocket
	var err error
	if r.Engine, err = r.Controllable(spec.Engine); err != nil {
		return Rocket{}, fmt.Errorf("rocket engine: %w", err)
	}
	if r.DiveFins, err = r.Controllable(spec.DiveFins); err != nil {
		return Rocket{}, fmt.Errorf("rocket dive fins: %w", err)
	}
	if r.Rudder, err = r.Controllable(spec.Rudder); err != nil {
		return Rocket{}, fmt.Errorf("rocket rudder: %w", err)
	}
	if r.Propellant, err = r.Tank(spec.Propellant); err != nil {
		return Rocket{}, fmt.Errorf("rocket propellant: %w", err)
	}
	r.Engine.SetValueRange(0, 0, thrust, false)
	r.Engine.SetTarget(1)
	r.PropellantConsumption = spec.PropellantConsumption
	return r, nil
}
