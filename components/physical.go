// Package components defines ECS components for the simulation.
package components

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/depthcharge/geom"
)

// ErrDegenerateBody is returned for a body with non-positive mass, density,
// radius or volume, or a negative drag coefficient.
var ErrDegenerateBody = errors.New("degenerate body")

// SphereDrag is the drag coefficient of a sphere.
const SphereDrag = 0.47

// Location is an entity's world position and orientation.
type Location struct {
	Position  r3.Vec
	Direction quat.Number
}

// NewLocation returns a location at pos facing +X.
func NewLocation(pos r3.Vec) Location {
	return Location{Position: pos, Direction: geom.Identity}
}

// Physical is a rigid body moving through the sea. Mass and density are
// stored; volume and radius are derived from them, so the two volume
// formulas always agree.
type Physical struct {
	Velocity r3.Vec
	Thrust   r3.Vec      // force accumulator, cleared every tick by physics
	Torque   quat.Number // rotation accumulator, reset to identity every tick
	Drag     float64     // 0.04 streamlined .. ~1 bulky

	mass    float64
	density float64
	radius  float64
}

// BodyFromMassDensity builds a body from its mass in kg and density in kg/m3.
func BodyFromMassDensity(mass, density, drag float64) (Physical, error) {
	if err := checkBody("mass", mass); err != nil {
		return Physical{}, err
	}
	if err := checkBody("density", density); err != nil {
		return Physical{}, err
	}
	if err := checkDrag(drag); err != nil {
		return Physical{}, err
	}
	p := Physical{Torque: geom.Identity, Drag: drag, mass: mass, density: density}
	p.deriveRadius()
	return p, nil
}

// BodyFromMassRadius builds a body from its mass and radius in m.
func BodyFromMassRadius(mass, radius, drag float64) (Physical, error) {
	if err := checkBody("radius", radius); err != nil {
		return Physical{}, err
	}
	if err := checkBody("mass", mass); err != nil {
		return Physical{}, err
	}
	return BodyFromMassDensity(mass, mass/sphereVolume(radius), drag)
}

// BodyFromMassVolume builds a body from its mass and volume in m3.
func BodyFromMassVolume(mass, volume, drag float64) (Physical, error) {
	if err := checkBody("volume", volume); err != nil {
		return Physical{}, err
	}
	if err := checkBody("mass", mass); err != nil {
		return Physical{}, err
	}
	return BodyFromMassDensity(mass, mass/volume, drag)
}

// BodyFromRadiusDensity builds a body from its radius and density.
func BodyFromRadiusDensity(radius, density, drag float64) (Physical, error) {
	if err := checkBody("radius", radius); err != nil {
		return Physical{}, err
	}
	if err := checkBody("density", density); err != nil {
		return Physical{}, err
	}
	return BodyFromMassDensity(sphereVolume(radius)*density, density, drag)
}

// BodyFromVolumeDensity builds a body from its volume and density.
func BodyFromVolumeDensity(volume, density, drag float64) (Physical, error) {
	if err := checkBody("volume", volume); err != nil {
		return Physical{}, err
	}
	if err := checkBody("density", density); err != nil {
		return Physical{}, err
	}
	return BodyFromMassDensity(volume*density, density, drag)
}

// Sphere builds a spherical body with the drag of a sphere.
func Sphere(radius, density float64) (Physical, error) {
	return BodyFromRadiusDensity(radius, density, SphereDrag)
}

// Mass returns the mass in kg.
func (p *Physical) Mass() float64 { return p.mass }

// Density returns the density in kg/m3.
func (p *Physical) Density() float64 { return p.density }

// Radius returns the radius in m.
func (p *Physical) Radius() float64 { return p.radius }

// Volume returns the volume in m3.
func (p *Physical) Volume() float64 { return p.mass / p.density }

// CrossArea returns the frontal area used for drag, in m2.
func (p *Physical) CrossArea() float64 { return math.Pi * p.radius * p.radius }

// SetMass changes mass at constant density; volume and radius follow.
func (p *Physical) SetMass(mass float64) error {
	if err := checkBody("mass", mass); err != nil {
		return err
	}
	p.mass = mass
	p.deriveRadius()
	return nil
}

// SetDensity changes density at constant mass; volume and radius follow.
func (p *Physical) SetDensity(density float64) error {
	if err := checkBody("density", density); err != nil {
		return err
	}
	p.density = density
	p.deriveRadius()
	return nil
}

// SetRadius changes radius at constant density; mass follows.
func (p *Physical) SetRadius(radius float64) error {
	if err := checkBody("radius", radius); err != nil {
		return err
	}
	p.mass = sphereVolume(radius) * p.density
	p.radius = radius
	return nil
}

// SetVolume changes volume at constant density; mass and radius follow.
func (p *Physical) SetVolume(volume float64) error {
	if err := checkBody("volume", volume); err != nil {
		return err
	}
	p.mass = volume * p.density
	p.deriveRadius()
	return nil
}

func (p *Physical) deriveRadius() {
	p.radius = math.Cbrt(p.Volume() * 3 / (4 * math.Pi))
}

func sphereVolume(radius float64) float64 {
	return 4.0 / 3.0 * math.Pi * radius * radius * radius
}

func checkBody(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s %v must be positive and finite", ErrDegenerateBody, name, v)
	}
	return nil
}

func checkDrag(drag float64) error {
	if !(drag >= 0) || math.IsInf(drag, 0) {
		return fmt.Errorf("%w: drag coefficient %v must be non-negative", ErrDegenerateBody, drag)
	}
	return nil
}
