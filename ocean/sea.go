package ocean

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r3"
)

// Physical constants.
const (
	ZeroCelsiusK              = 273.15
	GravityAtSeaLevel         = 9.80665
	DryAirSpecificGasConstant = 287.058 // J/(kg K)
)

// TemperaturePoint is one control point of the water temperature curve.
type TemperaturePoint struct {
	Depth  float64 `yaml:"depth"`
	Kelvin float64 `yaml:"kelvin"`
}

// SeaParams configures the fluid environment.
type SeaParams struct {
	Level               float64            `yaml:"level"`                  // y of the water surface
	AirDensity          float64            `yaml:"air_density"`            // kg/m3
	WaterDensity        float64            `yaml:"water_density"`          // kg/m3 at the surface
	DensityIncreasePerM float64            `yaml:"density_increase_per_m"` // kg/m3 per meter of depth
	AtmosphericPressure float64            `yaml:"atmospheric_pressure"`   // Pa
	Gravity             float64            `yaml:"gravity"`                // m/s2
	AirTemperature      float64            `yaml:"air_temperature"`        // K
	Temperature         []TemperaturePoint `yaml:"temperature"`
	Flow                FlowParams         `yaml:"flow"`
}

// DefaultSeaParams returns a temperate ocean.
func DefaultSeaParams() SeaParams {
	surfaceK := ZeroCelsiusK + 15
	return SeaParams{
		Level:               0,
		AirDensity:          1.25,
		WaterDensity:        1026,
		DensityIncreasePerM: 0.004,
		AtmosphericPressure: 101325,
		Gravity:             GravityAtSeaLevel,
		AirTemperature:      surfaceK,
		Temperature: []TemperaturePoint{
			{0, surfaceK},
			{500, mix(0.7, ZeroCelsiusK+6, surfaceK)},
			{1000, ZeroCelsiusK + 6},
			{1500, ZeroCelsiusK + 5},
			{3000, ZeroCelsiusK + 4},
			{4000, ZeroCelsiusK + 3.5},
			{10000, ZeroCelsiusK + 1.5},
		},
		Flow: FlowParams{
			Surface: []Band{{300, 0.8}, {20, 0.3}, {2, 0.2}},
			Bottom:  []Band{{2000, 0.6}, {100, 0.1}, {10, 0.01}},
			Depths:  []float64{2, 7, 20, 100, 300, 800, 2000, 6000},
		},
	}
}

// Sea answers fluid-property queries by position. It holds no simulation
// state besides the static current field and is safe for concurrent reads.
type Sea struct {
	p           SeaParams
	flow        *LayeredFlow
	temperature interp.FritschButland
	minDepth    float64
	maxDepth    float64
}

// NewSea builds the current field from rng and fits the temperature curve.
func NewSea(p SeaParams, rng *rand.Rand) (*Sea, error) {
	if len(p.Temperature) < 2 {
		return nil, fmt.Errorf("temperature curve needs at least 2 points, got %d", len(p.Temperature))
	}
	xs := make([]float64, len(p.Temperature))
	ys := make([]float64, len(p.Temperature))
	for i, tp := range p.Temperature {
		xs[i], ys[i] = tp.Depth, tp.Kelvin
	}

	s := &Sea{p: p, minDepth: xs[0], maxDepth: xs[len(xs)-1]}
	if err := s.temperature.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting temperature curve: %w", err)
	}

	flow, err := NewLayeredFlow(rng, p.Flow)
	if err != nil {
		return nil, fmt.Errorf("building current field: %w", err)
	}
	s.flow = flow
	return s, nil
}

// Params returns the configuration the sea was built from.
func (s *Sea) Params() SeaParams { return s.p }

// Flow returns the layered current field.
func (s *Sea) Flow() *LayeredFlow { return s.flow }

// Gravity returns the gravitational acceleration.
func (s *Sea) Gravity() float64 { return s.p.Gravity }

// AirDensity returns the density above the surface.
func (s *Sea) AirDensity() float64 { return s.p.AirDensity }

// SurfaceWaterDensity returns the density just below the surface.
func (s *Sea) SurfaceWaterDensity() float64 { return s.p.WaterDensity }

// SeaLevel returns the y coordinate of the water surface at pos.
func (s *Sea) SeaLevel(pos r3.Vec) float64 { return s.p.Level }

// Depth returns the water depth at pos; zero or negative in the air.
func (s *Sea) Depth(pos r3.Vec) float64 { return s.p.Level - pos.Y }

// IsUnderWater reports whether pos is below the surface.
func (s *Sea) IsUnderWater(pos r3.Vec) bool { return s.Depth(pos) > 0 }

// Density returns the fluid density at pos in kg/m3.
func (s *Sea) Density(pos r3.Vec) float64 {
	depth := s.Depth(pos)
	if depth <= 0 {
		return s.p.AirDensity
	}
	return s.p.WaterDensity + depth*s.p.DensityIncreasePerM
}

// Pressure returns the fluid pressure at pos in Pa.
func (s *Sea) Pressure(pos r3.Vec) float64 {
	depth := s.Depth(pos)
	if depth <= 0 {
		return s.p.AtmosphericPressure
	}
	return s.p.AtmosphericPressure + s.Density(pos)*s.p.Gravity*depth
}

// Temperature returns the temperature at pos in kelvin.
func (s *Sea) Temperature(pos r3.Vec) float64 {
	depth := s.Depth(pos)
	if depth <= 0 {
		return s.p.AirTemperature
	}
	if depth < s.minDepth {
		depth = s.minDepth
	}
	if depth > s.maxDepth {
		depth = s.maxDepth
	}
	return s.temperature.Predict(depth)
}

// Current returns the water velocity at pos. There is no wind.
func (s *Sea) Current(pos r3.Vec) r3.Vec {
	depth := s.Depth(pos)
	if depth <= 0 {
		return r3.Vec{}
	}
	return s.flow.Flow(pos, depth)
}

// GasDensity returns the density of air compressed to the pressure and
// temperature at pos, from the ideal gas law.
func (s *Sea) GasDensity(pos r3.Vec) float64 {
	return AirDensityIn(s.Pressure(pos), s.Temperature(pos))
}

// AirDensityIn returns the density of dry air in kg/m3 at pressure (Pa)
// and temperature (K).
func AirDensityIn(pressure, temperature float64) float64 {
	return pressure / (temperature * DryAirSpecificGasConstant)
}
