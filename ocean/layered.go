package ocean

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// FlowParams configures a layered flow. Surface and Bottom list the same
// bands; layers between them interpolate band size and amplitude linearly.
type FlowParams struct {
	Surface []Band    `yaml:"surface"`
	Bottom  []Band    `yaml:"bottom"`
	Depths  []float64 `yaml:"depths"` // strictly increasing, meters
}

// LayeredFlow is a stack of curl noise fields at representative depths.
type LayeredFlow struct {
	layers []*CurlNoise
	depths []float64
}

// NewLayeredFlow builds one curl noise field per depth.
func NewLayeredFlow(rng *rand.Rand, p FlowParams) (*LayeredFlow, error) {
	if len(p.Depths) == 0 {
		return nil, errors.New("layered flow needs at least one depth")
	}
	if len(p.Surface) == 0 || len(p.Surface) != len(p.Bottom) {
		return nil, fmt.Errorf("surface and bottom must list the same non-zero number of bands, got %d and %d",
			len(p.Surface), len(p.Bottom))
	}
	for i := 1; i < len(p.Depths); i++ {
		if p.Depths[i] <= p.Depths[i-1] {
			return nil, fmt.Errorf("depths must be strictly increasing: %v then %v", p.Depths[i-1], p.Depths[i])
		}
	}

	n := len(p.Depths)
	f := &LayeredFlow{
		layers: make([]*CurlNoise, n),
		depths: append([]float64(nil), p.Depths...),
	}
	bands := make([]Band, len(p.Surface))
	for i := range f.layers {
		rel := 0.5
		if n > 1 {
			rel = float64(i) / float64(n-1)
		}
		for j := range bands {
			bands[j] = Band{
				Size:      mix(rel, p.Surface[j].Size, p.Bottom[j].Size),
				Amplitude: mix(rel, p.Surface[j].Amplitude, p.Bottom[j].Amplitude),
			}
		}
		layer, err := NewCurlNoise(rng, bands...)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		f.layers[i] = layer
	}
	return f, nil
}

// NumLayers returns the number of depth layers.
func (f *LayeredFlow) NumLayers() int { return len(f.layers) }

// Layer returns the curl noise field of layer i.
func (f *LayeredFlow) Layer(i int) *CurlNoise { return f.layers[i] }

// Depth returns the representative depth of layer i.
func (f *LayeredFlow) Depth(i int) float64 { return f.depths[i] }

// Flow returns the horizontal current at pos for the given depth. Between
// two layer depths the flows of the bracketing layers are mixed linearly;
// above the first or below the last layer that layer is used directly.
func (f *LayeredFlow) Flow(pos r3.Vec, depth float64) r3.Vec {
	i := 0
	for i < len(f.depths) && depth > f.depths[i] {
		i++
	}

	if i == 0 || i >= len(f.depths) {
		if i >= len(f.depths) {
			i = len(f.depths) - 1
		}
		return f.layers[i].XZ(pos)
	}

	prev := f.layers[i-1].XZ(pos)
	next := f.layers[i].XZ(pos)
	t := (depth - f.depths[i-1]) / (f.depths[i] - f.depths[i-1])
	return r3.Vec{
		X: mix(t, prev.X, next.X),
		Z: mix(t, prev.Z, next.Z),
	}
}

func mix(t, a, b float64) float64 {
	return a + t*(b-a)
}
