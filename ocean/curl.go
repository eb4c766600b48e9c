// Package ocean models the fluid environment: density, pressure, temperature
// and the divergence-free current field.
package ocean

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// Band is one spatial frequency of a curl noise field.
type Band struct {
	Size      float64 `yaml:"size"`      // feature size in meters
	Amplitude float64 `yaml:"amplitude"` // flow speed contributed by this band
}

// DefaultBands are the rough, medium and fine bands of a surface current.
var DefaultBands = []Band{
	{Size: 1000, Amplitude: 1},
	{Size: 100, Amplitude: 0.3},
	{Size: 10, Amplitude: 0.1},
}

// Offset jitter per band: mean and deviation for X, then for Y. Bands beyond
// the table reuse it with a growing shift so they stay decorrelated.
var offsetJitter = [][4]float64{
	{5383.23372, 3132.132112, 1234.31552, 1159.931023},
	{3123.31752, 5428.345223, 9857.87123, 7879.122334},
	{7412.55121, 2287.419936, 4421.07735, 6018.553107},
}

// gradientStep is the central-difference step in noise space. opensimplex
// exposes no derivative, so the gradient is numeric and the field's
// divergence is O(gradientStep²) instead of exactly zero.
const gradientStep = 1e-4

// ErrNoBands is returned when a curl noise field has nothing to sample.
var ErrNoBands = errors.New("curl noise needs at least one band")

type curlBand struct {
	scale     float64
	amplitude float64
	offX      float64
	offY      float64
}

// CurlNoise is an incompressible 2D flow built from the rotated gradient of
// opensimplex noise, summed over several bands.
type CurlNoise struct {
	noise opensimplex.Noise
	bands []curlBand
}

// NewCurlNoise draws the noise seed and band offsets from rng.
func NewCurlNoise(rng *rand.Rand, bands ...Band) (*CurlNoise, error) {
	if len(bands) == 0 {
		return nil, ErrNoBands
	}
	c := &CurlNoise{
		noise: opensimplex.New(int64(rng.Uint64())),
		bands: make([]curlBand, len(bands)),
	}
	for i, b := range bands {
		if b.Size <= 0 {
			return nil, fmt.Errorf("band %d: size %v must be positive", i, b.Size)
		}
		j := offsetJitter[i%len(offsetJitter)]
		shift := float64(i/len(offsetJitter)) * 10007.0
		offX := distuv.Normal{Mu: j[0] + shift, Sigma: j[1], Src: rng}
		offY := distuv.Normal{Mu: j[2] + shift, Sigma: j[3], Src: rng}
		c.bands[i] = curlBand{
			scale:     1 / b.Size,
			amplitude: b.Amplitude,
			offX:      offX.Rand(),
			offY:      offY.Rand(),
		}
	}
	return c, nil
}

// NumBands returns the number of frequency bands.
func (c *CurlNoise) NumBands() int { return len(c.bands) }

// XY returns the flow at a 2D position, summed over all bands.
func (c *CurlNoise) XY(x, y float64) (fx, fy float64) {
	for i := range c.bands {
		bx, by := c.BandXY(i, x, y)
		fx += bx
		fy += by
	}
	return fx, fy
}

// BandXY returns the flow contributed by a single band.
func (c *CurlNoise) BandXY(i int, x, y float64) (fx, fy float64) {
	b := &c.bands[i]
	gx, gy := c.gradient(x*b.scale+b.offX, y*b.scale+b.offY)
	return gy * b.amplitude, -gx * b.amplitude
}

// XZ returns the horizontal flow at a 3D position. Y is always zero.
func (c *CurlNoise) XZ(pos r3.Vec) r3.Vec {
	fx, fz := c.XY(pos.X, pos.Z)
	return r3.Vec{X: fx, Z: fz}
}

func (c *CurlNoise) gradient(x, y float64) (gx, gy float64) {
	const h = gradientStep
	gx = (c.noise.Eval2(x+h, y) - c.noise.Eval2(x-h, y)) / (2 * h)
	gy = (c.noise.Eval2(x, y+h) - c.noise.Eval2(x, y-h)) / (2 * h)
	return gx, gy
}
