package ocean

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

var samplePoints = [][2]float64{
	{0, 0},
	{12.5, -40},
	{-731.2, 88.1},
	{2048, 1024},
	{-5, 9999},
}

// divergence estimates d(fx)/dx + d(fy)/dy by central differences with a
// world step d, along with the magnitude of the two partials. With d a
// thousandth of a band size the estimate's own truncation error stays
// below 1e-3*amplitude/size, which is the floor the tests allow.
func divergence(f func(x, y float64) (float64, float64), x, y, d float64) (div, mag float64) {
	fxR, _ := f(x+d, y)
	fxL, _ := f(x-d, y)
	_, fyU := f(x, y+d)
	_, fyD := f(x, y-d)
	a := (fxR - fxL) / (2 * d)
	b := (fyU - fyD) / (2 * d)
	return a + b, math.Abs(a) + math.Abs(b)
}

func TestCurlNoise_BandsAreDivergenceFree(t *testing.T) {
	c, err := NewCurlNoise(testRand(), DefaultBands...)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range DefaultBands {
		band := func(x, y float64) (float64, float64) { return c.BandXY(i, x, y) }
		d := b.Size * 1e-3
		floor := 1e-3 * b.Amplitude / b.Size
		for _, p := range samplePoints {
			div, mag := divergence(band, p[0], p[1], d)
			if math.Abs(div) > floor+1e-4*mag {
				t.Errorf("band %d at %v: divergence %g (partials %g)", i, p, div, mag)
			}
		}
	}
}

func TestCurlNoise_SumIsDivergenceFree(t *testing.T) {
	c, err := NewCurlNoise(testRand(), DefaultBands...)
	if err != nil {
		t.Fatal(err)
	}
	// The finest band sets the step.
	d := DefaultBands[len(DefaultBands)-1].Size * 1e-3
	var floor float64
	for _, b := range DefaultBands {
		floor += 1e-3 * b.Amplitude / b.Size
	}
	for _, p := range samplePoints {
		div, mag := divergence(c.XY, p[0], p[1], d)
		if math.Abs(div) > floor+1e-4*mag {
			t.Errorf("at %v: divergence %g (partials %g)", p, div, mag)
		}
	}
}

func TestCurlNoise_XZIsHorizontal(t *testing.T) {
	c, err := NewCurlNoise(testRand(), Band{Size: 50, Amplitude: 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range samplePoints {
		v := c.XZ(vec(p[0], -100, p[1]))
		if v.Y != 0 {
			t.Errorf("XZ at %v has vertical component %v", p, v.Y)
		}
		fx, fz := c.XY(p[0], p[1])
		if v.X != fx || v.Z != fz {
			t.Errorf("XZ at %v = %v, XY = (%v, %v)", p, v, fx, fz)
		}
	}
}

func TestCurlNoise_SameSeedSameField(t *testing.T) {
	a, _ := NewCurlNoise(testRand(), DefaultBands...)
	b, _ := NewCurlNoise(testRand(), DefaultBands...)
	for _, p := range samplePoints {
		ax, ay := a.XY(p[0], p[1])
		bx, by := b.XY(p[0], p[1])
		if ax != bx || ay != by {
			t.Fatalf("fields from equal seeds differ at %v", p)
		}
	}
}

func TestNewCurlNoise_Invalid(t *testing.T) {
	if _, err := NewCurlNoise(testRand()); !errors.Is(err, ErrNoBands) {
		t.Errorf("no bands: err = %v, want ErrNoBands", err)
	}
	if _, err := NewCurlNoise(testRand(), Band{Size: 0, Amplitude: 1}); err == nil {
		t.Error("zero size band accepted")
	}
}
