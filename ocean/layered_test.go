package ocean

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func vec(x, y, z float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: z} }

func testFlowParams(depths ...float64) FlowParams {
	return FlowParams{
		Surface: []Band{{300, 0.8}, {20, 0.3}},
		Bottom:  []Band{{2000, 0.6}, {100, 0.1}},
		Depths:  depths,
	}
}

func TestLayeredFlow_SingleLayer(t *testing.T) {
	f, err := NewLayeredFlow(testRand(), testFlowParams(50))
	if err != nil {
		t.Fatal(err)
	}
	pos := vec(10, -3, 20)
	want := f.Layer(0).XZ(pos)
	for _, depth := range []float64{0.5, 50, 5000} {
		if got := f.Flow(pos, depth); got != want {
			t.Errorf("depth %v: flow %v, want %v", depth, got, want)
		}
	}
}

func TestLayeredFlow_MidpointIsMean(t *testing.T) {
	f, err := NewLayeredFlow(testRand(), testFlowParams(10, 30, 100))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range samplePoints {
		pos := vec(p[0], -20, p[1])
		a := f.Layer(0).XZ(pos)
		b := f.Layer(1).XZ(pos)
		got := f.Flow(pos, 20)
		if math.Abs(got.X-(a.X+b.X)/2) > 1e-12 || math.Abs(got.Z-(a.Z+b.Z)/2) > 1e-12 {
			t.Errorf("at %v: midpoint flow %v, want mean of %v and %v", p, got, a, b)
		}
		if got.Y != 0 {
			t.Errorf("at %v: vertical flow %v", p, got.Y)
		}
	}
}

func TestLayeredFlow_OutsideRangeUsesEdgeLayer(t *testing.T) {
	f, err := NewLayeredFlow(testRand(), testFlowParams(10, 30, 100))
	if err != nil {
		t.Fatal(err)
	}
	pos := vec(-4, -1, 7)
	if got, want := f.Flow(pos, 1), f.Layer(0).XZ(pos); got != want {
		t.Errorf("shallow flow %v, want top layer %v", got, want)
	}
	if got, want := f.Flow(pos, 10), f.Layer(0).XZ(pos); got != want {
		t.Errorf("flow at first depth %v, want top layer %v", got, want)
	}
	if got, want := f.Flow(pos, 500), f.Layer(2).XZ(pos); got != want {
		t.Errorf("deep flow %v, want bottom layer %v", got, want)
	}
}

func TestNewLayeredFlow_Invalid(t *testing.T) {
	tests := []struct {
		name string
		p    FlowParams
	}{
		{"no depths", testFlowParams()},
		{"unsorted depths", testFlowParams(10, 5)},
		{"band mismatch", FlowParams{Surface: []Band{{1, 1}}, Depths: []float64{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLayeredFlow(testRand(), tt.p); err == nil {
				t.Error("expected error")
			}
		})
	}
}
