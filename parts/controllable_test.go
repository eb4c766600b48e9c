package parts

import (
	"errors"
	"math"
	"testing"
)

func mustControllable(t *testing.T, s ControllableSpec) *Controllable {
	t.Helper()
	if s.Name == "" {
		s.Name = "test"
	}
	if s.Steps == 0 {
		s.Steps = 4
	}
	c, err := NewControllable(s)
	if err != nil {
		t.Fatalf("NewControllable: %v", err)
	}
	return c
}

func TestNewControllable_InvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		spec ControllableSpec
	}{
		{"empty name", ControllableSpec{Steps: 1}},
		{"zero steps", ControllableSpec{Name: "x", Steps: 0}},
		{"negative steps", ControllableSpec{Name: "x", Steps: -3}},
		{"negative lag", ControllableSpec{Name: "x", Steps: 1, Lag: -1}},
		{"negative step interval", ControllableSpec{Name: "x", Steps: 1, StepInterval: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewControllable(tt.spec); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestControllable_LagReachesTargetWithoutOvershoot(t *testing.T) {
	const lag = 5
	c := mustControllable(t, ControllableSpec{Zero: 0, Max: 100, Lag: lag})
	c.SetTarget(1)

	for i := 1; i <= lag; i++ {
		c.Update(1)
		if c.Pos() > 1 {
			t.Fatalf("step %d: pos %v overshoots", i, c.Pos())
		}
		if i < lag && c.Pos() >= 1 {
			t.Fatalf("step %d: pos %v reached target too early", i, c.Pos())
		}
	}
	if math.Abs(c.Pos()-1) > 1e-9 {
		t.Errorf("after %d s pos = %v, want 1", lag, c.Pos())
	}
	if math.Abs(c.Value()-100) > 1e-6 {
		t.Errorf("value = %v, want 100", c.Value())
	}
}

func TestControllable_ZeroLagSnaps(t *testing.T) {
	c := mustControllable(t, ControllableSpec{Min: -10, Zero: 0, Max: 10, Bidirectional: true})
	for _, dt := range []float64{1e-6, 0.005, 100} {
		c.SetTarget(-0.75)
		c.Update(dt)
		if c.Pos() != -0.75 {
			t.Errorf("dt=%v: pos = %v, want -0.75", dt, c.Pos())
		}
		c.SetTarget(0.5)
		c.Update(dt)
		if c.Pos() != 0.5 {
			t.Errorf("dt=%v: pos = %v, want 0.5", dt, c.Pos())
		}
	}
}

func TestControllable_PiecewiseValue(t *testing.T) {
	c := mustControllable(t, ControllableSpec{Min: -300, Zero: 10, Max: 700, Bidirectional: true})
	tests := []struct {
		pos  float64
		want float64
	}{
		{-1, -300},
		{-0.5, -145},
		{0, 10},
		{0.5, 355},
		{1, 700},
	}
	for _, tt := range tests {
		c.SetTarget(tt.pos)
		c.Update(0.1)
		if math.Abs(c.Value()-tt.want) > 1e-9 {
			t.Errorf("pos %v: value = %v, want %v", tt.pos, c.Value(), tt.want)
		}
	}
}

func TestControllable_TargetClamped(t *testing.T) {
	uni := mustControllable(t, ControllableSpec{Zero: 0, Max: 1})
	uni.SetTarget(-1)
	if uni.Target() != 0 {
		t.Errorf("unidirectional target = %v, want 0", uni.Target())
	}
	uni.SetTarget(3)
	if uni.Target() != 1 {
		t.Errorf("target = %v, want 1", uni.Target())
	}

	bi := mustControllable(t, ControllableSpec{Min: -1, Max: 1, Bidirectional: true, Steps: 2})
	for i := 0; i < 5; i++ {
		bi.Decrease()
	}
	if bi.Target() != -1 {
		t.Errorf("after decreases target = %v, want -1", bi.Target())
	}
	bi.Increase()
	if bi.Target() != -0.5 {
		t.Errorf("after one increase target = %v, want -0.5", bi.Target())
	}
}

func TestControllable_JammedAndNonFunctional(t *testing.T) {
	c := mustControllable(t, ControllableSpec{Zero: 0, Max: 10, Lag: 1})
	c.SetTarget(1)
	c.Update(0.5)

	c.SetJammed(true)
	c.SetTarget(0)
	c.Update(0.25)
	if c.Pos() != 0.5 {
		t.Errorf("jammed pos = %v, want 0.5", c.Pos())
	}
	if c.Changing() {
		t.Error("jammed channel reports changing")
	}

	c.SetTarget(1)
	c.SetFunctional(false)
	c.Update(0.25)
	if math.Abs(c.Pos()-0.25) > 1e-12 {
		t.Errorf("non-functional jammed pos = %v, want 0.25", c.Pos())
	}
	c.Update(1)
	if c.Pos() != 0 || c.Value() != 0 {
		t.Errorf("non-functional channel should settle at zero, pos %v value %v", c.Pos(), c.Value())
	}
}

func TestControllable_HoldSteps(t *testing.T) {
	c := mustControllable(t, ControllableSpec{Zero: 0, Max: 1, Steps: 4, StepInterval: 0.5, ReturnToZero: true})

	c.Hold(true, false)
	c.Update(0.1) // first step is immediate
	if c.Target() != 0.25 {
		t.Fatalf("target = %v, want 0.25", c.Target())
	}
	c.Update(0.3)
	if c.Target() != 0.25 {
		t.Fatalf("stepped before interval elapsed: %v", c.Target())
	}
	c.Update(0.3)
	if c.Target() != 0.5 {
		t.Fatalf("target = %v, want 0.5", c.Target())
	}

	c.Hold(true, true)
	c.Update(1)
	if c.Target() != 0.5 {
		t.Errorf("both held should not move target, got %v", c.Target())
	}

	c.Hold(false, false)
	c.Update(0.1)
	if c.Target() != 0 {
		t.Errorf("release should return to zero, got %v", c.Target())
	}
}

func TestUpdateSystem(t *testing.T) {
	var s System
	c, err := s.Controllable(ControllableSpec{Name: "pump", Max: 2, Steps: 1})
	if err != nil {
		t.Fatal(err)
	}
	tank, err := s.Tank(TankSpec{Name: "ballast", Capacity: 10, Level: 0.5, ChangePerSecond: 1})
	if err != nil {
		t.Fatal(err)
	}
	c.SetTarget(1)

	UpdateSystem(&s, 2)

	if c.Value() != 2 {
		t.Errorf("controllable value = %v, want 2", c.Value())
	}
	if tank.Amount() != 7 {
		t.Errorf("tank amount = %v, want 7", tank.Amount())
	}
	if s.FindControllable("pump") != c || s.FindTank("ballast") != tank {
		t.Error("lookup by name failed")
	}
	if s.FindControllable("missing") != nil {
		t.Error("missing channel should be nil")
	}
}
