package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func vecNear(a, b r3.Vec, eps float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= eps
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name string
		axis r3.Vec
		rad  float64
		in   r3.Vec
		want r3.Vec
	}{
		{"identity", AxisY, 0, r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 1, Y: 2, Z: 3}},
		{"quarter turn about Y", AxisY, math.Pi / 2, AxisX, r3.Vec{Z: -1}},
		{"quarter turn about Z", AxisZ, math.Pi / 2, AxisX, r3.Vec{Y: 1}},
		{"half turn about X", AxisX, math.Pi, AxisY, r3.Vec{Y: -1}},
		{"unnormalized axis", r3.Vec{Y: 5}, math.Pi / 2, AxisX, r3.Vec{Z: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotate(AxisAngle(tt.axis, tt.rad), tt.in)
			if !vecNear(got, tt.want, 1e-12) {
				t.Errorf("Rotate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYaw(t *testing.T) {
	for _, yaw := range []float64{0, 0.3, -1.2, 2.5} {
		got := Yaw(AxisAngle(AxisY, yaw))
		if math.Abs(got-yaw) > 1e-12 {
			t.Errorf("Yaw(%v) = %v", yaw, got)
		}
	}
}

func TestSlerpEndpoints(t *testing.T) {
	a := AxisAngle(AxisY, 0.2)
	b := AxisAngle(AxisZ, 1.1)

	if got := Slerp(a, b, 0); !vecNear(Forward(got), Forward(a), 1e-9) {
		t.Errorf("Slerp t=0 forward = %v, want %v", Forward(got), Forward(a))
	}
	if got := Slerp(a, b, 1); !vecNear(Forward(got), Forward(b), 1e-9) {
		t.Errorf("Slerp t=1 forward = %v, want %v", Forward(got), Forward(b))
	}

	half := Slerp(AxisAngle(AxisY, 0), AxisAngle(AxisY, 1), 0.5)
	if got := Yaw(half); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Slerp halfway yaw = %v, want 0.5", got)
	}
}

func TestMapClamp(t *testing.T) {
	if got := MapClamp(5, 0, 10, 100, 0); got != 50 {
		t.Errorf("MapClamp midpoint = %v", got)
	}
	if got := MapClamp(20, 0, 10, 100, 0); got != 0 {
		t.Errorf("MapClamp above range = %v", got)
	}
	if got := MapClamp(-1, 0, 10, 1, 3); got != 1 {
		t.Errorf("MapClamp below range = %v", got)
	}
	if got := MapRange(3, 2, 2, 0, 10); got != 5 {
		t.Errorf("MapRange degenerate = %v", got)
	}
}
