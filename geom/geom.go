// Package geom provides the small amount of vector and rotation math the
// simulation needs on top of gonum's r3 and quat types.
package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

// Axes in world space. Y is up, +X is the forward axis of every vessel model.
var (
	AxisX = r3.Vec{X: 1}
	AxisY = r3.Vec{Y: 1}
	AxisZ = r3.Vec{Z: 1}
)

// Identity is the rotation that leaves vectors unchanged.
var Identity = quat.Number{Real: 1}

// AxisAngle returns the rotation of rad radians about axis.
// The axis does not need to be normalized; a zero axis yields Identity.
func AxisAngle(axis r3.Vec, rad float64) quat.Number {
	n := r3.Norm(axis)
	if n == 0 {
		return Identity
	}
	s := math.Sin(rad/2) / n
	return quat.Number{
		Real: math.Cos(rad / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}
}

// Rotate applies rotation q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Normalize scales q to unit length. A zero quaternion becomes Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// Forward returns the world-space forward direction of an orientation.
func Forward(q quat.Number) r3.Vec {
	return Rotate(q, AxisX)
}

// Yaw returns the heading angle about the world Y axis.
func Yaw(q quat.Number) float64 {
	f := Forward(q)
	return math.Atan2(-f.Z, f.X)
}

// Slerp interpolates between unit rotations a and b along the shortest arc.
func Slerp(a, b quat.Number, t float64) quat.Number {
	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	if dot < 0 {
		b = quat.Scale(-1, b)
		dot = -dot
	}
	if dot > 0.9995 {
		// Nearly parallel: fall back to normalized lerp.
		return Normalize(quat.Add(a, quat.Scale(t, quat.Sub(b, a))))
	}
	theta := math.Acos(dot)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return quat.Add(quat.Scale(wa, a), quat.Scale(wb, b))
}

// Lerp mixes a and b by t.
func Lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// LerpVec mixes two vectors by t.
func LerpVec(t float64, a, b r3.Vec) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// MapRange linearly maps v from [inMin, inMax] to [outMin, outMax] without clamping.
// A degenerate input range maps everything to the midpoint of the output range.
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return (outMin + outMax) / 2
	}
	return outMin + (v-inMin)/(inMax-inMin)*(outMax-outMin)
}

// MapClamp is MapRange with the result clamped to the output range.
func MapClamp(v, inMin, inMax, outMin, outMax float64) float64 {
	r := MapRange(v, inMin, inMax, outMin, outMax)
	if outMin < outMax {
		return Clamp(r, outMin, outMax)
	}
	return Clamp(r, outMax, outMin)
}

// LerpClamp mixes a and b by t clamped to [0, 1].
func LerpClamp(t, a, b float64) float64 {
	return Lerp(Clamp(t, 0, 1), a, b)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
