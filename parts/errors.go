// Package parts models the controllable actuators and resource tanks that
// vessels are assembled from.
package parts

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter marks a precondition violation by the caller.
var ErrInvalidParameter = errors.New("invalid parameter")

func invalid(name string, value any, reason string) error {
	return fmt.Errorf("%w: %s = %v: %s", ErrInvalidParameter, name, value, reason)
}

func checkName(name string) error {
	if name == "" {
		return invalid("name", `""`, "must not be empty")
	}
	return nil
}

func checkNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalid(name, v, "must be a non-negative number")
	}
	return nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(name, v, "must be a finite number")
	}
	return nil
}
