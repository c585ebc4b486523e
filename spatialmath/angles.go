// Package spatialmath defines the planar geometry used by the mppi solver:
// angle wrapping, circular obstacles, and the robot footprint used for
// collision checks.
package spatialmath

import "math"

// WrapToPi wraps an angle in radians to the interval (-pi, pi].
func WrapToPi(theta float64) float64 {
	wrapped := theta - 2*math.Pi*math.Ceil((theta-math.Pi)/(2*math.Pi))
	// Rounding near odd multiples of pi can land just outside the interval.
	if wrapped > math.Pi {
		wrapped -= 2 * math.Pi
	} else if wrapped <= -math.Pi {
		wrapped += 2 * math.Pi
	}
	return wrapped
}

// WrapTo2Pi wraps an angle in radians to the interval [0, 2*pi).
func WrapTo2Pi(theta float64) float64 {
	return theta - 2*math.Pi*math.Floor(theta/(2*math.Pi))
}
