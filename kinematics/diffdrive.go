// Package kinematics implements the planar motion model shared by the mppi
// solver's rollouts and the simulated plant.
package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
)

// State is the pose of a mobile base in a fixed 2D world frame. The heading
// is in radians and deliberately left unnormalized; consumers that need a
// wrapped angle do so at the point of use.
type State struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// Point returns the position portion of the state as a vector. Z is always
// zero.
func (s State) Point() r3.Vector {
	return r3.Vector{X: s.X, Y: s.Y}
}

// Control is a velocity command for a differential-drive base, linear in
// meters per second and angular in radians per second.
type Control struct {
	Linear  float64 `json:"linear"`
	Angular float64 `json:"angular"`
}

// Limits are symmetric saturation bounds on each control component.
type Limits struct {
	MaxLinear  float64 `json:"max_linear"`
	MaxAngular float64 `json:"max_angular"`
}

// Clamped returns a copy of the control with each component saturated to the
// given limits.
func (c Control) Clamped(lim Limits) Control {
	return Control{
		Linear:  clamp(c.Linear, -lim.MaxLinear, lim.MaxLinear),
		Angular: clamp(c.Angular, -lim.MaxAngular, lim.MaxAngular),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Model advances a planar state under a control over one integration step.
// Implementations must be pure so that rollouts can share one instance
// across workers.
type Model interface {
	Advance(s State, u Control, dt float64) State
}

// DiffDrive advances states under first-order differential-drive kinematics.
// The zero value is ready to use.
type DiffDrive struct{}

// Advance integrates the state forward by dt under the given control. The
// control is applied as-is; callers saturate before stepping.
func (DiffDrive) Advance(s State, u Control, dt float64) State {
	return State{
		X:     s.X + u.Linear*math.Cos(s.Theta)*dt,
		Y:     s.Y + u.Linear*math.Sin(s.Theta)*dt,
		Theta: s.Theta + u.Angular*dt,
	}
}
