// Package sim provides the simulated plant and the scenario runner that
// exercise the mppi solver in closed loop.
package sim

import (
	"github.com/pkg/errors"

	"go.viam.com/mppi/kinematics"
)

// Plant owns the ground-truth state of a simulated differential-drive base.
// It applies actions through the same kinematics the solver rolls out, but
// integrates at its own step size, which may differ from the solver's.
type Plant struct {
	model  kinematics.Model
	limits kinematics.Limits
	dt     float64
	state  kinematics.State
}

// NewPlant constructs a plant at the given initial state. Actions are
// saturated to the given limits before they are applied.
func NewPlant(initial kinematics.State, limits kinematics.Limits, dt float64) (*Plant, error) {
	if dt <= 0 {
		return nil, errors.Errorf("plant integration step must be positive, got %f", dt)
	}
	if limits.MaxLinear <= 0 || limits.MaxAngular <= 0 {
		return nil, errors.Errorf("plant limits must be positive, got linear %f angular %f", limits.MaxLinear, limits.MaxAngular)
	}
	return &Plant{
		model:  kinematics.DiffDrive{},
		limits: limits,
		dt:     dt,
		state:  initial,
	}, nil
}

// State returns the current ground-truth state.
func (p *Plant) State() kinematics.State {
	return p.state
}

// Apply advances the plant by one of its own integration steps under the
// given action and returns the new state.
func (p *Plant) Apply(action kinematics.Control) kinematics.State {
	p.state = p.model.Advance(p.state, action.Clamped(p.limits), p.dt)
	return p.state
}

// Reset moves the plant to the given state without integrating.
func (p *Plant) Reset(state kinematics.State) {
	p.state = state
}
