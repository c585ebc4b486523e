package mppi

import (
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/mppi/kinematics"
	"go.viam.com/mppi/spatialmath"
)

// default values for solver options.
const (
	// Number of future steps optimized per call.
	defaultHorizon = 20

	// Number of perturbed control sequences evaluated per call.
	defaultNumSamples = 200

	// Fraction of samples drawn around zero rather than the warm start.
	defaultExplorationRate = 0.0

	// Inverse temperature of the importance weighting; smaller values follow
	// the best sample more greedily.
	defaultTemperature = 1.0

	// Scales the control cost bonus, gamma = temperature * (1 - alpha).
	defaultControlCostAlpha = 0.9

	// Width of the centered moving average applied to the weighted
	// perturbation before the update.
	defaultSmoothingWindow = 10

	// Integration step for rollouts, in seconds.
	defaultTimestep = 0.1

	// Seed used when no generator is supplied, keeping solves reproducible
	// by default.
	defaultRandomSeed = 0
)

var defaultNumThreads = runtime.NumCPU() / 2

// Options configure a Solver. Zero values fall back to defaults only via
// DefaultOptions; NewSolver validates whatever it is handed and refuses to
// guess.
type Options struct {
	// Horizon is the number of future control steps optimized per call.
	Horizon int `json:"horizon"`

	// NumSamples is the number of perturbed control sequences per call.
	NumSamples int `json:"num_samples"`

	// ExplorationRate is the fraction of samples whose perturbed controls
	// ignore the warm start entirely.
	ExplorationRate float64 `json:"exploration_rate"`

	// Temperature is the lambda of the exponential weighting over sample
	// costs.
	Temperature float64 `json:"temperature"`

	// ControlCostAlpha scales the control cost bonus down as it approaches
	// one, gamma = temperature * (1 - alpha).
	ControlCostAlpha float64 `json:"control_cost_alpha"`

	// NoiseCovariance is the 2x2 covariance of the Gaussian control
	// perturbations, row major, ordered (linear, angular).
	NoiseCovariance [][]float64 `json:"noise_covariance"`

	// StageWeights weight the squared (x, y, heading) errors against the
	// goal at every rollout step. Exactly three components.
	StageWeights []float64 `json:"stage_weights"`

	// TerminalWeights weight the same errors at the final rollout state.
	TerminalWeights []float64 `json:"terminal_weights"`

	// Goal is the target pose.
	Goal kinematics.State `json:"goal"`

	// Obstacles are static circles the collision predicate checks against.
	Obstacles []*spatialmath.Circle

	// FootprintLength and FootprintWidth are the body dimensions used by the
	// collision predicate, in meters.
	FootprintLength float64 `json:"footprint_length"`
	FootprintWidth  float64 `json:"footprint_width"`

	// SafetyMarginRate inflates the footprint before collision checks.
	SafetyMarginRate float64 `json:"safety_margin_rate"`

	// CollisionCost, when positive, is added to the stage cost at every
	// rollout step whose pose collides. Zero leaves collisions out of the
	// cost entirely, the baseline behavior.
	CollisionCost float64 `json:"collision_cost"`

	// Timestep is the rollout integration step in seconds. The plant applying
	// the returned actions may integrate at a different step.
	Timestep float64 `json:"timestep"`

	// Limits saturate perturbed controls during rollouts and the returned
	// action.
	Limits kinematics.Limits `json:"limits"`

	// SmoothingWindow is the width of the centered moving average applied to
	// the weighted perturbation.
	SmoothingWindow int `json:"smoothing_window"`

	// RecordOptimalTrajectory re-rolls the updated sequence after each solve
	// and attaches the predicted states to the solution.
	RecordOptimalTrajectory bool `json:"record_optimal_trajectory"`

	// RecordSampledTrajectories attaches every sample's rollout to the
	// solution, ordered best cost first. Costly; intended for visualization.
	RecordSampledTrajectories bool `json:"record_sampled_trajectories"`

	// NumThreads is the number of workers rollouts are spread across.
	NumThreads int `json:"num_threads"`

	// Model advances rollout states. Nil uses differential drive kinematics.
	Model kinematics.Model
}

// DefaultOptions returns options with every numeric parameter at its
// default. The goal, obstacles, and footprint are left for the caller.
func DefaultOptions() *Options {
	return &Options{
		Horizon:          defaultHorizon,
		NumSamples:       defaultNumSamples,
		ExplorationRate:  defaultExplorationRate,
		Temperature:      defaultTemperature,
		ControlCostAlpha: defaultControlCostAlpha,
		NoiseCovariance:  [][]float64{{0.25, 0}, {0, 0.25}},
		StageWeights:     []float64{1, 1, 0.1},
		TerminalWeights:  []float64{10, 10, 0.1},
		FootprintLength:  0.6,
		FootprintWidth:   0.4,
		Timestep:         defaultTimestep,
		Limits:           kinematics.Limits{MaxLinear: 2, MaxAngular: 2},
		SmoothingWindow:  defaultSmoothingWindow,
		NumThreads:       defaultNumThreads,
	}
}

// Ensure checks that the options describe a solvable problem. It is called
// by NewSolver, so a constructed solver never fails on configuration at
// solve time.
func (o *Options) Ensure() error {
	if o.Horizon <= 0 {
		return newBadHorizonError(o.Horizon)
	}
	if o.NumSamples <= 0 {
		return newBadSampleCountError(o.NumSamples)
	}
	if o.ExplorationRate < 0 || o.ExplorationRate > 1 {
		return newBadExplorationError(o.ExplorationRate)
	}
	if o.Temperature <= 0 {
		return newBadTemperatureError(o.Temperature)
	}
	if o.ControlCostAlpha < 0 || o.ControlCostAlpha > 1 {
		return newBadAlphaError(o.ControlCostAlpha)
	}
	if len(o.StageWeights) != 3 {
		return newBadWeightsError("stage weights", len(o.StageWeights))
	}
	if len(o.TerminalWeights) != 3 {
		return newBadWeightsError("terminal weights", len(o.TerminalWeights))
	}
	if o.Timestep <= 0 {
		return newBadTimestepError(o.Timestep)
	}
	if o.SmoothingWindow <= 0 {
		return newBadSmoothingWindowError(o.SmoothingWindow)
	}
	if o.Limits.MaxLinear <= 0 || o.Limits.MaxAngular <= 0 {
		return newBadLimitsError(o.Limits.MaxLinear, o.Limits.MaxAngular)
	}
	if _, err := spatialmath.NewFootprint(o.FootprintLength, o.FootprintWidth, o.SafetyMarginRate); err != nil {
		return err
	}
	if _, err := o.covariance(); err != nil {
		return err
	}
	return nil
}

// covariance validates the configured noise covariance and returns it in
// matrix form.
func (o *Options) covariance() (*mat.SymDense, error) {
	rows := o.NoiseCovariance
	if len(rows) != controlDim {
		return nil, newBadCovarianceError("must be 2x2 to match the control dimensionality")
	}
	for _, row := range rows {
		if len(row) != controlDim {
			return nil, newBadCovarianceError("must be square")
		}
	}
	if math.Abs(rows[0][1]-rows[1][0]) > 1e-12 {
		return nil, newBadCovarianceError("must be symmetric")
	}
	sigma := mat.NewSymDense(controlDim, []float64{rows[0][0], rows[0][1], rows[1][0], rows[1][1]})
	var chol mat.Cholesky
	if !chol.Factorize(sigma) {
		return nil, newBadCovarianceError("must be positive definite")
	}
	return sigma, nil
}
