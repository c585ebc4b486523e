// Package mppi implements Model Predictive Path Integral control for a
// differential drive base: a sampling based, derivative free controller that
// perturbs a warm started control sequence with Gaussian noise, rolls each
// sample through the kinematic model, and blends the samples by an
// exponential weighting of their costs.
package mppi

import (
	"context"
	"math/rand"
	"sort"

	"github.com/edaniels/golog"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"go.viam.com/mppi/kinematics"
	"go.viam.com/mppi/spatialmath"
	"go.viam.com/mppi/utils"
)

// controlDim is the dimensionality of the control space (linear, angular).
const controlDim = 2

// Solution is the result of a single solve.
type Solution struct {
	// Action is the first control of the updated sequence, saturated to the
	// configured limits and safe to hand directly to a base.
	Action kinematics.Control

	// Sequence is the full updated control sequence over the horizon, before
	// saturation.
	Sequence []kinematics.Control

	// OptimalTrajectory is the state sequence obtained by replaying the
	// updated controls from the observed state, starting with that state.
	// Populated only when the solver records optimal trajectories.
	OptimalTrajectory []kinematics.State

	// SampledTrajectories holds every sample's rollout, ordered by ascending
	// cost. Populated only when the solver records sampled trajectories.
	SampledTrajectories [][]kinematics.State
}

// Solver owns the warm started control sequence carried between calls, so a
// single solver instance should drive a single base. Solvers are not safe
// for concurrent use, and the options handed to NewSolver must not be
// mutated afterward.
type Solver struct {
	opts   *Options
	model  kinematics.Model
	logger golog.Logger

	randseed  *rand.Rand
	noiseDist *distmv.Normal

	gamma            float64
	sigmaInv         [controlDim][controlDim]float64
	exploitThreshold float64
	footprint        *spatialmath.Footprint

	// warm is the persistent control sequence estimate, mutated only after
	// all sample rollouts of a call have completed.
	warm []kinematics.Control

	// scratch buffers reused across calls
	noise    [][]kinematics.Control
	noiseBuf []float64
	costs    []float64
	weights  []float64
	du       []kinematics.Control
	smoothed []kinematics.Control
	trajs    [][]kinematics.State
}

// randSource adapts the solver's math/rand generator to the source interface
// gonum's distributions consume, keeping the seeded generator the solver's
// sole source of randomness.
type randSource struct{ r *rand.Rand }

func (s randSource) Uint64() uint64   { return s.r.Uint64() }
func (s randSource) Seed(seed uint64) { s.r.Seed(int64(seed)) }

// NewSolver validates the given options once and returns a solver ready to
// drive toward the configured goal. The seed generator is the solver's only
// source of randomness; nil falls back to a fixed seed so runs stay
// reproducible. A successfully constructed solver does not fail on
// configuration at solve time.
func NewSolver(opts *Options, seed *rand.Rand, logger golog.Logger) (*Solver, error) {
	if opts == nil {
		return nil, errNoSolverOptions
	}
	if err := opts.Ensure(); err != nil {
		return nil, err
	}
	if seed == nil {
		seed = rand.New(rand.NewSource(defaultRandomSeed))
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	sigma, err := opts.covariance()
	if err != nil {
		return nil, err
	}
	noiseDist, ok := distmv.NewNormal(make([]float64, controlDim), sigma, randSource{seed})
	if !ok {
		return nil, newBadCovarianceError("must be positive definite")
	}

	footprint, err := spatialmath.NewFootprint(opts.FootprintLength, opts.FootprintWidth, opts.SafetyMarginRate)
	if err != nil {
		return nil, err
	}

	model := opts.Model
	if model == nil {
		model = kinematics.DiffDrive{}
	}

	s := &Solver{
		opts:             opts,
		model:            model,
		logger:           logger,
		randseed:         seed,
		noiseDist:        noiseDist,
		gamma:            opts.Temperature * (1 - opts.ControlCostAlpha),
		exploitThreshold: (1 - opts.ExplorationRate) * float64(opts.NumSamples),
		footprint:        footprint,
		warm:             make([]kinematics.Control, opts.Horizon),
		noise:            make([][]kinematics.Control, opts.NumSamples),
		noiseBuf:         make([]float64, controlDim),
		costs:            make([]float64, opts.NumSamples),
		weights:          make([]float64, opts.NumSamples),
		du:               make([]kinematics.Control, opts.Horizon),
		smoothed:         make([]kinematics.Control, opts.Horizon),
	}
	for k := range s.noise {
		s.noise[k] = make([]kinematics.Control, opts.Horizon)
	}
	s.invertSigma(sigma)

	logger.Debugf("mppi solver ready: horizon %d, %d samples, %d workers", opts.Horizon, opts.NumSamples, opts.NumThreads)
	return s, nil
}

// invertSigma precomputes the 2x2 inverse used by the control cost bonus.
// The determinant is positive for any positive definite matrix.
func (s *Solver) invertSigma(sigma *mat.SymDense) {
	a, b := sigma.At(0, 0), sigma.At(0, 1)
	c, d := sigma.At(1, 0), sigma.At(1, 1)
	det := a*d - b*c
	s.sigmaInv = [controlDim][controlDim]float64{
		{d / det, -b / det},
		{-c / det, a / det},
	}
}

// Goal returns the goal pose the solver drives toward.
func (s *Solver) Goal() kinematics.State {
	return s.opts.Goal
}

// Collides reports whether the configured footprint collides with any
// configured obstacle at the given pose. This predicate is a diagnostic
// building block; the cost function only consults it when a collision cost
// is configured.
func (s *Solver) Collides(st kinematics.State) bool {
	return s.footprint.Collides(st, s.opts.Obstacles)
}

// Reset zeroes the warm start buffer, forgetting the previous sequence
// estimate. Call it when the base is moved externally.
func (s *Solver) Reset() {
	for t := range s.warm {
		s.warm[t] = kinematics.Control{}
	}
	s.logger.Debug("warm start reset")
}

// ComputeControlInput runs one solver update from the observed state: draw
// noise, roll out and score every sample, weight the samples by cost, smooth
// the weighted perturbation, and update the stored sequence. It returns the
// next action to apply together with the full updated sequence and any
// requested diagnostic trajectories. The update itself is best effort and
// does not fail; even when every sample scores the same, or infinitely
// badly, the weighting degrades to a uniform average.
func (s *Solver) ComputeControlInput(ctx context.Context, observed kinematics.State) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.drawNoise()

	if s.opts.RecordSampledTrajectories {
		s.trajs = make([][]kinematics.State, s.opts.NumSamples)
	} else {
		s.trajs = nil
	}

	// Read phase: every sample sees the same warm start and writes only its
	// own cost and trajectory slots, so the rollouts can spread across
	// workers without locks.
	if err := utils.GroupWorkParallel(ctx, s.opts.NumSamples, s.opts.NumThreads,
		func(numGroups int) {},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				s.rolloutSample(workNum, observed)
			}, nil
		},
	); err != nil {
		return nil, err
	}

	computeWeights(s.costs, s.weights, s.opts.Temperature)

	// The weighted perturbation uses the raw noise draws, not the saturated
	// controls that were rolled out.
	for t := range s.du {
		var lin, ang float64
		for k := range s.noise {
			lin += s.weights[k] * s.noise[k][t].Linear
			ang += s.weights[k] * s.noise[k][t].Angular
		}
		s.du[t] = kinematics.Control{Linear: lin, Angular: ang}
	}
	smoothPerturbation(s.du, s.smoothed, s.opts.SmoothingWindow)

	// Write phase: form the updated sequence, then slide the warm start one
	// step forward, duplicating the final entry.
	sequence := make([]kinematics.Control, s.opts.Horizon)
	for t := range sequence {
		sequence[t] = kinematics.Control{
			Linear:  s.warm[t].Linear + s.smoothed[t].Linear,
			Angular: s.warm[t].Angular + s.smoothed[t].Angular,
		}
	}

	sol := &Solution{
		Action:   sequence[0].Clamped(s.opts.Limits),
		Sequence: sequence,
	}
	if s.opts.RecordOptimalTrajectory {
		sol.OptimalTrajectory = s.rolloutTrajectory(observed, sequence)
	}
	if s.trajs != nil {
		sol.SampledTrajectories = s.sortedSampleTrajectories()
	}

	copy(s.warm, sequence[1:])
	s.warm[len(s.warm)-1] = sequence[len(sequence)-1]

	return sol, nil
}

// rolloutSample simulates sample k from the observed state, accumulating its
// stage, control bonus, and terminal costs into the sample's cost slot. The
// first samples up to the exploitation threshold perturb the warm start; the
// rest roll out their noise alone.
func (s *Solver) rolloutSample(k int, observed kinematics.State) {
	exploit := float64(k) < s.exploitThreshold
	st := observed
	var traj []kinematics.State
	if s.trajs != nil {
		traj = make([]kinematics.State, 0, s.opts.Horizon+1)
		traj = append(traj, st)
	}
	cost := 0.0
	for t := 0; t < s.opts.Horizon; t++ {
		pert := s.noise[k][t]
		if exploit {
			pert.Linear += s.warm[t].Linear
			pert.Angular += s.warm[t].Angular
		}
		applied := pert.Clamped(s.opts.Limits)
		st = s.model.Advance(st, applied, s.opts.Timestep)
		cost += s.stageCost(st) + s.controlCost(s.warm[t], applied)
		if traj != nil {
			traj = append(traj, st)
		}
	}
	cost += s.terminalCost(st)
	s.costs[k] = cost
	if s.trajs != nil {
		s.trajs[k] = traj
	}
}

// rolloutTrajectory replays a control sequence from the observed state with
// saturation applied, returning the observed state followed by one state per
// horizon step.
func (s *Solver) rolloutTrajectory(observed kinematics.State, sequence []kinematics.Control) []kinematics.State {
	traj := make([]kinematics.State, 0, len(sequence)+1)
	traj = append(traj, observed)
	st := observed
	for _, u := range sequence {
		st = s.model.Advance(st, u.Clamped(s.opts.Limits), s.opts.Timestep)
		traj = append(traj, st)
	}
	return traj
}

// sortedSampleTrajectories orders the recorded rollouts best cost first.
// Ties keep their sample order.
func (s *Solver) sortedSampleTrajectories() [][]kinematics.State {
	order := make([]int, len(s.trajs))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(i, j int) bool { return s.costs[order[i]] < s.costs[order[j]] })
	out := make([][]kinematics.State, len(order))
	for i, k := range order {
		out[i] = s.trajs[k]
	}
	return out
}
