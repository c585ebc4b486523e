// Package config describes a complete navigation scenario, the solver tuning,
// the simulated plant, and the run bounds, as one JSON document.
package config

import (
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/mppi"
	"go.viam.com/mppi/kinematics"
	"go.viam.com/mppi/sim"
	"go.viam.com/mppi/spatialmath"
	"go.viam.com/mppi/utils"
)

// PoseConfig is a planar pose. Headings are configured in degrees and
// converted to radians on the way into the solver.
type PoseConfig struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ThetaDegs float64 `json:"theta_degs"`
}

// State converts the pose to solver units.
func (pc PoseConfig) State() kinematics.State {
	return kinematics.State{X: pc.X, Y: pc.Y, Theta: utils.DegToRad(pc.ThetaDegs)}
}

// ObstacleConfig is a static circular obstacle.
type ObstacleConfig struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Validate ensures all parts of the config are valid.
func (oc ObstacleConfig) Validate(path string) error {
	if oc.Radius <= 0 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("obstacle radius must be positive, got %f", oc.Radius))
	}
	return nil
}

// Circle converts the obstacle to solver form.
func (oc ObstacleConfig) Circle() (*spatialmath.Circle, error) {
	return spatialmath.NewCircle(r3.Vector{X: oc.X, Y: oc.Y}, oc.Radius)
}

// FootprintConfig is the body rectangle the collision predicate sweeps along
// candidate trajectories.
type FootprintConfig struct {
	Length           float64 `json:"length"`
	Width            float64 `json:"width"`
	SafetyMarginRate float64 `json:"safety_margin_rate"`
}

// LimitsConfig bounds the actuators. The solver saturates rollouts against
// these and the plant clamps applied actions against the same values.
type LimitsConfig struct {
	MaxLinear  float64 `json:"max_linear"`
	MaxAngular float64 `json:"max_angular"`
}

// Limits converts to solver form.
func (lc LimitsConfig) Limits() kinematics.Limits {
	return kinematics.Limits{MaxLinear: lc.MaxLinear, MaxAngular: lc.MaxAngular}
}

// SolverConfig carries the optimizer tuning. Field semantics match the
// solver options of the same names.
type SolverConfig struct {
	Horizon                   int         `json:"horizon"`
	NumSamples                int         `json:"num_samples"`
	ExplorationRate           float64     `json:"exploration_rate"`
	Temperature               float64     `json:"temperature"`
	ControlCostAlpha          float64     `json:"control_cost_alpha"`
	NoiseCovariance           [][]float64 `json:"noise_covariance"`
	StageWeights              []float64   `json:"stage_weights"`
	TerminalWeights           []float64   `json:"terminal_weights"`
	CollisionCost             float64     `json:"collision_cost"`
	Timestep                  float64     `json:"timestep"`
	SmoothingWindow           int         `json:"smoothing_window"`
	NumThreads                int         `json:"num_threads"`
	RecordOptimalTrajectory   bool        `json:"record_optimal_trajectory"`
	RecordSampledTrajectories bool        `json:"record_sampled_trajectories"`
}

// PlantConfig describes the simulated vehicle.
type PlantConfig struct {
	// Timestep is the plant integration step in seconds. It may differ from
	// the solver timestep.
	Timestep float64 `json:"timestep"`
}

// Validate ensures all parts of the config are valid.
func (pc PlantConfig) Validate(path string) error {
	if pc.Timestep <= 0 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("plant timestep must be positive, got %f", pc.Timestep))
	}
	return nil
}

// RunConfig bounds the closed-loop run.
type RunConfig struct {
	GoalTolerance    float64 `json:"goal_tolerance"`
	MaxTicks         int     `json:"max_ticks"`
	TickIntervalSecs float64 `json:"tick_interval_secs"`
}

// Validate ensures all parts of the config are valid.
func (rc RunConfig) Validate(path string) error {
	if rc.GoalTolerance <= 0 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("goal tolerance must be positive, got %f", rc.GoalTolerance))
	}
	if rc.MaxTicks <= 0 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("tick budget must be positive, got %d", rc.MaxTicks))
	}
	if rc.TickIntervalSecs < 0 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("tick interval cannot be negative, got %f", rc.TickIntervalSecs))
	}
	return nil
}

// RunnerConfig converts to runner form.
func (rc RunConfig) RunnerConfig() sim.RunnerConfig {
	return sim.RunnerConfig{
		GoalTolerance: rc.GoalTolerance,
		MaxTicks:      rc.MaxTicks,
		TickInterval:  time.Duration(rc.TickIntervalSecs * float64(time.Second)),
	}
}

// Config is a full scenario document.
type Config struct {
	Start     PoseConfig       `json:"start"`
	Goal      PoseConfig       `json:"goal"`
	Obstacles []ObstacleConfig `json:"obstacles"`
	Footprint FootprintConfig  `json:"footprint"`
	Limits    LimitsConfig     `json:"limits"`
	Solver    SolverConfig     `json:"solver"`
	Plant     PlantConfig      `json:"plant"`
	Run       RunConfig        `json:"run"`
}

// DefaultConfig returns a runnable scenario: default solver tuning driving
// from the origin to a nearby goal with no obstacles. Solver values come
// from the solver's own defaults so there is a single source of truth.
func DefaultConfig() *Config {
	opts := mppi.DefaultOptions()
	return &Config{
		Goal: PoseConfig{X: 5, Y: 3},
		Footprint: FootprintConfig{
			Length: opts.FootprintLength,
			Width:  opts.FootprintWidth,
		},
		Limits: LimitsConfig{
			MaxLinear:  opts.Limits.MaxLinear,
			MaxAngular: opts.Limits.MaxAngular,
		},
		Solver: SolverConfig{
			Horizon:          opts.Horizon,
			NumSamples:       opts.NumSamples,
			ExplorationRate:  opts.ExplorationRate,
			Temperature:      opts.Temperature,
			ControlCostAlpha: opts.ControlCostAlpha,
			NoiseCovariance:  opts.NoiseCovariance,
			StageWeights:     opts.StageWeights,
			TerminalWeights:  opts.TerminalWeights,
			Timestep:         opts.Timestep,
			SmoothingWindow:  opts.SmoothingWindow,
			NumThreads:       opts.NumThreads,
		},
		Plant: PlantConfig{Timestep: opts.Timestep},
		Run:   RunConfig{GoalTolerance: 0.5, MaxTicks: 600},
	}
}

// Ensure checks that the whole document describes a runnable scenario,
// including the solver-side validation of the tuning it carries.
func (c *Config) Ensure() error {
	for idx := range c.Obstacles {
		if err := c.Obstacles[idx].Validate(fmt.Sprintf("%s.%d", "obstacles", idx)); err != nil {
			return err
		}
	}
	if err := c.Plant.Validate("plant"); err != nil {
		return err
	}
	if err := c.Run.Validate("run"); err != nil {
		return err
	}

	opts, err := c.SolverOptions()
	if err != nil {
		return err
	}
	return opts.Ensure()
}

// SolverOptions converts the document to solver options.
func (c *Config) SolverOptions() (*mppi.Options, error) {
	obstacles := make([]*spatialmath.Circle, 0, len(c.Obstacles))
	for idx, oc := range c.Obstacles {
		circle, err := oc.Circle()
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%d", "obstacles", idx)
		}
		obstacles = append(obstacles, circle)
	}
	return &mppi.Options{
		Horizon:                   c.Solver.Horizon,
		NumSamples:                c.Solver.NumSamples,
		ExplorationRate:           c.Solver.ExplorationRate,
		Temperature:               c.Solver.Temperature,
		ControlCostAlpha:          c.Solver.ControlCostAlpha,
		NoiseCovariance:           c.Solver.NoiseCovariance,
		StageWeights:              c.Solver.StageWeights,
		TerminalWeights:           c.Solver.TerminalWeights,
		Goal:                      c.Goal.State(),
		Obstacles:                 obstacles,
		FootprintLength:           c.Footprint.Length,
		FootprintWidth:            c.Footprint.Width,
		SafetyMarginRate:          c.Footprint.SafetyMarginRate,
		CollisionCost:             c.Solver.CollisionCost,
		Timestep:                  c.Solver.Timestep,
		Limits:                    c.Limits.Limits(),
		SmoothingWindow:           c.Solver.SmoothingWindow,
		RecordOptimalTrajectory:   c.Solver.RecordOptimalTrajectory,
		RecordSampledTrajectories: c.Solver.RecordSampledTrajectories,
		NumThreads:                c.Solver.NumThreads,
	}, nil
}
