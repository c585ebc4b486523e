package config

import (
	"math"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Ensure(), test.ShouldBeNil)

	opts, err := cfg.SolverOptions()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.Goal.X, test.ShouldEqual, 5.0)
	test.That(t, opts.Goal.Y, test.ShouldEqual, 3.0)
	test.That(t, opts.Obstacles, test.ShouldBeEmpty)
	test.That(t, opts.Ensure(), test.ShouldBeNil)
}

func TestPoseConfigState(t *testing.T) {
	st := PoseConfig{X: 1, Y: 2, ThetaDegs: 90}.State()
	test.That(t, st.X, test.ShouldEqual, 1.0)
	test.That(t, st.Y, test.ShouldEqual, 2.0)
	test.That(t, st.Theta, test.ShouldAlmostEqual, math.Pi/2)
}

func TestRunConfigRunnerConfig(t *testing.T) {
	rc := RunConfig{GoalTolerance: 0.25, MaxTicks: 40, TickIntervalSecs: 0.05}.RunnerConfig()
	test.That(t, rc.GoalTolerance, test.ShouldEqual, 0.25)
	test.That(t, rc.MaxTicks, test.ShouldEqual, 40)
	test.That(t, rc.TickInterval, test.ShouldEqual, 50*time.Millisecond)
}

func TestSolverOptionsObstacles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Obstacles = []ObstacleConfig{{X: 2, Y: 1, Radius: 0.5}, {X: -1, Y: 0, Radius: 0.2}}

	opts, err := cfg.SolverOptions()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(opts.Obstacles), test.ShouldEqual, 2)
	test.That(t, opts.Obstacles[0].Center().X, test.ShouldEqual, 2.0)
	test.That(t, opts.Obstacles[0].Radius(), test.ShouldEqual, 0.5)
}

func TestConfigEnsure(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(cfg *Config)
		errSub string
	}{
		{
			"zero obstacle radius",
			func(cfg *Config) { cfg.Obstacles = []ObstacleConfig{{X: 1, Radius: 0}} },
			"obstacles.0",
		},
		{
			"zero plant timestep",
			func(cfg *Config) { cfg.Plant.Timestep = 0 },
			"plant timestep",
		},
		{
			"zero goal tolerance",
			func(cfg *Config) { cfg.Run.GoalTolerance = 0 },
			"goal tolerance",
		},
		{
			"zero tick budget",
			func(cfg *Config) { cfg.Run.MaxTicks = 0 },
			"tick budget",
		},
		{
			"negative tick interval",
			func(cfg *Config) { cfg.Run.TickIntervalSecs = -1 },
			"tick interval",
		},
		{
			"four stage weights",
			func(cfg *Config) { cfg.Solver.StageWeights = []float64{1, 1, 0.1, 0.1} },
			"velocity",
		},
		{
			"lopsided covariance",
			func(cfg *Config) { cfg.Solver.NoiseCovariance = [][]float64{{1, 0.5}, {0, 1}} },
			"symmetric",
		},
		{
			"zero linear limit",
			func(cfg *Config) { cfg.Limits.MaxLinear = 0 },
			"limits must be positive",
		},
		{
			"zero footprint width",
			func(cfg *Config) { cfg.Footprint.Width = 0 },
			"footprint",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			err := cfg.Ensure()
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errSub)
		})
	}
}
