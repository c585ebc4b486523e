package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o644), test.ShouldBeNil)
	return path
}

func TestFromFile(t *testing.T) {
	logger := golog.NewTestLogger(t)

	path := writeConfigFile(t, `{
		"goal": {"x": 12, "y": -4, "theta_degs": 180},
		"obstacles": [{"x": 6, "y": -2, "radius": 0.75}],
		"solver": {
			"horizon": 15,
			"num_samples": 300,
			"exploration_rate": 0.1,
			"temperature": 1,
			"control_cost_alpha": 0.9,
			"noise_covariance": [[0.5, 0], [0, 0.5]],
			"stage_weights": [2, 2, 0.2],
			"terminal_weights": [20, 20, 0.2],
			"timestep": 0.05,
			"smoothing_window": 5
		},
		"run": {"goal_tolerance": 0.3, "max_ticks": 200}
	}`)

	cfg, err := FromFile(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Goal.X, test.ShouldEqual, 12.0)
	test.That(t, cfg.Goal.ThetaDegs, test.ShouldEqual, 180.0)
	test.That(t, len(cfg.Obstacles), test.ShouldEqual, 1)
	test.That(t, cfg.Solver.Horizon, test.ShouldEqual, 15)
	test.That(t, cfg.Solver.NumSamples, test.ShouldEqual, 300)
	test.That(t, cfg.Solver.SmoothingWindow, test.ShouldEqual, 5)
	test.That(t, cfg.Run.MaxTicks, test.ShouldEqual, 200)

	// Fields the document does not set keep their defaults.
	test.That(t, cfg.Footprint.Length, test.ShouldEqual, DefaultConfig().Footprint.Length)
	test.That(t, cfg.Limits.MaxLinear, test.ShouldEqual, DefaultConfig().Limits.MaxLinear)
	test.That(t, cfg.Plant.Timestep, test.ShouldEqual, DefaultConfig().Plant.Timestep)
}

func TestFromFileExpandsEnv(t *testing.T) {
	logger := golog.NewTestLogger(t)
	t.Setenv("SCENARIO_GOAL_X", "7.5")

	path := writeConfigFile(t, `{"goal": {"x": ${SCENARIO_GOAL_X}, "y": 1}}`)

	cfg, err := FromFile(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Goal.X, test.ShouldEqual, 7.5)
	test.That(t, cfg.Goal.Y, test.ShouldEqual, 1.0)
}

func TestFromFileMissing(t *testing.T) {
	logger := golog.NewTestLogger(t)
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.json"), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot read config")
}

func TestFromFileMalformed(t *testing.T) {
	logger := golog.NewTestLogger(t)
	path := writeConfigFile(t, `{"goal": `)
	_, err := FromFile(path, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot parse config")
}

func TestFromFileInvalidScenario(t *testing.T) {
	logger := golog.NewTestLogger(t)
	path := writeConfigFile(t, `{"obstacles": [{"x": 1, "y": 1, "radius": -2}]}`)
	_, err := FromFile(path, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "obstacles.0")
}

func TestFromBytes(t *testing.T) {
	cfg, err := FromBytes([]byte(`{"run": {"goal_tolerance": 1, "max_ticks": 10}}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Run.GoalTolerance, test.ShouldEqual, 1.0)
	test.That(t, cfg.Run.MaxTicks, test.ShouldEqual, 10)

	_, err = FromBytes([]byte(`not json`))
	test.That(t, err, test.ShouldNotBeNil)
}
