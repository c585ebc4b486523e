package mppi

import "github.com/pkg/errors"

var errNoSolverOptions = errors.New("no solver options provided")

func newBadHorizonError(horizon int) error {
	return errors.Errorf("horizon must be positive, got %d", horizon)
}

func newBadSampleCountError(samples int) error {
	return errors.Errorf("sample count must be positive, got %d", samples)
}

func newBadExplorationError(rate float64) error {
	return errors.Errorf("exploration rate must be within [0, 1], got %f", rate)
}

func newBadTemperatureError(lambda float64) error {
	return errors.Errorf("temperature must be positive, got %f", lambda)
}

func newBadAlphaError(alpha float64) error {
	return errors.Errorf("control cost alpha must be within [0, 1], got %f", alpha)
}

func newBadCovarianceError(reason string) error {
	return errors.Errorf("noise covariance is malformed: %s", reason)
}

func newBadWeightsError(name string, n int) error {
	if n == 4 {
		return errors.Errorf(
			"%s must have exactly 3 components (x, y, heading); a velocity component is not part of the differential drive state",
			name)
	}
	return errors.Errorf("%s must have exactly 3 components (x, y, heading), got %d", name, n)
}

func newBadTimestepError(dt float64) error {
	return errors.Errorf("integration step must be positive, got %f", dt)
}

func newBadSmoothingWindowError(window int) error {
	return errors.Errorf("smoothing window must be positive, got %d", window)
}

func newBadLimitsError(maxLinear, maxAngular float64) error {
	return errors.Errorf("velocity limits must be positive, got linear %f angular %f", maxLinear, maxAngular)
}
