package spatialmath

import "github.com/pkg/errors"

func newBadRadiusError(radius float64) error {
	return errors.Errorf("obstacle radius must be positive, got %f", radius)
}

func newBadFootprintError(length, width float64) error {
	return errors.Errorf("footprint dimensions must be positive, got length %f width %f", length, width)
}

func newBadMarginError(rate float64) error {
	return errors.Errorf("safety margin rate must be non-negative, got %f", rate)
}
