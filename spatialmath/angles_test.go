package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestWrapToPi(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"small positive", 0.5, 0.5},
		{"small negative", -0.5, -0.5},
		{"pi stays pi", math.Pi, math.Pi},
		{"negative pi wraps up", -math.Pi, math.Pi},
		{"full turn", 2 * math.Pi, 0},
		{"five and three quarter turns", 11.5 * math.Pi, -math.Pi / 2},
		{"just past pi", math.Pi + 0.25, -math.Pi + 0.25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			test.That(t, WrapToPi(c.in), test.ShouldAlmostEqual, c.want)
		})
	}
}

func TestWrapToPiOddMultiples(t *testing.T) {
	// Float64 odd multiples of pi are never exactly on the branch cut, so the
	// wrapped angle may come out on either side of it. It must still land
	// inside (-pi, pi] with magnitude pi.
	for _, theta := range []float64{3 * math.Pi, -3 * math.Pi, 11 * math.Pi, 13 * math.Pi, -13 * math.Pi} {
		wrapped := WrapToPi(theta)
		test.That(t, wrapped, test.ShouldBeLessThanOrEqualTo, math.Pi)
		test.That(t, wrapped, test.ShouldBeGreaterThan, -math.Pi)
		test.That(t, math.Abs(wrapped), test.ShouldAlmostEqual, math.Pi)
	}
}

func TestWrapTo2Pi(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"within range", 1.5, 1.5},
		{"full turn", 2 * math.Pi, 0},
		{"negative quarter", -math.Pi / 2, 3 * math.Pi / 2},
		{"three pi", 3 * math.Pi, math.Pi},
		{"negative three pi", -3 * math.Pi, math.Pi},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			test.That(t, WrapTo2Pi(c.in), test.ShouldAlmostEqual, c.want)
		})
	}
}
