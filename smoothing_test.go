package mppi

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/mppi/kinematics"
)

func TestSmoothingConstantIdentity(t *testing.T) {
	seq := make([]kinematics.Control, 12)
	for i := range seq {
		seq[i] = kinematics.Control{Linear: 0.7, Angular: -0.3}
	}
	dst := make([]kinematics.Control, len(seq))
	smoothPerturbation(seq, dst, 10)

	// Constant input passes through untouched, edges included, because the
	// truncated windows divide by their own tap count.
	for i := range dst {
		test.That(t, dst[i].Linear, test.ShouldAlmostEqual, 0.7)
		test.That(t, dst[i].Angular, test.ShouldAlmostEqual, -0.3)
	}
}

func TestSmoothingOddWindow(t *testing.T) {
	seq := make([]kinematics.Control, 9)
	for i := range seq {
		seq[i] = kinematics.Control{Linear: float64(i), Angular: 2 * float64(i)}
	}
	dst := make([]kinematics.Control, len(seq))
	smoothPerturbation(seq, dst, 5)

	// A symmetric window preserves the interior of a linear ramp exactly.
	for i := 2; i <= 6; i++ {
		test.That(t, dst[i].Linear, test.ShouldAlmostEqual, float64(i))
		test.That(t, dst[i].Angular, test.ShouldAlmostEqual, 2*float64(i))
	}
	// Edges average only the in-range taps.
	test.That(t, dst[0].Linear, test.ShouldAlmostEqual, 1)  // mean(0,1,2)
	test.That(t, dst[8].Linear, test.ShouldAlmostEqual, 7)  // mean(6,7,8)
	test.That(t, dst[1].Angular, test.ShouldAlmostEqual, 3) // mean(0,2,4,6)
}

func TestSmoothingEvenWindow(t *testing.T) {
	seq := []kinematics.Control{
		{Linear: 1}, {Linear: 2}, {Linear: 3}, {Linear: 4}, {Linear: 5}, {Linear: 6},
	}
	dst := make([]kinematics.Control, len(seq))
	smoothPerturbation(seq, dst, 4)

	// An even window reaches one step further into the past than the future.
	want := []float64{1.5, 2, 2.5, 3.5, 4.5, 5}
	for i := range want {
		test.That(t, dst[i].Linear, test.ShouldAlmostEqual, want[i])
	}
}

func TestSmoothingWindowWiderThanSequence(t *testing.T) {
	seq := []kinematics.Control{{Linear: 3}, {Linear: 6}, {Linear: 9}}
	dst := make([]kinematics.Control, len(seq))
	smoothPerturbation(seq, dst, 10)

	// Every window covers the whole sequence.
	for i := range dst {
		test.That(t, dst[i].Linear, test.ShouldAlmostEqual, 6)
	}
}

func TestSmoothingUnitWindow(t *testing.T) {
	seq := []kinematics.Control{{Linear: 1, Angular: -1}, {Linear: 2, Angular: -2}}
	dst := make([]kinematics.Control, len(seq))
	smoothPerturbation(seq, dst, 1)
	test.That(t, dst[0], test.ShouldResemble, seq[0])
	test.That(t, dst[1], test.ShouldResemble, seq[1])
}
