package mppi

import "go.viam.com/mppi/kinematics"

// smoothPerturbation applies a centered moving average of the given window
// to each control dimension of seq independently, writing into dst. Windows
// are truncated at the sequence edges and divided by the number of taps that
// actually landed in range, so the filter keeps unit gain at the boundaries
// and a constant sequence passes through unchanged.
func smoothPerturbation(seq, dst []kinematics.Control, window int) {
	if window <= 1 {
		copy(dst, seq)
		return
	}
	for t := range seq {
		lo := t - window/2
		hi := t + (window-1)/2
		if lo < 0 {
			lo = 0
		}
		if hi > len(seq)-1 {
			hi = len(seq) - 1
		}
		var sumLin, sumAng float64
		for j := lo; j <= hi; j++ {
			sumLin += seq[j].Linear
			sumAng += seq[j].Angular
		}
		taps := float64(hi - lo + 1)
		dst[t] = kinematics.Control{Linear: sumLin / taps, Angular: sumAng / taps}
	}
}
