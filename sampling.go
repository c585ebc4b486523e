package mppi

import "go.viam.com/mppi/kinematics"

// drawNoise refreshes the K x T block of Gaussian control perturbations.
// Draws happen on the calling goroutine in index order, so a given seed
// yields the same block no matter how many workers later roll it out.
func (s *Solver) drawNoise() {
	for k := range s.noise {
		for t := range s.noise[k] {
			s.noiseDist.Rand(s.noiseBuf)
			s.noise[k][t] = kinematics.Control{Linear: s.noiseBuf[0], Angular: s.noiseBuf[1]}
		}
	}
}
