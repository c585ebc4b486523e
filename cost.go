package mppi

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"go.viam.com/mppi/kinematics"
	"go.viam.com/mppi/spatialmath"
	"go.viam.com/mppi/utils"
)

// stageCost scores a rollout state against the goal: a weighted sum of
// squared position errors plus the squared wrapped heading error. Collisions
// contribute only when a collision cost is configured.
func (s *Solver) stageCost(st kinematics.State) float64 {
	w := s.opts.StageWeights
	cost := w[0]*utils.Square(st.X-s.opts.Goal.X) +
		w[1]*utils.Square(st.Y-s.opts.Goal.Y) +
		w[2]*utils.Square(spatialmath.WrapToPi(st.Theta-s.opts.Goal.Theta))
	if s.opts.CollisionCost > 0 && s.Collides(st) {
		cost += s.opts.CollisionCost
	}
	return cost
}

// terminalCost scores the final rollout state with the terminal weights.
func (s *Solver) terminalCost(st kinematics.State) float64 {
	w := s.opts.TerminalWeights
	return w[0]*utils.Square(st.X-s.opts.Goal.X) +
		w[1]*utils.Square(st.Y-s.opts.Goal.Y) +
		w[2]*utils.Square(spatialmath.WrapToPi(st.Theta-s.opts.Goal.Theta))
}

// controlCost is the bonus term that keeps low-cost samples near the warm
// start, gamma * warm^T Sigma^-1 applied, evaluated against the saturated
// perturbed control actually rolled out.
func (s *Solver) controlCost(warm, applied kinematics.Control) float64 {
	return s.gamma * (warm.Linear*(s.sigmaInv[0][0]*applied.Linear+s.sigmaInv[0][1]*applied.Angular) +
		warm.Angular*(s.sigmaInv[1][0]*applied.Linear+s.sigmaInv[1][1]*applied.Angular))
}

// computeWeights turns sample costs into normalized importance weights. The
// minimum cost is subtracted inside the exponent first; this exact shift
// keeps the exponentials in range without changing the normalized result.
// Degenerate cost vectors, such as all samples at +Inf, fall back to a
// uniform distribution rather than propagating NaNs.
func computeWeights(costs, weights []float64, lambda float64) {
	rho := floats.Min(costs)
	eta := 0.0
	for k, c := range costs {
		w := math.Exp(-(c - rho) / lambda)
		if math.IsNaN(w) {
			w = 0
		}
		weights[k] = w
		eta += w
	}
	if eta == 0 {
		for k := range weights {
			weights[k] = 1.0 / float64(len(weights))
		}
		return
	}
	floats.Scale(1/eta, weights)
}
