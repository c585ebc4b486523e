package sim

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"go.viam.com/mppi"
	"go.viam.com/mppi/kinematics"
)

// Status describes why a run ended. The runner always terminates through one
// of these; it never aborts by panicking out of the loop.
type Status string

const (
	// StatusGoalReached means the plant came within the goal tolerance.
	StatusGoalReached = Status("goal_reached")
	// StatusTickBudgetExhausted means the run stopped at its tick budget.
	StatusTickBudgetExhausted = Status("tick_budget_exhausted")
)

// RunnerConfig bounds a closed-loop run.
type RunnerConfig struct {
	// GoalTolerance is the Euclidean distance to the goal position that
	// counts as arrival, in meters.
	GoalTolerance float64 `json:"goal_tolerance"`

	// MaxTicks caps how many solve/apply cycles the run may take.
	MaxTicks int `json:"max_ticks"`

	// TickInterval paces the loop in wall time. Zero runs as fast as the
	// solver allows.
	TickInterval time.Duration `json:"tick_interval"`
}

// Summary aggregates a finished run.
type Summary struct {
	RunID              uuid.UUID
	Status             Status
	Ticks              int
	FinalState         kinematics.State
	FinalGoalDistance  float64
	Collisions         int
	SolveLatencyMean   time.Duration
	SolveLatencyMedian time.Duration
	SolveLatencyP95    time.Duration
}

// Runner drives a solver against a plant until the goal is reached or the
// tick budget runs out.
type Runner struct {
	id      uuid.UUID
	solver  *mppi.Solver
	plant   *Plant
	cfg     RunnerConfig
	clock   clock.Clock
	logger  golog.Logger
	records []Record
}

// NewRunner wires a solver to a plant. A nil clock uses the wall clock;
// tests inject a mock to control pacing and latency measurement.
func NewRunner(solver *mppi.Solver, plant *Plant, cfg RunnerConfig, clk clock.Clock, logger golog.Logger) (*Runner, error) {
	if solver == nil || plant == nil {
		return nil, errors.New("runner needs both a solver and a plant")
	}
	if cfg.GoalTolerance <= 0 {
		return nil, errors.Errorf("goal tolerance must be positive, got %f", cfg.GoalTolerance)
	}
	if cfg.MaxTicks <= 0 {
		return nil, errors.Errorf("tick budget must be positive, got %d", cfg.MaxTicks)
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{
		id:     uuid.New(),
		solver: solver,
		plant:  plant,
		cfg:    cfg,
		clock:  clk,
		logger: logger,
	}, nil
}

// Records returns the per-tick records of the most recent run. The slice is
// a copy; a later Run does not overwrite it.
func (r *Runner) Records() []Record {
	records := make([]Record, len(r.records))
	copy(records, r.records)
	return records
}

// Run executes the closed loop: solve from the current plant state, apply
// the action, record the tick, and stop with an explicit status once the
// goal tolerance or the tick budget is hit.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	r.records = r.records[:0]
	goal := r.solver.Goal()

	var ticker *clock.Ticker
	if r.cfg.TickInterval > 0 {
		ticker = r.clock.Ticker(r.cfg.TickInterval)
		defer ticker.Stop()
	}

	status := StatusTickBudgetExhausted
	for tick := 0; tick < r.cfg.MaxTicks; tick++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		solveStart := r.clock.Now()
		sol, err := r.solver.ComputeControlInput(ctx, r.plant.State())
		if err != nil {
			return nil, err
		}
		latency := r.clock.Since(solveStart)

		next := r.plant.Apply(sol.Action)
		dist := next.Point().Sub(goal.Point()).Norm()
		collided := r.solver.Collides(next)
		r.records = append(r.records, Record{
			Tick:         tick,
			State:        next,
			Action:       sol.Action,
			GoalDistance: dist,
			SolveLatency: latency,
			Collided:     collided,
		})
		r.logger.Debugf(
			"tick %d pose (%.2f, %.2f, %.2f) action (%.2f, %.2f) goal distance %.3f",
			tick, next.X, next.Y, next.Theta, sol.Action.Linear, sol.Action.Angular, dist,
		)

		if dist <= r.cfg.GoalTolerance {
			status = StatusGoalReached
			break
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ticker.C:
			}
		}
	}

	summary := r.summarize(status)
	r.logger.Infof(
		"run %s finished: %s after %d ticks, final goal distance %.3f, %d colliding ticks",
		summary.RunID, summary.Status, summary.Ticks, summary.FinalGoalDistance, summary.Collisions,
	)
	return summary, nil
}

// summarize folds the recorded ticks into a Summary.
func (r *Runner) summarize(status Status) *Summary {
	summary := &Summary{
		RunID:  r.id,
		Status: status,
		Ticks:  len(r.records),
	}
	if len(r.records) == 0 {
		return summary
	}

	last := r.records[len(r.records)-1]
	summary.FinalState = last.State
	summary.FinalGoalDistance = last.GoalDistance

	latencies := make([]float64, 0, len(r.records))
	for _, rec := range r.records {
		if rec.Collided {
			summary.Collisions++
		}
		latencies = append(latencies, rec.SolveLatency.Seconds())
	}
	if mean, err := stats.Mean(latencies); err == nil {
		summary.SolveLatencyMean = secondsToDuration(mean)
	}
	if median, err := stats.Median(latencies); err == nil {
		summary.SolveLatencyMedian = secondsToDuration(median)
	}
	if p95, err := stats.Percentile(latencies, 95); err == nil {
		summary.SolveLatencyP95 = secondsToDuration(p95)
	}
	return summary
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
