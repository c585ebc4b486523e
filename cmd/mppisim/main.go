// Package main is the mppisim command, which runs a scenario config through
// the sampling-based controller in closed loop and reports how it went.
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.viam.com/mppi"
	"go.viam.com/mppi/config"
	"go.viam.com/mppi/sim"
	"go.viam.com/mppi/utils"
)

const (
	// Flags.
	flagConfig   = "config"
	flagSeed     = "seed"
	flagMaxTicks = "max-ticks"
	flagOut      = "out"
	flagDebug    = "debug"
	flagQuiet    = "quiet"
)

func main() {
	var logger golog.Logger

	app := &cli.App{
		Name:  "mppisim",
		Usage: "drive a simulated vehicle to a goal with a sampling-based controller",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagConfig,
				Aliases:  []string{"c"},
				Usage:    "load the scenario from `FILE`",
				Required: true,
			},
			&cli.Int64Flag{
				Name:  flagSeed,
				Usage: "seed for the control sampler; equal seeds reproduce runs exactly",
			},
			&cli.IntFlag{
				Name:  flagMaxTicks,
				Usage: "override the scenario's tick budget",
			},
			&cli.StringFlag{
				Name:    flagOut,
				Aliases: []string{"o"},
				Usage:   "write the per-tick trace to `FILE` as CSV",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  flagQuiet,
				Usage: "disable all logging",
			},
		},
		Before: func(c *cli.Context) error {
			switch {
			case c.Bool(flagQuiet):
				logger = zap.NewNop().Sugar()
			case c.Bool(flagDebug):
				logger = golog.NewDebugLogger("mppisim")
			default:
				logger = golog.NewLogger("mppisim")
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runScenario(ctx, c, logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runScenario(ctx context.Context, c *cli.Context, logger golog.Logger) error {
	cfg, err := config.FromFile(c.String(flagConfig), logger)
	if err != nil {
		return err
	}
	if ticks := c.Int(flagMaxTicks); ticks > 0 {
		cfg.Run.MaxTicks = ticks
	}
	opts, err := cfg.SolverOptions()
	if err != nil {
		return err
	}

	//nolint:gosec
	solver, err := mppi.NewSolver(opts, rand.New(rand.NewSource(c.Int64(flagSeed))), logger)
	if err != nil {
		return err
	}
	plant, err := sim.NewPlant(cfg.Start.State(), cfg.Limits.Limits(), cfg.Plant.Timestep)
	if err != nil {
		return err
	}
	runner, err := sim.NewRunner(solver, plant, cfg.Run.RunnerConfig(), nil, logger)
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	logger.Infof(
		"%s after %d ticks: pose (%.2f, %.2f) heading %.1f deg, %.3f m from goal",
		summary.Status, summary.Ticks,
		summary.FinalState.X, summary.FinalState.Y, utils.RadToDeg(summary.FinalState.Theta),
		summary.FinalGoalDistance,
	)

	if out := c.String(flagOut); out != "" {
		if err := writeTrace(out, runner.Records()); err != nil {
			return errors.Wrapf(err, "cannot write trace to %q", out)
		}
		logger.Infof("wrote %d ticks to %s", len(runner.Records()), out)
	}
	return nil
}

func writeTrace(path string, records []sim.Record) error {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sim.WriteCSV(f, records); err != nil {
		return multierr.Combine(err, f.Close())
	}
	return f.Close()
}
