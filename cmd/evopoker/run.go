package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/evopoker/cmd/evopoker/shared"
	"github.com/lox/evopoker/internal/evolve"
	"github.com/lox/evopoker/internal/experiment"
	"github.com/lox/evopoker/internal/history"
	"github.com/lox/evopoker/internal/live"
)

type RunCmd struct {
	Config     string `arg:"" help:"Experiment config file (HCL)" type:"existingfile"`
	Experiment string `help:"Experiment name to run (defaults to the only one in the file)"`
	Out        string `short:"o" required:"" help:"Directory to write run history into"`
	Listen     string `help:"Stream snapshots to watchers on this address, e.g. :9090"`

	Seed        int64 `help:"Override the experiment seed"`
	Generations int   `help:"Override the generation count"`
	Workers     int   `help:"Evaluation worker count (0 = GOMAXPROCS)"`
}

func (c *RunCmd) Run(logger *log.Logger) error {
	file, err := experiment.Load(c.Config)
	if err != nil {
		return err
	}
	exp, err := file.Find(c.Experiment)
	if err != nil {
		return err
	}

	cfg := exp.Config()
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if c.Generations != 0 {
		cfg.Generations = c.Generations
	}
	if c.Workers != 0 {
		cfg.Workers = c.Workers
	}

	driver, err := evolve.NewDriver(cfg, evolve.WithLogger(logger))
	if err != nil {
		return err
	}

	writer, err := history.NewWriter(c.Out, cfg)
	if err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}

	var hub *live.Hub
	if c.Listen != "" {
		hub, err = live.NewHub(cfg, logger)
		if err != nil {
			return err
		}
		defer hub.Close()

		addr, err := hub.Listen(c.Listen)
		if err != nil {
			return err
		}
		logger.Info("streaming snapshots", "addr", addr)
	}

	logger.Info("starting run",
		"experiment", exp.Name,
		"out", c.Out,
		"generations", cfg.Generations,
		"population", cfg.PopulationSize,
		"seed", cfg.Seed)

	ctx := shared.SetupSignalHandler(logger)
	err = driver.Run(ctx, func(snap *evolve.Snapshot) error {
		if err := writer.Append(snap); err != nil {
			return fmt.Errorf("persisting generation %d: %w", snap.Generation, err)
		}
		if hub != nil {
			if err := hub.Broadcast(snap); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if hub != nil {
		if err := hub.Finish(cfg.Generations); err != nil {
			return err
		}
	}
	logger.Info("run complete", "out", c.Out)
	return nil
}
