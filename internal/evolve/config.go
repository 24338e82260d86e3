// Package evolve contains the strategy-evolution engine: the full pairwise
// payoff evaluator, the selection/crossover/mutation generation step, and
// the driver that loops them over a configured number of generations.
//
// Children fully replace the population every generation; there is no
// elitism, so a generation's best strategy can be lost. This mirrors the
// replacement policy the system is defined with and is a known limitation.
package evolve

import (
	"errors"

	"github.com/lox/evopoker/internal/game"
)

// Config aggregates the parameters of an evolution run. Validate rejects
// bad configurations before any run starts.
type Config struct {
	Ranks   int     `json:"ranks"`
	BetMin  float64 `json:"bet_min"`
	BetMax  float64 `json:"bet_max"`
	BetStep float64 `json:"bet_step"`
	Ante    float64 `json:"ante"`

	PopulationSize   int     `json:"population_size"`
	Generations      int     `json:"generations"`
	ParentProportion float64 `json:"parent_proportion"`
	MutationRate     float64 `json:"mutation_rate"`
	Seed             int64   `json:"seed"`

	// Workers bounds evaluator parallelism. Zero means one worker per CPU.
	// Purely a performance knob: results are identical for any value.
	Workers int `json:"workers,omitempty"`
}

// Validate ensures the configuration is safe to run.
func (c Config) Validate() error {
	if _, err := c.Domain(); err != nil {
		return err
	}
	if c.PopulationSize < 2 {
		return errors.New("population size must be at least 2")
	}
	if c.Generations < 1 {
		return errors.New("generation count must be at least 1")
	}
	if c.ParentProportion <= 0 || c.ParentProportion > 1 {
		return errors.New("parent proportion must be in (0, 1]")
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return errors.New("mutation rate must be in [0, 1]")
	}
	if c.Workers < 0 {
		return errors.New("workers cannot be negative")
	}
	return nil
}

// Domain constructs the game domain described by the configuration.
func (c Config) Domain() (*game.Domain, error) {
	return game.NewDomain(c.Ranks, c.BetMin, c.BetMax, c.BetStep, c.Ante)
}
