package evolve

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/evopoker/internal/game"
)

// Snapshot captures one generation: the populations that were evaluated and
// the payoff matrix and fitness vectors that scored them. Snapshots are
// never mutated once yielded.
type Snapshot struct {
	Generation  int              `json:"generation"`
	PopulationA []game.StrategyA `json:"population_a"`
	PopulationB []game.StrategyB `json:"population_b"`
	Payoffs     [][]float64      `json:"payoffs"`
	FitnessA    []float64        `json:"fitness_a"`
	FitnessB    []float64        `json:"fitness_b"`
}

// BestA returns the index of the fittest A strategy.
func (s *Snapshot) BestA() int { return argMax(s.FitnessA) }

// BestB returns the index of the fittest B strategy.
func (s *Snapshot) BestB() int { return argMax(s.FitnessB) }

// MeanPayoff returns the mean payoff to A over all strategy pairs.
func (s *Snapshot) MeanPayoff() float64 {
	var sum float64
	var n int
	for _, row := range s.Payoffs {
		for _, v := range row {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func argMax(vs []float64) int {
	best := 0
	for i, v := range vs {
		if v > vs[best] {
			best = i
		}
	}
	return best
}

// Driver runs the evolution loop: evaluate both populations against each
// other, yield a snapshot, breed the replacements, repeat.
type Driver struct {
	cfg    Config
	domain *game.Domain
	logger *log.Logger
	clock  quartz.Clock

	popA []game.StrategyA
	popB []game.StrategyB
}

// Option customises a Driver.
type Option func(*Driver)

// WithLogger attaches a structured logger for per-generation progress.
func WithLogger(logger *log.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// WithClock injects the clock used for run timing.
func WithClock(clock quartz.Clock) Option {
	return func(d *Driver) { d.clock = clock }
}

// NewDriver validates the configuration and draws the initial random
// populations (B immediately domain-repaired).
func NewDriver(cfg Config, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	domain, err := cfg.Domain()
	if err != nil {
		return nil, err
	}

	d := &Driver{cfg: cfg, domain: domain}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.Default()
	}
	if d.clock == nil {
		d.clock = quartz.NewReal()
	}

	d.popA, d.popB = initialPopulations(domain, cfg)
	return d, nil
}

// Domain returns the game domain the driver runs over.
func (d *Driver) Domain() *game.Domain { return d.domain }

// Config returns the validated run configuration.
func (d *Driver) Config() Config { return d.cfg }

// Run executes the full generation loop, yielding each snapshot as it is
// produced. The caller decides whether to persist, subsample, or discard
// snapshots; the driver retains none of them. A yield error aborts the run
// and is returned unchanged.
func (d *Driver) Run(ctx context.Context, yield func(*Snapshot) error) error {
	start := d.clock.Now()

	for gen := 0; gen < d.cfg.Generations; gen++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev := Evaluate(d.domain, d.popA, d.popB, d.cfg.Workers)
		snap := &Snapshot{
			Generation:  gen,
			PopulationA: d.popA,
			PopulationB: d.popB,
			Payoffs:     ev.Payoffs,
			FitnessA:    ev.FitnessA,
			FitnessB:    ev.FitnessB,
		}
		if err := yield(snap); err != nil {
			return err
		}

		d.logger.Debug("generation evaluated",
			"gen", gen,
			"mean_payoff", snap.MeanPayoff(),
			"best_fitness_a", ev.FitnessA[snap.BestA()],
			"best_fitness_b", ev.FitnessB[snap.BestB()],
		)

		if gen < d.cfg.Generations-1 {
			// Fresh slices each generation; snapshots stay immutable.
			d.popA = NextA(d.domain, d.cfg, d.popA, ev.FitnessA, gen+1)
			d.popB = NextB(d.domain, d.cfg, d.popB, ev.FitnessB, gen+1)
		}
	}

	d.logger.Info("evolution complete",
		"generations", d.cfg.Generations,
		"population", d.cfg.PopulationSize,
		"seed", d.cfg.Seed,
		"elapsed", d.clock.Since(start),
	)
	return nil
}

// RunAll collects every snapshot in memory. Convenient for small runs;
// large N×G histories should stream through Run instead.
func (d *Driver) RunAll(ctx context.Context) ([]*Snapshot, error) {
	snaps := make([]*Snapshot, 0, d.cfg.Generations)
	err := d.Run(ctx, func(s *Snapshot) error {
		snaps = append(snaps, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snaps, nil
}
