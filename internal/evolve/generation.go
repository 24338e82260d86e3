package evolve

import (
	"math"
	rand "math/rand/v2"
	"sort"

	"github.com/lox/evopoker/internal/game"
	"github.com/lox/evopoker/internal/randutil"
)

// Stream tags keyed into randutil.Derive so that every child strategy owns
// an independent, reproducible source of randomness.
const (
	streamInit  = 0
	streamBreed = 1

	playerA = 0
	playerB = 1
)

// NextA breeds the replacement A population from the current one. gen is
// the index of the generation being created.
func NextA(d *game.Domain, cfg Config, pop []game.StrategyA, fitness []float64, gen int) []game.StrategyA {
	parents := selectParents(fitness, cfg.ParentProportion)
	cum := crossoverWeights(fitness, parents)

	children := make([]game.StrategyA, len(pop))
	for c := range children {
		rng := randutil.Derive(cfg.Seed, streamBreed, uint64(gen), playerA, uint64(c))

		bets := make([]int, d.Ranks)
		for r := range bets {
			parent := pop[parents[pickParent(rng, cum)]]
			bets[r] = parent.Bets[r]
		}
		for r := range bets {
			if rng.Float64() < cfg.MutationRate {
				bets[r] = rng.IntN(len(d.Bets))
			}
		}
		children[c] = game.StrategyA{Bets: bets}
	}
	return children
}

// NextB breeds the replacement B population. The configured mutation rate
// is doubled before the Bernoulli draws: a uniform redraw over the
// two-symbol call/fold alphabet is a no-op half the time, so doubling keeps
// B's effective phenotypic mutation rate comparable to A's. Every child is
// domain-repaired after crossover and mutation.
func NextB(d *game.Domain, cfg Config, pop []game.StrategyB, fitness []float64, gen int) []game.StrategyB {
	parents := selectParents(fitness, cfg.ParentProportion)
	cum := crossoverWeights(fitness, parents)
	rate := math.Min(1, 2*cfg.MutationRate)

	children := make([]game.StrategyB, len(pop))
	for c := range children {
		rng := randutil.Derive(cfg.Seed, streamBreed, uint64(gen), playerB, uint64(c))

		calls := make([][]bool, d.Ranks)
		for r := range calls {
			calls[r] = make([]bool, len(d.Bets))
		}
		for r := range calls {
			for b := range calls[r] {
				parent := pop[parents[pickParent(rng, cum)]]
				calls[r][b] = parent.Calls[r][b]
			}
		}
		for r := range calls {
			for b := range calls[r] {
				if rng.Float64() < rate {
					calls[r][b] = rng.IntN(2) == 0
				}
			}
		}

		child := game.StrategyB{Calls: calls}
		child.Repair(d)
		children[c] = child
	}
	return children
}

// selectParents returns the population indices of the top
// round(N·proportion) strategies by fitness, best first. Ties keep the
// original population order so selection is reproducible.
func selectParents(fitness []float64, proportion float64) []int {
	order := make([]int, len(fitness))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return fitness[order[i]] > fitness[order[j]]
	})

	k := int(math.Round(float64(len(fitness)) * proportion))
	if k < 1 {
		k = 1
	}
	if k > len(order) {
		k = len(order)
	}
	return order[:k]
}

// crossoverWeights returns cumulative selection weights over the chosen
// parents, proportional to exp(fitness). The maximum fitness is subtracted
// before exponentiation; the shift cancels in the normalisation, keeps
// every exponent at or below zero so the weights cannot overflow, and
// leaves every parent with a strictly positive weight even at very
// negative fitness.
func crossoverWeights(fitness []float64, parents []int) []float64 {
	maxFit := math.Inf(-1)
	for _, p := range parents {
		if fitness[p] > maxFit {
			maxFit = fitness[p]
		}
	}

	cum := make([]float64, len(parents))
	var total float64
	for i, p := range parents {
		total += math.Exp(fitness[p] - maxFit)
		cum[i] = total
	}
	return cum
}

// pickParent draws an index into the parent slice with probability
// proportional to its weight.
func pickParent(rng *rand.Rand, cum []float64) int {
	x := rng.Float64() * cum[len(cum)-1]
	i := sort.SearchFloat64s(cum, x)
	if i >= len(cum) {
		i = len(cum) - 1
	}
	return i
}

// initialPopulations draws the generation-zero populations. B strategies
// are repaired on creation.
func initialPopulations(d *game.Domain, cfg Config) ([]game.StrategyA, []game.StrategyB) {
	popA := make([]game.StrategyA, cfg.PopulationSize)
	popB := make([]game.StrategyB, cfg.PopulationSize)
	for c := 0; c < cfg.PopulationSize; c++ {
		popA[c] = game.NewRandomStrategyA(d, randutil.Derive(cfg.Seed, streamInit, 0, playerA, uint64(c)))
		popB[c] = game.NewRandomStrategyB(d, randutil.Derive(cfg.Seed, streamInit, 0, playerB, uint64(c)))
	}
	return popA, popB
}
