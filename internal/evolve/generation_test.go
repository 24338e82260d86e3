package evolve

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/evopoker/internal/game"
)

func TestSelectParentsTruncation(t *testing.T) {
	fitness := []float64{0.1, 0.9, -0.5, 0.4}

	parents := selectParents(fitness, 0.5)
	assert.Equal(t, []int{1, 3}, parents)

	parents = selectParents(fitness, 1.0)
	assert.Equal(t, []int{1, 3, 0, 2}, parents)
}

func TestSelectParentsTieBreakIsStable(t *testing.T) {
	fitness := []float64{0.5, 0.5, 0.5, 0.5}

	parents := selectParents(fitness, 0.5)
	assert.Equal(t, []int{0, 1}, parents, "ties keep original population order")
}

func TestSelectParentsAlwaysKeepsOne(t *testing.T) {
	fitness := []float64{0.2, 0.1}

	parents := selectParents(fitness, 0.01)
	assert.Equal(t, []int{0}, parents)
}

func TestCrossoverWeightsShiftInvariant(t *testing.T) {
	fitness := []float64{1.0, 2.0, 3.0}
	shifted := []float64{101.0, 102.0, 103.0}
	parents := []int{2, 1, 0}

	a := crossoverWeights(fitness, parents)
	b := crossoverWeights(shifted, parents)
	for i := range a {
		assert.InDelta(t, a[i], b[i], 1e-12, "shifting all fitness must not change weights")
	}
}

func TestCrossoverWeightsExtremeFitness(t *testing.T) {
	// Unshifted exp(1e4) overflows float64; the max-shifted form must stay finite
	// and keep every parent strictly selectable.
	fitness := []float64{1e4, -1e4, 0}
	parents := []int{0, 1, 2}

	cum := crossoverWeights(fitness, parents)
	require.Len(t, cum, 3)
	last := 0.0
	for i, v := range cum {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v), "weight %d not finite", i)
		assert.Greater(t, v, last, "cumulative weights must be strictly increasing")
		last = v
	}
}

func TestNextAWithoutMutationCopiesParentElements(t *testing.T) {
	cfg := testConfig()
	cfg.MutationRate = 0
	d, err := cfg.Domain()
	require.NoError(t, err)
	pop, _ := testPopulations(t, d, cfg.PopulationSize, cfg.PopulationSize)

	fitness := make([]float64, len(pop))
	for i := range fitness {
		fitness[i] = float64(i) * 0.01
	}

	children := NextA(d, cfg, pop, fitness, 1)
	require.Len(t, children, len(pop))

	parents := selectParents(fitness, cfg.ParentProportion)
	allowed := make(map[int]map[int]bool) // rank -> bet index -> permitted
	for r := 0; r < d.Ranks; r++ {
		allowed[r] = make(map[int]bool)
		for _, p := range parents {
			allowed[r][pop[p].Bets[r]] = true
		}
	}

	for _, child := range children {
		require.NoError(t, child.Validate(d))
		for r, b := range child.Bets {
			assert.True(t, allowed[r][b], "child element must come from a selected parent")
		}
	}
}

func TestNextAFullMutationStaysInDomain(t *testing.T) {
	cfg := testConfig()
	cfg.MutationRate = 1
	d, err := cfg.Domain()
	require.NoError(t, err)
	pop, _ := testPopulations(t, d, cfg.PopulationSize, cfg.PopulationSize)

	fitness := make([]float64, len(pop))
	children := NextA(d, cfg, pop, fitness, 1)
	for _, child := range children {
		require.NoError(t, child.Validate(d))
	}
}

func TestNextBChildrenAreRepaired(t *testing.T) {
	cfg := testConfig()
	cfg.MutationRate = 0.5
	d, err := cfg.Domain()
	require.NoError(t, err)
	_, pop := testPopulations(t, d, cfg.PopulationSize, cfg.PopulationSize)

	fitness := make([]float64, len(pop))
	for i := range fitness {
		fitness[i] = -float64(i) * 0.1
	}

	for gen := 1; gen <= 3; gen++ {
		children := NextB(d, cfg, pop, fitness, gen)
		require.Len(t, children, len(pop))
		for _, child := range children {
			require.NoError(t, child.Validate(d))
		}
		pop = children
	}
}

func TestBreedingIsDeterministic(t *testing.T) {
	cfg := testConfig()
	d, err := cfg.Domain()
	require.NoError(t, err)
	popA, popB := testPopulations(t, d, cfg.PopulationSize, cfg.PopulationSize)

	fitA := make([]float64, len(popA))
	fitB := make([]float64, len(popB))
	for i := range fitA {
		fitA[i] = float64(i%3) * 0.2
		fitB[i] = -float64(i%4) * 0.1
	}

	a1 := NextA(d, cfg, popA, fitA, 2)
	a2 := NextA(d, cfg, popA, fitA, 2)
	assert.Equal(t, a1, a2)

	b1 := NextB(d, cfg, popB, fitB, 2)
	b2 := NextB(d, cfg, popB, fitB, 2)
	assert.Equal(t, b1, b2)

	// A different generation index consumes a different stream.
	a3 := NextA(d, cfg, popA, fitA, 3)
	assert.NotEqual(t, a1, a3)
}

func TestBreedingDoesNotMutateParents(t *testing.T) {
	cfg := testConfig()
	cfg.MutationRate = 1
	d, err := cfg.Domain()
	require.NoError(t, err)
	popA, popB := testPopulations(t, d, cfg.PopulationSize, cfg.PopulationSize)

	beforeA := make([]string, len(popA))
	for i, s := range popA {
		beforeA[i] = stringifyA(s)
	}
	beforeB := make([]string, len(popB))
	for i, s := range popB {
		beforeB[i] = stringifyB(s)
	}

	fit := make([]float64, cfg.PopulationSize)
	NextA(d, cfg, popA, fit, 1)
	NextB(d, cfg, popB, fit, 1)

	for i, s := range popA {
		assert.Equal(t, beforeA[i], stringifyA(s))
	}
	for i, s := range popB {
		assert.Equal(t, beforeB[i], stringifyB(s))
	}
}

func stringifyA(s game.StrategyA) string { return fmt.Sprint(s.Bets) }

func stringifyB(s game.StrategyB) string { return fmt.Sprint(s.Calls) }
