package evolve

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/evopoker/internal/game"
)

// Evaluation holds the full pairwise payoff matrix between two populations
// and the fitness vectors derived from it. Payoffs[i][j] is the exact
// expected payoff to A when A's strategy j plays B's strategy i; the payoff
// to B for the same pair is the additive inverse.
type Evaluation struct {
	Payoffs  [][]float64 `json:"payoffs"`
	FitnessA []float64   `json:"fitness_a"`
	FitnessB []float64   `json:"fitness_b"`
}

// Evaluate confronts every (A, B) strategy pair exactly once and derives
// fitness: for A the mean payoff over all B opponents (column mean), for B
// the mean negated payoff over all A opponents (row mean of the negated
// matrix). O(N_A·N_B·Ranks²), the dominant cost of the whole system.
//
// Rows are spread over a bounded worker pool. Workers write disjoint rows
// of a preallocated matrix and consume no randomness, so the result is
// identical for any worker count.
func Evaluate(d *game.Domain, popA []game.StrategyA, popB []game.StrategyB, workers int) *Evaluation {
	return evaluate(popA, popB, workers, d.Confront)
}

func evaluate(popA []game.StrategyA, popB []game.StrategyB, workers int, confront func(game.StrategyA, game.StrategyB) float64) *Evaluation {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	payoffs := make([][]float64, len(popB))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range popB {
		i := i
		g.Go(func() error {
			row := make([]float64, len(popA))
			for j := range popA {
				row[j] = confront(popA[j], popB[i])
			}
			payoffs[i] = row
			return nil
		})
	}
	// Workers are pure and never return errors.
	_ = g.Wait()

	return &Evaluation{
		Payoffs:  payoffs,
		FitnessA: columnMeans(payoffs, len(popA)),
		FitnessB: negatedRowMeans(payoffs, len(popA)),
	}
}

func columnMeans(payoffs [][]float64, cols int) []float64 {
	means := make([]float64, cols)
	if len(payoffs) == 0 {
		return means
	}
	for _, row := range payoffs {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(len(payoffs))
	}
	return means
}

func negatedRowMeans(payoffs [][]float64, cols int) []float64 {
	means := make([]float64, len(payoffs))
	if cols == 0 {
		return means
	}
	for i, row := range payoffs {
		var sum float64
		for _, v := range row {
			sum += v
		}
		means[i] = -sum / float64(cols)
	}
	return means
}
