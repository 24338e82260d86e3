package game

import (
	"fmt"
	rand "math/rand/v2"
)

// StrategyA is player A's deterministic betting policy: one bet per rank,
// stored as an index into the domain's bet set. Index i covers rank i+1.
type StrategyA struct {
	Bets []int `json:"bets"`
}

// StrategyB is player B's deterministic calling policy: one call/fold
// decision per (rank, bet) cell. Calls[r][b] is true when B calls a bet of
// Domain.Bets[b] while holding rank r+1.
type StrategyB struct {
	Calls [][]bool `json:"calls"`
}

// NewRandomStrategyA draws a uniform random bet for every rank.
func NewRandomStrategyA(d *Domain, rng *rand.Rand) StrategyA {
	bets := make([]int, d.Ranks)
	for r := range bets {
		bets[r] = rng.IntN(len(d.Bets))
	}
	return StrategyA{Bets: bets}
}

// NewRandomStrategyB draws a uniform random call/fold table and repairs it so
// the risk-free calling rules hold from the start.
func NewRandomStrategyB(d *Domain, rng *rand.Rand) StrategyB {
	calls := make([][]bool, d.Ranks)
	for r := range calls {
		row := make([]bool, len(d.Bets))
		for b := range row {
			row[b] = rng.IntN(2) == 0
		}
		calls[r] = row
	}
	s := StrategyB{Calls: calls}
	s.Repair(d)
	return s
}

// Bet returns the bet amount A makes when holding rank index r.
func (s StrategyA) Bet(d *Domain, r int) float64 {
	return d.Bets[s.Bets[r]]
}

// Clone returns an independent copy.
func (s StrategyA) Clone() StrategyA {
	bets := make([]int, len(s.Bets))
	copy(bets, s.Bets)
	return StrategyA{Bets: bets}
}

// Validate checks the strategy against the domain. A strategy referencing
// ranks or bets outside the domain is a fatal input error.
func (s StrategyA) Validate(d *Domain) error {
	if len(s.Bets) != d.Ranks {
		return fmt.Errorf("strategy A covers %d ranks, domain has %d", len(s.Bets), d.Ranks)
	}
	for r, b := range s.Bets {
		if b < 0 || b >= len(d.Bets) {
			return fmt.Errorf("strategy A bet index %d at rank %d outside domain", b, r+1)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (s StrategyB) Clone() StrategyB {
	calls := make([][]bool, len(s.Calls))
	for r, row := range s.Calls {
		calls[r] = make([]bool, len(row))
		copy(calls[r], row)
	}
	return StrategyB{Calls: calls}
}

// Repair overwrites the cells where calling is risk-free: the maximum rank
// cannot lose, and a zero bet costs nothing to contest. Applied after every
// creation and mutation of a call table, including the initial random
// population.
func (s StrategyB) Repair(d *Domain) {
	top := s.Calls[d.Ranks-1]
	for b := range top {
		top[b] = true
	}
	for r := range s.Calls {
		s.Calls[r][0] = true
	}
}

// Validate checks the table shape and the repair invariant.
func (s StrategyB) Validate(d *Domain) error {
	if len(s.Calls) != d.Ranks {
		return fmt.Errorf("strategy B covers %d ranks, domain has %d", len(s.Calls), d.Ranks)
	}
	for r, row := range s.Calls {
		if len(row) != len(d.Bets) {
			return fmt.Errorf("strategy B rank %d covers %d bets, domain has %d", r+1, len(row), len(d.Bets))
		}
		if !row[0] {
			return fmt.Errorf("strategy B folds a zero bet at rank %d", r+1)
		}
	}
	for b, call := range s.Calls[d.Ranks-1] {
		if !call {
			return fmt.Errorf("strategy B folds bet %g at the maximum rank", d.Bets[b])
		}
	}
	return nil
}
