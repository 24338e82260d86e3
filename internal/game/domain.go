// Package game defines the one-card betting game: the rank and bet domains,
// deterministic player strategies, and exact expected-payoff confrontation.
//
// The game: both players ante, each is dealt one card uniformly at random
// from ranks 1..C (draws are independent, ties possible). Player A bets an
// amount from a fixed bet set based only on its own card; player B then
// calls or folds based on its own card and the observed bet. On a fold the
// pot goes to A (A wins the ante); on a call the higher card wins ante plus
// bet, with ties pushing.
package game

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Domain describes the finite rank and bet sets a game is played over,
// together with the ante. The win-indicator table is precomputed once and
// shared across every confrontation on the domain.
type Domain struct {
	Ranks int       `json:"ranks"`
	Bets  []float64 `json:"bets"`
	Ante  float64   `json:"ante"`

	// win[rb][ra] is +1 if rank ra beats rank rb, -1 if it loses, 0 on a tie.
	win     [][]float64
	winOnce sync.Once
}

// NewDomain constructs a validated Domain. The bet set runs from betMin to
// betMax inclusive in steps of betStep and must include zero, matching the
// rule that a zero bet is always checkable.
func NewDomain(ranks int, betMin, betMax, betStep, ante float64) (*Domain, error) {
	if ranks < 2 {
		return nil, errors.New("rank count must be at least 2")
	}
	if ante < 0 {
		return nil, errors.New("ante cannot be negative")
	}
	if betMin != 0 {
		return nil, errors.New("bet set must include zero")
	}
	if betStep <= 0 {
		return nil, errors.New("bet step must be positive")
	}
	if betMax < betMin {
		return nil, errors.New("max bet cannot be below min bet")
	}

	span := betMax - betMin
	steps := span / betStep
	if math.Abs(steps-math.Round(steps)) > 1e-9 {
		return nil, fmt.Errorf("bet range [%g, %g] is not aligned to step %g", betMin, betMax, betStep)
	}

	n := int(math.Round(steps)) + 1
	bets := make([]float64, n)
	for i := range bets {
		bets[i] = betMin + float64(i)*betStep
	}

	d := &Domain{Ranks: ranks, Bets: bets, Ante: ante}
	d.ensureWinTable()
	return d, nil
}

// ensureWinTable builds the win-indicator table exactly once. Domains decoded
// from persisted JSON arrive without it.
func (d *Domain) ensureWinTable() {
	d.winOnce.Do(d.buildWinTable)
}

func (d *Domain) buildWinTable() {
	d.win = make([][]float64, d.Ranks)
	for rb := 0; rb < d.Ranks; rb++ {
		row := make([]float64, d.Ranks)
		for ra := 0; ra < d.Ranks; ra++ {
			switch {
			case ra > rb:
				row[ra] = 1
			case ra < rb:
				row[ra] = -1
			}
		}
		d.win[rb] = row
	}
}

// Win returns the win indicator for player A holding rank index ra against
// player B holding rank index rb.
func (d *Domain) Win(rb, ra int) float64 {
	return d.win[rb][ra]
}

// MaxBet returns the largest bet in the domain.
func (d *Domain) MaxBet() float64 {
	return d.Bets[len(d.Bets)-1]
}

// MaxPayoff bounds the absolute payoff of any confrontation on this domain.
func (d *Domain) MaxPayoff() float64 {
	return d.Ante + d.MaxBet()
}

// BetLabel formats the bet at index i for display.
func (d *Domain) BetLabel(i int) string {
	return fmt.Sprintf("%g", d.Bets[i])
}
