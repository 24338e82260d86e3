package game

// Confront computes the exact expected payoff to player A when strategy a
// plays strategy b on this domain. Both cards are drawn independently and
// uniformly, so every ordered rank pair (including ties) is equally likely
// and the result is the arithmetic mean of the payoff over the full
// Ranks×Ranks table. Deterministic and exact: no hands are sampled.
//
// Payoff per cell: if B folds, A collects the ante. If B calls, the winner
// takes ante plus bet, signed by the win indicator.
//
// O(Ranks²), no side effects. The payoff to B for the same pair is always
// the additive inverse.
func (d *Domain) Confront(a StrategyA, b StrategyB) float64 {
	d.ensureWinTable()

	var total float64
	for ra := 0; ra < d.Ranks; ra++ {
		bi := a.Bets[ra]
		stake := d.Ante + d.Bets[bi]
		wins := d.win
		for rb := 0; rb < d.Ranks; rb++ {
			if b.Calls[rb][bi] {
				total += stake * wins[rb][ra]
			} else {
				total += d.Ante
			}
		}
	}
	return total / float64(d.Ranks*d.Ranks)
}
