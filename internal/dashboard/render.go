package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/evopoker/internal/game"
)

// CallProportions aggregates a B population into the fraction of strategies
// that call each (rank, bet) cell.
func CallProportions(pop []game.StrategyB) [][]float64 {
	if len(pop) == 0 {
		return nil
	}
	ranks := len(pop[0].Calls)
	bets := len(pop[0].Calls[0])

	props := make([][]float64, ranks)
	for r := range props {
		props[r] = make([]float64, bets)
	}
	for _, s := range pop {
		for r, row := range s.Calls {
			for b, call := range row {
				if call {
					props[r][b]++
				}
			}
		}
	}
	for r := range props {
		for b := range props[r] {
			props[r][b] /= float64(len(pop))
		}
	}
	return props
}

// MajorityBets aggregates an A population into the most common bet index
// per rank; the lowest index wins ties.
func MajorityBets(pop []game.StrategyA, betCount int) []int {
	if len(pop) == 0 {
		return nil
	}
	ranks := len(pop[0].Bets)
	majority := make([]int, ranks)
	for r := 0; r < ranks; r++ {
		counts := make([]int, betCount)
		for _, s := range pop {
			counts[s.Bets[r]]++
		}
		best := 0
		for b, n := range counts {
			if n > counts[best] {
				best = b
			}
		}
		majority[r] = best
	}
	return majority
}

// BarChart renders one horizontal bar per label, scaled to barWidth cells
// at the maximum value.
func BarChart(labels []string, values, maxValues []float64, barWidth int) string {
	var sb strings.Builder
	for i, label := range labels {
		frac := 0.0
		if maxValues[i] > 0 {
			frac = values[i] / maxValues[i]
		}
		cells := int(frac*float64(barWidth) + 0.5)
		if cells > barWidth {
			cells = barWidth
		}

		sb.WriteString(AxisStyle.Render(fmt.Sprintf("%6s ", label)))
		sb.WriteString(BarStyle.Render(strings.Repeat("█", cells)))
		sb.WriteString(strings.Repeat(" ", barWidth-cells))
		sb.WriteString(AxisStyle.Render(fmt.Sprintf(" %g", values[i])))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Heatmap renders call proportions as a coloured grid, ranks high to low
// so the strongest hand sits on top.
func Heatmap(props [][]float64, rankLabels, betLabels []string) string {
	var sb strings.Builder

	for r := len(props) - 1; r >= 0; r-- {
		sb.WriteString(AxisStyle.Render(fmt.Sprintf("%6s ", rankLabels[r])))
		for _, p := range props[r] {
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1A1A1A")).
				Background(heatColor(p)).
				Render(fmt.Sprintf(" %3.0f%% ", p*100))
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(AxisStyle.Render(strings.Repeat(" ", 7)))
	for _, label := range betLabels {
		sb.WriteString(AxisStyle.Render(fmt.Sprintf("%6s", label)))
	}
	return sb.String()
}
