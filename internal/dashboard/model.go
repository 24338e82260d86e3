// Package dashboard renders stored or live evolution runs as a terminal
// UI: a bet-per-rank bar chart for player A and a call/fold heatmap for
// player B, scrubbing across generations. It only aggregates
// already-computed snapshot data; no confrontation or generation logic
// runs here.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/evopoker/internal/evolve"
	"github.com/lox/evopoker/internal/game"
	"github.com/lox/evopoker/internal/history"
)

// Source supplies snapshots to the dashboard.
type Source interface {
	Config() evolve.Config
	Count() int
	At(i int) (*evolve.Snapshot, error)
}

// RunSource adapts a stored history run.
type RunSource struct {
	run *history.Run
}

func NewRunSource(run *history.Run) *RunSource {
	return &RunSource{run: run}
}

func (s *RunSource) Config() evolve.Config { return s.run.Meta().Config }
func (s *RunSource) Count() int            { return s.run.Generations() }

func (s *RunSource) At(i int) (*evolve.Snapshot, error) {
	return s.run.Snapshot(i)
}

// MemorySource accumulates snapshots as they arrive from a live run.
type MemorySource struct {
	cfg   evolve.Config
	snaps []*evolve.Snapshot
}

func NewMemorySource(cfg evolve.Config) *MemorySource {
	return &MemorySource{cfg: cfg}
}

func (s *MemorySource) Config() evolve.Config { return s.cfg }
func (s *MemorySource) Count() int            { return len(s.snaps) }

func (s *MemorySource) At(i int) (*evolve.Snapshot, error) {
	if i < 0 || i >= len(s.snaps) {
		return nil, fmt.Errorf("snapshot %d not received yet", i)
	}
	return s.snaps[i], nil
}

func (s *MemorySource) Append(snap *evolve.Snapshot) {
	s.snaps = append(s.snaps, snap)
}

// SnapshotMsg delivers a live snapshot into the model.
type SnapshotMsg struct {
	Snapshot *evolve.Snapshot
}

// CompleteMsg marks the end of a live run.
type CompleteMsg struct{}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	source Source
	memory *MemorySource // non-nil in live mode
	domain *game.Domain

	cur      int
	follow   bool
	done     bool
	quitting bool
	err      error

	body   viewport.Model
	width  int
	height int
	ready  bool
}

// NewModel builds a dashboard over a stored run.
func NewModel(source Source) (Model, error) {
	domain, err := source.Config().Domain()
	if err != nil {
		return Model{}, err
	}
	return Model{source: source, domain: domain}, nil
}

// NewLiveModel builds a dashboard that follows a run as snapshots arrive.
func NewLiveModel(cfg evolve.Config) (Model, error) {
	memory := NewMemorySource(cfg)
	m, err := NewModel(memory)
	if err != nil {
		return Model{}, err
	}
	m.memory = memory
	m.follow = true
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			if m.cur > 0 {
				m.cur--
				m.follow = false
			}
		case "right", "l":
			if m.cur < m.source.Count()-1 {
				m.cur++
			}
			if m.cur == m.source.Count()-1 && m.memory != nil {
				m.follow = true
			}
		case "home", "g":
			m.cur = 0
			m.follow = false
		case "end", "G":
			if n := m.source.Count(); n > 0 {
				m.cur = n - 1
			}
			if m.memory != nil {
				m.follow = true
			}
		case "f":
			if m.memory != nil {
				m.follow = !m.follow
			}
		}
		m.refreshBody()

	case SnapshotMsg:
		if m.memory != nil {
			m.memory.Append(msg.Snapshot)
			if m.follow {
				m.cur = m.memory.Count() - 1
			}
			m.refreshBody()
		}

	case CompleteMsg:
		m.done = true

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 2
		footerHeight := 2
		if !m.ready {
			m.body = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.body.Width = msg.Width
			m.body.Height = msg.Height - headerHeight - footerHeight
		}
		m.refreshBody()
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m *Model) refreshBody() {
	if !m.ready {
		return
	}
	m.body.SetContent(m.renderSnapshot())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}
	return m.headerView() + "\n" + m.body.View() + "\n" + m.footerView()
}

func (m Model) headerView() string {
	cfg := m.source.Config()
	title := fmt.Sprintf(" evopoker — %d ranks, bets 0..%g, ante %g ", cfg.Ranks, cfg.BetMax, cfg.Ante)

	status := fmt.Sprintf("generation %d/%d", m.cur+1, m.source.Count())
	if m.source.Count() == 0 {
		status = "no generations yet"
	}
	if m.memory != nil && !m.done {
		status = LiveStyle.Render("● live ") + status
		if m.follow {
			status += " (following)"
		}
	}
	return HeaderStyle.Render(title) + "  " + SummaryStyle.Render(status) + "\n"
}

func (m Model) footerView() string {
	help := "←/→ scrub · g/G first/last · q quit"
	if m.memory != nil {
		help += " · f follow"
	}
	return "\n" + HelpStyle.Render(help)
}

func (m Model) renderSnapshot() string {
	if m.source.Count() == 0 {
		return SummaryStyle.Render("waiting for the first generation...")
	}

	snap, err := m.source.At(m.cur)
	if err != nil {
		return ErrorStyle.Render(err.Error())
	}

	var sb strings.Builder

	bestA := snap.BestA()
	bestB := snap.BestB()
	sb.WriteString(SummaryStyle.Render(fmt.Sprintf(
		"mean payoff to A %+.4f · best A fitness %+.4f (s%d) · best B fitness %+.4f (s%d)",
		snap.MeanPayoff(), snap.FitnessA[bestA], bestA+1, snap.FitnessB[bestB], bestB+1,
	)))
	sb.WriteString("\n\n")

	sb.WriteString(SectionStyle.Render("Player A — bet per rank (best strategy)"))
	sb.WriteString("\n")
	sb.WriteString(m.renderBets(snap.PopulationA[bestA]))
	sb.WriteString("\n\n")

	sb.WriteString(SectionStyle.Render("Player B — call proportion per rank × bet (population)"))
	sb.WriteString("\n")
	sb.WriteString(m.renderHeatmap(snap.PopulationB))

	return sb.String()
}

func (m Model) renderBets(a game.StrategyA) string {
	labels := make([]string, m.domain.Ranks)
	values := make([]float64, m.domain.Ranks)
	maxes := make([]float64, m.domain.Ranks)
	for r := 0; r < m.domain.Ranks; r++ {
		labels[r] = fmt.Sprintf("r%d", r+1)
		values[r] = a.Bet(m.domain, r)
		maxes[r] = m.domain.MaxBet()
	}
	return BarChart(labels, values, maxes, 30)
}

func (m Model) renderHeatmap(pop []game.StrategyB) string {
	rankLabels := make([]string, m.domain.Ranks)
	for r := range rankLabels {
		rankLabels[r] = fmt.Sprintf("r%d", r+1)
	}
	betLabels := make([]string, len(m.domain.Bets))
	for b := range betLabels {
		betLabels[b] = m.domain.BetLabel(b)
	}
	return Heatmap(CallProportions(pop), rankLabels, betLabels)
}
