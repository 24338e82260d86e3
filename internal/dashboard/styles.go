package dashboard

import "github.com/charmbracelet/lipgloss"

// Static styles for dashboard elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	SummaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	BarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	AxisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	LiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

// heatRamp maps a call proportion in [0,1] to a colour, cold (fold) to
// warm (call).
var heatRamp = []lipgloss.Color{
	"#2C3E50",
	"#34558B",
	"#3D7EA6",
	"#52B69A",
	"#99D98C",
	"#D9ED92",
	"#FFD166",
	"#F4A261",
	"#E76F51",
	"#D62828",
}

func heatColor(p float64) lipgloss.Color {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	i := int(p * float64(len(heatRamp)))
	if i >= len(heatRamp) {
		i = len(heatRamp) - 1
	}
	return heatRamp[i]
}
