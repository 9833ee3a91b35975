package tui

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the AVANTO logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "A V A N T O" as a slow wave of cold light.
// Deep lake blue (#16324a) -> pale ice cyan (#7dd3fc).
func renderShimmerLogo(frame int) string {
	const text = "AVANTO"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// One smooth wave advancing through the text
		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Deep:   (22, 50, 74)    #16324a
		// Bright: (125, 211, 252) #7dd3fc
		r := clampByte(22 + b*(125-22))
		g := clampByte(50 + b*(211-50))
		bl := clampByte(74 + b*(252-74))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles, cold neutral palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Accent / action styles
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#38bdf8"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dd3fc")).
			Bold(true)

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#38bdf8")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	saunaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))
)

// tempStyle returns a style colored for the given water temperature, using
// the same bands as temperatureColor.
func tempStyle(temp *float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(temperatureColor(temp)).Bold(true)
}

// feelingStyle colors a 1-10 feeling rating: red for rough, amber for okay,
// green for great.
func feelingStyle(rating int) lipgloss.Style {
	switch {
	case rating >= 8:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	case rating >= 5:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
