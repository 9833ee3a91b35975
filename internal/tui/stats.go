package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avantolog/avanto/pkg/client"
	"github.com/avantolog/avanto/pkg/domain"
)

type statsLoadedMsg struct {
	stats *domain.Stats
	err   error
}

type statsModel struct {
	client  *client.Client
	stats   *domain.Stats
	loading bool
	err     string
	width   int
	height  int
}

func newStatsModel(c *client.Client) statsModel {
	return statsModel{client: c, loading: true}
}

func (m statsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.Stats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m statsModel) Init() tea.Cmd {
	return m.load()
}

func (m statsModel) Update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			m.stats = nil
			return m, nil
		}
		m.err = ""
		m.stats = msg.stats
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m statsModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s\n\n", headingStyle.Render("Tilastot"))

	if m.loading {
		b.WriteString(" " + dimStyle.Render("Ladataan tilastoja...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("Virhe sivulla: "+m.err) + "\n")
		return b.String()
	}
	if m.stats == nil {
		b.WriteString(" " + dimStyle.Render("Sinulla ei ole vielä käyntejä") + "\n")
		return b.String()
	}

	row := func(label, value string) {
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render(fmt.Sprintf("%-24s", label)), accentStyle.Render(value))
	}
	row("Käynnit yhteensä", fmt.Sprintf("%d", m.stats.TotalVisits))
	row("Kokonaisaika avannossa", formatTotalDuration(m.stats.TotalDuration))

	if m.stats.TotalVisits > 0 {
		b.WriteString("\n " + okStyle.Render("Mahtavaa työtä!") + "\n")
	}
	return b.String()
}
