package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avantolog/avanto/pkg/client"
	"github.com/avantolog/avanto/pkg/domain"
)

// recentCount is how many latest entries the dashboard shows.
const recentCount = 5

type dashboardLoadedMsg struct {
	stats  *domain.Stats
	recent *domain.IceBathPage
	err    error
}

type dashboardModel struct {
	client  *client.Client
	user    *domain.User
	stats   *domain.Stats
	recent  []domain.IceBath
	loading bool
	err     string
	width   int
	height  int
}

func newDashboardModel(c *client.Client) dashboardModel {
	return dashboardModel{client: c, loading: true}
}

func (m *dashboardModel) setUser(u *domain.User) {
	m.user = u
}

func (m dashboardModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		page, err := c.ListIceBaths(context.Background(), 1, recentCount)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}
		// Stats are decoration here; the recent list still renders without them.
		stats, err := c.Stats(context.Background())
		if err != nil {
			stats = nil
		}
		return dashboardLoadedMsg{stats: stats, recent: page}
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.load()
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.stats = msg.stats
		m.recent = msg.recent.Items
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder

	greeting := "Tervetuloa takaisin!"
	if m.user != nil && m.user.Name != "" {
		greeting = fmt.Sprintf("Hei, %s!", m.user.Name)
	}
	fmt.Fprintf(&b, " %s\n\n", headingStyle.Render(greeting))

	if m.loading {
		b.WriteString(" " + dimStyle.Render("Ladataan...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("Virhe sivulla: "+m.err) + "\n")
		return b.String()
	}

	if m.stats != nil {
		line := fmt.Sprintf("%s käyntiä · %s avannossa",
			accentStyle.Render(fmt.Sprintf("%d", m.stats.TotalVisits)),
			accentStyle.Render(formatTotalDuration(m.stats.TotalDuration)))
		b.WriteString(" " + line + "\n\n")
	}

	b.WriteString(" " + metaStyle.Render("Viimeisimmät avannot") + "\n")
	if len(m.recent) == 0 {
		b.WriteString(" " + dimStyle.Render("Ei vielä avantoja — paina n ja kirjaa ensimmäinen!") + "\n")
	}
	for _, bath := range m.recent {
		location := bath.Location
		if location == "" {
			location = "–"
		}
		fmt.Fprintf(&b, " %s  %-22s %-12s %s\n",
			dimStyle.Render(formatDate(bath.Date)),
			truncStr(location, 22),
			formatDurationPtr(bath.DurationMinutes, bath.DurationSeconds),
			tempStyle(bath.WaterTemperature).Render(formatTemperature(bath.WaterTemperature)))
	}

	b.WriteString("\n " + dimStyle.Render("n uusi avanto · 2 historia · 3 tilastot") + "\n")
	return b.String()
}
