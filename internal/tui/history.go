package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avantolog/avanto/pkg/client"
	"github.com/avantolog/avanto/pkg/domain"
)

// historyLoadedMsg carries one fetched page, tagged with the request
// sequence number that produced it.
type historyLoadedMsg struct {
	seq  int
	page *domain.IceBathPage
	err  error
}

// showDetailMsg asks the app to open the detail view for a record.
type showDetailMsg struct {
	id int64
}

type historyModel struct {
	client  *client.Client
	perPage int
	baths   []domain.IceBath
	meta    domain.PageMeta
	page    int // requested page, 1-based
	cursor  int
	loading bool
	err     string
	seq     int // latest request sequence; older responses are dropped
	width   int
	height  int
}

func newHistoryModel(c *client.Client, perPage int) historyModel {
	return historyModel{client: c, perPage: perPage, page: 1, loading: true}
}

// load fetches the current page. The sequence number is captured at dispatch
// so a response that arrives after a newer request is ignored: page changes
// are deterministic, latest request wins.
func (m historyModel) load() tea.Cmd {
	c := m.client
	seq := m.seq
	page := m.page
	perPage := m.perPage
	return func() tea.Msg {
		res, err := c.ListIceBaths(context.Background(), page, perPage)
		return historyLoadedMsg{seq: seq, page: res, err: err}
	}
}

func (m historyModel) Init() tea.Cmd {
	return m.load()
}

func (m historyModel) Update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.seq != m.seq {
			// Stale response from a superseded page change.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			m.baths = nil
			return m, nil
		}
		m.err = ""
		m.baths = msg.page.Items
		m.meta = msg.page.Meta
		if m.cursor >= len(m.baths) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m historyModel) updateKeys(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.baths)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "l", "right":
		if m.page < m.meta.LastPage {
			return m.gotoPage(m.page + 1)
		}
	case "h", "left":
		if m.page > 1 {
			return m.gotoPage(m.page - 1)
		}
	case "r":
		return m.gotoPage(m.page)
	case "enter":
		if m.cursor < len(m.baths) {
			id := m.baths[m.cursor].ID
			return m, func() tea.Msg { return showDetailMsg{id: id} }
		}
	}
	return m, nil
}

func (m historyModel) gotoPage(page int) (historyModel, tea.Cmd) {
	m.page = page
	m.seq++
	m.loading = true
	m.cursor = 0
	return m, m.load()
}

func (m historyModel) View() string {
	if m.loading && len(m.baths) == 0 {
		return " " + dimStyle.Render("Ladataan avantohistoriaa...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("Virhe sivulla: "+m.err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s\n", headingStyle.Render("Avantohistoria"))
	fmt.Fprintf(&b, " %s\n\n", dimStyle.Render("Kaikki avantosi yhdessä paikassa"))

	if len(m.baths) == 0 {
		b.WriteString(" " + dimStyle.Render("Ei vielä avantoja — aloita ensimmäinen avanto-kokemuksesi!") + "\n")
		return b.String()
	}

	header := fmt.Sprintf(" %-12s %-24s %-14s %s", "Päivämäärä", "Sijainti", "Aika", "Lämpötila")
	b.WriteString(metaStyle.Render(header) + "\n")

	for i, bath := range m.baths {
		date := formatDate(bath.Date)
		location := truncStr(bath.Location, 22)
		if location == "" {
			location = "–"
		}
		duration := formatDurationPtr(bath.DurationMinutes, bath.DurationSeconds)
		temp := tempStyle(bath.WaterTemperature).Render(formatTemperature(bath.WaterTemperature))

		line := fmt.Sprintf(" %-12s %-24s %-14s ", date, location, duration)
		if i == m.cursor {
			b.WriteString(selectedRowBg.Render(selectedStyle.Render(line)) + temp)
		} else {
			b.WriteString(normalStyle.Render(line) + temp)
		}
		if bath.Sauna != nil && *bath.Sauna {
			b.WriteString("  " + saunaStyle.Render("sauna"))
		}
		b.WriteString("\n")
	}

	pageLine := fmt.Sprintf("sivu %d/%d — %d käyntiä", m.meta.CurrentPage, m.meta.LastPage, m.meta.Total)
	if m.loading {
		pageLine += " · ladataan..."
	}
	b.WriteString("\n " + metaStyle.Render(pageLine) + "\n")

	return b.String()
}
