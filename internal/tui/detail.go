package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avantolog/avanto/pkg/client"
	"github.com/avantolog/avanto/pkg/domain"
)

type detailLoadedMsg struct {
	bath *domain.IceBath
	err  error
}

// bathDeletedMsg tells the app a record is gone so History can refresh.
type bathDeletedMsg struct {
	id  int64
	err error
}

// editBathMsg asks the app to open the form prefilled with a record.
type editBathMsg struct {
	bath *domain.IceBath
}

type copyResultMsg struct{ err error }

type detailModel struct {
	client     *client.Client
	bath       *domain.IceBath
	loading    bool
	err        string
	notFound   bool
	confirming bool // delete confirmation pending
	deleting   bool
	statusMsg  string
	closed     bool
	width      int
	height     int
}

func newDetailModel(c *client.Client) detailModel {
	return detailModel{client: c, loading: true}
}

func (m detailModel) load(id int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		bath, err := c.GetIceBath(context.Background(), id)
		return detailLoadedMsg{bath: bath, err: err}
	}
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrNotFound) {
				m.notFound = true
			} else {
				m.err = client.Message(msg.err)
			}
			return m, nil
		}
		m.bath = msg.bath
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = "kopiointi epäonnistui"
		} else {
			m.statusMsg = "kopioitu leikepöydälle"
		}
		return m, nil

	case bathDeletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.statusMsg = "poisto epäonnistui: " + client.Message(msg.err)
			return m, nil
		}
		m.closed = true
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

func (m detailModel) updateKeys(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if m.deleting {
		return m, nil
	}

	if m.confirming {
		switch msg.String() {
		case "y":
			m.confirming = false
			m.deleting = true
			c := m.client
			id := m.bath.ID
			return m, func() tea.Msg {
				err := c.DeleteIceBath(context.Background(), id)
				return bathDeletedMsg{id: id, err: err}
			}
		default:
			m.confirming = false
			m.statusMsg = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "q":
		m.closed = true
	case "c":
		if m.bath != nil {
			summary := bathSummary(m.bath)
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(summary)}
			}
		}
	case "e":
		if m.bath != nil {
			bath := m.bath
			return m, func() tea.Msg { return editBathMsg{bath: bath} }
		}
	case "d":
		if m.bath != nil {
			m.confirming = true
			m.statusMsg = ""
		}
	}
	return m, nil
}

// bathSummary builds the plain-text summary placed on the clipboard.
func bathSummary(b *domain.IceBath) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Avanto %s", formatDate(b.Date))
	if b.Location != "" {
		fmt.Fprintf(&sb, " — %s", b.Location)
	}
	fmt.Fprintf(&sb, "\nAika: %s", formatDurationPtr(b.DurationMinutes, b.DurationSeconds))
	if b.WaterTemperature != nil {
		fmt.Fprintf(&sb, "\nVeden lämpötila: %s", formatTemperature(b.WaterTemperature))
	}
	if b.Sauna != nil && *b.Sauna {
		sb.WriteString("\nSauna: kyllä")
		if b.SaunaDuration != nil {
			fmt.Fprintf(&sb, " (%d min)", *b.SaunaDuration)
		}
	}
	return sb.String()
}

func (m detailModel) View() string {
	if m.loading {
		return " " + dimStyle.Render("Ladataan avantoa...")
	}
	if m.notFound {
		return " " + errorStyle.Render("Avantoa ei löytynyt") + "\n\n " + helpEntry("esc", "takaisin")
	}
	if m.err != "" {
		return " " + errorStyle.Render("Virhe sivulla: "+m.err) + "\n\n " + helpEntry("esc", "takaisin")
	}
	if m.bath == nil {
		return ""
	}

	b := m.bath
	var sb strings.Builder
	fmt.Fprintf(&sb, " %s\n", headingStyle.Render("Avantotiedot"))

	location := b.Location
	if location == "" {
		location = "–"
	}
	fmt.Fprintf(&sb, "\n %s\n %s\n\n", selectedStyle.Render(location), dimStyle.Render(formatDate(b.Date)))

	row := func(label, value string) {
		fmt.Fprintf(&sb, " %s %s\n", metaStyle.Render(fmt.Sprintf("%-18s", label)), value)
	}

	row("Aika", formatDurationPtr(b.DurationMinutes, b.DurationSeconds))
	row("Veden lämpötila", tempStyle(b.WaterTemperature).Render(formatTemperature(b.WaterTemperature)))
	if b.AirTemperature != nil {
		row("Ilman lämpötila", formatTemperature(b.AirTemperature))
	}
	if b.FeelingBefore != nil {
		row("Fiilis ennen", feelingStyle(*b.FeelingBefore).Render(fmt.Sprintf("%d/10", *b.FeelingBefore)))
	}
	if b.FeelingAfter != nil {
		row("Fiilis jälkeen", feelingStyle(*b.FeelingAfter).Render(fmt.Sprintf("%d/10", *b.FeelingAfter)))
	}
	if b.SwearWords != nil {
		row("Kirosanat", fmt.Sprintf("%d", *b.SwearWords))
	}
	if b.Sauna != nil {
		sauna := "ei"
		if *b.Sauna {
			sauna = saunaStyle.Render("kyllä")
			if b.SaunaDuration != nil {
				sauna += dimStyle.Render(fmt.Sprintf(" (%d min)", *b.SaunaDuration))
			}
		}
		row("Sauna", sauna)
	}

	sb.WriteString("\n")
	switch {
	case m.deleting:
		sb.WriteString(" " + dimStyle.Render("poistetaan..."))
	case m.confirming:
		sb.WriteString(" " + errorStyle.Render("Poistetaanko tämä avanto? y vahvista, muu näppäin peruuta"))
	case m.statusMsg != "":
		sb.WriteString(" " + okStyle.Render(m.statusMsg))
	}
	sb.WriteString("\n\n " + helpEntry("c", "kopioi") + "  " + helpEntry("e", "muokkaa") + "  " + helpEntry("d", "poista") + "  " + helpEntry("esc", "takaisin"))

	return sb.String()
}
