package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avantolog/avanto/pkg/client"
	"github.com/avantolog/avanto/pkg/domain"
)

type createField int

const (
	fieldDate createField = iota
	fieldLocation
	fieldWaterTemp
	fieldAirTemp
	fieldDurationMin
	fieldDurationSec
	fieldFeelingBefore
	fieldFeelingAfter
	fieldSwearWords
	fieldSauna
	fieldSaunaDuration
	numCreateFields
)

var createLabels = [numCreateFields]string{
	"päivämäärä",
	"sijainti",
	"veden lämpötila",
	"ilman lämpötila",
	"kesto (min)",
	"kesto (s)",
	"fiilis ennen",
	"fiilis jälkeen",
	"kirosanat",
	"sauna",
	"sauna (min)",
}

// bathSavedMsg carries the result of a create or update submission.
type bathSavedMsg struct {
	bath *domain.IceBath
	err  error
}

type createModel struct {
	client    *client.Client
	fields    [numCreateFields]string
	focus     createField
	editID    *int64 // nil when creating a new record
	statusMsg string
	submitted bool
}

func newCreateModel(c *client.Client) createModel {
	m := createModel{client: c}
	m.reset()
	return m
}

func (m *createModel) reset() {
	m.fields = [numCreateFields]string{}
	m.fields[fieldDate] = time.Now().Format("2006-01-02")
	m.focus = fieldDate
	m.editID = nil
	m.statusMsg = ""
	m.submitted = false
}

// prefill loads an existing record into the form for editing.
func (m *createModel) prefill(b *domain.IceBath) {
	m.reset()
	id := b.ID
	m.editID = &id
	m.fields[fieldDate] = b.Date
	m.fields[fieldLocation] = b.Location
	m.fields[fieldWaterTemp] = optFloatString(b.WaterTemperature)
	m.fields[fieldAirTemp] = optFloatString(b.AirTemperature)
	m.fields[fieldDurationMin] = optIntString(b.DurationMinutes)
	m.fields[fieldDurationSec] = optIntString(b.DurationSeconds)
	m.fields[fieldFeelingBefore] = optIntString(b.FeelingBefore)
	m.fields[fieldFeelingAfter] = optIntString(b.FeelingAfter)
	m.fields[fieldSwearWords] = optIntString(b.SwearWords)
	m.fields[fieldSaunaDuration] = optIntString(b.SaunaDuration)
	if b.Sauna != nil {
		if *b.Sauna {
			m.fields[fieldSauna] = "kyllä"
		} else {
			m.fields[fieldSauna] = "ei"
		}
	}
}

func optIntString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optFloatString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func (m createModel) Init() tea.Cmd {
	return nil
}

func (m createModel) Update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case bathSavedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = client.Message(msg.err)
		} else {
			m.reset()
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m createModel) updateKeys(msg tea.KeyMsg) (createModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numCreateFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numCreateFields) % numCreateFields
	case "enter":
		m.focus = (m.focus + 1) % numCreateFields
	case "backspace":
		if m.focus == fieldSauna {
			m.fields[fieldSauna] = ""
		} else {
			f := &m.fields[m.focus]
			*f = editRune(*f, "backspace")
		}
	default:
		key := msg.String()
		if m.focus == fieldSauna {
			// Cycle – / kyllä / ei with h/l.
			if key == "h" || key == "l" {
				m.fields[fieldSauna] = cycleSauna(m.fields[fieldSauna], key == "l")
			}
			return m, nil
		}
		f := &m.fields[m.focus]
		*f = editRune(*f, key)
	}
	return m, nil
}

var saunaChoices = []string{"", "kyllä", "ei"}

func cycleSauna(current string, forward bool) string {
	idx := 0
	for i, c := range saunaChoices {
		if c == current {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(saunaChoices)
	} else {
		idx = (idx - 1 + len(saunaChoices)) % len(saunaChoices)
	}
	return saunaChoices[idx]
}

// buildRequest parses the text fields into the wire payload. Empty numeric
// fields become nil pointers, which serialize as null rather than 0 or "".
func (m createModel) buildRequest() (client.CreateIceBathRequest, error) {
	req := client.CreateIceBathRequest{
		Date:     strings.TrimSpace(m.fields[fieldDate]),
		Location: strings.TrimSpace(m.fields[fieldLocation]),
	}

	var err error
	if req.WaterTemperature, err = parseOptionalFloat(m.fields[fieldWaterTemp]); err != nil {
		return req, fmt.Errorf("%s: %w", createLabels[fieldWaterTemp], err)
	}
	if req.AirTemperature, err = parseOptionalFloat(m.fields[fieldAirTemp]); err != nil {
		return req, fmt.Errorf("%s: %w", createLabels[fieldAirTemp], err)
	}
	if req.DurationMinutes, err = parseOptionalInt(m.fields[fieldDurationMin]); err != nil {
		return req, fmt.Errorf("%s: %w", createLabels[fieldDurationMin], err)
	}
	if req.DurationSeconds, err = parseOptionalInt(m.fields[fieldDurationSec]); err != nil {
		return req, fmt.Errorf("%s: %w", createLabels[fieldDurationSec], err)
	}
	if req.FeelingBefore, err = parseOptionalInt(m.fields[fieldFeelingBefore]); err != nil {
		return req, fmt.Errorf("%s: %w", createLabels[fieldFeelingBefore], err)
	}
	if req.FeelingAfter, err = parseOptionalInt(m.fields[fieldFeelingAfter]); err != nil {
		return req, fmt.Errorf("%s: %w", createLabels[fieldFeelingAfter], err)
	}
	if req.SwearWords, err = parseOptionalInt(m.fields[fieldSwearWords]); err != nil {
		return req, fmt.Errorf("%s: %w", createLabels[fieldSwearWords], err)
	}
	if req.SaunaDuration, err = parseOptionalInt(m.fields[fieldSaunaDuration]); err != nil {
		return req, fmt.Errorf("%s: %w", createLabels[fieldSaunaDuration], err)
	}

	switch m.fields[fieldSauna] {
	case "kyllä":
		v := true
		req.Sauna = &v
	case "ei":
		v := false
		req.Sauna = &v
	}

	return req, nil
}

func parseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("virheellinen numero %q", s)
	}
	return &v, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	// Accept the Finnish decimal comma too.
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil, fmt.Errorf("virheellinen numero %q", s)
	}
	return &v, nil
}

func (m createModel) submit() (createModel, tea.Cmd) {
	req, err := m.buildRequest()
	if err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}
	if req.Date == "" {
		m.statusMsg = "päivämäärä vaaditaan"
		return m, nil
	}
	if err := req.Validate(); err != nil {
		m.statusMsg = "tarkista arvot: " + client.Message(err)
		return m, nil
	}

	m.submitted = true
	c := m.client
	editID := m.editID

	return m, func() tea.Msg {
		var (
			bath *domain.IceBath
			err  error
		)
		if editID != nil {
			bath, err = c.UpdateIceBath(context.Background(), *editID, req)
		} else {
			bath, err = c.CreateIceBath(context.Background(), req)
		}
		return bathSavedMsg{bath: bath, err: err}
	}
}

func (m createModel) View() string {
	var b strings.Builder

	title := "Uusi avanto"
	if m.editID != nil {
		title = "Muokkaa avantoa"
	}
	fmt.Fprintf(&b, " %s\n %s\n\n", headingStyle.Render(title), dimStyle.Render("Täytä tiedot avantokäynnistä"))

	for i := createField(0); i < numCreateFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
		}

		if i == fieldSauna {
			value := m.fields[i]
			if value == "" {
				value = inputPlaceholderStyle.Render("–")
			}
			fmt.Fprintf(&b, " %s %s: %s  %s\n",
				cursor, style.Render(fmt.Sprintf("%-16s", createLabels[i])), value, metaStyle.Render("(h/l vaihda)"))
			continue
		}

		displayValue := m.fields[i]
		if i == m.focus {
			displayValue += "█"
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-16s", createLabels[i])), displayValue)
	}

	b.WriteString("\n")
	if m.submitted {
		b.WriteString(" " + dimStyle.Render("tallennetaan..."))
	} else if m.statusMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.statusMsg))
	}

	return b.String()
}
