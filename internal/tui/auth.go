package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avantolog/avanto/pkg/client"
	"github.com/avantolog/avanto/pkg/domain"
	"github.com/avantolog/avanto/pkg/session"
)

type authMode int

const (
	authModeLogin authMode = iota
	authModeRegister
)

type authField int

const (
	authFieldName authField = iota
	authFieldEmail
	authFieldPassword
	numAuthFields
)

// authResultMsg carries the outcome of a login or register attempt. The app
// watches it to leave the auth view on success.
type authResultMsg struct {
	user *domain.User
	err  error
}

type authModel struct {
	sess       *session.Manager
	mode       authMode
	fields     [numAuthFields]string
	focus      authField
	submitting bool
	errMsg     string
	note       string // informational line, e.g. "session expired"
	width      int
	height     int
}

func newAuthModel(sess *session.Manager) authModel {
	return authModel{sess: sess, focus: authFieldEmail}
}

func (m authModel) firstField() authField {
	if m.mode == authModeRegister {
		return authFieldName
	}
	return authFieldEmail
}

func (m authModel) nextField(f authField, delta int) authField {
	first := m.firstField()
	span := int(numAuthFields - first)
	cur := int(f-first) + delta
	cur = (cur%span + span) % span
	return first + authField(cur)
}

func (m authModel) Init() tea.Cmd {
	return nil
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = authErrorText(msg.err)
			return m, nil
		}
		// Success: the app switches views; clear the form for next time.
		m.fields = [numAuthFields]string{}
		m.focus = m.firstField()
		m.errMsg = ""
		m.note = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// One in-flight auth operation at a time.
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authModel) updateKeys(msg tea.KeyMsg) (authModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		if m.mode == authModeLogin {
			m.mode = authModeRegister
			m.focus = authFieldName
		} else {
			m.mode = authModeLogin
			m.focus = authFieldEmail
		}
		m.errMsg = ""
	case "tab", "down":
		m.focus = m.nextField(m.focus, 1)
	case "shift+tab", "up":
		m.focus = m.nextField(m.focus, -1)
	case "enter":
		if m.focus == authFieldPassword {
			return m.submit()
		}
		m.focus = m.nextField(m.focus, 1)
	default:
		m.errMsg = ""
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m authModel) submit() (authModel, tea.Cmd) {
	name := strings.TrimSpace(m.fields[authFieldName])
	email := strings.TrimSpace(m.fields[authFieldEmail])
	password := m.fields[authFieldPassword]

	if email == "" || password == "" {
		m.errMsg = "Sähköposti ja salasana vaaditaan"
		return m, nil
	}
	if m.mode == authModeRegister && name == "" {
		m.errMsg = "Nimi vaaditaan"
		return m, nil
	}

	m.submitting = true
	m.errMsg = ""
	sess := m.sess
	mode := m.mode

	return m, func() tea.Msg {
		var (
			user *domain.User
			err  error
		)
		if mode == authModeRegister {
			user, err = sess.Register(context.Background(), name, email, password)
		} else {
			user, err = sess.Login(context.Background(), email, password)
		}
		return authResultMsg{user: user, err: err}
	}
}

// authErrorText turns an auth failure into user guidance. Connectivity
// problems and rejected credentials read differently on purpose.
func authErrorText(err error) string {
	switch {
	case errors.Is(err, client.ErrNetwork):
		return "Ei yhteyttä palvelimeen — tarkista verkkoyhteys"
	case errors.Is(err, client.ErrInvalidCredentials):
		return "Väärä sähköposti tai salasana"
	case errors.Is(err, client.ErrValidation):
		return client.Message(err)
	default:
		return client.Message(err)
	}
}

func (m authModel) View() string {
	var b strings.Builder

	title := "Kirjaudu sisään"
	switchLabel := "luo tunnus"
	if m.mode == authModeRegister {
		title = "Luo tunnus"
		switchLabel = "kirjaudu"
	}
	fmt.Fprintf(&b, "\n  %s\n\n", headingStyle.Render(title))

	if m.note != "" {
		fmt.Fprintf(&b, "  %s\n\n", dimStyle.Render(m.note))
	}

	labels := [numAuthFields]string{"nimi", "sähköposti", "salasana"}
	for f := m.firstField(); f < numAuthFields; f++ {
		cursor := " "
		style := metaStyle
		if f == m.focus {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
		}
		value := m.fields[f]
		if f == authFieldPassword {
			value = maskSecret(value)
		}
		if f == m.focus && !m.submitting {
			value += "█"
		}
		fmt.Fprintf(&b, "  %s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-10s", labels[f])), value)
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("kirjaudutaan..."))
	case m.errMsg != "":
		b.WriteString("  " + errorStyle.Render(m.errMsg))
	}
	b.WriteString("\n\n  " + helpEntry("enter", "jatka") + "  " + helpEntry("ctrl+t", switchLabel) + "\n")

	return b.String()
}
