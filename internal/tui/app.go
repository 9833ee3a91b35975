package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avantolog/avanto/pkg/client"
	"github.com/avantolog/avanto/pkg/session"
)

type view int

const (
	viewAuth view = iota
	viewDashboard
	viewHistory
	viewStats
	viewCreate
)

// sessionExpiredMsg is emitted when the session manager reports an
// authorization failure; the app silently returns to the login view.
type sessionExpiredMsg struct{}

// loggedOutMsg is emitted after an explicit logout completes.
type loggedOutMsg struct{}

// App is the root Bubbletea model.
type App struct {
	client     *client.Client
	sess       *session.Manager
	view       view
	auth       authModel
	dashboard  dashboardModel
	history    historyModel
	stats      statsModel
	create     createModel
	detail     detailModel
	detailOpen bool
	loggingOut bool // explicit logout in flight; a 401 on it is not an expiry
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates the TUI application. The starting view follows the restored
// session state: Authenticated lands on the dashboard, anything else on the
// login form.
func NewApp(c *client.Client, sess *session.Manager, perPage int) App {
	a := App{
		client:    c,
		sess:      sess,
		auth:      newAuthModel(sess),
		dashboard: newDashboardModel(c),
		history:   newHistoryModel(c, perPage),
		stats:     newStatsModel(c),
		create:    newCreateModel(c),
		detail:    newDetailModel(c),
	}
	if sess.State() == session.StateAuthenticated {
		a.view = viewDashboard
		a.dashboard.setUser(sess.User())
	} else {
		a.view = viewAuth
	}
	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{shimmerTickCmd(), watchSessionCmd(a.sess)}
	if a.view == viewDashboard {
		cmds = append(cmds, a.dashboard.Init())
	}
	return tea.Batch(cmds...)
}

// watchSessionCmd blocks on the manager's expiry channel and re-arms after
// every delivery, so each 401-driven transition yields one message.
func watchSessionCmd(sess *session.Manager) tea.Cmd {
	return func() tea.Msg {
		<-sess.Expired()
		return sessionExpiredMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.auth, _ = a.auth.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		a.history, _ = a.history.Update(bodyMsg)
		a.stats, _ = a.stats.Update(bodyMsg)
		a.detail, _ = a.detail.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionExpiredMsg:
		if a.loggingOut {
			// The logout call itself came back 401; loggedOutMsg owns the
			// login view note.
			a.loggingOut = false
			return a, watchSessionCmd(a.sess)
		}
		a.view = viewAuth
		a.detailOpen = false
		a.auth = newAuthModel(a.sess)
		a.auth.note = "Istunto vanheni — kirjaudu uudelleen"
		return a, watchSessionCmd(a.sess)

	case loggedOutMsg:
		a.view = viewAuth
		a.detailOpen = false
		a.auth = newAuthModel(a.sess)
		a.auth.note = "Kirjauduit ulos"
		return a, nil

	case authResultMsg:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		if msg.err == nil && msg.user != nil {
			a.view = viewDashboard
			a.loggingOut = false
			a.dashboard.setUser(msg.user)
			return a, tea.Batch(cmd, a.dashboard.Init())
		}
		return a, cmd

	case showDetailMsg:
		a.detailOpen = true
		a.detail = newDetailModel(a.client)
		return a, a.detail.load(msg.id)

	case editBathMsg:
		a.detailOpen = false
		a.view = viewCreate
		a.create.prefill(msg.bath)
		return a, nil

	case bathSavedMsg:
		var cmd tea.Cmd
		a.create, cmd = a.create.Update(msg)
		if msg.err == nil {
			a.view = viewHistory
			var histCmd tea.Cmd
			a.history, histCmd = a.history.gotoPage(1)
			return a, tea.Batch(cmd, histCmd)
		}
		return a, cmd

	case bathDeletedMsg:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		if a.detail.closed {
			a.detailOpen = false
			var histCmd tea.Cmd
			a.history, histCmd = a.history.gotoPage(a.history.page)
			return a, tea.Batch(cmd, histCmd)
		}
		return a, cmd

	// Data messages go to their owners regardless of the visible view, so a
	// late response never lands in the wrong model.
	case dashboardLoadedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd
	case historyLoadedMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.Update(msg)
		return a, cmd
	case statsLoadedMsg:
		var cmd tea.Cmd
		a.stats, cmd = a.stats.Update(msg)
		return a, cmd
	case detailLoadedMsg, copyResultMsg:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// Detail overlay captures all keys when open.
	if a.detailOpen {
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		if a.detail.closed {
			a.detailOpen = false
		}
		return a, cmd
	}

	switch a.view {
	case viewAuth:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		return a, cmd

	case viewCreate:
		if msg.String() == "esc" {
			a.view = viewDashboard
			return a, a.dashboard.Init()
		}
		var cmd tea.Cmd
		a.create, cmd = a.create.Update(msg)
		return a, cmd
	}

	// Browsing views: global keys first.
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "1":
		if a.view != viewDashboard {
			a.view = viewDashboard
			return a, a.dashboard.Init()
		}
		return a, nil
	case "2":
		if a.view != viewHistory {
			a.view = viewHistory
			return a, a.history.Init()
		}
		return a, nil
	case "3":
		if a.view != viewStats {
			a.view = viewStats
			return a, a.stats.Init()
		}
		return a, nil
	case "n":
		a.create = newCreateModel(a.client)
		a.view = viewCreate
		return a, nil
	case "ctrl+l":
		a.loggingOut = true
		return a, a.logout()
	}

	var cmd tea.Cmd
	switch a.view {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewHistory:
		a.history, cmd = a.history.Update(msg)
	case viewStats:
		a.stats, cmd = a.stats.Update(msg)
	}
	return a, cmd
}

// logout notifies the server best-effort and always lands on the login view;
// the manager clears local state regardless of the outcome.
func (a App) logout() tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sess.Logout(ctx) //nolint:errcheck // local session is cleared either way
		return loggedOutMsg{}
	}
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	// Identity line below the logo
	identity := ""
	if u := a.sess.User(); u != nil && a.view != viewAuth {
		identity = metaStyle.Render(u.Name + " · " + u.Email)
	}
	if identity != "" {
		idWidth := lipgloss.Width(identity)
		idPad := (a.width - idWidth) / 2
		if idPad < 0 {
			idPad = 0
		}
		header += "\n" + strings.Repeat(" ", idPad) + identity
	} else {
		header += "\n"
	}

	// Tab bar, only when signed in
	tabBar := ""
	if a.view != viewAuth {
		type tabEntry struct {
			key  string
			name string
			v    view
		}
		tabs := []tabEntry{
			{"1", "Etusivu", viewDashboard},
			{"2", "Historia", viewHistory},
			{"3", "Tilastot", viewStats},
		}
		colWidth := a.width / len(tabs)
		var bar strings.Builder
		for _, t := range tabs {
			var label string
			if t.v == a.view && !a.detailOpen {
				label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
			} else {
				label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
			}
			labelWidth := lipgloss.Width(label)
			leftPad := (colWidth - labelWidth) / 2
			if leftPad < 0 {
				leftPad = 0
			}
			rightPad := colWidth - labelWidth - leftPad
			if rightPad < 0 {
				rightPad = 0
			}
			bar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
		}
		tabBar = bar.String()
	}

	// Body + help
	var body, help string
	switch {
	case a.detailOpen:
		body = a.detail.View()
		help = " " + helpEntry("c", "kopioi") + "  " + helpEntry("e", "muokkaa") + "  " + helpEntry("d", "poista") + "  " + helpEntry("esc", "takaisin")
	case a.view == viewAuth:
		body = a.auth.View()
		help = " " + helpEntry("tab", "kenttä") + "  " + helpEntry("enter", "jatka") + "  " + helpEntry("ctrl+c", "lopeta")
	case a.view == viewDashboard:
		body = a.dashboard.View()
		help = " " + helpEntry("1-3", "välilehdet") + "  " + helpEntry("n", "uusi") + "  " + helpEntry("ctrl+l", "kirjaudu ulos") + "  " + helpEntry("q", "lopeta")
	case a.view == viewHistory:
		body = a.history.View()
		help = " " + helpEntry("j/k", "liiku") + "  " + helpEntry("h/l", "sivu") + "  " + helpEntry("enter", "avaa") + "  " + helpEntry("n", "uusi") + "  " + helpEntry("q", "lopeta")
	case a.view == viewStats:
		body = a.stats.View()
		help = " " + helpEntry("1-3", "välilehdet") + "  " + helpEntry("q", "lopeta")
	case a.view == viewCreate:
		body = a.create.View()
		help = " " + helpEntry("tab", "kenttä") + "  " + helpEntry("ctrl+s", "tallenna") + "  " + helpEntry("esc", "peruuta")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar, body, help)
}
