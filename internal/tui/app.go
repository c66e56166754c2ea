package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebmoore/pennywise/internal/session"
	"github.com/calebmoore/pennywise/pkg/client"
	"github.com/calebmoore/pennywise/pkg/domain"
)

type view int

const (
	viewAuth view = iota
	viewDashboard
)

// App is the root Bubbletea model. It owns session state and navigation;
// the auth and dashboard models own their own forms and data.
type App struct {
	client *client.Client
	store  *session.Store
	view   view
	auth   authModel
	dash   dashModel
	user   *domain.User
	width  int
	height int
}

// NewApp creates the TUI application. The landing view is decided here,
// synchronously, before any command runs: with no stored session the app
// opens on the login form and no authenticated call is ever issued.
func NewApp(c *client.Client, store *session.Store) App {
	a := App{
		client: c,
		store:  store,
		auth:   newAuthModel(c, store),
		dash:   newDashModel(c),
		view:   viewAuth,
	}
	if sess, err := store.Load(); err == nil && sess != nil {
		c.SetToken(sess.Token)
		user := sess.User
		a.user = &user
		a.dash.user = user
		a.view = viewDashboard
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.view == viewDashboard {
		return a.dash.Init()
	}
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(1) + blank(1) + help(1)
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		a.auth, _ = a.auth.Update(bodyMsg)
		a.dash, _ = a.dash.Update(bodyMsg)
		return a, nil

	case authenticatedMsg:
		a.client.SetToken(msg.sess.Token)
		user := msg.sess.User
		a.user = &user
		a.dash = newDashModel(a.client)
		a.dash.user = user
		a.view = viewDashboard
		return a, a.dash.Init()

	case sessionExpiredMsg, logoutRequestedMsg:
		// The single teardown point: clear the persisted session and land on
		// the login form. The redirect itself is the feedback; no alert.
		return a.endSession()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.view == viewDashboard && a.dash.state == dsNormal && msg.String() == "q" {
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewAuth:
		a.auth, cmd = a.auth.Update(msg)
	case viewDashboard:
		a.dash, cmd = a.dash.Update(msg)
	}
	return a, cmd
}

func (a App) endSession() (tea.Model, tea.Cmd) {
	a.store.Clear() //nolint:errcheck // best-effort teardown
	a.client.SetToken("")
	a.user = nil
	a.auth = newAuthModel(a.client, a.store)
	a.dash = newDashModel(a.client)
	a.view = viewAuth
	return a, nil
}

func (a App) View() string {
	header := " " + titleStyle.Render("PENNYWISE")
	if a.user != nil && a.user.FirstName != "" {
		header += metaStyle.Render("  ·  ") + normalStyle.Render("Hi, "+a.user.FirstName)
	}

	var body, help string
	switch a.view {
	case viewAuth:
		body = a.auth.View()
		help = " " + a.auth.helpKeys()
	case viewDashboard:
		body = a.dash.View()
		help = " " + a.dash.helpKeys()
	}

	// Chrome budget: header(1) + blank(1) + help(1) + body
	if a.height > 0 {
		body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
	} else {
		body = strings.TrimRight(body, "\n")
	}

	return header + "\n" + body + "\n\n" + help
}
