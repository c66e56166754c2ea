package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebmoore/pennywise/internal/session"
	"github.com/calebmoore/pennywise/pkg/client"
	"github.com/calebmoore/pennywise/pkg/domain"
)

// registerRedirectDelay is how long the registration success message stays
// on screen before the session is persisted and the dashboard opens.
const registerRedirectDelay = 1500 * time.Millisecond

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// -- messages --

// authenticatedMsg tells the root model a session now exists; it is emitted
// only after the session has been persisted.
type authenticatedMsg struct {
	sess domain.Session
}

type loginFinishedMsg struct {
	sess *domain.Session
	err  error
}

type registerFinishedMsg struct {
	sess *domain.Session
	err  error
}

// registerRedirectMsg fires after the fixed post-registration delay.
type registerRedirectMsg struct {
	sess domain.Session
}

type sessionPersistedMsg struct {
	sess domain.Session
	err  error
}

// -- model --

var (
	loginLabels    = []string{"email", "password"}
	registerLabels = []string{"first name", "last name", "email", "password"}
)

// authModel renders the login and registration forms. The two share one
// model because they share everything but the field list; switching modes is
// the page-navigation analog.
type authModel struct {
	client     *client.Client
	store      *session.Store
	mode       authMode
	fields     []string
	focus      int
	submitting bool
	errAlert   alertSlot
	success    alertSlot // register success; sticky, dismissed by navigation
	width      int
	height     int
}

func newAuthModel(c *client.Client, store *session.Store) authModel {
	return authModel{
		client:   c,
		store:    store,
		mode:     modeLogin,
		fields:   make([]string, len(loginLabels)),
		errAlert: alertSlot{name: "auth-error", ttl: authAlertTTL},
		success:  alertSlot{name: "auth-success"},
	}
}

func (m authModel) labels() []string {
	if m.mode == modeRegister {
		return registerLabels
	}
	return loginLabels
}

func (m authModel) Init() tea.Cmd {
	return nil
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFinishedMsg:
		m.submitting = false
		if msg.err != nil {
			return m, m.errAlert.show(authErrorMessage(msg.err, "Login failed. Please check your credentials."), alertDanger)
		}
		sess := *msg.sess
		return m, func() tea.Msg { return authenticatedMsg{sess: sess} }

	case registerFinishedMsg:
		m.submitting = false
		if msg.err != nil {
			return m, m.errAlert.show(authErrorMessage(msg.err, "Registration failed. Please try again."), alertDanger)
		}
		// Success message first; the session is created and the dashboard
		// opened only after the redirect delay.
		m.errAlert.clear()
		m.success.show("Registration successful! Redirecting to dashboard...", alertSuccess)
		sess := *msg.sess
		return m, tea.Tick(registerRedirectDelay, func(time.Time) tea.Msg {
			return registerRedirectMsg{sess: sess}
		})

	case registerRedirectMsg:
		store := m.store
		sess := msg.sess
		return m, func() tea.Msg {
			err := store.Save(sess)
			return sessionPersistedMsg{sess: sess, err: err}
		}

	case sessionPersistedMsg:
		if msg.err != nil {
			m.success.clear()
			return m, m.errAlert.show("Could not save your session. Please try again.", alertDanger)
		}
		sess := msg.sess
		return m, func() tea.Msg { return authenticatedMsg{sess: sess} }

	case alertExpiredMsg:
		m.errAlert.expire(msg)
		m.success.expire(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m authModel) handleKey(msg tea.KeyMsg) (authModel, tea.Cmd) {
	if m.submitting || m.success.visible() {
		// A submitted form and the post-registration countdown ignore input.
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields)
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
	case "enter":
		if m.focus == len(m.fields)-1 {
			return m.submit()
		}
		m.focus++
	case "ctrl+s":
		return m.submit()
	case "ctrl+r":
		m.toggleMode()
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

// toggleMode switches between the login and register forms, dropping any
// typed input, as navigating between the two pages would.
func (m *authModel) toggleMode() {
	if m.mode == modeLogin {
		m.mode = modeRegister
	} else {
		m.mode = modeLogin
	}
	m.fields = make([]string, len(m.labels()))
	m.focus = 0
	m.errAlert.clear()
	m.success.clear()
}

func (m authModel) submit() (authModel, tea.Cmd) {
	for i, f := range m.fields {
		if strings.TrimSpace(f) == "" {
			m.focus = i
			return m, m.errAlert.show("All fields are required.", alertWarning)
		}
	}

	m.submitting = true
	c := m.client
	store := m.store

	if m.mode == modeLogin {
		email := strings.TrimSpace(m.fields[0])
		password := m.fields[1]
		return m, func() tea.Msg {
			resp, err := c.Login(context.Background(), email, password)
			if err != nil {
				return loginFinishedMsg{err: err}
			}
			sess := resp.Session()
			if err := store.Save(sess); err != nil {
				return loginFinishedMsg{err: err}
			}
			return loginFinishedMsg{sess: &sess}
		}
	}

	reg := client.Registration{
		FirstName: strings.TrimSpace(m.fields[0]),
		LastName:  strings.TrimSpace(m.fields[1]),
		Email:     strings.TrimSpace(m.fields[2]),
		Password:  m.fields[3],
	}
	return m, func() tea.Msg {
		resp, err := c.Register(context.Background(), reg)
		if err != nil {
			return registerFinishedMsg{err: err}
		}
		sess := resp.Session()
		return registerFinishedMsg{sess: &sess}
	}
}

// authErrorMessage maps an auth failure to its user-facing message. Server
// rejections surface the server's message (or the given fallback); transport
// failures get a generic retry message so the two are distinguishable.
func authErrorMessage(err error, rejectedFallback string) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return rejectedFallback
	}
	return "An error occurred. Please try again."
}

func (m authModel) helpKeys() string {
	other := "register"
	if m.mode == modeRegister {
		other = "sign in"
	}
	return helpEntry("tab", "next field") + "  " + helpEntry("enter", "submit") + "  " +
		helpEntry("ctrl+r", other) + "  " + helpEntry("ctrl+c", "quit")
}

func (m authModel) View() string {
	var sb strings.Builder

	heading := "── SIGN IN ──"
	if m.mode == modeRegister {
		heading = "── CREATE ACCOUNT ──"
	}
	sb.WriteString("\n " + sectionHeaderStyle.Render(heading) + "\n\n")

	labels := m.labels()
	passwordIdx := len(labels) - 1
	for i, label := range labels {
		value := m.fields[i]
		if i == passwordIdx {
			value = strings.Repeat("•", len([]rune(value)))
		}
		cursor := "  "
		labelStyle := metaStyle
		if i == m.focus {
			cursor = inputPromptStyle.Render(">") + " "
			labelStyle = selectedStyle
			value += accentStyle.Render("█")
		}
		sb.WriteString(" " + cursor + labelStyle.Render(label+":") + " " + value + "\n")
	}

	sb.WriteString("\n")
	switch {
	case m.submitting && m.mode == modeLogin:
		sb.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	case m.submitting:
		sb.WriteString(" " + dimStyle.Render("creating account...") + "\n")
	case m.success.visible():
		sb.WriteString(" " + m.success.view() + "\n")
	case m.errAlert.visible():
		sb.WriteString(" " + m.errAlert.view() + "\n")
	}

	if m.mode == modeLogin {
		sb.WriteString("\n " + inputPlaceholderStyle.Render("no account? press ctrl+r to register") + "\n")
	} else {
		sb.WriteString("\n " + inputPlaceholderStyle.Render("have an account? press ctrl+r to sign in") + "\n")
	}

	return sb.String()
}
