package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Alert slot durations. The dashboard shares one slot for all feedback; the
// auth views hold errors longer so they can be read alongside the form.
const (
	dashboardAlertTTL = 3 * time.Second
	authAlertTTL      = 5 * time.Second
)

type alertSeverity int

const (
	alertSuccess alertSeverity = iota
	alertDanger
	alertWarning
)

// alertExpiredMsg hides an alert slot. seq ties the expiry to the show call
// that scheduled it, so a newer message is never hidden by an older timer.
type alertExpiredMsg struct {
	slot string
	seq  int
}

// alertSlot is a single reusable message region. Each show replaces whatever
// the slot currently displays; rapid calls do not queue.
type alertSlot struct {
	name     string
	ttl      time.Duration // 0 means sticky: hidden only by an explicit clear
	message  string
	severity alertSeverity
	seq      int
}

// show displays message and returns the command that schedules auto-hide.
func (a *alertSlot) show(message string, severity alertSeverity) tea.Cmd {
	a.seq++
	a.message = message
	a.severity = severity
	if a.ttl <= 0 {
		return nil
	}
	slot, seq := a.name, a.seq
	return tea.Tick(a.ttl, func(time.Time) tea.Msg {
		return alertExpiredMsg{slot: slot, seq: seq}
	})
}

// expire hides the slot if msg belongs to its latest show call.
func (a *alertSlot) expire(msg alertExpiredMsg) {
	if msg.slot == a.name && msg.seq == a.seq {
		a.message = ""
	}
}

func (a *alertSlot) clear() {
	a.seq++
	a.message = ""
}

func (a *alertSlot) visible() bool {
	return a.message != ""
}

// view renders the slot, or "" when hidden.
func (a *alertSlot) view() string {
	if a.message == "" {
		return ""
	}
	switch a.severity {
	case alertDanger:
		return dangerStyle.Render(a.message)
	case alertWarning:
		return warningStyle.Render(a.message)
	default:
		return successStyle.Render(a.message)
	}
}
