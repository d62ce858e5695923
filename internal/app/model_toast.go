package app

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
)

const toastDuration = 4 * time.Second

type toastLevel int

const (
	toastLevelInfo toastLevel = iota
	toastLevelWarning
	toastLevelError
)

// toast is a transient notice drawn over the bottom right of the transcript.
// A zero until never expires.
type toast struct {
	level toastLevel
	text  string
	until time.Time
}

func (t toast) visibleAt(at time.Time) bool {
	if t.text == "" {
		return false
	}
	return t.until.IsZero() || at.Before(t.until)
}

func (t toast) style() lipgloss.Style {
	switch t.level {
	case toastLevelWarning:
		return toastWarningStyle
	case toastLevelError:
		return toastErrorStyle
	}
	return toastInfoStyle
}

func (m *Model) showInfoToast(message string)    { m.showToast(toastLevelInfo, message) }
func (m *Model) showWarningToast(message string) { m.showToast(toastLevelWarning, message) }
func (m *Model) showErrorToast(message string)   { m.showToast(toastLevelError, message) }

// NotifyError and NotifyInfo let the session controller raise toasts.
func (m *Model) NotifyError(message string) { m.showErrorToast(message) }
func (m *Model) NotifyInfo(message string)  { m.showInfoToast(message) }

// showToast replaces the visible toast and mirrors it into the status line.
func (m *Model) showToast(level toastLevel, message string) {
	if message = strings.TrimSpace(message); message == "" {
		return
	}
	m.status = message
	m.toast = toast{level: level, text: message, until: m.now().Add(toastDuration)}
}

// enqueueToast waits for the visible toast to expire before showing message.
func (m *Model) enqueueToast(level toastLevel, message string) {
	if message = strings.TrimSpace(message); message == "" {
		return
	}
	m.toastQueue = append(m.toastQueue, toast{level: level, text: message})
	m.expireToast(m.now())
}

// expireToast drops an expired toast and promotes the next queued one.
func (m *Model) expireToast(at time.Time) {
	if m.toast.visibleAt(at) {
		return
	}
	m.toast = toast{}
	if len(m.toastQueue) == 0 {
		return
	}
	next := m.toastQueue[0]
	m.toastQueue = m.toastQueue[1:]
	m.showToast(next.level, next.text)
}

func (m *Model) toastActive(at time.Time) bool {
	if at.IsZero() {
		at = m.now()
	}
	return m.toast.visibleAt(at)
}

func (m *Model) toastStyle() lipgloss.Style { return m.toast.style() }

func (m *Model) toastLine(width int) string {
	if width <= 0 || !m.toastActive(m.now()) {
		return ""
	}
	label := " " + truncateToWidth(m.toast.text, max(1, width-4)) + " "
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, m.toastStyle().Render(label))
}
