package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.WindowTitle = "agentview " + m.sessionTitle()
	return v
}

func (m *Model) render() string {
	width := max(minViewportWidth, m.width)
	statusLine := m.statusLine(width)
	if toast := m.toastLine(width); toast != "" {
		statusLine = toast
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerLine(width),
		m.bodyView(width),
		dividerStyle.Render(strings.Repeat("─", width)),
		m.composer.View(),
		statusLine,
	)
}

func (m *Model) bodyView(width int) string {
	height := m.transcriptView.Height()
	if m.overlay != overlayNone {
		box := overlayStyle.Render(m.picker.View())
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}
	transcriptWidth, _ := m.paneWidths()
	left := padLines(fitLines(m.transcriptView.View(), height), transcriptWidth)
	if !m.inspectorVisible() {
		return left
	}
	right := paneBorderStyle.Render(strings.Join(fitLines(m.inspectorView.View(), height), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) headerLine(width int) string {
	title := headerStyle.Render(m.sessionTitle())
	var meta []string
	if status := m.session.Status(); status != "" {
		meta = append(meta, string(status))
	}
	meta = append(meta, m.session.Follow().Status())
	right := statusStyle.Render(strings.Join(meta, " · "))
	gap := width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		return truncateToWidth(title, width)
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m *Model) sessionTitle() string {
	if title := strings.TrimSpace(m.session.State().Title()); title != "" {
		return title
	}
	if id := m.session.SessionID(); id != "" {
		return id
	}
	return "no session"
}

func (m *Model) statusLine(width int) string {
	var parts []string
	if m.session.Loading() {
		parts = append(parts, activityStyle.Render(m.loader.View()+" working"))
	}
	if m.uploads > 0 {
		parts = append(parts, activityStyle.Render(fmt.Sprintf("uploading %d", m.uploads)))
	}
	if n := len(m.pending); n > 0 {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("%d attached", n)))
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, helpStyle.Render(m.keyHints()))
	return truncateToWidth(strings.Join(parts, "  "), width)
}

func (m *Model) keyHints() string {
	switch {
	case m.overlay == overlaySessions:
		return "enter open · d delete · esc close"
	case m.overlay == overlayFiles:
		return "enter attach · esc close"
	case m.focus == focusComposer:
		return "enter send · tab focus · ctrl+o sessions · ctrl+n new · ctrl+x stop · ctrl+c quit"
	default:
		return "[ ] or click pin tool · r realtime · i inspector · y copy · G latest · esc compose"
	}
}
