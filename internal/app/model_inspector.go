package app

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"agentview/internal/logging"
	"agentview/internal/transcript"
)

func (m *Model) refreshTranscript() {
	state := m.session.State()
	opts := transcriptRenderOptions{Focus: m.session.Inspector().Focus()}
	if m.session.Loading() && state.Len() > 0 {
		opts.Loading = "thinking…"
	}
	content, rows := layoutTranscript(state, max(1, m.transcriptView.Width()-1), opts)
	m.toolRows = rows
	m.transcriptView.SetContent(content)
	m.scroller.flush()
}

func (m *Model) refreshInspector() {
	if !m.inspectorVisible() {
		return
	}
	width := max(1, m.inspectorView.Width())
	state := m.session.State()
	sections := []string{m.inspectorHeader(width)}
	tool, ok := state.Tool(m.session.Inspector().Focus())
	if ok {
		sections = append(sections, m.inspectorBody(tool, width))
	} else {
		sections = append(sections, helpStyle.Render("No tool activity."))
	}
	if plan := renderPlan(state.Plan(), width); plan != "" {
		sections = append(sections, plan)
	}
	m.inspectorView.SetContent(strings.Join(sections, "\n\n"))
	if m.session.InspectorLive() && m.focus != focusInspector {
		m.inspectorView.GotoBottom()
	}
}

func (m *Model) inspectorHeader(width int) string {
	inspector := m.session.Inspector()
	badge := liveBadgeStyle.Render(" REALTIME ")
	if !inspector.Realtime() {
		badge = pinnedBadgeStyle.Render(" PINNED ")
	}
	header := headerStyle.Render("Inspector") + " " + badge
	if m.session.InspectorLive() {
		header += " " + activityStyle.Render(m.loader.View()+" live")
	}
	return truncateToWidth(header, width)
}

// inspectorBody prefers freshly fetched remote output over the content the
// tool event carried.
func (m *Model) inspectorBody(tool transcript.ToolCall, width int) string {
	if live, ok := m.liveContent[tool.ID]; ok {
		return wrapPlain(toolLabel(tool)+"\n\n"+live, width)
	}
	return renderToolBody(tool, width)
}

// maybeRefreshInspector polls the shell or file view backing the focused tool
// while it is live, at most once per refresh interval.
func (m *Model) maybeRefreshInspector(at time.Time) tea.Cmd {
	if m.files == nil || m.refreshInFlight || !m.inspectorVisible() {
		return nil
	}
	sessionID := m.session.SessionID()
	if sessionID == "" || !m.session.InspectorLive() || at.Before(m.nextRefresh) {
		return nil
	}
	tool, ok := m.session.State().Tool(m.session.Inspector().Focus())
	if !ok {
		return nil
	}
	kind, arg, ok := refreshTarget(tool)
	if !ok {
		return nil
	}
	m.refreshInFlight = true
	m.nextRefresh = at.Add(m.refreshInterval)
	if kind == toolShell {
		return fetchShellViewCmd(m.files, sessionID, tool.ID, arg)
	}
	return fetchFileViewCmd(m.files, sessionID, tool.ID, arg)
}

func (m *Model) handleInspectorContent(msg inspectorContentMsg) {
	m.refreshInFlight = false
	if msg.id != m.session.SessionID() {
		return
	}
	if msg.err != nil {
		m.logger.Debug("inspector refresh failed",
			logging.F("session_id", msg.id),
			logging.F("tool_call_id", msg.toolID),
			logging.Err(msg.err),
		)
		return
	}
	m.liveContent[msg.toolID] = msg.content
	m.refreshInspector()
}
