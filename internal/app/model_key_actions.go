package app

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"agentview/internal/transcript"
)

const (
	wheelStep = 3
	// transcriptTop is the screen row of the first transcript line.
	transcriptTop = 1
)

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if handled, cmd := m.reduceGlobalKey(msg); handled {
		return cmd
	}
	if m.overlay != overlayNone {
		_, cmd := m.reduceOverlayKey(msg)
		return cmd
	}
	if handled, cmd := m.reduceViewportNavigationKey(msg); handled {
		return cmd
	}
	if m.focus == focusComposer {
		return m.reduceComposerKey(msg)
	}
	_, cmd := m.reduceInspectorKey(msg)
	return cmd
}

func (m *Model) reduceGlobalKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, m.quit()
	case "ctrl+x":
		return true, m.session.Stop()
	case "ctrl+n":
		return true, createSessionCmd(m.api)
	case "ctrl+o":
		m.status = "loading sessions"
		return true, fetchSessionsCmd(m.api)
	case "ctrl+f":
		if m.files == nil || m.session.SessionID() == "" {
			return true, nil
		}
		return true, fetchSessionFilesCmd(m.files, m.session.SessionID())
	case "tab":
		if m.overlay == overlayNone {
			m.cycleFocus()
			return true, nil
		}
	}
	return false, nil
}

func (m *Model) reduceOverlayKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.closeOverlay()
		return true, nil
	case "up", "k":
		m.picker.Move(-1)
		return true, nil
	case "down", "j":
		m.picker.Move(1)
		return true, nil
	case "enter":
		item, ok := m.picker.Selected()
		if !ok {
			return true, nil
		}
		mode := m.overlay
		m.closeOverlay()
		if mode == overlayFiles {
			if item.file != nil {
				m.pending = append(m.pending, *item.file)
				m.showInfoToast("attached " + item.file.DisplayName())
			}
			return true, nil
		}
		if item.id == m.session.SessionID() {
			return true, nil
		}
		return true, m.navigate(item.id)
	case "d", "delete":
		if m.overlay != overlaySessions {
			return true, nil
		}
		item, ok := m.picker.Selected()
		if !ok {
			return true, nil
		}
		return true, deleteSessionCmd(m.api, item.id)
	}
	return false, nil
}

// reduceViewportNavigationKey scrolls the transcript or inspector. Manual
// transcript scrolling feeds follow mode.
func (m *Model) reduceViewportNavigationKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	key := msg.String()
	switch key {
	case "pgup", "pgdown":
	default:
		if m.focus == focusComposer {
			return false, nil
		}
	}
	vp := m.focusedViewport()
	down := false
	switch key {
	case "up", "k":
		vp.ScrollUp(1)
	case "down", "j":
		vp.ScrollDown(1)
		down = true
	case "pgup":
		vp.PageUp()
	case "pgdown":
		vp.PageDown()
		down = true
	case "home", "g":
		vp.GotoTop()
	case "G", "end":
		m.jumpToLatest()
		return true, nil
	default:
		return false, nil
	}
	if vp == &m.transcriptView {
		m.session.Follow().OnUserScroll(down)
	}
	return true, nil
}

func (m *Model) reduceComposerKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.submitComposer()
	case "esc":
		m.setFocus(focusTranscript)
		return nil
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return cmd
}

func (m *Model) reduceInspectorKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.setFocus(focusComposer)
	case "[":
		m.pinAdjacentTool(-1)
	case "]":
		m.pinAdjacentTool(1)
	case "r":
		m.session.JumpToRealtime()
		m.refreshTranscript()
		m.refreshInspector()
	case "i":
		m.toggleInspector()
		return true, m.saveAppState()
	case "y":
		if body := m.inspectorText(); body != "" {
			return true, copyCmd(body, "tool output")
		}
	case "Y":
		if text, ok := m.session.State().LastAssistantMessage(); ok {
			return true, copyCmd(text, "message")
		}
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) handleWheel(mouse tea.Mouse) {
	if m.overlay != overlayNone {
		return
	}
	vp := &m.transcriptView
	transcriptWidth, _ := m.paneWidths()
	if m.inspectorVisible() && mouse.X >= transcriptWidth {
		vp = &m.inspectorView
	}
	down := false
	switch mouse.Button {
	case tea.MouseWheelUp:
		vp.ScrollUp(wheelStep)
	case tea.MouseWheelDown:
		vp.ScrollDown(wheelStep)
		down = true
	default:
		return
	}
	if vp == &m.transcriptView {
		m.session.Follow().OnUserScroll(down)
	}
}

// handleClick pins the tool drawn under a left click in the transcript pane.
func (m *Model) handleClick(mouse tea.Mouse) {
	if m.overlay != overlayNone || mouse.Button != tea.MouseLeft {
		return
	}
	transcriptWidth, _ := m.paneWidths()
	if m.inspectorVisible() && mouse.X >= transcriptWidth {
		return
	}
	row := mouse.Y - transcriptTop
	if row < 0 || row >= m.transcriptView.Height() {
		return
	}
	ref, ok := m.toolRows[m.transcriptView.YOffset()+row]
	if !ok {
		return
	}
	m.pinTool(ref)
}

func (m *Model) focusedViewport() *viewport.Model {
	if m.focus == focusInspector && m.inspectorVisible() {
		return &m.inspectorView
	}
	return &m.transcriptView
}

func (m *Model) cycleFocus() {
	next := focusArea((int(m.focus) + 1) % 3)
	if next == focusInspector && !m.inspectorVisible() {
		next = focusComposer
	}
	m.setFocus(next)
}

func (m *Model) jumpToLatest() {
	m.session.Follow().JumpToLatest()
	m.scroller.flush()
}

func (m *Model) toggleInspector() {
	m.inspectorHidden = !m.inspectorHidden
	m.appState.InspectorHidden = m.inspectorHidden
	if m.inspectorHidden && m.focus == focusInspector {
		m.focus = focusTranscript
	}
	m.resize(m.width, m.height)
}

// pinAdjacentTool pins the previous or next non-message tool relative to the
// current focus.
func (m *Model) pinAdjacentTool(delta int) {
	state := m.session.State()
	var refs []transcript.ToolRef
	for _, ref := range state.Tools() {
		if tool, ok := state.Tool(ref); ok && tool.Name != transcript.MessageToolName {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return
	}
	current := m.session.Inspector().Focus()
	idx := len(refs)
	for i, ref := range refs {
		if ref == current {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(refs) {
		idx = len(refs) - 1
	}
	m.pinTool(refs[idx])
}

func (m *Model) pinTool(ref transcript.ToolRef) {
	m.session.PinTool(ref)
	m.inspectorView.GotoTop()
	m.refreshTranscript()
	m.refreshInspector()
}

func (m *Model) inspectorText() string {
	state := m.session.State()
	tool, ok := state.Tool(m.session.Inspector().Focus())
	if !ok {
		return ""
	}
	if live, ok := m.liveContent[tool.ID]; ok {
		return live
	}
	if len(tool.Content) == 0 {
		return ""
	}
	return strings.TrimSpace(renderToolContent(tool.Name, tool.Content))
}
