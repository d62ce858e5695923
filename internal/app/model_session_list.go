package app

import (
	tea "charm.land/bubbletea/v2"

	"agentview/internal/logging"
	"agentview/internal/types"
)

// watchSessionList subscribes to live session list updates while the
// session picker is open.
func (m *Model) watchSessionList() tea.Cmd {
	streamer, ok := m.api.(SessionListStreamer)
	if !ok || m.sessionList != nil || m.listPending {
		return nil
	}
	m.listPending = true
	return openSessionListCmd(streamer)
}

func (m *Model) handleSessionListOpened(msg sessionListOpenedMsg) {
	m.listPending = false
	if msg.err != nil {
		m.logger.Debug("session list stream unavailable", logging.Err(msg.err))
		return
	}
	if msg.stream == nil {
		return
	}
	if m.overlay != overlaySessions || m.sessionList != nil {
		msg.stream.Cancel()
		return
	}
	m.sessionList = msg.stream
}

// drainSessionList applies the newest list pushed since the last tick. The
// cursor stays on the selected session when the list reorders.
func (m *Model) drainSessionList() {
	if m.sessionList == nil {
		return
	}
	var latest []types.SessionSummary
	updated := false
	for {
		select {
		case event, ok := <-m.sessionList.Events():
			if !ok {
				if err := m.sessionList.Err(); err != nil {
					m.logger.Debug("session list stream ended", logging.Err(err))
				}
				m.sessionList = nil
				m.applySessionList(latest, updated)
				return
			}
			sessions, err := event.Sessions()
			if err != nil {
				continue
			}
			latest, updated = sessions, true
		default:
			m.applySessionList(latest, updated)
			return
		}
	}
}

func (m *Model) applySessionList(sessions []types.SessionSummary, updated bool) {
	if !updated || m.overlay != overlaySessions {
		return
	}
	selected := m.session.SessionID()
	if item, ok := m.picker.Selected(); ok {
		selected = item.id
	}
	m.picker.SetItems(sessionPickerItems(sessions), selected)
}

func (m *Model) stopSessionList() {
	if m.sessionList == nil {
		return
	}
	m.sessionList.Cancel()
	m.sessionList = nil
}
