package app

import (
	tea "charm.land/bubbletea/v2"

	"agentview/internal/logging"
	"agentview/internal/types"
)

// applyAppState restores the previous run's UI state and picks the session to
// open: the one named on the command line, else the last one used, else the
// session picker.
func (m *Model) applyAppState(msg appStateMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("ui state load failed", logging.Err(msg.err))
		m.enqueueToast(toastLevelWarning, "could not load saved ui state")
	}
	if msg.state != nil {
		m.appState = cloneAppState(*msg.state)
		if m.inspectorHidden != m.appState.InspectorHidden {
			m.inspectorHidden = m.appState.InspectorHidden
			m.resize(m.width, m.height)
		}
	}
	switch {
	case m.initialSession != "":
		return m.navigate(m.initialSession)
	case m.appState.LastSessionID != "":
		return m.navigate(m.appState.LastSessionID)
	default:
		return fetchSessionsCmd(m.api)
	}
}

func (m *Model) saveAppState() tea.Cmd {
	if m.states == nil {
		return nil
	}
	m.appState.InspectorHidden = m.inspectorHidden
	return saveAppStateCmd(m.states, cloneAppState(m.appState))
}

func cloneAppState(state types.AppState) types.AppState {
	if state.ComposerDrafts != nil {
		drafts := make(map[string]string, len(state.ComposerDrafts))
		for id, draft := range state.ComposerDrafts {
			drafts[id] = draft
		}
		state.ComposerDrafts = drafts
	}
	return state
}
