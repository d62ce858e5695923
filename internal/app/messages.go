package app

import (
	"time"

	"agentview/internal/types"
)

type tickMsg time.Time

type sessionFetchedMsg struct {
	id      string
	seq     int
	session *types.Session
	err     error
}

type chatOpenedMsg struct {
	id     string
	seq    int
	stream ChatStream
	err    error
}

type stopSessionMsg struct {
	id  string
	err error
}

type sessionsMsg struct {
	sessions []types.SessionSummary
	err      error
}

type sessionListOpenedMsg struct {
	stream ChatStream
	err    error
}

type sessionCreatedMsg struct {
	id  string
	err error
}

type sessionDeletedMsg struct {
	id  string
	err error
}

type clearUnreadMsg struct {
	id  string
	err error
}

type sessionFilesMsg struct {
	id    string
	files []types.FileInfo
	err   error
}

type uploadMsg struct {
	path string
	file *types.FileInfo
	err  error
}

type inspectorContentMsg struct {
	id      string
	toolID  string
	content string
	err     error
}

type appStateMsg struct {
	state *types.AppState
	err   error
}

type appStateSavedMsg struct {
	err error
}
