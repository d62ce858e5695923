package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"agentview/internal/client"
	"agentview/internal/store"
	"agentview/internal/types"
)

const requestTimeout = 10 * time.Second

func fetchSessionCmd(api SessionAPI, id string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		session, err := api.GetSession(ctx, id)
		return sessionFetchedMsg{id: id, seq: seq, session: session, err: err}
	}
}

// openChatCmd opens the event channel. The stream outlives the command, so it
// is bound to a background context and ended through Cancel.
func openChatCmd(api SessionAPI, id string, seq int, req client.ChatRequest) tea.Cmd {
	return func() tea.Msg {
		stream, err := api.Chat(context.Background(), id, req)
		return chatOpenedMsg{id: id, seq: seq, stream: stream, err: err}
	}
}

func stopSessionCmd(api SessionAPI, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return stopSessionMsg{id: id, err: api.StopSession(ctx, id)}
	}
}

func fetchSessionsCmd(api SessionAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sessions, err := api.ListSessions(ctx)
		return sessionsMsg{sessions: sessions, err: err}
	}
}

func createSessionCmd(api SessionAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		id, err := api.CreateSession(ctx)
		return sessionCreatedMsg{id: id, err: err}
	}
}

func deleteSessionCmd(api SessionAPI, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return sessionDeletedMsg{id: id, err: api.DeleteSession(ctx, id)}
	}
}

// openSessionListCmd subscribes to session list updates. The stream lives
// until it is cancelled, so it gets no request timeout.
func openSessionListCmd(streamer SessionListStreamer) tea.Cmd {
	return func() tea.Msg {
		stream, err := streamer.StreamSessions(context.Background())
		return sessionListOpenedMsg{stream: stream, err: err}
	}
}

func clearUnreadCmd(api SessionAPI, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return clearUnreadMsg{id: id, err: api.ClearUnread(ctx, id)}
	}
}

func fetchSessionFilesCmd(api FileAPI, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		files, err := api.SessionFiles(ctx, id)
		return sessionFilesMsg{id: id, files: files, err: err}
	}
}

func uploadFileCmd(api FileAPI, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		file, err := api.UploadFile(ctx, path)
		return uploadMsg{path: path, file: file, err: err}
	}
}

func fetchShellViewCmd(api FileAPI, id, toolID, shellID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		view, err := api.ViewShell(ctx, id, shellID)
		if err != nil {
			return inspectorContentMsg{id: id, toolID: toolID, err: err}
		}
		return inspectorContentMsg{id: id, toolID: toolID, content: renderConsole(view.Console, view.Output)}
	}
}

func fetchFileViewCmd(api FileAPI, id, toolID, file string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		view, err := api.ViewFile(ctx, id, file)
		if err != nil {
			return inspectorContentMsg{id: id, toolID: toolID, err: err}
		}
		return inspectorContentMsg{id: id, toolID: toolID, content: view.Content}
	}
}

func loadAppStateCmd(states store.AppStateStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		state, err := states.Load(ctx)
		return appStateMsg{state: state, err: err}
	}
}

func saveAppStateCmd(states store.AppStateStore, state types.AppState) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		return appStateSavedMsg{err: states.Save(ctx, &state)}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
