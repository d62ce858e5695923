package app

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"agentview/internal/client"
	"agentview/internal/types"
)

type fakeStream struct {
	events    chan types.Event
	err       error
	mu        sync.Mutex
	cancelled int
}

func newFakeStream(events ...types.Event) *fakeStream {
	ch := make(chan types.Event, len(events)+16)
	for _, event := range events {
		ch <- event
	}
	return &fakeStream{events: ch}
}

func (s *fakeStream) Events() <-chan types.Event { return s.events }

func (s *fakeStream) Err() error { return s.err }

func (s *fakeStream) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled++
}

func (s *fakeStream) Cancelled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *fakeStream) close(err error) {
	s.err = err
	close(s.events)
}

type fakeSessionAPI struct {
	mu       sync.Mutex
	sessions map[string]*types.Session
	streams  []*fakeStream
	requests []client.ChatRequest
	stopped  []string
	cleared  []string
	chatErr  error
}

func newFakeSessionAPI() *fakeSessionAPI {
	return &fakeSessionAPI{sessions: map[string]*types.Session{}}
}

func (f *fakeSessionAPI) CreateSession(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "s-new"
	f.sessions[id] = &types.Session{ID: id, Status: types.SessionStatusPending}
	return id, nil
}

func (f *fakeSessionAPI) GetSession(_ context.Context, id string) (*types.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "session not found"}
	}
	return session, nil
}

func (f *fakeSessionAPI) ListSessions(context.Context) ([]types.SessionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.SessionSummary, 0, len(f.sessions))
	for id, session := range f.sessions {
		out = append(out, types.SessionSummary{ID: id, Title: session.Title, Status: session.Status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSessionAPI) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionAPI) StopSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, id)
	return nil
}

func (f *fakeSessionAPI) ClearUnread(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, id)
	return nil
}

func (f *fakeSessionAPI) Chat(_ context.Context, _ string, req client.ChatRequest) (ChatStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	stream := newFakeStream()
	f.streams = append(f.streams, stream)
	return stream, nil
}

func (f *fakeSessionAPI) lastRequest() client.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return client.ChatRequest{}
	}
	return f.requests[len(f.requests)-1]
}

type fakeScroller struct {
	atBottom bool
	gotos    int
}

func (s *fakeScroller) GotoBottom() {
	s.gotos++
	s.atBottom = true
}

func (s *fakeScroller) AtBottom() bool { return s.atBottom }

type recordingNotifier struct {
	errors []string
	infos  []string
}

func (n *recordingNotifier) NotifyError(message string) { n.errors = append(n.errors, message) }
func (n *recordingNotifier) NotifyInfo(message string)  { n.infos = append(n.infos, message) }

var errTransport = errors.New("connection reset")

var fixtureTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixtureToolEvent(eventID, callID, name string, status types.ToolStatus) types.Event {
	return types.MustEvent(types.EventTool, types.ToolData{
		EventID:    eventID,
		Timestamp:  types.NewTimestamp(fixtureTime),
		ToolCallID: callID,
		Name:       name,
		Function:   name + "_exec",
		Args:       map[string]any{"id": "shell-1", "command": "ls"},
		Status:     status,
	})
}

func fixtureMessageEvent(eventID, role, content string) types.Event {
	return types.MustEvent(types.EventMessage, types.MessageData{
		EventID:   eventID,
		Timestamp: types.NewTimestamp(fixtureTime),
		Role:      role,
		Content:   content,
	})
}

func fixtureStepEvent(eventID, stepID string, status types.StepStatus) types.Event {
	return types.MustEvent(types.EventStep, types.StepData{
		EventID:     eventID,
		Timestamp:   types.NewTimestamp(fixtureTime),
		ID:          stepID,
		Description: "step " + stepID,
		Status:      status,
	})
}

func fixtureDoneEvent(eventID string) types.Event {
	return types.MustEvent(types.EventDone, map[string]any{"event_id": eventID})
}

type fakeFileAPI struct {
	mu       sync.Mutex
	uploads  []string
	shellOut string
	views    int
}

func (f *fakeFileAPI) SessionFiles(context.Context, string) ([]types.FileInfo, error) {
	return []types.FileInfo{{FileID: "f-9", Filename: "notes.md", FilePath: "/home/ubuntu/notes.md", Size: 2048}}, nil
}

func (f *fakeFileAPI) UploadFile(_ context.Context, path string) (*types.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, path)
	return &types.FileInfo{FileID: "f-1", Filename: filepath.Base(path)}, nil
}

func (f *fakeFileAPI) ViewShell(_ context.Context, id, shellID string) (*types.ShellView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views++
	return &types.ShellView{SessionID: shellID, Output: f.shellOut}, nil
}

func (f *fakeFileAPI) ViewFile(_ context.Context, id, file string) (*types.FileView, error) {
	return &types.FileView{File: file, Content: "file body"}, nil
}

type memoryStateStore struct {
	mu    sync.Mutex
	state types.AppState
	saves int
}

func (s *memoryStateStore) Load(context.Context) (*types.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := cloneAppState(s.state)
	return &state, nil
}

func (s *memoryStateStore) Save(_ context.Context, state *types.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cloneAppState(*state)
	s.saves++
	return nil
}
