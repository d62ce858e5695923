package app

import (
	"context"

	"agentview/internal/client"
	"agentview/internal/types"
)

// ChatStream is an open event channel for one session.
type ChatStream interface {
	Events() <-chan types.Event
	Err() error
	Cancel()
}

type SessionAPI interface {
	CreateSession(ctx context.Context) (string, error)
	GetSession(ctx context.Context, id string) (*types.Session, error)
	ListSessions(ctx context.Context) ([]types.SessionSummary, error)
	DeleteSession(ctx context.Context, id string) error
	StopSession(ctx context.Context, id string) error
	ClearUnread(ctx context.Context, id string) error
	Chat(ctx context.Context, id string, req client.ChatRequest) (ChatStream, error)
}

// SessionListStreamer is implemented by APIs that push session list
// updates. The picker falls back to a one-shot list without it.
type SessionListStreamer interface {
	StreamSessions(ctx context.Context) (ChatStream, error)
}

type FileAPI interface {
	SessionFiles(ctx context.Context, id string) ([]types.FileInfo, error)
	UploadFile(ctx context.Context, path string) (*types.FileInfo, error)
	ViewShell(ctx context.Context, id, shellID string) (*types.ShellView, error)
	ViewFile(ctx context.Context, id, file string) (*types.FileView, error)
}

type ClientAPI struct {
	client *client.Client
}

func NewClientAPI(client *client.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (a *ClientAPI) CreateSession(ctx context.Context) (string, error) {
	return a.client.CreateSession(ctx)
}

func (a *ClientAPI) GetSession(ctx context.Context, id string) (*types.Session, error) {
	return a.client.GetSession(ctx, id)
}

func (a *ClientAPI) ListSessions(ctx context.Context) ([]types.SessionSummary, error) {
	return a.client.ListSessions(ctx)
}

func (a *ClientAPI) DeleteSession(ctx context.Context, id string) error {
	return a.client.DeleteSession(ctx, id)
}

func (a *ClientAPI) StopSession(ctx context.Context, id string) error {
	return a.client.StopSession(ctx, id)
}

func (a *ClientAPI) ClearUnread(ctx context.Context, id string) error {
	return a.client.ClearUnread(ctx, id)
}

func (a *ClientAPI) Chat(ctx context.Context, id string, req client.ChatRequest) (ChatStream, error) {
	ch, err := a.client.Chat(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (a *ClientAPI) StreamSessions(ctx context.Context) (ChatStream, error) {
	ch, err := a.client.StreamSessions(ctx)
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (a *ClientAPI) SessionFiles(ctx context.Context, id string) ([]types.FileInfo, error) {
	return a.client.SessionFiles(ctx, id)
}

func (a *ClientAPI) UploadFile(ctx context.Context, path string) (*types.FileInfo, error) {
	return a.client.UploadFile(ctx, path)
}

func (a *ClientAPI) ViewShell(ctx context.Context, id, shellID string) (*types.ShellView, error) {
	return a.client.ViewShell(ctx, id, shellID)
}

func (a *ClientAPI) ViewFile(ctx context.Context, id, file string) (*types.FileView, error) {
	return a.client.ViewFile(ctx, id, file)
}
