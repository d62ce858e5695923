package main

import (
	"context"

	serverclient "agentview/internal/client"
	"agentview/internal/config"
	"agentview/internal/types"
)

type clientFactory func() (commandClient, error)

type eventStream interface {
	Events() <-chan types.Event
	Err() error
	Cancel()
}

type commandClient interface {
	CreateSession(ctx context.Context) (string, error)
	GetSession(ctx context.Context, id string) (*types.Session, error)
	ListSessions(ctx context.Context) ([]types.SessionSummary, error)
	DeleteSession(ctx context.Context, id string) error
	StopSession(ctx context.Context, id string) error
	SessionFiles(ctx context.Context, id string) ([]types.FileInfo, error)
	UploadFile(ctx context.Context, path string) (*types.FileInfo, error)
	Chat(ctx context.Context, id string, req serverclient.ChatRequest) (eventStream, error)
}

type serverClientAdapter struct {
	client *serverclient.Client
}

func newServerClient() (commandClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	client, err := serverclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &serverClientAdapter{client: client}, nil
}

func (c *serverClientAdapter) CreateSession(ctx context.Context) (string, error) {
	return c.client.CreateSession(ctx)
}

func (c *serverClientAdapter) GetSession(ctx context.Context, id string) (*types.Session, error) {
	return c.client.GetSession(ctx, id)
}

func (c *serverClientAdapter) ListSessions(ctx context.Context) ([]types.SessionSummary, error) {
	return c.client.ListSessions(ctx)
}

func (c *serverClientAdapter) DeleteSession(ctx context.Context, id string) error {
	return c.client.DeleteSession(ctx, id)
}

func (c *serverClientAdapter) StopSession(ctx context.Context, id string) error {
	return c.client.StopSession(ctx, id)
}

func (c *serverClientAdapter) SessionFiles(ctx context.Context, id string) ([]types.FileInfo, error) {
	return c.client.SessionFiles(ctx, id)
}

func (c *serverClientAdapter) UploadFile(ctx context.Context, path string) (*types.FileInfo, error) {
	return c.client.UploadFile(ctx, path)
}

func (c *serverClientAdapter) Chat(ctx context.Context, id string, req serverclient.ChatRequest) (eventStream, error) {
	ch, err := c.client.Chat(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return ch, nil
}
