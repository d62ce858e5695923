package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"agentview/internal/types"
)

type AppStateStore interface {
	Load(ctx context.Context) (*types.AppState, error)
	Save(ctx context.Context, state *types.AppState) error
}

// UpdateAppState loads the state, applies fn and saves the result.
func UpdateAppState(ctx context.Context, store AppStateStore, fn func(*types.AppState)) error {
	if store == nil {
		return errors.New("app state store is required")
	}
	state, err := store.Load(ctx)
	if err != nil {
		return err
	}
	fn(state)
	return store.Save(ctx, state)
}

// SetDraft records the unsent composer text for a session. Blank drafts are
// removed.
func SetDraft(state *types.AppState, sessionID, draft string) {
	if state == nil || strings.TrimSpace(sessionID) == "" {
		return
	}
	if strings.TrimSpace(draft) == "" {
		delete(state.ComposerDrafts, sessionID)
		return
	}
	if state.ComposerDrafts == nil {
		state.ComposerDrafts = map[string]string{}
	}
	state.ComposerDrafts[sessionID] = draft
}

type FileAppStateStore struct {
	path string
	mu   sync.Mutex
}

func NewFileAppStateStore(path string) *FileAppStateStore {
	return &FileAppStateStore{path: path}
}

func (s *FileAppStateStore) Load(ctx context.Context) (*types.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &types.AppState{}
	if _, err := readStateFile(s.path, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *FileAppStateStore) Save(ctx context.Context, state *types.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state == nil {
		return errors.New("state is required")
	}
	return writeStateFile(s.path, state)
}
