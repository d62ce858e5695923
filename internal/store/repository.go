package store

import (
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"
)

const (
	RepositoryBackendFile  = "file"
	RepositoryBackendBbolt = "bbolt"
)

// Repository holds the local UI state that survives restarts. Conversations
// are never stored here; they are rebuilt from the server.
type Repository interface {
	AppState() AppStateStore
	Backend() string
	Close() error
}

type RepositoryPaths struct {
	DBPath       string
	AppStatePath string
}

type fileRepository struct {
	appState AppStateStore
}

func NewFileRepository(paths RepositoryPaths) Repository {
	return &fileRepository{appState: NewFileAppStateStore(paths.AppStatePath)}
}

func (r *fileRepository) AppState() AppStateStore {
	return r.appState
}

func (r *fileRepository) Backend() string {
	return RepositoryBackendFile
}

func (r *fileRepository) Close() error {
	return nil
}

// OpenRepository opens the bbolt database. When another process holds the
// database lock it falls back to a JSON file next to it so a second client
// can still start.
func OpenRepository(paths RepositoryPaths) (Repository, error) {
	if strings.TrimSpace(paths.DBPath) == "" {
		return nil, errors.New("repository db path is required")
	}
	repo, err := NewBboltRepository(paths.DBPath)
	if err == nil {
		return repo, nil
	}
	if errors.Is(err, bolt.ErrTimeout) && strings.TrimSpace(paths.AppStatePath) != "" {
		return NewFileRepository(paths), nil
	}
	return nil, err
}
