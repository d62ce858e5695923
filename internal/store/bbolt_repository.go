package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"agentview/internal/types"
)

// Layout: meta holds the schema version, ui holds one key per preference and
// drafts maps session id to unsent composer text.
var (
	bucketMeta   = []byte("meta")
	bucketUI     = []byte("ui")
	bucketDrafts = []byte("drafts")

	keySchemaVersion   = []byte("schema_version")
	keyLastSessionID   = []byte("last_session_id")
	keyInspectorHidden = []byte("inspector_hidden")
)

const schemaVersion = "1"

var boltOpenTimeout = 2 * time.Second

type bboltRepository struct {
	db       *bolt.DB
	appState AppStateStore
}

func NewBboltRepository(path string) (Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &bboltRepository{db: db, appState: &bboltAppStateStore{db: db}}, nil
}

func (r *bboltRepository) AppState() AppStateStore {
	return r.appState
}

func (r *bboltRepository) Backend() string {
	return RepositoryBackendBbolt
}

func (r *bboltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// migrate creates the buckets and stamps the schema version. A database
// written by a newer schema is refused rather than misread.
func migrate(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		switch version := string(meta.Get(keySchemaVersion)); version {
		case "", schemaVersion:
		default:
			return fmt.Errorf("ui state schema %s is not supported", version)
		}
		for _, name := range [][]byte{bucketUI, bucketDrafts} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return meta.Put(keySchemaVersion, []byte(schemaVersion))
	})
}

type bboltAppStateStore struct {
	db *bolt.DB
}

func (s *bboltAppStateStore) Load(ctx context.Context) (*types.AppState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state := &types.AppState{}
	err := s.db.View(func(tx *bolt.Tx) error {
		if ui := tx.Bucket(bucketUI); ui != nil {
			state.LastSessionID = string(ui.Get(keyLastSessionID))
			state.InspectorHidden = string(ui.Get(keyInspectorHidden)) == "1"
		}
		drafts := tx.Bucket(bucketDrafts)
		if drafts == nil {
			return nil
		}
		return drafts.ForEach(func(k, v []byte) error {
			if state.ComposerDrafts == nil {
				state.ComposerDrafts = map[string]string{}
			}
			state.ComposerDrafts[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Save replaces the stored state in one transaction. Drafts absent from state
// are removed.
func (s *bboltAppStateStore) Save(ctx context.Context, state *types.AppState) error {
	if state == nil {
		return errors.New("state is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		ui, err := tx.CreateBucketIfNotExists(bucketUI)
		if err != nil {
			return err
		}
		if err := putOrDelete(ui, keyLastSessionID, state.LastSessionID); err != nil {
			return err
		}
		hidden := ""
		if state.InspectorHidden {
			hidden = "1"
		}
		if err := putOrDelete(ui, keyInspectorHidden, hidden); err != nil {
			return err
		}

		if err := tx.DeleteBucket(bucketDrafts); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		drafts, err := tx.CreateBucket(bucketDrafts)
		if err != nil {
			return err
		}
		for sessionID, draft := range state.ComposerDrafts {
			if sessionID == "" || strings.TrimSpace(draft) == "" {
				continue
			}
			if err := drafts.Put([]byte(sessionID), []byte(draft)); err != nil {
				return err
			}
		}
		return nil
	})
}

func putOrDelete(b *bolt.Bucket, key []byte, value string) error {
	if value == "" {
		return b.Delete(key)
	}
	return b.Put(key, []byte(value))
}
