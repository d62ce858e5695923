package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"agentview/internal/types"
)

func TestFileAppStateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileAppStateStore(path)

	state, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.LastSessionID != "" {
		t.Fatalf("expected empty state")
	}

	state.LastSessionID = "s1"
	state.InspectorHidden = true
	SetDraft(state, "s1", "half a thought")

	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.LastSessionID != "s1" || !loaded.InspectorHidden || loaded.ComposerDrafts["s1"] != "half a thought" {
		t.Fatalf("unexpected reload state %#v", loaded)
	}
}

func TestSetDraftRemovesBlank(t *testing.T) {
	state := &types.AppState{}
	SetDraft(state, "s1", "x")
	SetDraft(state, "s1", "   ")
	if _, ok := state.ComposerDrafts["s1"]; ok {
		t.Fatalf("expected blank draft to be removed")
	}
	SetDraft(state, "", "ignored")
	if len(state.ComposerDrafts) != 0 {
		t.Fatalf("expected draft without session to be ignored")
	}
}

func TestFileAppStateStoreBlankFileLoadsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	state, err := NewFileAppStateStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("expected blank file to load, got %v", err)
	}
	if state.LastSessionID != "" || state.InspectorHidden {
		t.Fatalf("expected default state, got %#v", state)
	}
}

func TestFileAppStateStoreCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{\"last_session_id\":"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileAppStateStore(path).Load(context.Background()); err == nil {
		t.Fatalf("expected decode error for truncated file")
	}
}

func TestWriteStateFileIsPrivate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "state.json")
	if err := writeStateFile(path, map[string]string{"a": "b"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, got %d entries", len(entries))
	}
}
