package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/taskdeck/taskdeck/pkg/models"
)

func TestSessionStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage := NewSessionStorage(dir)

	snap := SessionSnapshot{
		User:            &models.User{ID: "u1", Username: "alice", Email: "a@b.c"},
		Token:           "tok-123",
		IsAuthenticated: true,
	}
	if err := storage.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Token != "tok-123" || !loaded.IsAuthenticated {
		t.Errorf("unexpected snapshot: %+v", loaded)
	}
	if loaded.User == nil || loaded.User.Username != "alice" {
		t.Errorf("unexpected user: %+v", loaded.User)
	}
}

func TestSessionStorage_MissingFileLoadsEmpty(t *testing.T) {
	storage := NewSessionStorage(t.TempDir())

	snap, err := storage.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Token != "" || snap.IsAuthenticated || snap.User != nil {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestSessionStorage_ClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	storage := NewSessionStorage(dir)

	if err := storage.Save(SessionSnapshot{Token: "tok"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := storage.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "session.yaml")); !os.IsNotExist(err) {
		t.Error("session.yaml still exists after Clear")
	}

	// Clearing again is not an error.
	if err := storage.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestSessionStorage_TokenReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	storage := NewSessionStorage(dir)

	token, err := storage.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty before save", token)
	}

	if err := storage.Save(SessionSnapshot{Token: "fresh"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	token, err = storage.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "fresh" {
		t.Errorf("token = %q, want value written after construction", token)
	}

	if err := storage.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	token, err = storage.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty after Clear", token)
	}
}

func TestSessionStorage_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	storage := NewSessionStorage(dir)

	if err := storage.Save(SessionSnapshot{Token: "secret"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "session.yaml"))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session.yaml permissions = %o, want 600", perm)
	}
}
