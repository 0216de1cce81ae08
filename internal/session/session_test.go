package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMissingFileMeansLoggedOut(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "state", "token"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.LoggedIn() {
		t.Fatalf("fresh store reports a session")
	}
	if store.Token() != "" {
		t.Fatalf("fresh store has token %q", store.Token())
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "token")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save("jwt-abc"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file mode = %o, want 600", perm)
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore reload: %v", err)
	}
	if reloaded.Token() != "jwt-abc" {
		t.Fatalf("reloaded token = %q", reloaded.Token())
	}
}

func TestSaveRefusesEmptyToken(t *testing.T) {
	store, _ := NewStore(filepath.Join(t.TempDir(), "token"))
	if err := store.Save("   "); err == nil {
		t.Fatalf("blank token accepted")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, _ := NewStore(path)
	if err := store.Save("jwt-abc"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.LoggedIn() {
		t.Fatalf("store still logged in after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("token file survived Clear")
	}
	// Clearing an already-cleared store is not an error.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}
