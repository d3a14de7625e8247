package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	sessionPath := filepath.Join(dir, "state", "session.json")
	profilePath := filepath.Join(dir, "state", "profile.json")
	return NewStore(sessionPath, profilePath), sessionPath
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)

	sess := Session{
		AccessToken: "tok-123",
		TokenType:   "bearer",
		User:        "alice",
		Role:        RoleSuperuser,
		IssuedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := store.Save(sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, ok := store.Load()
	if !ok {
		t.Fatal("Load returned absent after Save")
	}
	if loaded.AccessToken != sess.AccessToken {
		t.Errorf("AccessToken mismatch: got %s, want %s", loaded.AccessToken, sess.AccessToken)
	}
	if loaded.TokenType != sess.TokenType {
		t.Errorf("TokenType mismatch: got %s, want %s", loaded.TokenType, sess.TokenType)
	}
	if loaded.User != sess.User {
		t.Errorf("User mismatch: got %s, want %s", loaded.User, sess.User)
	}
	if loaded.Role != sess.Role {
		t.Errorf("Role mismatch: got %s, want %s", loaded.Role, sess.Role)
	}
	if !loaded.IssuedAt.Equal(sess.IssuedAt) {
		t.Errorf("IssuedAt mismatch: got %v, want %v", loaded.IssuedAt, sess.IssuedAt)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Save(Session{AccessToken: "first", User: "alice", Role: RoleAdmin}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(Session{AccessToken: "second", User: "bob"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, ok := store.Load()
	if !ok {
		t.Fatal("Load returned absent")
	}
	if loaded.AccessToken != "second" || loaded.User != "bob" {
		t.Errorf("Expected second session, got %+v", loaded)
	}
	// Whole-record overwrite: the old role does not survive.
	if loaded.Role != RoleUnknown && loaded.Role != "" {
		t.Errorf("Expected role reset, got %q", loaded.Role)
	}
}

func TestStore_ClearThenLoad(t *testing.T) {
	store, sessionPath := newTestStore(t)

	if err := store.Save(Session{AccessToken: "tok"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	store.Clear()

	if _, ok := store.Load(); ok {
		t.Error("Expected absent after Clear")
	}
	if _, err := os.Stat(sessionPath); !os.IsNotExist(err) {
		t.Errorf("Expected session file removed, stat err = %v", err)
	}

	// Second clear on an empty store is a no-op.
	store.Clear()
}

func TestStore_LoadMissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	if _, ok := store.Load(); ok {
		t.Error("Expected absent for missing file")
	}
}

func TestStore_LoadMalformed(t *testing.T) {
	payloads := map[string]string{
		"invalid json":        "{not json",
		"empty file":          "",
		"json array":          `["access_token"]`,
		"missing token":       `{"user":"alice","role":"admin"}`,
		"null token":          `{"access_token":null}`,
		"token wrong type":    `{"access_token":42}`,
		"role wrong type":     `{"access_token":"t","role":7}`,
		"issued_at not time":  `{"access_token":"t","issued_at":"yesterday"}`,
		"truncated mid-write": `{"access_token":"tok","us`,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			store, sessionPath := newTestStore(t)
			if err := os.MkdirAll(filepath.Dir(sessionPath), 0700); err != nil {
				t.Fatalf("MkdirAll failed: %v", err)
			}
			if err := os.WriteFile(sessionPath, []byte(payload), 0600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			if sess, ok := store.Load(); ok {
				t.Errorf("Expected absent for %s, got %+v", name, sess)
			}
		})
	}
}

func TestStore_LoadDefaultsRole(t *testing.T) {
	store, sessionPath := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(sessionPath), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(sessionPath, []byte(`{"access_token":"tok"}`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	sess, ok := store.Load()
	if !ok {
		t.Fatal("Expected session to load")
	}
	if sess.Role != RoleUnknown {
		t.Errorf("Expected role unknown, got %q", sess.Role)
	}
}

func TestStore_LoadEmptyTokenIsNotLoggedIn(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Save(Session{AccessToken: "", User: "ghost"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sess, ok := store.Load()
	if !ok {
		t.Fatal("Expected record to load")
	}
	if sess.LoggedIn() {
		t.Error("Session with empty token must not be logged in")
	}
}

func TestStore_UnreadablePathIsAbsent(t *testing.T) {
	dir := t.TempDir()
	// A directory where the session file should be makes every read fail.
	sessionPath := filepath.Join(dir, "session.json")
	if err := os.MkdirAll(sessionPath, 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	store := NewStore(sessionPath, "")

	if _, ok := store.Load(); ok {
		t.Error("Expected absent when session path is unreadable")
	}
	if err := store.Save(Session{AccessToken: "tok"}); err == nil {
		t.Error("Expected Save to report the storage failure")
	}
	store.Clear()
}

func TestStore_FilePermissions(t *testing.T) {
	store, sessionPath := newTestStore(t)

	if err := store.Save(Session{AccessToken: "tok"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(sessionPath)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected permissions 0600, got %o", perm)
	}

	entries, err := os.ReadDir(filepath.Dir(sessionPath))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestStore_Profile(t *testing.T) {
	store, _ := newTestStore(t)

	if _, ok := store.LoadProfile(); ok {
		t.Error("Expected no profile initially")
	}

	p := Profile{User: "alice", Role: RoleAdmin, Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	if err := store.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	loaded, ok := store.LoadProfile()
	if !ok {
		t.Fatal("Expected profile to load")
	}
	if loaded.User != "alice" || loaded.Role != RoleAdmin {
		t.Errorf("Profile mismatch: %+v", loaded)
	}

	store.Clear()
	if _, ok := store.LoadProfile(); ok {
		t.Error("Expected profile cleared with the session")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"superuser", RoleSuperuser},
		{"user", RoleUser},
		{"hr", RoleHR},
		{"it", RoleIT},
		{"unknown", RoleUnknown},
		{"Admin", RoleUnknown},
		{"", RoleUnknown},
		{"root", RoleUnknown},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
