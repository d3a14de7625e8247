package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the current Session (and its display Profile) as JSON files.
// Every operation is fail-soft: storage problems are logged and reported as
// an absent record, never as a panic.
type Store struct {
	sessionPath string
	profilePath string
	mu          sync.RWMutex
}

// NewStore creates a Store. profilePath may be empty to disable the profile cache.
func NewStore(sessionPath, profilePath string) *Store {
	return &Store{
		sessionPath: sessionPath,
		profilePath: profilePath,
	}
}

// Save replaces the stored session. The write goes through a temp file and a
// rename so readers see either the old record or the new one.
func (s *Store) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		slog.Warn("session_save_marshal_error", "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := writeFileAtomic(s.sessionPath, data); err != nil {
		slog.Warn("session_save_error", "path", s.sessionPath, "error", err)
		return err
	}

	slog.Debug("session_save",
		"path", s.sessionPath,
		"user", sess.User,
		"role", string(sess.Role),
	)
	return nil
}

// Load returns the stored session, or false when there is none or the stored
// value is not a well-formed session.
func (s *Store) Load() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.sessionPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("session_load_error", "path", s.sessionPath, "error", err)
		}
		return Session{}, false
	}

	sess, err := decodeSession(data)
	if err != nil {
		slog.Warn("session_load_malformed", "path", s.sessionPath, "error", err)
		return Session{}, false
	}
	return sess, true
}

// Clear removes the session and profile. Clearing an empty store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.sessionPath, s.profilePath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("session_clear_error", "path", path, "error", err)
		}
	}
	slog.Debug("session_clear", "path", s.sessionPath)
}

// SaveProfile writes the display-only profile record.
func (s *Store) SaveProfile(p Profile) error {
	if s.profilePath == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := writeFileAtomic(s.profilePath, data); err != nil {
		slog.Warn("profile_save_error", "path", s.profilePath, "error", err)
		return err
	}
	return nil
}

// LoadProfile returns the profile record if one is stored and parses.
func (s *Store) LoadProfile() (Profile, bool) {
	if s.profilePath == "" {
		return Profile{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.profilePath)
	if err != nil {
		return Profile{}, false
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Debug("profile_load_malformed", "path", s.profilePath, "error", err)
		return Profile{}, false
	}
	return p, true
}

// writeFileAtomic writes data next to path and renames it into place with
// owner-only permissions.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
