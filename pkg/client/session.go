package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// DefaultSessionFileName is the session flag file under the user's
	// home directory.
	DefaultSessionFileName = ".base-swap-session.json"
)

// sessionState is the persisted flag recording that a gateway session
// was opened in an earlier run.
type sessionState struct {
	Initialized bool      `json:"initialized"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SessionStore persists the session flag across runs so a new process
// can resume silently.
type SessionStore struct {
	filePath string
	mu       sync.Mutex
}

// NewSessionStore creates a store at the given path, defaulting to the
// home directory.
func NewSessionStore(filePath string) (*SessionStore, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultSessionFileName)
	}

	return &SessionStore{filePath: filePath}, nil
}

// WasInitialized reports whether a previous run completed initialization.
func (s *SessionStore) WasInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return false
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return false
	}
	return state.Initialized
}

// MarkInitialized records a successful initialization.
func (s *SessionStore) MarkInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sessionState{
		Initialized: true,
		UpdatedAt:   time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// write then rename so a crash never leaves a torn flag file
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to commit session state: %w", err)
	}
	return nil
}

// Clear removes the persisted flag.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	return nil
}

// OpenSession initializes the gateway session and persists the flag.
func OpenSession(ctx context.Context, c *Client, store *SessionStore, provider Provider) error {
	if err := c.Initialize(ctx, provider); err != nil {
		return err
	}
	if err := store.MarkInitialized(); err != nil {
		return fmt.Errorf("session opened but flag not persisted: %w", err)
	}
	return nil
}

// CloseSession tears down the gateway session and clears the flag.
func CloseSession(ctx context.Context, c *Client, store *SessionStore) error {
	if err := c.Deinit(ctx); err != nil {
		return err
	}
	return store.Clear()
}

// EnsureSession silently re-initializes when the persisted flag says a
// previous run was initialized but this client is not. A failed resume
// clears the flag so the next run does not retry in a loop. Returns
// true when a session was resumed.
func EnsureSession(ctx context.Context, c *Client, store *SessionStore, provider Provider) (bool, error) {
	if c.IsInitialized() {
		return false, nil
	}
	if !store.WasInitialized() {
		return false, nil
	}

	if err := c.Initialize(ctx, provider); err != nil {
		if clearErr := store.Clear(); clearErr != nil {
			return false, fmt.Errorf("session resume failed: %w (and flag not cleared: %v)", err, clearErr)
		}
		return false, fmt.Errorf("session resume failed: %w", err)
	}
	return true, nil
}
