package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

// tokenFile mirrors the storage keys used by the console's durable
// key/value store.
type tokenFile struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// FileStore is a TokenStore backed by a JSON file. Tokens survive process
// restarts. Writes go through a temp-file rename so readers never observe a
// half-written pair.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at the given path. The parent
// directory is created if missing.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Set overwrites both tokens atomically.
func (s *FileStore) Set(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(tokenFile{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreFailed, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreFailed, err)
	}
	return nil
}

// Access returns the stored access token.
func (s *FileStore) Access(ctx context.Context) (string, error) {
	tokens, err := s.read()
	if err != nil {
		return "", err
	}
	return tokens.AccessToken, nil
}

// Refresh returns the stored refresh token.
func (s *FileStore) Refresh(ctx context.Context) (string, error) {
	tokens, err := s.read()
	if err != nil {
		return "", err
	}
	return tokens.RefreshToken, nil
}

// Clear removes the token file. Clearing an already-empty store is not an
// error.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", core.ErrStoreFailed, err)
	}
	return nil
}

func (s *FileStore) read() (tokenFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tokenFile{}, core.ErrNoToken
	}
	if err != nil {
		return tokenFile{}, fmt.Errorf("%w: %v", core.ErrStoreFailed, err)
	}

	var tokens tokenFile
	if err := json.Unmarshal(payload, &tokens); err != nil {
		return tokenFile{}, fmt.Errorf("%w: %v", core.ErrStoreFailed, err)
	}
	return tokens, nil
}

var _ ports.TokenStore = (*FileStore)(nil)
