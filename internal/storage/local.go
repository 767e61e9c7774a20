package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// LocalStorage implements Storage using the local filesystem, one file per key.
// Writes go through a temp file and rename so a crash never leaves a torn cart.
type LocalStorage struct {
	basePath string // Root directory for session files (e.g., "./data/sessions")
}

// NewLocalStorage creates a new local filesystem storage implementation.
// basePath is created if it doesn't exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// path maps a key to a file name inside basePath. Keys are escaped so that
// separators cannot reach outside the directory.
func (s *LocalStorage) path(key string) (string, error) {
	name := url.PathEscape(key)
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.basePath, name), nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound(key)
		}
		return nil, errBackend("failed to read session file", err)
	}

	return data, nil
}

func (s *LocalStorage) Set(ctx context.Context, key string, value []byte) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(fullPath, bytes.NewReader(value)); err != nil {
		return errBackend("failed to write session file", err)
	}

	return nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return errBackend("failed to delete session file", err)
	}

	return nil
}
