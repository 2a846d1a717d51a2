// Package localstore implements the durable state store as JSON files
// on local disk, one file per key. It is the client-side analogue of
// browser local storage: two small blobs that survive restarts.
package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"storefront/internal/domain"
)

// Store persists state values under a single directory.
type Store struct {
	dir string
}

var _ domain.StateStore = (*Store)(nil)

// Open prepares a Store rooted at dir, creating the directory if
// needed. Files are readable by the owning user only.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Get reads the value for key. A missing file is reported as absent,
// not an error.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(raw), true, nil
}

// Set writes the value for key. The write goes to a temp file first and
// is renamed into place so a crash never leaves a torn record.
func (s *Store) Set(_ context.Context, key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Remove deletes the value for key. Removing an absent key is a no-op.
func (s *Store) Remove(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) path(key string) (string, error) {
	for _, r := range key {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return "", fmt.Errorf("invalid state key %q", key)
		}
	}
	if key == "" {
		return "", fmt.Errorf("empty state key")
	}
	return filepath.Join(s.dir, key+".json"), nil
}
