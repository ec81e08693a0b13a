// Package blob stores uploaded media bytes on disk, keyed by entry id.
//
// Persisting the raw bytes keeps playback URLs valid across restarts;
// catalog entries whose blob has gone missing are dropped at startup.
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store writes and reads media files under a single directory.
type Store struct {
	dir string
}

// NewStore creates the blob directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put writes the content for id atomically (temp file then rename)
// and returns the number of bytes written.
func (s *Store) Put(id string, r io.Reader) (int64, error) {
	path := s.Path(id)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("write blob: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("commit blob: %w", err)
	}
	return written, nil
}

// Open opens the content for id for reading.
func (s *Store) Open(id string) (*os.File, error) {
	return os.Open(s.Path(id))
}

// Exists reports whether a blob is present for id.
func (s *Store) Exists(id string) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Remove deletes the blob for id. Removing an absent blob is a no-op.
func (s *Store) Remove(id string) error {
	err := os.Remove(s.Path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// Path returns the on-disk location for id.
func (s *Store) Path(id string) string {
	// Ids are generated internally, but keep path traversal out anyway.
	return filepath.Join(s.dir, filepath.Base(id))
}
