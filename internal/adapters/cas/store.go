// Package cas implements the content-addressed artifact store on the local
// filesystem.
package cas

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.ArtifactStore = (*Store)(nil)

// Store keeps one file per content key under a root directory, sharded by
// the key's first two characters. Concurrent writers for the same key are
// collapsed through singleflight and the write itself is a temp-file rename,
// so two racing Puts always leave the identical stored result.
type Store struct {
	root  string
	group singleflight.Group
}

// NewStore creates a store rooted at the given directory.
func NewStore(root string) (*Store, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create store root"), "dir", root)
	}
	return &Store{root: root}, nil
}

// Put stores bytes under a content key and returns the stored location.
// An existing entry for the key is left untouched; content addressing makes
// the write idempotent.
func (s *Store) Put(key domain.InvalidationKey, data []byte) (string, error) {
	loc, err, _ := s.group.Do(string(key), func() (any, error) {
		path := s.pathFor(key)

		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return "", zerr.Wrap(err, "failed to create shard directory")
		}

		tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
		if err != nil {
			return "", zerr.Wrap(err, "failed to create temp file")
		}
		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return "", zerr.Wrap(err, "failed to write artifact")
		}
		if err := tmp.Close(); err != nil {
			_ = os.Remove(tmp.Name())
			return "", zerr.Wrap(err, "failed to close temp file")
		}
		if err := os.Rename(tmp.Name(), path); err != nil {
			_ = os.Remove(tmp.Name())
			return "", zerr.Wrap(err, "failed to publish artifact")
		}
		return path, nil
	})
	if err != nil {
		return "", zerr.With(err, "key", string(key))
	}
	return loc.(string), nil
}

// Get retrieves the bytes stored under a content key.
func (s *Store) Get(key domain.InvalidationKey) ([]byte, error) {
	data, err := os.ReadFile(s.pathFor(key)) //nolint:gosec // Path is derived from the key under the store root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrNotCached, "key", string(key))
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read artifact"), "key", string(key))
	}
	return data, nil
}

func (s *Store) pathFor(key domain.InvalidationKey) string {
	k := string(key)
	if len(k) < 2 {
		return filepath.Join(s.root, k)
	}
	return filepath.Join(s.root, k[:2], k[2:])
}
