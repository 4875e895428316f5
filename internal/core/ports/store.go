package ports

import "go.trai.ch/pakt/internal/core/domain"

// ArtifactStore is the external content-addressed storage collaborator.
//
// Implementations must guarantee that two concurrent writers for the same
// content key produce an identical stored result; callers never assume any
// mutual exclusion beyond that.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Put stores bytes under a content key and returns the stored location.
	Put(key domain.InvalidationKey, data []byte) (string, error)

	// Get retrieves the bytes stored under a content key.
	// Returns domain.ErrNotCached if the key has no entry.
	Get(key domain.InvalidationKey) ([]byte, error)
}
