package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pakt/internal/core/ports"
)

const (
	// ReaderNodeID identifies the source tree reader Graft node.
	ReaderNodeID graft.ID = "adapter.fs.reader"
	// HasherNodeID identifies the invalidation hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.TreeReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.TreeReader, error) {
			return NewReader(), nil
		},
	})

	graft.Register(graft.Node[ports.KeyCalculator]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.KeyCalculator, error) {
			return NewHasher(), nil
		},
	})
}
