package cas

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/pakt/internal/core/ports"
)

// NodeID identifies the artifact store Graft node.
const NodeID graft.ID = "adapter.artifact_store"

// storeDirEnv overrides the default store location.
const storeDirEnv = "PAKT_STORE_DIR"

func init() {
	graft.Register(graft.Node[ports.ArtifactStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ArtifactStore, error) {
			dir := os.Getenv(storeDirEnv)
			if dir == "" {
				cache, err := os.UserCacheDir()
				if err != nil {
					return nil, err
				}
				dir = filepath.Join(cache, "pakt", "store")
			}
			return NewStore(dir)
		},
	})
}
