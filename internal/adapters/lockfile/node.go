package lockfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pakt/internal/adapters/shell"
	"go.trai.ch/pakt/internal/core/ports"
)

// SetNodeID identifies the translator set Graft node.
const SetNodeID graft.ID = "adapter.lockfile.set"

func init() {
	graft.Register(graft.Node[*Set]{
		ID:        SetNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.SynthesizerNodeID},
		Run: func(ctx context.Context) (*Set, error) {
			synth, err := graft.Dep[ports.LockfileSynthesizer](ctx)
			if err != nil {
				return nil, err
			}
			return NewSet(synth), nil
		},
	})
}
