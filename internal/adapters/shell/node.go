package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pakt/internal/adapters/logger"
	"go.trai.ch/pakt/internal/core/ports"
)

const (
	// RunnerNodeID identifies the script runner Graft node.
	RunnerNodeID graft.ID = "adapter.shell.runner"
	// SynthesizerNodeID identifies the lockfile synthesizer Graft node.
	SynthesizerNodeID graft.ID = "adapter.shell.synthesizer"
)

func init() {
	graft.Register(graft.Node[ports.ScriptRunner]{
		ID:        RunnerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ScriptRunner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(log), nil
		},
	})

	graft.Register(graft.Node[ports.LockfileSynthesizer]{
		ID:        SynthesizerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.LockfileSynthesizer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSynthesizer(log), nil
		},
	})
}
