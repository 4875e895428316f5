package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pakt/internal/adapters/cas"      //nolint:depguard // Wired in app layer
	"go.trai.ch/pakt/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/pakt/internal/adapters/fs"       //nolint:depguard // Wired in app layer
	"go.trai.ch/pakt/internal/adapters/lockfile" //nolint:depguard // Wired in app layer
	"go.trai.ch/pakt/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/pakt/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/pakt/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.ReaderNodeID,
			fs.HasherNodeID,
			cas.NodeID,
			lockfile.SetNodeID,
			orchestrator.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	reader, err := graft.Dep[ports.TreeReader](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.KeyCalculator](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.ArtifactStore](ctx)
	if err != nil {
		return nil, err
	}
	translators, err := graft.Dep[*lockfile.Set](ctx)
	if err != nil {
		return nil, err
	}
	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}
	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, reader, hasher, store, translators, orch, tel, log), nil
}
