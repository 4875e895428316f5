package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/pakt/internal/core/ports"
)

// NodeID identifies the telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry"

// disableEnv turns telemetry recording off entirely.
const disableEnv = "PAKT_NO_TELEMETRY"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			if os.Getenv(disableEnv) != "" {
				return NewNoOp(), nil
			}
			return New(), nil
		},
	})
}
