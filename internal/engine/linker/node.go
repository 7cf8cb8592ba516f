package linker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/snaplink/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/snaplink/internal/core/ports"
	"go.trai.ch/snaplink/internal/engine/traversal"
)

// NodeID is the unique identifier for the linker Graft node.
const NodeID graft.ID = "engine.linker"

func init() {
	graft.Register(graft.Node[*Linker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			traversal.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Linker, error) {
			orchestrator, err := graft.Dep[*traversal.Orchestrator](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewLinker(orchestrator, tracer), nil
		},
	})
}
