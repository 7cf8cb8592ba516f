package traversal

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/snaplink/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/snaplink/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/snaplink/internal/adapters/rewriter" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/snaplink/internal/core/ports"
)

// NodeID is the unique identifier for the traversal Graft node.
const NodeID graft.ID = "engine.traversal"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.ResolverNodeID,
			rewriter.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			resolver, err := graft.Dep[ports.PathResolver](ctx)
			if err != nil {
				return nil, err
			}

			rw, err := graft.Dep[ports.Rewriter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewOrchestrator(resolver, rw, log), nil
		},
	})
}
