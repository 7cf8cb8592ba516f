package rewriter

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/snaplink/internal/adapters/fs"
	"go.trai.ch/snaplink/internal/core/ports"
)

// NodeID is the unique identifier for the require rewriter Graft node.
const NodeID graft.ID = "adapter.rewriter"

func init() {
	graft.Register(graft.Node[ports.Rewriter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID},
		Run: func(ctx context.Context) (ports.Rewriter, error) {
			resolver, err := graft.Dep[ports.PathResolver](ctx)
			if err != nil {
				return nil, err
			}
			return New(resolver), nil
		},
	})
}
