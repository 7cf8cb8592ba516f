package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/snaplink/internal/adapters/fs"
	"go.trai.ch/snaplink/internal/core/ports"
)

// NodeID is the unique identifier for the transform cache factory Graft node.
const NodeID graft.ID = "adapter.transform_cache"

func init() {
	graft.Register(graft.Node[ports.TransformCacheFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.TransformCacheFactory, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(hasher), nil
		},
	})
}
