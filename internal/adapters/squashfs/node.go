package squashfs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/genpack/internal/adapters/shell"
	"go.trai.ch/genpack/internal/core/ports"
)

// NodeID is the unique identifier for the packer Graft node.
const NodeID graft.ID = "adapter.packer"

func init() {
	graft.Register(graft.Node[ports.Packer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.Packer, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewPacker(executor), nil
		},
	})
}
