package nspawn

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/genpack/internal/adapters/shell"
	"go.trai.ch/genpack/internal/core/ports"
)

// NodeID is the unique identifier for the sandbox Graft node.
const NodeID graft.ID = "adapter.sandbox"

func init() {
	graft.Register(graft.Node[ports.Sandbox]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.Sandbox, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewSandbox(executor), nil
		},
	})
}
