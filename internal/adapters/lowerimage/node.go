package lowerimage

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/genpack/internal/adapters/logger"
	"go.trai.ch/genpack/internal/adapters/shell"
	"go.trai.ch/genpack/internal/core/ports"
)

// NodeID is the unique identifier for the image provisioner Graft node.
const NodeID graft.ID = "adapter.image_provisioner"

func init() {
	graft.Register(graft.Node[ports.ImageProvisioner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ImageProvisioner, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvisioner(executor, log), nil
		},
	})
}
