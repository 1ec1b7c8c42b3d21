package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/genpack/internal/adapters/cas"        //nolint:depguard // Wired in app layer
	"go.trai.ch/genpack/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/genpack/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"go.trai.ch/genpack/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/genpack/internal/adapters/lowerimage" //nolint:depguard // Wired in app layer
	"go.trai.ch/genpack/internal/adapters/nspawn"     //nolint:depguard // Wired in app layer
	"go.trai.ch/genpack/internal/adapters/shell"      //nolint:depguard // Wired in app layer
	"go.trai.ch/genpack/internal/adapters/squashfs"   //nolint:depguard // Wired in app layer
	"go.trai.ch/genpack/internal/core/ports"
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
			config.SettingsNodeID,
			shell.NodeID,
			nspawn.NodeID,
			lowerimage.NodeID,
			squashfs.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			fs.WalkerNodeID,
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
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	manifests, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}
	settings, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}
	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}
	sandbox, err := graft.Dep[ports.Sandbox](ctx)
	if err != nil {
		return nil, err
	}
	image, err := graft.Dep[ports.ImageProvisioner](ctx)
	if err != nil {
		return nil, err
	}
	packer, err := graft.Dep[ports.Packer](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(manifests, settings, executor, sandbox, image, packer, store, hasher, walker, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return &Components{App: app, Logger: log}, nil
}
