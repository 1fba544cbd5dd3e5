package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/blix/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/blix/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/blix/internal/adapters/container" //nolint:depguard // Wired in app layer
	"go.trai.ch/blix/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/blix/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/blix/internal/adapters/poetry"    //nolint:depguard // Wired in app layer
	"go.trai.ch/blix/internal/adapters/pyproject" //nolint:depguard // Wired in app layer
	"go.trai.ch/blix/internal/adapters/wheel"     //nolint:depguard // Wired in app layer
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/blix/internal/engine/reconcile"
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
			pyproject.ManifestNodeID,
			pyproject.LockNodeID,
			reconcile.NodeID,
			poetry.NodeID,
			wheel.ReaderNodeID,
			wheel.WriterNodeID,
			fs.VerifierNodeID,
			fs.HasherNodeID,
			cas.NodeID,
			container.NodeID,
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
	var (
		d   Deps
		err error
	)
	if d.Settings, err = graft.Dep[ports.SettingsLoader](ctx); err != nil {
		return nil, err
	}
	if d.Projects, err = graft.Dep[ports.ProjectLoader](ctx); err != nil {
		return nil, err
	}
	if d.Locker, err = graft.Dep[ports.Locker](ctx); err != nil {
		return nil, err
	}
	if d.Resolver, err = graft.Dep[*reconcile.Resolver](ctx); err != nil {
		return nil, err
	}
	if d.Builder, err = graft.Dep[ports.WheelBuilder](ctx); err != nil {
		return nil, err
	}
	if d.Reader, err = graft.Dep[ports.WheelReader](ctx); err != nil {
		return nil, err
	}
	if d.Writer, err = graft.Dep[ports.WheelWriter](ctx); err != nil {
		return nil, err
	}
	if d.Verifier, err = graft.Dep[ports.SourceVerifier](ctx); err != nil {
		return nil, err
	}
	if d.Hasher, err = graft.Dep[ports.Hasher](ctx); err != nil {
		return nil, err
	}
	if d.Store, err = graft.Dep[ports.BuildRecordStore](ctx); err != nil {
		return nil, err
	}
	if d.Containers, err = graft.Dep[ports.ContainerInspector](ctx); err != nil {
		return nil, err
	}
	if d.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}
	return New(d), nil
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
