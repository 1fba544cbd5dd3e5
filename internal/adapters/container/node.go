package container

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/blix/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/blix/internal/adapters/shell"  //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/blix/internal/core/ports"
)

// NodeID is the unique identifier for the container inspector Graft node.
const NodeID graft.ID = "adapter.container"

func init() {
	graft.Register(graft.Node[ports.ContainerInspector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ContainerInspector, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInspector(runner, log), nil
		},
	})
}
