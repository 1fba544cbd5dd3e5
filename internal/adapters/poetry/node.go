package poetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/blix/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/blix/internal/adapters/shell"  //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/blix/internal/core/ports"
)

// NodeID is the unique identifier for the wheel builder Graft node.
const NodeID graft.ID = "adapter.poetry_builder"

func init() {
	graft.Register(graft.Node[ports.WheelBuilder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.WheelBuilder, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(runner, log), nil
		},
	})
}
