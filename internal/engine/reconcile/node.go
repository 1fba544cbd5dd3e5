package reconcile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/blix/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/blix/internal/adapters/pyenv"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/blix/internal/adapters/solver" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/blix/internal/core/ports"
)

// NodeID is the unique identifier for the resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			solver.NodeID,
			pyenv.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Resolver, error) {
			s, err := graft.Dep[ports.Solver](ctx)
			if err != nil {
				return nil, err
			}

			inspector, err := graft.Dep[ports.EnvironmentInspector](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewResolver(s, inspector, log), nil
		},
	})
}
