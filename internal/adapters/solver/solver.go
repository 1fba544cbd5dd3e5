// Package solver provides the dependency solver backends.
package solver

import (
	"context"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

// Dispatcher implements ports.Solver by delegating to the backend named in the request settings.
type Dispatcher struct {
	backends map[string]ports.Solver
}

// NewDispatcher creates a Dispatcher for the lock walk and poetry export backends.
func NewDispatcher(lock, poetry ports.Solver) *Dispatcher {
	return &Dispatcher{backends: map[string]ports.Solver{
		domain.SolverLock:   lock,
		domain.SolverPoetry: poetry,
	}}
}

// Solve implements ports.Solver. An empty solver setting selects the lock walk.
func (d *Dispatcher) Solve(ctx context.Context, req domain.SolveRequest) ([]domain.ResolvedOperation, error) {
	kind := req.Settings.Solver
	if kind == "" {
		kind = domain.SolverLock
	}
	backend, ok := d.backends[kind]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "unknown solver"), "solver", kind)
	}
	return backend.Solve(ctx, req)
}
