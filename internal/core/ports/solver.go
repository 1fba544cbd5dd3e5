package ports

import (
	"context"

	"go.trai.ch/blix/internal/core/domain"
)

// Solver resolves the requirements of a project against its locked packages.
//
//go:generate go run go.uber.org/mock/mockgen -source=solver.go -destination=mocks/mock_solver.go -package=mocks
type Solver interface {
	// Solve selects one locked package per required distribution. Candidates are limited to
	// the request's universe; a failure to satisfy the requirements is an error.
	Solve(ctx context.Context, req domain.SolveRequest) ([]domain.ResolvedOperation, error)
}

// EnvironmentInspector describes the Python environment packages are resolved for.
type EnvironmentInspector interface {
	// Inspect runs the python interpreter and returns its marker values and installed
	// distributions.
	Inspect(ctx context.Context, python string) (*domain.InstalledEnvironment, error)
}
