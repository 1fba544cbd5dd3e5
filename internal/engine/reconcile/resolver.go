package reconcile

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver prepares solver runs restricted to locked packages.
type Resolver struct {
	solver    ports.Solver
	inspector ports.EnvironmentInspector
	logger    ports.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(solver ports.Solver, inspector ports.EnvironmentInspector, logger ports.Logger) *Resolver {
	return &Resolver{
		solver:    solver,
		inspector: inspector,
		logger:    logger,
	}
}

// Resolve returns one operation per package the active groups need, using only the
// versions pinned in lock. Operations are ordered by canonical package name.
func (r *Resolver) Resolve(
	ctx context.Context,
	settings domain.Settings,
	manifest *domain.Manifest,
	lock *domain.Lockfile,
	groups domain.GroupSet,
) ([]domain.ResolvedOperation, error) {
	universe := Project(lock, manifest, groups)
	r.logger.Debug(fmt.Sprintf("Locked packages in scope: %d (%d deferred)", len(universe.Packages), len(universe.Deferred)))

	env, err := r.inspector.Inspect(ctx, settings.Python)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to inspect the python environment")
	}

	ops, err := r.solver.Solve(ctx, domain.SolveRequest{
		ProjectDir:   manifest.Root,
		ProjectName:  manifest.Name,
		Requirements: manifest.RootRequirements(groups),
		Groups:       groups,
		Universe:     universe,
		Environment:  env,
		Settings:     settings,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve locked dependencies")
	}

	slices.SortStableFunc(ops, func(a, b domain.ResolvedOperation) int {
		return strings.Compare(a.Package.CanonicalName(), b.Package.CanonicalName())
	})
	r.logger.Debug(fmt.Sprintf("Resolved %d locked packages", len(ops)))
	return ops, nil
}
