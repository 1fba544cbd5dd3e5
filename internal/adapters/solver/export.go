package solver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"slices"
	"sort"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

// ExportSolver resolves requirements by running `poetry export`, letting poetry apply
// its own solver to the lock file.
//
// The export is run once without extras and once per project extra; packages that only
// appear with an extra are attributed to it. Markers in the export are evaluated against
// the inspected environment.
type ExportSolver struct {
	runner ports.CommandRunner
}

// NewExportSolver creates a new ExportSolver.
func NewExportSolver(runner ports.CommandRunner) *ExportSolver {
	return &ExportSolver{runner: runner}
}

// Solve implements ports.Solver.
func (s *ExportSolver) Solve(ctx context.Context, req domain.SolveRequest) ([]domain.ResolvedOperation, error) {
	base, err := s.export(ctx, req, "")
	if err != nil {
		return nil, err
	}

	inExtras := make(map[string][]string)
	for _, extra := range projectExtras(req.Requirements) {
		withExtra, err := s.export(ctx, req, extra)
		if err != nil {
			return nil, err
		}
		for key, pkg := range withExtra {
			if _, ok := base[key]; ok {
				continue
			}
			if _, ok := inExtras[key]; !ok {
				// The first extra seen decides the version; extras share one lock.
				base[key] = pkg
			}
			inExtras[key] = append(inExtras[key], extra)
		}
	}

	skip := domain.CanonicalName(req.ProjectName)
	ops := make([]domain.ResolvedOperation, 0, len(base))
	for key, pkg := range base {
		if key == skip {
			continue
		}
		ops = append(ops, domain.ResolvedOperation{Package: pkg, InExtras: inExtras[key]})
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Package.CanonicalName() < ops[j].Package.CanonicalName()
	})
	return ops, nil
}

func (s *ExportSolver) export(ctx context.Context, req domain.SolveRequest, extra string) (map[string]domain.LockedPackage, error) {
	args := []string{"export", "--format", "requirements.txt", "--without-hashes"}
	if groups := req.Groups.Extra(); len(groups) > 0 {
		args = append(args, "--with", strings.Join(groups, ","))
	}
	if extra != "" {
		args = append(args, "--extras", extra)
	}

	poetry := req.Settings.Poetry
	if poetry == "" {
		poetry = domain.DefaultSettings().Poetry
	}
	out, err := s.runner.Run(ctx, domain.Command{Name: poetry, Args: args, Dir: req.ProjectDir})
	if err != nil {
		return nil, errors.Join(domain.ErrResolutionFailed, zerr.Wrap(err, "poetry export failed"))
	}
	return parseExport(out, req)
}

// parseExport reads requirements.txt lines of the form `name==version ; markers` or
// `name @ url ; markers`, keeping those whose markers hold.
func parseExport(out []byte, req domain.SolveRequest) (map[string]domain.LockedPackage, error) {
	locked := make(map[string]domain.LockedPackage)
	for _, p := range req.Universe.All() {
		locked[p.Key()] = p
		if p.IsDirect() {
			locked[p.CanonicalName()+"@"] = p
		}
	}
	env := req.Environment.MarkerEnvironment()

	result := make(map[string]domain.LockedPackage)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		line = strings.TrimSuffix(line, "\\")

		r, err := domain.ParseRequiresDist(strings.TrimSpace(line))
		if err != nil {
			return nil, errors.Join(domain.ErrResolutionFailed, zerr.With(zerr.Wrap(err, "unreadable export line"), "line", line))
		}
		if r.Markers != "" {
			m, err := domain.ParseMarker(r.Markers)
			if err == nil && !m.Evaluate(env) {
				continue
			}
		}

		key := r.CanonicalName()
		if r.Direct != nil {
			if p, ok := locked[key+"@"]; ok {
				result[key] = p
				continue
			}
			result[key] = domain.LockedPackage{
				Name:   r.Name,
				Source: &domain.PackageSource{Type: "url", URL: r.Direct.URL},
			}
			continue
		}
		v, ok := r.Constraint.Exact()
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrResolutionFailed, "poetry export produced an unpinned requirement"), "line", line)
		}
		if p, ok := locked[key+"=="+v.String()]; ok {
			result[key] = p
			continue
		}
		result[key] = domain.LockedPackage{Name: r.Name, Version: v.String()}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read poetry export output")
	}
	return result, nil
}

// projectExtras lists the project extras named by optional requirements.
func projectExtras(reqs []domain.Requirement) []string {
	var extras []string
	for _, r := range reqs {
		for _, x := range r.InExtras {
			if !slices.Contains(extras, x) {
				extras = append(extras, x)
			}
		}
	}
	slices.Sort(extras)
	return extras
}
