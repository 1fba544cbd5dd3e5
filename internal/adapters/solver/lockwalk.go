package solver

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/zerr"
)

// LockSolver resolves requirements by walking the dependency edges recorded in the lock file.
//
// Every reachable edge is followed, with all project extras active. A package reached
// only through optional requirements keeps the project extras it was reached through.
// Among the locked candidates satisfying an edge the installed version is preferred,
// then the highest one.
type LockSolver struct{}

// NewLockSolver creates a new LockSolver.
func NewLockSolver() *LockSolver {
	return &LockSolver{}
}

type edge struct {
	parent     string
	name       string
	constraint domain.Constraint
	extras     []string
	// inExtras is nil for edges required unconditionally.
	inExtras []string
}

type selection struct {
	pkg           domain.LockedPackage
	constraint    domain.Constraint
	unconditional bool
	inExtras      []string
	requested     []string
}

type walk struct {
	env        *domain.InstalledEnvironment
	markerEnv  domain.MarkerEnvironment
	python     domain.Version
	hasPython  bool
	candidates map[string][]domain.LockedPackage
	selected   map[string]*selection
	// pinned fixes the version chosen for a package when it satisfies the edge.
	pinned map[string]domain.LockedPackage
	queue  []edge
}

func newWalk(req domain.SolveRequest, pinned map[string]domain.LockedPackage) *walk {
	w := &walk{
		env:        req.Environment,
		markerEnv:  req.Environment.MarkerEnvironment(),
		candidates: make(map[string][]domain.LockedPackage),
		selected:   make(map[string]*selection),
		pinned:     pinned,
	}
	for _, key := range []string{"python_full_version", "python_version"} {
		if v, ok := w.markerEnv.Values[key]; ok {
			if pv, err := domain.ParseVersion(v); err == nil {
				w.python, w.hasPython = pv, true
				break
			}
		}
	}
	for _, p := range req.Universe.All() {
		w.candidates[p.CanonicalName()] = append(w.candidates[p.CanonicalName()], p)
	}
	return w
}

// roots returns the edges from the project to its applicable requirements.
func (w *walk) roots(req domain.SolveRequest) []edge {
	project := req.ProjectName
	if project == "" {
		project = "the project"
	}
	var out []edge
	for _, r := range req.Requirements {
		if r.Optional && len(r.InExtras) == 0 {
			continue
		}
		if !w.holds(r.Markers, nil) {
			continue
		}
		e := edge{parent: project, name: r.Name, constraint: r.Constraint, extras: r.Extras}
		if r.Optional {
			e.inExtras = slices.Clone(r.InExtras)
		}
		if r.Direct != nil {
			e.constraint = domain.AnyConstraint()
		}
		out = append(out, e)
	}
	return out
}

func (w *walk) run(ctx context.Context, roots []edge) error {
	w.queue = append(w.queue, roots...)
	for len(w.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		e := w.queue[0]
		w.queue = w.queue[1:]
		if err := w.visit(e); err != nil {
			return err
		}
	}
	return nil
}

// Solve implements ports.Solver.
func (s *LockSolver) Solve(ctx context.Context, req domain.SolveRequest) ([]domain.ResolvedOperation, error) {
	first := newWalk(req, nil)
	roots := first.roots(req)
	if err := first.run(ctx, roots); err != nil {
		return nil, err
	}

	// A version replaced during the walk may have queued dependencies of its own.
	// Walking again with the final versions keeps only what they reach.
	final := make(map[string]domain.LockedPackage, len(first.selected))
	for key, sel := range first.selected {
		final[key] = sel.pkg
	}
	w := newWalk(req, final)
	if err := w.run(ctx, roots); err != nil {
		return nil, err
	}

	skip := domain.CanonicalName(req.ProjectName)
	ops := make([]domain.ResolvedOperation, 0, len(w.selected))
	for name, sel := range w.selected {
		if name == skip {
			continue
		}
		op := domain.ResolvedOperation{Package: sel.pkg}
		if !sel.unconditional {
			op.InExtras = sel.inExtras
		}
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Package.CanonicalName() < ops[j].Package.CanonicalName()
	})
	return ops, nil
}

func (w *walk) visit(e edge) error {
	key := domain.CanonicalName(e.name)
	sel, ok := w.selected[key]
	if !ok {
		pkg, err := w.choose(e, e.constraint)
		if err != nil {
			return err
		}
		sel = &selection{pkg: pkg, constraint: e.constraint}
		w.selected[key] = sel
		w.merge(sel, e)
		w.expand(sel)
		return nil
	}

	narrowed := sel.constraint.Intersect(e.constraint)
	changed := false
	if !w.satisfies(sel.pkg, narrowed) {
		pkg, err := w.choose(e, narrowed)
		if err != nil {
			return err
		}
		sel.pkg = pkg
		changed = true
	}
	sel.constraint = narrowed
	if w.merge(sel, e) {
		changed = true
	}
	if changed {
		w.expand(sel)
	}
	return nil
}

// merge folds the edge's reachability into sel and reports whether anything changed.
func (w *walk) merge(sel *selection, e edge) bool {
	changed := false
	if e.inExtras == nil && !sel.unconditional {
		sel.unconditional = true
		changed = true
	}
	for _, x := range e.inExtras {
		if !slices.Contains(sel.inExtras, x) {
			sel.inExtras = append(sel.inExtras, x)
			slices.Sort(sel.inExtras)
			changed = true
		}
	}
	for _, x := range e.extras {
		x = domain.CanonicalName(x)
		if !slices.Contains(sel.requested, x) {
			sel.requested = append(sel.requested, x)
			changed = true
		}
	}
	return changed
}

// expand queues the dependencies of the selected package.
func (w *walk) expand(sel *selection) {
	var inExtras []string
	if !sel.unconditional {
		inExtras = sel.inExtras
	}

	enabled := make(map[string]bool)
	for _, x := range sel.requested {
		for _, name := range sel.pkg.ExtraDependencyNames(x) {
			enabled[name] = true
		}
	}

	for _, dep := range sel.pkg.Dependencies {
		if dep.Optional && !enabled[dep.CanonicalName()] {
			continue
		}
		if !w.holds(dep.Markers, sel.requested) {
			continue
		}
		if dep.Python != "" && !w.pythonAllows(dep.Python) {
			continue
		}
		if dep.Platform != "" {
			if platform, ok := w.markerEnv.Values["sys_platform"]; ok && platform != dep.Platform {
				continue
			}
		}
		c, err := domain.ParseConstraint(dep.Constraint)
		if err != nil {
			c = domain.AnyConstraint()
		}
		w.queue = append(w.queue, edge{
			parent:     sel.pkg.Name,
			name:       dep.Name,
			constraint: c,
			extras:     dep.Extras,
			inExtras:   slices.Clone(inExtras),
		})
	}
}

// choose picks the candidate for e under constraint c.
func (w *walk) choose(e edge, c domain.Constraint) (domain.LockedPackage, error) {
	if p, ok := w.pinned[domain.CanonicalName(e.name)]; ok && w.satisfies(p, c) {
		return p, nil
	}
	var matching []domain.LockedPackage
	for _, p := range w.candidates[domain.CanonicalName(e.name)] {
		if !w.applicable(p) {
			continue
		}
		if w.satisfies(p, c) {
			matching = append(matching, p)
		}
	}
	if len(matching) == 0 {
		msg := fmt.Sprintf("Because %s depends on %s (%s) which doesn't match any versions in poetry.lock, version solving failed.",
			e.parent, e.name, c)
		return domain.LockedPackage{}, zerr.With(zerr.Wrap(domain.ErrResolutionFailed, msg), "package", e.name)
	}

	if installed, ok := w.env.InstalledVersion(e.name); ok {
		if iv, err := domain.ParseVersion(installed); err == nil {
			for _, p := range matching {
				if pv, err := domain.ParseVersion(p.Version); err == nil && pv.Equal(iv) {
					return p, nil
				}
			}
		}
	}

	best := matching[0]
	for _, p := range matching[1:] {
		if p.IsDirect() {
			continue
		}
		if best.IsDirect() || compareVersions(p.Version, best.Version) > 0 {
			best = p
		}
	}
	return best, nil
}

// applicable reports whether a lock entry may be installed in the environment.
func (w *walk) applicable(p domain.LockedPackage) bool {
	if p.Markers != "" && !w.holds(p.Markers, nil) {
		return false
	}
	if p.PythonVersions != "" && p.PythonVersions != "*" && !w.pythonAllows(p.PythonVersions) {
		return false
	}
	return true
}

func (w *walk) satisfies(p domain.LockedPackage, c domain.Constraint) bool {
	if p.IsDirect() || c.IsAny() {
		return true
	}
	v, err := domain.ParseVersion(p.Version)
	if err != nil {
		return false
	}
	return c.Contains(v)
}

// holds evaluates a marker expression; unparseable markers hold.
func (w *walk) holds(markers string, extras []string) bool {
	if strings.TrimSpace(markers) == "" {
		return true
	}
	m, err := domain.ParseMarker(markers)
	if err != nil {
		return true
	}
	return m.Evaluate(w.markerEnv.WithExtras(extras))
}

func (w *walk) pythonAllows(constraint string) bool {
	if !w.hasPython {
		return true
	}
	c, err := domain.ParseConstraint(constraint)
	if err != nil {
		return true
	}
	return c.Contains(w.python)
}

func compareVersions(a, b string) int {
	va, errA := domain.ParseVersion(a)
	vb, errB := domain.ParseVersion(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	default:
		return va.Compare(vb)
	}
}
