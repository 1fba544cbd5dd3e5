// Package app implements the application layer for blix.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/blix/internal/engine/reconcile"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	settings   ports.SettingsLoader
	projects   ports.ProjectLoader
	locker     ports.Locker
	resolver   *reconcile.Resolver
	builder    ports.WheelBuilder
	reader     ports.WheelReader
	writer     ports.WheelWriter
	verifier   ports.SourceVerifier
	hasher     ports.Hasher
	store      ports.BuildRecordStore
	containers ports.ContainerInspector
	logger     ports.Logger
	out        io.Writer
	now        func() time.Time
}

// Deps lists the collaborators of App.
type Deps struct {
	Settings   ports.SettingsLoader
	Projects   ports.ProjectLoader
	Locker     ports.Locker
	Resolver   *reconcile.Resolver
	Builder    ports.WheelBuilder
	Reader     ports.WheelReader
	Writer     ports.WheelWriter
	Verifier   ports.SourceVerifier
	Hasher     ports.Hasher
	Store      ports.BuildRecordStore
	Containers ports.ContainerInspector
	Logger     ports.Logger
}

// New creates a new App instance writing progress lines to stdout.
func New(d Deps) *App {
	return &App{
		settings:   d.Settings,
		projects:   d.Projects,
		locker:     d.Locker,
		resolver:   d.Resolver,
		builder:    d.Builder,
		reader:     d.Reader,
		writer:     d.Writer,
		verifier:   d.Verifier,
		hasher:     d.Hasher,
		store:      d.Store,
		containers: d.Containers,
		logger:     d.Logger,
		out:        os.Stdout,
		now:        time.Now,
	}
}

// WithOutput redirects progress lines.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithClock replaces the clock used for build records.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// SetLogging switches the logger between plain and JSON output and toggles debug logs.
func (a *App) SetLogging(verbose, json bool) {
	if l, ok := a.logger.(interface {
		SetVerbose(bool)
		SetJSON(bool)
	}); ok {
		l.SetVerbose(verbose)
		l.SetJSON(json)
	}
}

// LockOptions select how poetry.lock pins are applied.
type LockOptions struct {
	NoLock     bool
	OnlyLock   bool
	WithGroups []string
}

// BuildOptions configure Build.
type BuildOptions struct {
	LockOptions
	// Dir is the project directory.
	Dir string
	// Wheel is an existing base wheel; empty means run poetry build.
	Wheel string
}

// ValidateOptions configure ValidateWheel.
type ValidateOptions struct {
	LockOptions
	Dir string
}

// ContainerOptions configure ValidateContainer.
type ContainerOptions struct {
	Dir string
}

// project is everything loaded from a project directory.
type project struct {
	root     string
	settings domain.Settings
	manifest *domain.Manifest
}

func (a *App) line(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format+"\n", args...)
}

func (a *App) loadProject(dir string) (*project, error) {
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve project directory"), "dir", dir)
	}

	settings, err := a.settings.Load(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load settings")
	}
	manifest, err := a.projects.Load(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load project")
	}
	return &project{root: root, settings: settings, manifest: manifest}, nil
}

// resolve runs the lock resolution for the active groups.
func (a *App) resolve(ctx context.Context, p *project, groups domain.GroupSet) ([]domain.ResolvedOperation, error) {
	lock, err := a.locker.Load(p.root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load lock file")
	}
	return a.resolver.Resolve(ctx, p.settings, p.manifest, lock, groups)
}

func (a *App) statePath(p *project) string {
	state := p.settings.State
	if state == "" {
		state = domain.DefaultSettings().State
	}
	return filepath.Join(p.root, state)
}

// Build produces the project wheel with lock-pinned requirements and data files.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	mode, err := domain.LockModeFromFlags(opts.NoLock, opts.OnlyLock)
	if err != nil {
		return err
	}

	p, err := a.loadProject(opts.Dir)
	if err != nil {
		return err
	}
	m := p.manifest
	a.line("Building %s (%s)", m.Name, m.Version)

	groups, err := m.SelectGroups(opts.WithGroups)
	if err != nil {
		return err
	}

	if m.HasDataSection {
		a.line("Adding data_files=%s", describeMappings(m.DataFiles))
	} else {
		a.line("[tool.blix.data] section not found in %s, no data_files to process", m.Path)
	}
	planned, err := reconcile.PlanDataFiles(p.root, domain.DataDirName(m.Name, m.Version), m.DataFiles)
	if err != nil {
		return err
	}
	if err := a.verifier.VerifySources(reconcile.Sources(planned)); err != nil {
		return err
	}

	declared := m.Requires()
	var ops []domain.ResolvedOperation
	if mode == domain.LockModeNone {
		a.logger.Info("Excluding lock dependencies from wheel as --no-lock was specified")
	} else {
		a.logger.Info("Adding dependencies from lock file to wheel build")
		ops, err = a.resolve(ctx, p, groups)
		if err != nil {
			return err
		}
	}
	reqs := reconcile.Reconcile(declared, ops, mode)

	base := opts.Wheel
	if base == "" {
		base, err = a.builder.Build(ctx, p.root, p.settings)
		if err != nil {
			return err
		}
	}

	contents, err := a.reader.Read(base)
	if err != nil {
		return err
	}
	placements, err := reconcile.PlanDataFiles(p.root, contents.DataDir(), m.DataFiles)
	if err != nil {
		return err
	}

	a.logger.Info("Adding resolved dependencies to wheel METADATA")
	if err := a.writer.Write(ctx, domain.WheelPatch{
		Source:        base,
		Target:        base,
		RequiresDist:  reconcile.RequiresDist(reqs),
		ProvidesExtra: reconcile.ProvidesExtra(reqs, m.Extras),
		DataFiles:     placements,
	}); err != nil {
		return err
	}

	a.record(p, base, mode, groups)
	a.line("Built %s", filepath.Base(base))
	return nil
}

// record remembers how the wheel was built. Failures only warn; the wheel is complete.
func (a *App) record(p *project, wheel string, mode domain.LockMode, groups domain.GroupSet) {
	digest, err := a.hasher.HashFile(wheel)
	if err == nil {
		err = a.store.Put(a.statePath(p), domain.BuildRecord{
			Wheel:   filepath.Base(wheel),
			Digest:  digest,
			Mode:    mode.String(),
			Groups:  groups.Extra(),
			BuiltAt: a.now().UTC(),
		})
	}
	if err != nil {
		a.logger.Warn("Could not store build record: " + err.Error())
	}
}

// ValidateWheel checks a built wheel against the project's manifest, lock file and data files.
func (a *App) ValidateWheel(ctx context.Context, path string, opts ValidateOptions) error {
	mode, err := domain.LockModeFromFlags(opts.NoLock, opts.OnlyLock)
	if err != nil {
		return err
	}
	if info, statErr := os.Stat(path); statErr != nil || !info.Mode().IsRegular() {
		msg := fmt.Sprintf("Path [%s] does not point to a valid file", path)
		return zerr.With(zerr.Wrap(domain.ErrWheelNotFound, msg), "path", path)
	}

	p, err := a.loadProject(opts.Dir)
	if err != nil {
		return err
	}
	groups, err := p.manifest.SelectGroups(opts.WithGroups)
	if err != nil {
		return err
	}

	a.line("Validating Requires Dist for wheel [%s] against pyproject.toml/poetry.lock", path)
	contents, err := a.reader.Read(path)
	if err != nil {
		return err
	}
	a.logger.Debug("Wheel Requires Dist: " + reconcile.PyList(contents.RequiresDist))

	a.line("Validating against pyproject.toml...")
	var ops []domain.ResolvedOperation
	if mode == domain.LockModeNone {
		a.line("Skipping poetry.lock validation as --no-lock was specified")
	} else {
		a.line("Validating against poetry.lock...")
		ops, err = a.resolve(ctx, p, groups)
		if err != nil {
			return err
		}
	}

	report, err := reconcile.CompareRequires(contents.RequiresDist, p.manifest.Requires(), ops, mode)
	if err != nil {
		return err
	}

	a.line("Validating data_files in wheel file contain those specified in pyproject.toml")
	if !p.manifest.HasDataSection {
		a.line("[tool.blix.data] section not found in %s", p.manifest.Path)
	}
	placements, err := reconcile.PlanDataFiles(p.root, contents.DataDir(), p.manifest.DataFiles)
	if err != nil {
		return err
	}
	a.logger.Debug("Wheel data files: " + reconcile.PyList(contents.DataFiles()))
	data := reconcile.CompareDataFiles(path, contents.DataFiles(), reconcile.Targets(placements))

	a.checkRecord(p, path, mode, groups)

	if err := reconcile.Failure(domain.ErrWheelValidationFailed, append(report.Errors(), data.Errors()...)...); err != nil {
		return err
	}
	a.line("Validation succeeded!")
	return nil
}

// checkRecord warns when the wheel was built by this tool with different options.
func (a *App) checkRecord(p *project, path string, mode domain.LockMode, groups domain.GroupSet) {
	digest, err := a.hasher.HashFile(path)
	if err != nil {
		a.logger.Debug("Could not hash wheel: " + err.Error())
		return
	}
	rec, err := a.store.Get(a.statePath(p), digest)
	if err != nil {
		a.logger.Debug("Could not read build records: " + err.Error())
		return
	}
	if rec == nil {
		a.logger.Debug("No build record for " + filepath.Base(path))
		return
	}

	built := describeBuild(rec.Mode, rec.Groups)
	validating := describeBuild(mode.String(), groups.Extra())
	if built != validating {
		a.logger.Warn(fmt.Sprintf("Wheel was built with %s but is validated with %s", built, validating))
	}
}

func describeBuild(mode string, groups []string) string {
	groups = slices.Clone(groups)
	slices.Sort(groups)
	s := "--" + mode
	if mode == domain.LockModeMerge.String() {
		s = "the lock file"
	}
	if len(groups) > 0 {
		s += " and groups " + strings.Join(groups, ",")
	}
	return s
}

// ValidateContainer checks the packages installed in a running container against the
// project's main dependencies and lock file.
func (a *App) ValidateContainer(ctx context.Context, containerID string, opts ContainerOptions) error {
	p, err := a.loadProject(opts.Dir)
	if err != nil {
		return err
	}
	a.line("Fetching 'pip freeze' from docker image %s and validating against pyproject.toml/poetry.lock", containerID)

	var (
		installed map[string]string
		ops       []domain.ResolvedOperation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		installed, err = a.containers.InstalledPackages(gctx, containerID, p.settings.Container)
		return err
	})
	g.Go(func() error {
		var err error
		ops, err = a.resolve(gctx, p, domain.GroupSet{domain.MainGroup})
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	errs := reconcile.CompareInstalled(containerID, installed, p.manifest.Requires(), ops)
	if err := reconcile.Failure(domain.ErrContainerValidationFailed, errs...); err != nil {
		return err
	}
	a.line("Validation success!  Docker image %s has consistent versions with dependencies specified in this project", containerID)
	return nil
}

// describeMappings renders data_files the way they are declared.
func describeMappings(mappings []domain.DataFileMapping) string {
	parts := make([]string, 0, len(mappings))
	for _, m := range mappings {
		parts = append(parts, fmt.Sprintf("{'destination': '%s', 'from': %s}", m.Destination, reconcile.PyList(m.Sources)))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
