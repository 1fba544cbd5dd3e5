package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blix/internal/app"
	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports/mocks"
	"go.trai.ch/blix/internal/engine/reconcile"
	"go.uber.org/mock/gomock"
)

const wheelName = "blixexample-0.1.0-py3-none-any.whl"

type harness struct {
	t          *testing.T
	app        *app.App
	out        *bytes.Buffer
	root       string
	settings   *mocks.MockSettingsLoader
	projects   *mocks.MockProjectLoader
	locker     *mocks.MockLocker
	solver     *mocks.MockSolver
	inspector  *mocks.MockEnvironmentInspector
	builder    *mocks.MockWheelBuilder
	reader     *mocks.MockWheelReader
	writer     *mocks.MockWheelWriter
	verifier   *mocks.MockSourceVerifier
	hasher     *mocks.MockHasher
	store      *mocks.MockBuildRecordStore
	containers *mocks.MockContainerInspector
	logger     *mocks.MockLogger
}

var builtAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		t:          t,
		out:        &bytes.Buffer{},
		root:       t.TempDir(),
		settings:   mocks.NewMockSettingsLoader(ctrl),
		projects:   mocks.NewMockProjectLoader(ctrl),
		locker:     mocks.NewMockLocker(ctrl),
		solver:     mocks.NewMockSolver(ctrl),
		inspector:  mocks.NewMockEnvironmentInspector(ctrl),
		builder:    mocks.NewMockWheelBuilder(ctrl),
		reader:     mocks.NewMockWheelReader(ctrl),
		writer:     mocks.NewMockWheelWriter(ctrl),
		verifier:   mocks.NewMockSourceVerifier(ctrl),
		hasher:     mocks.NewMockHasher(ctrl),
		store:      mocks.NewMockBuildRecordStore(ctrl),
		containers: mocks.NewMockContainerInspector(ctrl),
		logger:     mocks.NewMockLogger(ctrl),
	}
	h.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	h.app = app.New(app.Deps{
		Settings:   h.settings,
		Projects:   h.projects,
		Locker:     h.locker,
		Resolver:   reconcile.NewResolver(h.solver, h.inspector, h.logger),
		Builder:    h.builder,
		Reader:     h.reader,
		Writer:     h.writer,
		Verifier:   h.verifier,
		Hasher:     h.hasher,
		Store:      h.store,
		Containers: h.containers,
		Logger:     h.logger,
	}).WithOutput(h.out).WithClock(func() time.Time { return builtAt })
	return h
}

func (h *harness) manifest() *domain.Manifest {
	return &domain.Manifest{
		Path:    filepath.Join(h.root, "pyproject.toml"),
		Root:    h.root,
		Name:    "blixexample",
		Version: "0.1.0",
		Groups: []domain.DependencyGroup{
			{
				Name: domain.MainGroup,
				Dependencies: []domain.Requirement{
					{Name: "pandas", Constraint: domain.MustParseConstraint("^1.3")},
					{Name: "boto3", Constraint: domain.MustParseConstraint("^1.20"), Optional: true, InExtras: []string{"aws"}},
				},
			},
			{
				Name:         "dev",
				Dependencies: []domain.Requirement{{Name: "pytest", Constraint: domain.MustParseConstraint("^7.0")}},
			},
		},
		Extras:         map[string][]string{"aws": {"boto3"}},
		DataFiles:      []domain.DataFileMapping{{Destination: "share/data", Sources: []string{"data/test.txt"}}},
		HasDataSection: true,
	}
}

func (h *harness) expectProject() {
	h.settings.EXPECT().Load(h.root).Return(domain.DefaultSettings(), nil)
	h.projects.EXPECT().Load(h.root).Return(h.manifest(), nil)
}

func (h *harness) expectResolve(groups domain.GroupSet) {
	lock := &domain.Lockfile{Version: "2.0"}
	h.locker.EXPECT().Load(h.root).Return(lock, nil)
	h.inspector.EXPECT().Inspect(gomock.Any(), "python3").
		Return(&domain.InstalledEnvironment{Markers: map[string]string{"python_version": "3.8"}}, nil)
	h.solver.EXPECT().Solve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.SolveRequest) ([]domain.ResolvedOperation, error) {
			assert.Equal(h.t, groups, req.Groups)
			return []domain.ResolvedOperation{
				{Package: domain.LockedPackage{Name: "boto3", Version: "1.26.0"}, InExtras: []string{"aws"}},
				{Package: domain.LockedPackage{Name: "numpy", Version: "1.21.6"}},
				{Package: domain.LockedPackage{Name: "pandas", Version: "1.3.5"}},
			}, nil
		})
}

func (h *harness) wheelPath(t *testing.T) string {
	t.Helper()
	p := filepath.Join(h.root, "dist", wheelName)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte("wheel"), 0o600))
	return p
}

func contents(path string, requires []string, files ...string) *domain.WheelContents {
	return &domain.WheelContents{
		Path:         path,
		Name:         "blixexample",
		Version:      "0.1.0",
		DistInfoDir:  "blixexample-0.1.0.dist-info",
		RequiresDist: requires,
		Files:        append([]string{"blixexample/__init__.py", "blixexample-0.1.0.dist-info/METADATA"}, files...),
	}
}

func TestApp_Build(t *testing.T) {
	h := newHarness(t)
	h.expectProject()
	h.expectResolve(domain.GroupSet{"main"})

	wheel := filepath.Join(h.root, "dist", wheelName)
	state := filepath.Join(h.root, ".blix", "state.json")
	h.verifier.EXPECT().VerifySources([]string{filepath.Join(h.root, "data", "test.txt")}).Return(nil)
	h.builder.EXPECT().Build(gomock.Any(), h.root, domain.DefaultSettings()).Return(wheel, nil)
	h.reader.EXPECT().Read(wheel).Return(contents(wheel, nil), nil)
	h.writer.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, patch domain.WheelPatch) error {
			assert.Equal(t, wheel, patch.Source)
			assert.Equal(t, wheel, patch.Target)
			assert.Equal(t, []string{
				`boto3 (>=1.20,<2.0) ; extra == "aws"`,
				"pandas (>=1.3,<2.0)",
				"numpy (==1.21.6)",
			}, patch.RequiresDist)
			assert.Equal(t, []string{"aws"}, patch.ProvidesExtra)
			assert.Equal(t, []string{"blixexample-0.1.0.data/data/share/data/test.txt"}, reconcile.Targets(patch.DataFiles))
			return nil
		})
	h.hasher.EXPECT().HashFile(wheel).Return("abc123", nil)
	h.store.EXPECT().Put(state, domain.BuildRecord{
		Wheel:   wheelName,
		Digest:  "abc123",
		Mode:    "lock",
		BuiltAt: builtAt,
	}).Return(nil)

	err := h.app.Build(context.Background(), app.BuildOptions{Dir: h.root})
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, "Building blixexample (0.1.0)")
	assert.Contains(t, out, "Adding data_files=[{'destination': 'share/data', 'from': ['data/test.txt']}]")
	assert.Contains(t, out, "Built "+wheelName)
}

func TestApp_Build_NoLockWithExistingWheel(t *testing.T) {
	h := newHarness(t)
	h.expectProject()

	wheel := h.wheelPath(t)
	h.verifier.EXPECT().VerifySources(gomock.Any()).Return(nil)
	h.reader.EXPECT().Read(wheel).Return(contents(wheel, nil), nil)
	h.writer.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, patch domain.WheelPatch) error {
			assert.Equal(t, []string{`boto3 (>=1.20,<2.0) ; extra == "aws"`, "pandas (>=1.3,<2.0)"}, patch.RequiresDist)
			return nil
		})
	h.hasher.EXPECT().HashFile(wheel).Return("abc123", nil)
	h.store.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ string, rec domain.BuildRecord) error {
			assert.Equal(t, "no-lock", rec.Mode)
			return nil
		})

	err := h.app.Build(context.Background(), app.BuildOptions{
		Dir:         h.root,
		Wheel:       wheel,
		LockOptions: app.LockOptions{NoLock: true},
	})
	require.NoError(t, err)
}

func TestApp_Build_IncompatibleLockOptions(t *testing.T) {
	h := newHarness(t)

	err := h.app.Build(context.Background(), app.BuildOptions{
		Dir:         h.root,
		LockOptions: app.LockOptions{NoLock: true, OnlyLock: true},
	})
	require.ErrorIs(t, err, domain.ErrIncompatibleLockOptions)
}

func TestApp_Build_UnknownGroup(t *testing.T) {
	h := newHarness(t)
	h.expectProject()

	err := h.app.Build(context.Background(), app.BuildOptions{
		Dir:         h.root,
		LockOptions: app.LockOptions{WithGroups: []string{"docs"}},
	})
	require.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestApp_Build_MissingDataFile(t *testing.T) {
	h := newHarness(t)
	h.expectProject()
	h.verifier.EXPECT().VerifySources(gomock.Any()).Return(domain.ErrDataFileNotFound)

	err := h.app.Build(context.Background(), app.BuildOptions{Dir: h.root})
	require.ErrorIs(t, err, domain.ErrDataFileNotFound)
}

func TestApp_Build_StoreFailureOnlyWarns(t *testing.T) {
	h := newHarness(t)
	h.expectProject()

	wheel := h.wheelPath(t)
	h.verifier.EXPECT().VerifySources(gomock.Any()).Return(nil)
	h.reader.EXPECT().Read(wheel).Return(contents(wheel, nil), nil)
	h.writer.EXPECT().Write(gomock.Any(), gomock.Any()).Return(nil)
	h.hasher.EXPECT().HashFile(wheel).Return("abc123", nil)
	h.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(domain.ErrStoreWriteFailed)
	h.logger.EXPECT().Warn(gomock.Any())

	err := h.app.Build(context.Background(), app.BuildOptions{
		Dir:         h.root,
		Wheel:       wheel,
		LockOptions: app.LockOptions{NoLock: true},
	})
	require.NoError(t, err)
}

func TestApp_ValidateWheel(t *testing.T) {
	h := newHarness(t)
	h.expectProject()
	h.expectResolve(domain.GroupSet{"main"})

	wheel := h.wheelPath(t)
	h.reader.EXPECT().Read(wheel).Return(contents(wheel, []string{
		"pandas (>=1.3,<2.0)",
		`boto3 (>=1.20,<2.0) ; extra == "aws"`,
		"numpy (==1.21.6)",
	}, "blixexample-0.1.0.data/data/share/data/test.txt"), nil)
	h.hasher.EXPECT().HashFile(wheel).Return("abc123", nil)
	h.store.EXPECT().Get(filepath.Join(h.root, ".blix", "state.json"), "abc123").
		Return(&domain.BuildRecord{Mode: "lock"}, nil)

	err := h.app.ValidateWheel(context.Background(), wheel, app.ValidateOptions{Dir: h.root})
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, "Validating Requires Dist for wheel ["+wheel+"] against pyproject.toml/poetry.lock")
	assert.Contains(t, out, "Validating against poetry.lock...")
	assert.Contains(t, out, "Validation succeeded!")
}

func TestApp_ValidateWheel_ReportsEveryMismatch(t *testing.T) {
	h := newHarness(t)
	h.expectProject()
	h.expectResolve(domain.GroupSet{"main"})

	wheel := h.wheelPath(t)
	h.reader.EXPECT().Read(wheel).Return(contents(wheel, []string{
		"pandas (>=1.4,<2.0)",
		"requests (>=2.0)",
	}, "blixexample-0.1.0.data/data/share/data/other.txt"), nil)
	h.hasher.EXPECT().HashFile(wheel).Return("abc123", nil)
	h.store.EXPECT().Get(gomock.Any(), "abc123").Return(nil, nil)

	err := h.app.ValidateWheel(context.Background(), wheel, app.ValidateOptions{Dir: h.root})
	require.ErrorIs(t, err, domain.ErrWheelValidationFailed)
	assert.ErrorContains(t, err, "compared to pyproject.toml Package(name=pandas")
	assert.ErrorContains(t, err, "Packages in pyproject.toml are not present in the Wheel file: ['boto3']")
	assert.ErrorContains(t, err, "Packages in poetry.lock are not present in the Wheel file: ['boto3', 'numpy']")
	assert.ErrorContains(t, err, "Packages in Wheel file are not present in pyproject.toml/poetry.lock: ['requests']")
	assert.ErrorContains(t, err, "other.txt")
	assert.NotContains(t, h.out.String(), "Validation succeeded!")
}

func TestApp_ValidateWheel_NoLock(t *testing.T) {
	h := newHarness(t)
	h.expectProject()

	wheel := h.wheelPath(t)
	h.reader.EXPECT().Read(wheel).Return(contents(wheel, []string{
		"pandas (>=1.3,<2.0)",
		`boto3 (>=1.20,<2.0) ; extra == "aws"`,
	}, "blixexample-0.1.0.data/data/share/data/test.txt"), nil)
	h.hasher.EXPECT().HashFile(wheel).Return("abc123", nil)
	h.store.EXPECT().Get(gomock.Any(), "abc123").Return(&domain.BuildRecord{Mode: "lock"}, nil)
	h.logger.EXPECT().Warn("Wheel was built with the lock file but is validated with --no-lock")

	err := h.app.ValidateWheel(context.Background(), wheel, app.ValidateOptions{
		Dir:         h.root,
		LockOptions: app.LockOptions{NoLock: true},
	})
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "Skipping poetry.lock validation as --no-lock was specified")
}

func TestApp_ValidateWheel_NotAFile(t *testing.T) {
	h := newHarness(t)

	err := h.app.ValidateWheel(context.Background(), h.root, app.ValidateOptions{Dir: h.root})
	require.ErrorIs(t, err, domain.ErrWheelNotFound)
	assert.ErrorContains(t, err, "Path ["+h.root+"] does not point to a valid file")
}

func TestApp_ValidateContainer(t *testing.T) {
	h := newHarness(t)
	h.expectProject()
	h.expectResolve(domain.GroupSet{"main"})
	h.containers.EXPECT().InstalledPackages(gomock.Any(), "abc", domain.DefaultSettings().Container).
		Return(map[string]string{"pandas": "1.3.5", "numpy": "1.21.6", "pip": "23.0"}, nil)

	err := h.app.ValidateContainer(context.Background(), "abc", app.ContainerOptions{Dir: h.root})
	require.NoError(t, err)
	assert.Contains(t, h.out.String(),
		"Validation success!  Docker image abc has consistent versions with dependencies specified in this project")
}

func TestApp_ValidateContainer_Inconsistent(t *testing.T) {
	h := newHarness(t)
	h.expectProject()
	h.expectResolve(domain.GroupSet{"main"})
	h.containers.EXPECT().InstalledPackages(gomock.Any(), "abc", gomock.Any()).
		Return(map[string]string{"pandas": "1.3.4", "numpy": "1.22.0"}, nil)

	err := h.app.ValidateContainer(context.Background(), "abc", app.ContainerOptions{Dir: h.root})
	require.ErrorIs(t, err, domain.ErrContainerValidationFailed)
	assert.ErrorContains(t, err, "poetry.lock specifies numpy==1.21.6, but docker container abc has numpy==1.22.0")
	assert.ErrorContains(t, err, "poetry.lock specifies pandas==1.3.5, but docker container abc has pandas==1.3.4")
}

func TestApp_ValidateContainer_InspectFailure(t *testing.T) {
	h := newHarness(t)
	h.expectProject()
	h.locker.EXPECT().Load(h.root).Return(&domain.Lockfile{}, nil).AnyTimes()
	h.inspector.EXPECT().Inspect(gomock.Any(), gomock.Any()).
		Return(&domain.InstalledEnvironment{Markers: map[string]string{}}, nil).AnyTimes()
	h.solver.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	h.containers.EXPECT().InstalledPackages(gomock.Any(), "abc", gomock.Any()).
		Return(nil, domain.ErrContainerEngineNotFound)

	err := h.app.ValidateContainer(context.Background(), "abc", app.ContainerOptions{Dir: h.root})
	require.ErrorIs(t, err, domain.ErrContainerEngineNotFound)
}
