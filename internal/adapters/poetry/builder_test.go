package poetry_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blix/internal/adapters/poetry"
	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeWheel(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0o600))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestBuilder_UsesReportedWheel(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "dist")
	now := time.Now()
	want := writeWheel(t, dist, "blixexample-0.1.0-py3-none-any.whl", now.Add(-time.Hour))
	writeWheel(t, dist, "other-9.9-py3-none-any.whl", now)

	ctrl := gomock.NewController(t)
	mockRunner := mocks.NewMockCommandRunner(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	mockRunner.EXPECT().Run(gomock.Any(), domain.Command{
		Name: "poetry",
		Args: []string{"build", "--format", "wheel"},
		Dir:  root,
	}).Return([]byte("Building blixexample (0.1.0)\n  - Building wheel\n  - Built blixexample-0.1.0-py3-none-any.whl\n"), nil)

	got, err := poetry.NewBuilder(mockRunner, mockLogger).Build(context.Background(), root, domain.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBuilder_FallsBackToNewestWheel(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "out")
	now := time.Now()
	writeWheel(t, dist, "blixexample-0.0.9-py3-none-any.whl", now.Add(-time.Hour))
	want := writeWheel(t, dist, "blixexample-0.1.0-py3-none-any.whl", now)

	ctrl := gomock.NewController(t)
	mockRunner := mocks.NewMockCommandRunner(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, nil)

	settings := domain.DefaultSettings()
	settings.Dist = "out"
	got, err := poetry.NewBuilder(mockRunner, mockLogger).Build(context.Background(), root, settings)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("poetry fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRunner := mocks.NewMockCommandRunner(ctrl)
		mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, errors.New("exit status 1"))

		_, err := poetry.NewBuilder(mockRunner, mocks.NewMockLogger(ctrl)).
			Build(context.Background(), t.TempDir(), domain.DefaultSettings())
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrWheelBuildFailed.Error())
	})

	t.Run("no wheel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRunner := mocks.NewMockCommandRunner(ctrl)
		mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).Return([]byte("Building sdist"), nil)

		_, err := poetry.NewBuilder(mockRunner, mocks.NewMockLogger(ctrl)).
			Build(context.Background(), t.TempDir(), domain.DefaultSettings())
		require.Error(t, err)
		assert.ErrorContains(t, err, "poetry build produced no wheel")
	})
}
