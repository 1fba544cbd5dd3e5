package container_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blix/internal/adapters/container"
	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const freeze = `boto3==1.26.0
nemoize==0.1.0
Python-DateUtil==2.8.2
tool @ git+https://github.com/org/tool.git@0f1e2d
-e git+https://github.com/org/dev.git#egg=dev
legacy===1.0-custom
`

func TestParseFreeze(t *testing.T) {
	assert.Equal(t, map[string]string{
		"boto3":           "1.26.0",
		"nemoize":         "0.1.0",
		"python-dateutil": "2.8.2",
		"legacy":          "1.0-custom",
	}, container.ParseFreeze([]byte(freeze)))
}

func TestInspector_InstalledPackages(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.ContainerSettings
		setup    func(r *mocks.MockCommandRunner)
		engine   string
	}{
		{
			name:     "configured engine",
			settings: domain.ContainerSettings{Engine: "podman", Python: "python3.11"},
			engine:   "podman",
			setup:    func(*mocks.MockCommandRunner) {},
		},
		{
			name:     "auto detects docker",
			settings: domain.ContainerSettings{Engine: "auto"},
			engine:   "docker",
			setup: func(r *mocks.MockCommandRunner) {
				r.EXPECT().Run(gomock.Any(), domain.Command{Name: "docker", Args: []string{"version"}}).Return(nil, nil)
			},
		},
		{
			name:     "auto falls back to podman",
			settings: domain.ContainerSettings{},
			engine:   "podman",
			setup: func(r *mocks.MockCommandRunner) {
				r.EXPECT().Run(gomock.Any(), domain.Command{Name: "docker", Args: []string{"version"}}).
					Return(nil, errors.New("executable file not found"))
				r.EXPECT().Run(gomock.Any(), domain.Command{Name: "podman", Args: []string{"version"}}).Return(nil, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockRunner := mocks.NewMockCommandRunner(ctrl)
			mockLogger := mocks.NewMockLogger(ctrl)
			mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

			python := tt.settings.Python
			if python == "" {
				python = "python3"
			}
			tt.setup(mockRunner)
			mockRunner.EXPECT().Run(gomock.Any(), domain.Command{
				Name: tt.engine,
				Args: []string{"exec", "abc123", python, "-m", "pip", "freeze"},
			}).Return([]byte(freeze), nil)

			got, err := container.NewInspector(mockRunner, mockLogger).
				InstalledPackages(context.Background(), "abc123", tt.settings)
			require.NoError(t, err)
			assert.Equal(t, "2.8.2", got["python-dateutil"])
		})
	}
}

func TestInspector_Errors(t *testing.T) {
	t.Run("no engine", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRunner := mocks.NewMockCommandRunner(ctrl)
		mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, errors.New("not found")).Times(2)

		_, err := container.NewInspector(mockRunner, mocks.NewMockLogger(ctrl)).
			InstalledPackages(context.Background(), "abc123", domain.ContainerSettings{Engine: "auto"})
		require.ErrorIs(t, err, domain.ErrContainerEngineNotFound)
	})

	t.Run("unknown engine", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		_, err := container.NewInspector(mocks.NewMockCommandRunner(ctrl), mocks.NewMockLogger(ctrl)).
			InstalledPackages(context.Background(), "abc123", domain.ContainerSettings{Engine: "lxc"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidSettings)
	})

	t.Run("exec fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRunner := mocks.NewMockCommandRunner(ctrl)
		mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, errors.New("No such container: abc123"))

		_, err := container.NewInspector(mockRunner, mocks.NewMockLogger(ctrl)).
			InstalledPackages(context.Background(), "abc123", domain.ContainerSettings{Engine: "docker"})
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to list container packages")
		assert.ErrorContains(t, err, "No such container")
	})
}
