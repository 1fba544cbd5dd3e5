package ports

import (
	"context"

	"go.trai.ch/blix/internal/core/domain"
)

// ContainerInspector lists packages installed in a running container.
//
//go:generate go run go.uber.org/mock/mockgen -source=container.go -destination=mocks/mock_container.go -package=mocks
type ContainerInspector interface {
	// InstalledPackages returns installed distributions keyed by canonical name.
	InstalledPackages(ctx context.Context, containerID string, settings domain.ContainerSettings) (map[string]string, error)
}
