package ports

import (
	"context"

	"go.trai.ch/blix/internal/core/domain"
)

// WheelBuilder produces the base wheel of a project.
//
//go:generate go run go.uber.org/mock/mockgen -source=wheel.go -destination=mocks/mock_wheel.go -package=mocks
type WheelBuilder interface {
	// Build builds the project in root and returns the path of the wheel.
	Build(ctx context.Context, root string, settings domain.Settings) (string, error)
}

// WheelReader inspects wheel archives.
type WheelReader interface {
	// Read returns metadata and the file listing of the wheel at path.
	Read(path string) (*domain.WheelContents, error)
}

// WheelWriter rewrites wheel archives.
type WheelWriter interface {
	// Write applies patch; on failure no partial output is left at patch.Target.
	Write(ctx context.Context, patch domain.WheelPatch) error
}
