package pyproject

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/blix/internal/core/ports"
)

const (
	// ManifestNodeID is the unique identifier for the pyproject.toml loader Graft node.
	ManifestNodeID graft.ID = "adapter.manifest_loader"
	// LockNodeID is the unique identifier for the poetry.lock loader Graft node.
	LockNodeID graft.ID = "adapter.lock_loader"
)

func init() {
	graft.Register(graft.Node[ports.ProjectLoader]{
		ID:        ManifestNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectLoader, error) {
			return NewManifestLoader(NewOSFS()), nil
		},
	})

	graft.Register(graft.Node[ports.Locker]{
		ID:        LockNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Locker, error) {
			return NewLockLoader(NewOSFS()), nil
		},
	})
}
