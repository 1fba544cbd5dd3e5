// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/blix/internal/core/domain"

// ProjectLoader reads the project manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=project.go -destination=mocks/mock_project.go -package=mocks
type ProjectLoader interface {
	// Load reads pyproject.toml from the given project directory.
	Load(root string) (*domain.Manifest, error)
}

// Locker reads the lock file of a project.
type Locker interface {
	// Load reads poetry.lock from the given project directory.
	Load(root string) (*domain.Lockfile, error)
}

// SettingsLoader reads tool settings.
type SettingsLoader interface {
	// Load reads .blix.yaml from the given project directory, falling back to defaults.
	Load(root string) (domain.Settings, error)
}
