// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/blix/internal/adapters/cas"
	_ "go.trai.ch/blix/internal/adapters/config"
	_ "go.trai.ch/blix/internal/adapters/container"
	_ "go.trai.ch/blix/internal/adapters/fs"
	_ "go.trai.ch/blix/internal/adapters/logger"
	_ "go.trai.ch/blix/internal/adapters/poetry"
	_ "go.trai.ch/blix/internal/adapters/pyenv"
	_ "go.trai.ch/blix/internal/adapters/pyproject"
	_ "go.trai.ch/blix/internal/adapters/shell"
	_ "go.trai.ch/blix/internal/adapters/solver"
	_ "go.trai.ch/blix/internal/adapters/wheel"
	// Register app and engine nodes.
	_ "go.trai.ch/blix/internal/app"
	_ "go.trai.ch/blix/internal/engine/reconcile"
)
