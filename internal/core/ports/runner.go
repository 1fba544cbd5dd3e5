package ports

import (
	"context"

	"go.trai.ch/blix/internal/core/domain"
)

// CommandRunner runs external programs.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes cmd and returns its standard output. Standard error is forwarded to the
	// logger. A non-zero exit status is an error.
	Run(ctx context.Context, cmd domain.Command) ([]byte, error)
}
