package ports

import "go.trai.ch/blix/internal/core/domain"

// BuildRecordStore defines the interface for storing and retrieving build records.
// Records live in a state file chosen per project.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildRecordStore interface {
	// Get retrieves the record for a wheel digest from stateFile.
	// Returns nil, nil if not found.
	Get(stateFile, digest string) (*domain.BuildRecord, error)

	// Put stores the record in stateFile.
	Put(stateFile string, record domain.BuildRecord) error
}
