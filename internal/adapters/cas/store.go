// Package cas stores build records keyed by wheel content digest.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildRecordStore = (*Store)(nil)

// Store implements ports.BuildRecordStore using flat JSON state files.
type Store struct {
	mu    sync.Mutex
	files map[string]map[string]domain.BuildRecord
}

// NewStore creates a new Store. State files are read on first use.
func NewStore() *Store {
	return &Store{
		files: make(map[string]map[string]domain.BuildRecord),
	}
}

// records returns the cached records of path, loading them if needed.
// The caller must hold s.mu for writing.
func (s *Store) records(path string) (map[string]domain.BuildRecord, error) {
	if cache, ok := s.files[path]; ok {
		return cache, nil
	}

	cache := make(map[string]domain.BuildRecord)
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	case len(data) > 0:
		if err := json.Unmarshal(data, &cache); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
		}
	}
	s.files[path] = cache
	return cache, nil
}

func (s *Store) save(path string, cache map[string]domain.BuildRecord) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build records")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}

// Get retrieves the record for a wheel digest.
func (s *Store) Get(stateFile, digest string) (*domain.BuildRecord, error) {
	path := filepath.Clean(stateFile)

	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.records(path)
	if err != nil {
		return nil, err
	}
	record, ok := cache[digest]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put stores the record under its digest and writes the state file.
func (s *Store) Put(stateFile string, record domain.BuildRecord) error {
	path := filepath.Clean(stateFile)

	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.records(path)
	if err != nil {
		return err
	}
	cache[record.Digest] = record
	return s.save(path, cache)
}
