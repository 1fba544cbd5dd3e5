// Package fs provides file system adapters for verifying and hashing files.
package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceVerifier = (*Verifier)(nil)

// Verifier checks that data_files sources are readable regular files.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifySources stops at the first path that is missing or not a regular file.
func (v *Verifier) VerifySources(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				msg := fmt.Sprintf("%s in data_files is not found.", path)
				return zerr.With(zerr.Wrap(domain.ErrDataFileNotFound, msg), "path", path)
			}
			return zerr.With(zerr.Wrap(err, "failed to stat data file"), "path", path)
		}
		if !info.Mode().IsRegular() {
			msg := fmt.Sprintf("%s in data_files is not a file.", path)
			return zerr.With(zerr.Wrap(domain.ErrDataFileNotRegular, msg), "path", path)
		}
	}
	return nil
}
