package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blix/internal/adapters/fs"
	"go.trai.ch/blix/internal/core/domain"
)

func TestVerifier_VerifySources(t *testing.T) {
	tmpDir := t.TempDir()
	verifier := fs.NewVerifier()

	file := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o600))
	dir := filepath.Join(tmpDir, "share")
	require.NoError(t, os.Mkdir(dir, 0o750))
	missing := filepath.Join(tmpDir, "missing.txt")

	tests := []struct {
		name    string
		paths   []string
		wantErr string
		kind    error
	}{
		{name: "all files", paths: []string{file, file}},
		{name: "nothing to check"},
		{name: "missing", paths: []string{file, missing}, wantErr: missing + " in data_files is not found.", kind: domain.ErrDataFileNotFound},
		{name: "directory", paths: []string{dir}, wantErr: dir + " in data_files is not a file.", kind: domain.ErrDataFileNotRegular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifier.VerifySources(tt.paths)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}
