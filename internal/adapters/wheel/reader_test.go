package wheel_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blix/internal/adapters/wheel"
	"go.trai.ch/blix/internal/core/domain"
)

func TestReader_Read(t *testing.T) {
	path := writeWheel(t, t.TempDir())

	w, err := wheel.NewReader().Read(path)
	require.NoError(t, err)

	assert.Equal(t, path, w.Path)
	assert.Equal(t, "blixexample", w.Name)
	assert.Equal(t, "0.1.0", w.Version)
	assert.Equal(t, "blixexample-0.1.0.dist-info", w.DistInfoDir)
	assert.Equal(t, []string{"aws"}, w.ProvidesExtra)
	assert.Equal(t, []string{
		`boto3 (>=1.20,<2.0) ; extra == "aws"`,
		"nemoize (>=0.1.0,<0.2.0)",
		"pandas (>=1.3,<2.0)",
	}, w.RequiresDist)
	assert.Len(t, w.Files, 4)
}

func TestReader_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		_, err := wheel.NewReader().Read(filepath.Join(dir, "nope.whl"))
		assert.ErrorContains(t, err, domain.ErrWheelNotFound.Error())
	})

	t.Run("directory", func(t *testing.T) {
		_, err := wheel.NewReader().Read(dir)
		assert.ErrorContains(t, err, domain.ErrWheelNotFound.Error())
	})

	t.Run("no metadata", func(t *testing.T) {
		path := filepath.Join(dir, "bare.whl")
		writeZip(t, path, []entry{{name: "bare/__init__.py", body: ""}})
		_, err := wheel.NewReader().Read(path)
		assert.ErrorContains(t, err, domain.ErrWheelMetadataMissing.Error())
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(dir, "broken.whl")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o600))
		_, err := wheel.NewReader().Read(path)
		require.ErrorIs(t, err, domain.ErrWheelReadFailed)
	})

	t.Run("nested metadata is ignored", func(t *testing.T) {
		path := filepath.Join(dir, "nested.whl")
		writeZip(t, path, []entry{{name: "vendor/dep-1.0.dist-info/METADATA", body: "Name: dep\n"}})
		_, err := wheel.NewReader().Read(path)
		assert.ErrorContains(t, err, domain.ErrWheelMetadataMissing.Error())
	})
}
