package wheel_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/blix/internal/adapters/wheel"
	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newWriter(t *testing.T) *wheel.Writer {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return wheel.NewWriter(mockLogger)
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	src := writeWheel(t, dir)
	data := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(data, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(data, "test.txt"), []byte("hello\n"), 0o600))

	patch := domain.WheelPatch{
		Source: src,
		Target: src,
		RequiresDist: []string{
			`boto3 (>=1.20,<2.0) ; extra == "aws"`,
			"nemoize (>=0.1.0,<0.2.0)",
			"numpy (==1.21.6)",
			"pandas (>=1.3,<2.0)",
		},
		ProvidesExtra: []string{"aws"},
		DataFiles: []domain.DataFilePlacement{{
			Source:    "data/test.txt",
			AbsSource: filepath.Join(data, "test.txt"),
			Target:    "blixexample-0.1.0.data/data/share/data/test.txt",
		}},
	}
	require.NoError(t, newWriter(t).Write(context.Background(), patch))

	names, contents := readZip(t, src)
	assert.Equal(t, []string{
		"blixexample/__init__.py",
		"blixexample-0.1.0.data/data/share/data/test.txt",
		"blixexample-0.1.0.dist-info/METADATA",
		"blixexample-0.1.0.dist-info/WHEEL",
		"blixexample-0.1.0.dist-info/RECORD",
	}, names)
	assert.Equal(t, "hello\n", contents["blixexample-0.1.0.data/data/share/data/test.txt"])

	meta := contents["blixexample-0.1.0.dist-info/METADATA"]
	assert.Contains(t, meta, "Requires-Dist: numpy (==1.21.6)\n")
	assert.Equal(t, 4, strings.Count(meta, "Requires-Dist:"))
	assert.Equal(t, 1, strings.Count(meta, "Provides-Extra: aws"))
	assert.True(t, strings.HasSuffix(meta, "\n# blixexample\n"))

	requireRecordMatches(t, contents, "blixexample-0.1.0.dist-info/RECORD")

	w, err := wheel.NewReader().Read(src)
	require.NoError(t, err)
	assert.Equal(t, patch.RequiresDist, w.RequiresDist)
	assert.Equal(t, []string{"blixexample-0.1.0.data/data/share/data/test.txt"}, w.DataFiles())
}

func TestWriter_SeparateTarget(t *testing.T) {
	dir := t.TempDir()
	src := writeWheel(t, dir)
	out := filepath.Join(t.TempDir(), "out.whl")

	require.NoError(t, newWriter(t).Write(context.Background(), domain.WheelPatch{
		Source:       src,
		Target:       out,
		RequiresDist: []string{"six (==1.16.0)"},
	}))

	_, original := readZip(t, src)
	assert.Equal(t, baseMetadata, original["blixexample-0.1.0.dist-info/METADATA"])

	w, err := wheel.NewReader().Read(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"six (==1.16.0)"}, w.RequiresDist)
	assert.Equal(t, []string{"aws"}, w.ProvidesExtra)
}

func TestWriter_FailureLeavesNoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeWheel(t, dir)
	before, err := os.ReadFile(src)
	require.NoError(t, err)

	err = newWriter(t).Write(context.Background(), domain.WheelPatch{
		Source: src,
		Target: src,
		DataFiles: []domain.DataFilePlacement{{
			Source:    "data/missing.txt",
			AbsSource: filepath.Join(dir, "data", "missing.txt"),
			Target:    "blixexample-0.1.0.data/data/missing.txt",
		}},
	})
	require.ErrorIs(t, err, domain.ErrWheelWriteFailed)

	after, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".blix-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWriter_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	src := writeWheel(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newWriter(t).Write(ctx, domain.WheelPatch{Source: src, Target: src})
	require.ErrorIs(t, err, context.Canceled)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".blix-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestReplaceMetadata(t *testing.T) {
	in := "Metadata-Version: 2.1\nName: x\nRequires-Dist: a\n  continued\nSummary: s\n"
	got := wheel.ReplaceMetadata(in, []string{"cli"}, []string{"b (==1.0)"})
	assert.Equal(t, "Metadata-Version: 2.1\nName: x\nProvides-Extra: cli\nRequires-Dist: b (==1.0)\nSummary: s\n", got)

	got = wheel.ReplaceMetadata("Name: x\nVersion: 1\n", nil, []string{"c"})
	assert.Equal(t, "Name: x\nVersion: 1\nRequires-Dist: c\n", got)
}

func TestRenderRecord(t *testing.T) {
	out, err := wheel.RenderRecord(
		[]string{"pkg/a,b.py"},
		[]string{"sha256=abc"},
		[]int64{3},
		"pkg-1.0.dist-info/RECORD",
	)
	require.NoError(t, err)
	assert.Equal(t, "\"pkg/a,b.py\",sha256=abc,3\npkg-1.0.dist-info/RECORD,,\n", string(out))
}

func TestWriter_KeepsSourceMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	tests := []struct {
		name     string
		mode     os.FileMode
		separate bool
	}{
		{name: "world readable in place", mode: 0o644},
		{name: "group readable in place", mode: 0o640},
		{name: "world readable to new target", mode: 0o644, separate: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeWheel(t, dir)
			require.NoError(t, os.Chmod(src, tt.mode))

			target := src
			if tt.separate {
				target = filepath.Join(dir, "out.whl")
			}
			err := newWriter(t).Write(context.Background(), domain.WheelPatch{Source: src, Target: target})
			require.NoError(t, err)

			info, err := os.Stat(target)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, info.Mode().Perm())
		})
	}
}

func TestWriter_UnreadableSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.whl")
	require.NoError(t, os.WriteFile(src, []byte("not a zip"), 0o600))

	err := newWriter(t).Write(context.Background(), domain.WheelPatch{Source: src, Target: src})
	require.ErrorIs(t, err, domain.ErrWheelReadFailed)
	assert.ErrorContains(t, err, "cannot open wheel")
}
