package wheel_test

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/base64"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const baseMetadata = `Metadata-Version: 2.1
Name: blixexample
Version: 0.1.0
Summary: example
Requires-Python: >=3.8,<4.0
Provides-Extra: aws
Requires-Dist: boto3 (>=1.20,<2.0) ; extra == "aws"
Requires-Dist: nemoize (>=0.1.0,<0.2.0)
Requires-Dist: pandas (>=1.3,<2.0)
Description-Content-Type: text/markdown

# blixexample
`

type entry struct {
	name string
	body string
}

func baseEntries() []entry {
	return []entry{
		{name: "blixexample/__init__.py", body: "__version__ = '0.1.0'\n"},
		{name: "blixexample-0.1.0.dist-info/METADATA", body: baseMetadata},
		{name: "blixexample-0.1.0.dist-info/WHEEL", body: "Wheel-Version: 1.0\nRoot-Is-Purelib: true\nTag: py3-none-any\n"},
		{name: "blixexample-0.1.0.dist-info/RECORD", body: "stale,,\n"},
	}
}

func writeZip(t *testing.T, path string, entries []entry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = io.WriteString(w, e.body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func writeWheel(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "blixexample-0.1.0-py3-none-any.whl")
	writeZip(t, path, baseEntries())
	return path
}

// readZip returns entry names in archive order and their contents.
func readZip(t *testing.T, path string) ([]string, map[string]string) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	var names []string
	contents := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		names = append(names, f.Name)
		contents[f.Name] = string(data)
	}
	return names, contents
}

// requireRecordMatches checks every RECORD row against the archive content.
func requireRecordMatches(t *testing.T, contents map[string]string, recordName string) {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(contents[recordName])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(contents))

	for _, row := range rows {
		require.Len(t, row, 3)
		body, ok := contents[row[0]]
		require.True(t, ok, "RECORD lists missing entry %s", row[0])
		if row[0] == recordName {
			require.Empty(t, row[1])
			require.Empty(t, row[2])
			continue
		}
		sum := sha256.Sum256([]byte(body))
		require.Equal(t, "sha256="+base64.RawURLEncoding.EncodeToString(sum[:]), row[1], row[0])
		require.Equal(t, strconv.Itoa(len(body)), row[2], row[0])
	}
}
