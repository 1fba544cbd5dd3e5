// Package wheel reads and rewrites wheel archives.
package wheel

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/zerr"
)

// Reader implements ports.WheelReader.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read opens the wheel at p and returns its metadata and file listing.
func (r *Reader) Read(p string) (*domain.WheelContents, error) {
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return nil, zerr.With(zerr.Wrap(domain.ErrWheelNotFound, "not a regular file"), "path", p)
	}

	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, readFailed(err, p)
	}
	defer func() { _ = zr.Close() }()

	contents := &domain.WheelContents{Path: p}
	var metaFile *zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		contents.Files = append(contents.Files, f.Name)
		if metaFile == nil && isDistInfoFile(f.Name, "METADATA") {
			metaFile = f
		}
	}
	if metaFile == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrWheelMetadataMissing, "no root-level .dist-info/METADATA"), "path", p)
	}

	data, err := readEntry(metaFile)
	if err != nil {
		return nil, readFailed(err, p)
	}
	meta := parseMetadata(string(data))

	contents.DistInfoDir = path.Dir(metaFile.Name)
	contents.Name = meta.get("Name")
	contents.Version = meta.get("Version")
	contents.RequiresDist = meta.all("Requires-Dist")
	contents.ProvidesExtra = meta.all("Provides-Extra")
	return contents, nil
}

// isDistInfoFile reports whether name is "<x>.dist-info/<file>" at the archive root.
func isDistInfoFile(name, file string) bool {
	dir, base := path.Split(name)
	dir = strings.TrimSuffix(dir, "/")
	return base == file && strings.HasSuffix(dir, ".dist-info") && !strings.Contains(dir, "/")
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
