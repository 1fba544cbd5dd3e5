package wheel

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

// Writer implements ports.WheelWriter.
//
// The output is assembled in a temporary file next to the target and renamed over it
// once complete, so a failed write never leaves a partial wheel behind.
type Writer struct {
	logger ports.Logger
}

// NewWriter creates a new Writer.
func NewWriter(logger ports.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write rewrites METADATA, adds the data files and regenerates RECORD.
func (w *Writer) Write(ctx context.Context, patch domain.WheelPatch) (err error) {
	target := patch.Target
	if target == "" {
		target = patch.Source
	}

	info, err := os.Stat(patch.Source)
	if err != nil {
		return readFailed(err, patch.Source)
	}
	zr, err := zip.OpenReader(patch.Source)
	if err != nil {
		return readFailed(err, patch.Source)
	}
	defer func() { _ = zr.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(target), ".blix-*.whl.tmp")
	if err != nil {
		return writeFailed(err, target)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := w.assemble(ctx, zr, tmp, patch); err != nil {
		return writeFailed(err, target)
	}
	// CreateTemp makes the file owner-only; the rewritten wheel keeps the source's mode.
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return writeFailed(err, target)
	}
	if err := tmp.Close(); err != nil {
		return writeFailed(err, target)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return writeFailed(err, target)
	}
	committed = true

	w.logger.Debug("Wrote " + target)
	return nil
}

func readFailed(err error, p string) error {
	return errors.Join(domain.ErrWheelReadFailed, zerr.With(zerr.Wrap(err, "cannot open wheel"), "path", p))
}

func writeFailed(err error, p string) error {
	return errors.Join(domain.ErrWheelWriteFailed, zerr.With(zerr.Wrap(err, "cannot write wheel"), "path", p))
}

func (w *Writer) assemble(ctx context.Context, zr *zip.ReadCloser, out io.Writer, patch domain.WheelPatch) error {
	var metaFile *zip.File
	for _, f := range zr.File {
		if isDistInfoFile(f.Name, "METADATA") {
			metaFile = f
			break
		}
	}
	if metaFile == nil {
		return domain.ErrWheelMetadataMissing
	}
	distInfo := path.Dir(metaFile.Name)
	recordName := distInfo + "/RECORD"

	replaced := make(map[string]bool, len(patch.DataFiles))
	for _, p := range patch.DataFiles {
		replaced[p.Target] = true
	}

	zw := zip.NewWriter(out)
	var records []recordEntry
	dataWritten := false

	writeData := func() error {
		if dataWritten {
			return nil
		}
		dataWritten = true
		for _, p := range patch.DataFiles {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := w.addFile(zw, p)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	}

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.Name == recordName || replaced[f.Name] {
			continue
		}
		if strings.HasPrefix(f.Name, distInfo+"/") {
			// Data files go before the dist-info directory.
			if err := writeData(); err != nil {
				return err
			}
		}
		if strings.HasSuffix(f.Name, "/") {
			if err := zw.Copy(f); err != nil {
				return err
			}
			continue
		}

		if f == metaFile {
			rec, err := w.writeMetadata(zw, f, patch)
			if err != nil {
				return err
			}
			records = append(records, rec)
			continue
		}

		rec, err := copyEntry(zw, f)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := writeData(); err != nil {
		return err
	}

	record, err := renderRecord(records, recordName)
	if err != nil {
		return err
	}
	rw, err := zw.CreateHeader(&zip.FileHeader{Name: recordName, Method: zip.Deflate, Modified: metaFile.Modified})
	if err != nil {
		return err
	}
	if _, err := rw.Write(record); err != nil {
		return err
	}
	return zw.Close()
}

func (w *Writer) writeMetadata(zw *zip.Writer, f *zip.File, patch domain.WheelPatch) (recordEntry, error) {
	data, err := readEntry(f)
	if err != nil {
		return recordEntry{}, err
	}
	meta := parseMetadata(string(data)).replace(patch.ProvidesExtra, patch.RequiresDist)

	hdr := &zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified}
	hdr.SetMode(f.Mode())
	fw, err := zw.CreateHeader(hdr)
	if err != nil {
		return recordEntry{}, err
	}
	return digest(f.Name, io.TeeReader(strings.NewReader(meta.String()), fw))
}

// addFile stores one data file, keeping the source's permission bits.
func (w *Writer) addFile(zw *zip.Writer, p domain.DataFilePlacement) (recordEntry, error) {
	src, err := os.Open(p.AbsSource)
	if err != nil {
		return recordEntry{}, zerr.With(zerr.Wrap(err, "failed to open data file"), "path", p.Source)
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return recordEntry{}, zerr.With(zerr.Wrap(err, "failed to stat data file"), "path", p.Source)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return recordEntry{}, err
	}
	hdr.Name = p.Target
	hdr.Method = zip.Deflate
	fw, err := zw.CreateHeader(hdr)
	if err != nil {
		return recordEntry{}, err
	}
	w.logger.Debug("Adding " + p.Source + " as " + p.Target)
	return digest(p.Target, io.TeeReader(src, fw))
}

// copyEntry copies f without recompressing it and returns its RECORD row.
func copyEntry(zw *zip.Writer, f *zip.File) (recordEntry, error) {
	rc, err := f.Open()
	if err != nil {
		return recordEntry{}, err
	}
	rec, err := digest(f.Name, rc)
	_ = rc.Close()
	if err != nil {
		return recordEntry{}, err
	}
	if err := zw.Copy(f); err != nil {
		return recordEntry{}, err
	}
	return rec, nil
}
