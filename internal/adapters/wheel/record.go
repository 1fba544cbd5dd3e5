package wheel

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/csv"
	"hash"
	"io"
	"strconv"
)

// recordEntry is one RECORD row.
type recordEntry struct {
	path string
	hash string
	size int64
}

// digestWriter counts and hashes what is written through it.
type digestWriter struct {
	h    hash.Hash
	size int64
}

func newDigestWriter() *digestWriter {
	return &digestWriter{h: sha256.New()}
}

func (d *digestWriter) Write(p []byte) (int, error) {
	n, err := d.h.Write(p)
	d.size += int64(n)
	return n, err
}

func (d *digestWriter) entry(path string) recordEntry {
	return recordEntry{
		path: path,
		hash: "sha256=" + base64.RawURLEncoding.EncodeToString(d.h.Sum(nil)),
		size: d.size,
	}
}

func digest(path string, r io.Reader) (recordEntry, error) {
	d := newDigestWriter()
	if _, err := io.Copy(d, r); err != nil {
		return recordEntry{}, err
	}
	return d.entry(path), nil
}

// renderRecord writes the RECORD file; its own row carries no hash.
func renderRecord(entries []recordEntry, self string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, e := range entries {
		if err := w.Write([]string{e.path, e.hash, strconv.FormatInt(e.size, 10)}); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{self, "", ""}); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
