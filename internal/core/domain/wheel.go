package domain

import "strings"

// WheelContents is what the tool needs to know about a built wheel.
type WheelContents struct {
	Path    string
	Name    string
	Version string
	// DistInfoDir is the "<dist>-<version>.dist-info" directory inside the archive.
	DistInfoDir   string
	RequiresDist  []string
	ProvidesExtra []string
	// Files lists archive entries in archive order, directories excluded.
	Files []string
}

// DataDir returns the "<dist>-<version>.data" directory matching the dist-info directory.
func (w *WheelContents) DataDir() string {
	if w.DistInfoDir != "" {
		return strings.TrimSuffix(w.DistInfoDir, ".dist-info") + ".data"
	}
	return DataDirName(w.Name, w.Version)
}

// DataFiles returns the archive entries under the data directory's "data" scheme, in archive order.
func (w *WheelContents) DataFiles() []string {
	prefix := w.DataDir() + "/data/"
	var out []string
	for _, f := range w.Files {
		if strings.HasPrefix(f, prefix) {
			out = append(out, f)
		}
	}
	return out
}

// WheelPatch describes how to rewrite a wheel.
type WheelPatch struct {
	// Source is the wheel to read.
	Source string
	// Target is where the rewritten wheel is written; it may equal Source.
	Target string
	// RequiresDist replaces every Requires-Dist header.
	RequiresDist []string
	// ProvidesExtra are Provides-Extra values that must be present.
	ProvidesExtra []string
	DataFiles     []DataFilePlacement
}
