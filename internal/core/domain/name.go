package domain

import "strings"

// CanonicalName normalizes a distribution name so that names differing only in case
// or in runs of '-', '_' and '.' compare equal.
func CanonicalName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	sep := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '-' || r == '_' || r == '.':
			sep = true
		default:
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(toLower(r))
		}
	}
	return b.String()
}

// EscapeName returns the form of a distribution name used in wheel file and directory names.
func EscapeName(name string) string {
	return strings.ReplaceAll(CanonicalName(name), "-", "_")
}

// EscapeVersion returns the form of a version used in wheel file and directory names.
func EscapeVersion(version string) string {
	var b strings.Builder
	run := false
	for _, r := range version {
		if isWordRune(r) || r == '.' || r == '+' {
			b.WriteRune(r)
			run = false
			continue
		}
		if !run {
			b.WriteByte('_')
		}
		run = true
	}
	return b.String()
}

// DataDirName returns the "<name>-<version>.data" directory used for wheel data files.
func DataDirName(name, version string) string {
	return EscapeName(name) + "-" + EscapeVersion(version) + ".data"
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
