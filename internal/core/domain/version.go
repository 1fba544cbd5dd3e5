package domain

import (
	"strconv"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"go.trai.ch/zerr"
)

// Version is a PEP 440 version that keeps the text it was written with.
type Version struct {
	raw string
	v   pep440.Version
}

// ParseVersion parses a PEP 440 version string.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	v, err := pep440.Parse(s)
	if err != nil {
		return Version{}, zerr.With(zerr.Wrap(ErrInvalidVersion, err.Error()), "version", s)
	}
	return Version{raw: s, v: v}, nil
}

// MustParseVersion is like ParseVersion but panics on error. Intended for tests and constants.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as it was written.
func (v Version) String() string {
	return v.raw
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool {
	return v.raw == ""
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to or after o.
func (v Version) Compare(o Version) int {
	return v.v.Compare(o.v)
}

// Equal reports whether v and o denote the same version.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// releaseSegments splits the leading release part of a version ("1.2.3rc1" -> [1 2 3])
// and returns the epoch prefix ("1!") if present.
func releaseSegments(s string) (epoch string, parts []int, ok bool) {
	if i := strings.Index(s, "!"); i >= 0 {
		epoch, s = s[:i+1], s[i+1:]
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	release := strings.TrimSuffix(s[:end], ".")
	if release == "" {
		return "", nil, false
	}
	for _, p := range strings.Split(release, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", nil, false
		}
		parts = append(parts, n)
	}
	return epoch, parts, true
}

// bumpRelease increments segment idx, zeroes the segments after it and keeps the
// segment count of the input (at least idx+1).
func bumpRelease(epoch string, parts []int, idx int) string {
	n := len(parts)
	if idx+1 > n {
		n = idx + 1
	}
	out := make([]string, n)
	for i := range n {
		switch {
		case i < idx:
			out[i] = strconv.Itoa(segment(parts, i))
		case i == idx:
			out[i] = strconv.Itoa(segment(parts, i) + 1)
		default:
			out[i] = "0"
		}
	}
	return epoch + strings.Join(out, ".")
}

func segment(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}
