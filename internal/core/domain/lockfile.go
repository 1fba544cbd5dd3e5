package domain

import "strings"

// Lockfile is the parsed content of poetry.lock.
type Lockfile struct {
	// Version is the lock format version from [metadata] (e.g. "1.1", "2.0").
	Version        string
	PythonVersions string
	ContentHash    string
	Packages       []LockedPackage
}

// LockedPackage is one [[package]] entry of a lock file.
type LockedPackage struct {
	Name    string
	Version string
	// Optional is set when the package is only needed for extras.
	Optional bool
	// Category is the lock 1.x group hint ("main" or "dev").
	Category string
	// Groups lists the dependency groups (lock 2.x) this package is required by.
	Groups []string
	// Markers are the lock 2.x package-level markers per group, joined.
	Markers string
	// PythonVersions is the package's python-versions constraint.
	PythonVersions string
	Source         *PackageSource
	Dependencies   []LockedDependency
	// Extras maps an extra name to the requirement strings it enables.
	Extras map[string][]string
}

// CanonicalName returns the normalized package name.
func (p LockedPackage) CanonicalName() string {
	return CanonicalName(p.Name)
}

// Key identifies a package at one version.
func (p LockedPackage) Key() string {
	return p.CanonicalName() + "==" + p.Version
}

// IsDirect reports whether the package comes from outside a package index.
func (p LockedPackage) IsDirect() bool {
	return p.Source != nil && p.Source.IsDirect()
}

// ExtraDependencyNames returns the canonical dependency names an extra enables.
func (p LockedPackage) ExtraDependencyNames(extra string) []string {
	want := CanonicalName(extra)
	var names []string
	for name, reqs := range p.Extras {
		if CanonicalName(name) != want {
			continue
		}
		for _, r := range reqs {
			names = append(names, CanonicalName(requirementName(r)))
		}
	}
	return names
}

// LockedDependency is one edge of [package.dependencies].
type LockedDependency struct {
	Name       string
	Constraint string
	Markers    string
	Python     string
	Platform   string
	Optional   bool
	Extras     []string
}

// CanonicalName returns the normalized name of the dependency.
func (d LockedDependency) CanonicalName() string {
	return CanonicalName(d.Name)
}

// PackageSource is the [package.source] table of a lock entry.
type PackageSource struct {
	Type              string
	URL               string
	Reference         string
	ResolvedReference string
	Subdirectory      string
}

// IsDirect reports whether the source is a VCS checkout, a URL, or a local path.
func (s PackageSource) IsDirect() bool {
	switch s.Type {
	case "git", "url", "file", "directory":
		return true
	default:
		return false
	}
}

// DirectReference converts the source to a PEP 508 direct reference.
func (s PackageSource) DirectReference() DirectReference {
	ref := s.ResolvedReference
	if ref == "" {
		ref = s.Reference
	}
	d := DirectReference{Kind: s.Type, URL: s.URL, Subdirectory: s.Subdirectory}
	if s.Type == "git" {
		d.Reference = ref
	}
	return d
}

// requirementName extracts the distribution name from a requirement string like
// "PySocks (>=1.5.6,!=1.5.7)" or "chardet>=3.0".
func requirementName(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (isWordRune(rune(s[end])) || s[end] == '-' || s[end] == '.') {
		end++
	}
	return s[:end]
}
