package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// MainGroup is the implicit group holding [tool.poetry.dependencies].
const MainGroup = "main"

// DependencyGroup is a named set of dependencies declared in pyproject.toml.
type DependencyGroup struct {
	Name         string
	Optional     bool
	Dependencies []Requirement
}

// Manifest is the parsed project description from pyproject.toml.
type Manifest struct {
	// Path is the pyproject.toml file the manifest was read from.
	Path string
	// Root is the project directory.
	Root    string
	Name    string
	Version string
	// Python is the project's supported Python constraint.
	Python string
	// Groups holds the main group first, followed by the other groups in name order.
	Groups []DependencyGroup
	// Extras maps a project extra to the dependency names it enables.
	Extras map[string][]string
	// DataFiles are the [tool.blix.data] data_files mappings.
	DataFiles []DataFileMapping
	// HasDataSection reports whether [tool.blix.data] was present.
	HasDataSection bool
}

// Group returns the named group. "default" is accepted as an alias for "main".
func (m *Manifest) Group(name string) (*DependencyGroup, bool) {
	name = normalizeGroupName(name)
	for i := range m.Groups {
		if m.Groups[i].Name == name {
			return &m.Groups[i], true
		}
	}
	return nil, false
}

// Requires returns the requirements the built distribution declares: every
// non-optional main dependency and every optional one enabled by an extra,
// ordered by canonical name.
func (m *Manifest) Requires() []Requirement {
	main, ok := m.Group(MainGroup)
	if !ok {
		return nil
	}
	var out []Requirement
	for _, r := range main.Dependencies {
		if r.Optional && len(r.InExtras) == 0 {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b Requirement) int {
		return strings.Compare(a.CanonicalName(), b.CanonicalName())
	})
	return out
}

// SelectGroups returns the active groups: the main group plus the requested ones.
// Requested names may be given once each or comma separated; unknown names are an error.
func (m *Manifest) SelectGroups(requested []string) (GroupSet, error) {
	set := GroupSet{MainGroup}
	var missing []string
	for _, raw := range requested {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			g, ok := m.Group(name)
			if !ok {
				if !slices.Contains(missing, name) {
					missing = append(missing, name)
				}
				continue
			}
			if !slices.Contains(set, g.Name) {
				set = append(set, g.Name)
			}
		}
	}
	if len(missing) > 0 {
		msg := "Group(s) not found: " + strings.Join(missing, ", ") + " (via --with-groups)"
		return nil, zerr.With(zerr.Wrap(ErrGroupNotFound, msg), "groups", missing)
	}
	return set, nil
}

// RootRequirements returns every dependency declared by the active groups,
// including optional dependencies, in declaration order per group.
func (m *Manifest) RootRequirements(groups GroupSet) []Requirement {
	var out []Requirement
	for _, name := range groups {
		g, ok := m.Group(name)
		if !ok {
			continue
		}
		out = append(out, g.Dependencies...)
	}
	return out
}

// GroupSet is an ordered list of active dependency group names; main comes first.
type GroupSet []string

// Contains reports whether the named group is active.
func (s GroupSet) Contains(name string) bool {
	return slices.Contains(s, normalizeGroupName(name))
}

// Extra returns the requested groups beyond main.
func (s GroupSet) Extra() []string {
	var out []string
	for _, g := range s {
		if g != MainGroup {
			out = append(out, g)
		}
	}
	return out
}

func normalizeGroupName(name string) string {
	name = strings.TrimSpace(name)
	if name == "default" {
		return MainGroup
	}
	return name
}
