// Package pyproject reads poetry project files: pyproject.toml and poetry.lock.
package pyproject

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/zerr"
)

// ManifestFilename is the project manifest looked up in the project root.
const ManifestFilename = "pyproject.toml"

// ManifestLoader implements ports.ProjectLoader.
type ManifestLoader struct {
	fs FileSystem
}

// NewManifestLoader creates a ManifestLoader reading from fs.
func NewManifestLoader(fs FileSystem) *ManifestLoader {
	return &ManifestLoader{fs: fs}
}

// Load reads pyproject.toml from root.
func (l *ManifestLoader) Load(root string) (*domain.Manifest, error) {
	path := filepath.Join(root, ManifestFilename)
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrManifestReadFailed, err.Error()), "path", path)
	}

	m, err := ParseManifest(root, data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	m.Path = path
	return m, nil
}

// ParseManifest decodes pyproject.toml content for the project in root.
func ParseManifest(root string, data []byte) (*domain.Manifest, error) {
	var file pyprojectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(domain.ErrManifestParseFailed, err.Error())
	}
	if file.Tool.Poetry == nil && file.Project == nil {
		return nil, domain.ErrNotPoetryProject
	}

	m := &domain.Manifest{Root: root}
	poetry := file.Tool.Poetry
	if poetry == nil {
		poetry = &poetrySection{}
	}

	m.Name, m.Version = poetry.Name, poetry.Version
	if file.Project != nil {
		if file.Project.Name != "" {
			m.Name = file.Project.Name
		}
		if file.Project.Version != "" {
			m.Version = file.Project.Version
		}
		m.Python = file.Project.RequiresPython
	}

	main, err := mainGroup(root, poetry, file.Project)
	if err != nil {
		return nil, err
	}
	if py, ok := poetry.Dependencies["python"].(string); ok {
		m.Python = py
	}
	m.Groups = append(m.Groups, main)

	others, err := otherGroups(root, poetry)
	if err != nil {
		return nil, err
	}
	m.Groups = append(m.Groups, others...)

	m.Extras = collectExtras(poetry, file.Project)
	applyExtras(&m.Groups[0], m.Extras)

	if blix := file.Tool.Blix; blix != nil && blix.Data != nil {
		m.HasDataSection = true
		for _, df := range blix.Data.DataFiles {
			m.DataFiles = append(m.DataFiles, domain.DataFileMapping{
				Destination: df.Destination,
				Sources:     df.From,
			})
		}
	}
	return m, nil
}

func mainGroup(root string, poetry *poetrySection, project *projectSection) (domain.DependencyGroup, error) {
	group := domain.DependencyGroup{Name: domain.MainGroup}

	deps := make(map[string]any, len(poetry.Dependencies))
	for name, v := range poetry.Dependencies {
		if strings.EqualFold(name, "python") {
			continue
		}
		deps[name] = v
	}
	reqs, err := parseDependencies(root, deps)
	if err != nil {
		return group, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}
	group.Dependencies = reqs

	if project == nil {
		return group, nil
	}
	declared := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		declared[r.CanonicalName()] = true
	}
	for _, entry := range project.Dependencies {
		r, err := domain.ParseRequiresDist(entry)
		if err != nil {
			return group, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
		}
		// [tool.poetry.dependencies] refines [project] entries of the same name.
		if declared[r.CanonicalName()] {
			continue
		}
		group.Dependencies = append(group.Dependencies, r)
	}
	extras := sortedKeys(project.OptionalDependencies)
	for _, extra := range extras {
		for _, entry := range project.OptionalDependencies[extra] {
			r, err := domain.ParseRequiresDist(entry)
			if err != nil {
				return group, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
			}
			r.Optional = true
			group.Dependencies = append(group.Dependencies, r)
		}
	}
	return group, nil
}

func otherGroups(root string, poetry *poetrySection) ([]domain.DependencyGroup, error) {
	groups := make(map[string]*domain.DependencyGroup)

	if len(poetry.DevDependencies) > 0 {
		reqs, err := parseDependencies(root, poetry.DevDependencies)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
		}
		groups["dev"] = &domain.DependencyGroup{Name: "dev", Dependencies: reqs}
	}

	for name, section := range poetry.Group {
		reqs, err := parseDependencies(root, section.Dependencies)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "group", name)
		}
		if g, ok := groups[name]; ok {
			g.Dependencies = append(g.Dependencies, reqs...)
			g.Optional = g.Optional || section.Optional
			continue
		}
		groups[name] = &domain.DependencyGroup{Name: name, Optional: section.Optional, Dependencies: reqs}
	}

	out := make([]domain.DependencyGroup, 0, len(groups))
	for _, name := range sortedKeys(groups) {
		out = append(out, *groups[name])
	}
	return out, nil
}

func collectExtras(poetry *poetrySection, project *projectSection) map[string][]string {
	extras := make(map[string][]string)
	for name, deps := range poetry.Extras {
		extras[name] = append(extras[name], deps...)
	}
	if project != nil {
		for name, entries := range project.OptionalDependencies {
			for _, entry := range entries {
				r, err := domain.ParseRequiresDist(entry)
				if err != nil {
					continue
				}
				if !slices.Contains(extras[name], r.Name) {
					extras[name] = append(extras[name], r.Name)
				}
			}
		}
	}
	if len(extras) == 0 {
		return nil
	}
	return extras
}

// applyExtras records on each main dependency the project extras that enable it.
func applyExtras(main *domain.DependencyGroup, extras map[string][]string) {
	for _, extra := range sortedKeys(extras) {
		for _, dep := range extras[extra] {
			want := domain.CanonicalName(dependencyName(dep))
			for i := range main.Dependencies {
				r := &main.Dependencies[i]
				if r.CanonicalName() == want && !slices.Contains(r.InExtras, extra) {
					r.InExtras = append(r.InExtras, extra)
				}
			}
		}
	}
}

// dependencyName strips a requested-extras suffix such as "requests[socks]".
func dependencyName(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
