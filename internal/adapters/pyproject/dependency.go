package pyproject

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/zerr"
)

// parseDependencies converts a poetry dependency table into requirements, ordered by name.
// A value may be a constraint string, a table, or an array of tables with distinct markers.
func parseDependencies(root string, deps map[string]any) ([]domain.Requirement, error) {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []domain.Requirement
	for _, name := range names {
		reqs, err := parseDependency(root, name, deps[name])
		if err != nil {
			return nil, zerr.With(err, "package", name)
		}
		out = append(out, reqs...)
	}
	return out, nil
}

func parseDependency(root, name string, value any) ([]domain.Requirement, error) {
	switch v := value.(type) {
	case string:
		c, err := domain.ParseConstraint(v)
		if err != nil {
			return nil, err
		}
		return []domain.Requirement{{Name: name, Constraint: c}}, nil
	case map[string]any:
		r, err := parseDependencyTable(root, name, v)
		if err != nil {
			return nil, err
		}
		return []domain.Requirement{r}, nil
	case []any:
		var out []domain.Requirement
		for _, item := range v {
			table, ok := item.(map[string]any)
			if !ok {
				return nil, zerr.New("multiple constraints must be tables")
			}
			r, err := parseDependencyTable(root, name, table)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	default:
		return nil, zerr.New(fmt.Sprintf("unsupported dependency value of type %T", value))
	}
}

func parseDependencyTable(root, name string, t map[string]any) (domain.Requirement, error) {
	r := domain.Requirement{Name: name, Constraint: domain.AnyConstraint()}

	if v := stringValue(t, "version"); v != "" {
		c, err := domain.ParseConstraint(v)
		if err != nil {
			return domain.Requirement{}, err
		}
		r.Constraint = c
	}
	r.Optional = boolValue(t, "optional")
	r.Extras = stringList(t, "extras")

	var markers []string
	if m := stringValue(t, "markers"); m != "" {
		if _, err := domain.ParseMarker(m); err != nil {
			return domain.Requirement{}, err
		}
		markers = append(markers, m)
	}
	if p := stringValue(t, "python"); p != "" {
		c, err := domain.ParseConstraint(p)
		if err != nil {
			return domain.Requirement{}, err
		}
		if m := domain.PythonMarker(c); m != "" {
			markers = append(markers, m)
		}
	}
	if p := stringValue(t, "platform"); p != "" {
		markers = append(markers, fmt.Sprintf("sys_platform == %q", p))
	}
	r.Markers = joinMarkers(markers)

	switch {
	case stringValue(t, "git") != "":
		ref := stringValue(t, "rev")
		if ref == "" {
			ref = stringValue(t, "tag")
		}
		if ref == "" {
			ref = stringValue(t, "branch")
		}
		r.Direct = &domain.DirectReference{
			Kind:         "git",
			URL:          stringValue(t, "git"),
			Reference:    ref,
			Subdirectory: stringValue(t, "subdirectory"),
		}
	case stringValue(t, "url") != "":
		r.Direct = &domain.DirectReference{Kind: "url", URL: stringValue(t, "url")}
	case stringValue(t, "path") != "":
		p := stringValue(t, "path")
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, filepath.FromSlash(p))
		}
		kind := "directory"
		if isArchive(p) {
			kind = "file"
		}
		r.Direct = &domain.DirectReference{Kind: kind, URL: filepath.ToSlash(p)}
	}
	return r, nil
}

// joinMarkers combines marker expressions with "and", parenthesizing disjunctions.
func joinMarkers(markers []string) string {
	if len(markers) == 1 {
		return markers[0]
	}
	parts := make([]string, 0, len(markers))
	for _, m := range markers {
		if strings.Contains(m, " or ") {
			m = "(" + m + ")"
		}
		parts = append(parts, m)
	}
	return strings.Join(parts, " and ")
}

func isArchive(p string) bool {
	for _, ext := range []string{".whl", ".tar.gz", ".zip", ".tar.bz2"} {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

func stringValue(t map[string]any, key string) string {
	s, _ := t[key].(string)
	return strings.TrimSpace(s)
}

func boolValue(t map[string]any, key string) bool {
	b, _ := t[key].(bool)
	return b
}

func stringList(t map[string]any, key string) []string {
	items, _ := t[key].([]any)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
