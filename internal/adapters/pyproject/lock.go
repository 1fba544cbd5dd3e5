package pyproject

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/zerr"
)

// LockFilename is the lock file looked up in the project root.
const LockFilename = "poetry.lock"

// LockLoader implements ports.Locker.
type LockLoader struct {
	fs FileSystem
}

// NewLockLoader creates a LockLoader reading from fs.
func NewLockLoader(fs FileSystem) *LockLoader {
	return &LockLoader{fs: fs}
}

// Load reads poetry.lock from root.
func (l *LockLoader) Load(root string) (*domain.Lockfile, error) {
	path := filepath.Join(root, LockFilename)
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrLockReadFailed, err.Error()), "path", path)
	}
	lock, err := ParseLock(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return lock, nil
}

// ParseLock decodes poetry.lock content. Both the 1.x layout (category) and the 2.x
// layout (groups, per-group markers) are accepted.
func ParseLock(data []byte) (*domain.Lockfile, error) {
	var file lockFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(domain.ErrLockParseFailed, err.Error())
	}

	lock := &domain.Lockfile{
		Version:        file.Metadata.LockVersion,
		PythonVersions: file.Metadata.PythonVersions,
		ContentHash:    file.Metadata.ContentHash,
		Packages:       make([]domain.LockedPackage, 0, len(file.Package)),
	}

	for _, dto := range file.Package {
		if dto.Name == "" || dto.Version == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrLockParseFailed, "package entry without name or version"), "package", dto.Name)
		}
		p := domain.LockedPackage{
			Name:           dto.Name,
			Version:        dto.Version,
			Optional:       dto.Optional,
			Category:       dto.Category,
			Groups:         dto.Groups,
			Markers:        lockMarkers(dto.Markers),
			PythonVersions: dto.PythonVersions,
			Extras:         dto.Extras,
		}
		if len(p.Groups) == 0 && p.Category != "" {
			p.Groups = []string{p.Category}
		}
		if dto.Source != nil {
			p.Source = &domain.PackageSource{
				Type:              dto.Source.Type,
				URL:               dto.Source.URL,
				Reference:         dto.Source.Reference,
				ResolvedReference: dto.Source.ResolvedReference,
				Subdirectory:      dto.Source.Subdirectory,
			}
		}
		deps, err := lockDependencies(dto.Dependencies)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrLockParseFailed.Error()), "package", dto.Name)
		}
		p.Dependencies = deps
		lock.Packages = append(lock.Packages, p)
	}
	return lock, nil
}

// lockMarkers flattens the markers value: a string, or a table of group to marker.
func lockMarkers(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case map[string]any:
		var unique []string
		for _, group := range sortedKeys(m) {
			if s, ok := m[group].(string); ok && s != "" && !slices.Contains(unique, s) {
				unique = append(unique, s)
			}
		}
		if len(unique) == 1 {
			return unique[0]
		}
		parts := make([]string, 0, len(unique))
		for _, s := range unique {
			if strings.Contains(s, " or ") {
				s = "(" + s + ")"
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " or ")
	default:
		return ""
	}
}

func lockDependencies(deps map[string]any) ([]domain.LockedDependency, error) {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []domain.LockedDependency
	for _, name := range names {
		switch v := deps[name].(type) {
		case string:
			out = append(out, domain.LockedDependency{Name: name, Constraint: v})
		case map[string]any:
			out = append(out, lockDependency(name, v))
		case []any:
			for _, item := range v {
				t, ok := item.(map[string]any)
				if !ok {
					return nil, zerr.With(zerr.New("multiple constraints must be tables"), "dependency", name)
				}
				out = append(out, lockDependency(name, t))
			}
		default:
			return nil, zerr.With(zerr.New(fmt.Sprintf("unsupported dependency value of type %T", v)), "dependency", name)
		}
	}
	return out, nil
}

func lockDependency(name string, t map[string]any) domain.LockedDependency {
	return domain.LockedDependency{
		Name:       name,
		Constraint: stringValue(t, "version"),
		Markers:    stringValue(t, "markers"),
		Python:     stringValue(t, "python"),
		Platform:   stringValue(t, "platform"),
		Optional:   boolValue(t, "optional"),
		Extras:     stringList(t, "extras"),
	}
}

