// Package config provides the settings loader for blix.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the settings file looked up in the project root.
const DefaultFilename = ".blix.yaml"

// FileConfigLoader implements ports.SettingsLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
	Logger   ports.Logger
}

// NewLoader creates a FileConfigLoader reading DefaultFilename.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{Filename: DefaultFilename, Logger: logger}
}

// Load reads the settings from the given project directory. A missing file yields
// the defaults.
func (l *FileConfigLoader) Load(root string) (domain.Settings, error) {
	path := filepath.Join(root, l.Filename)
	settings, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		if l.Logger != nil {
			l.Logger.Debug("No " + l.Filename + " found, using default settings")
		}
		return domain.DefaultSettings(), nil
	}
	return settings, err
}

// Load reads a settings file from the given path, applying it over the defaults.
func Load(path string) (domain.Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Settings{}, err
		}
		return domain.Settings{}, zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", path)
	}
	return Parse(data)
}

// Parse decodes settings from YAML, applying them over the defaults.
func Parse(data []byte) (domain.Settings, error) {
	var file Blixfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Settings{}, zerr.Wrap(zerr.Wrap(err, "failed to parse settings file"), domain.ErrInvalidSettings.Error())
	}

	s := domain.DefaultSettings()
	assign(&s.Python, file.Python)
	assign(&s.Poetry, file.Poetry)
	assign(&s.Solver, file.Solver)
	assign(&s.Dist, file.Dist)
	assign(&s.State, file.State)
	if file.Container != nil {
		assign(&s.Container.Engine, file.Container.Engine)
		assign(&s.Container.Python, file.Container.Python)
	}

	if err := validate(s); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

func assign(dst *string, src *string) {
	if src != nil && strings.TrimSpace(*src) != "" {
		*dst = strings.TrimSpace(*src)
	}
}

func validate(s domain.Settings) error {
	switch s.Solver {
	case domain.SolverLock, domain.SolverPoetry:
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "unknown solver"), "solver", s.Solver)
	}
	switch s.Container.Engine {
	case "auto", "docker", "podman":
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "unknown container engine"), "engine", s.Container.Engine)
	}
	if filepath.IsAbs(s.State) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "state path must be relative to the project"), "state", s.State)
	}
	return nil
}
