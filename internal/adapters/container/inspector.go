// Package container lists the Python packages installed in running containers.
package container

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine names accepted in settings.
const (
	EngineAuto   = "auto"
	EngineDocker = "docker"
	EnginePodman = "podman"
)

var _ ports.ContainerInspector = (*Inspector)(nil)

// Inspector implements ports.ContainerInspector with the docker or podman CLI.
type Inspector struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewInspector creates a new Inspector.
func NewInspector(runner ports.CommandRunner, logger ports.Logger) *Inspector {
	return &Inspector{runner: runner, logger: logger}
}

// InstalledPackages runs `pip freeze` inside the container and returns the installed
// distributions keyed by canonical name. Requirements installed from direct references
// ("name @ url") are left out.
func (i *Inspector) InstalledPackages(
	ctx context.Context,
	containerID string,
	settings domain.ContainerSettings,
) (map[string]string, error) {
	engine, err := i.engine(ctx, settings.Engine)
	if err != nil {
		return nil, err
	}

	python := settings.Python
	if python == "" {
		python = domain.DefaultSettings().Container.Python
	}

	out, err := i.runner.Run(ctx, domain.Command{
		Name: engine,
		Args: []string{"exec", containerID, python, "-m", "pip", "freeze"},
	})
	if err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(err, "failed to list container packages"), "container", containerID), "engine", engine)
	}
	return ParseFreeze(out), nil
}

// engine returns the configured engine, or the first available one for "auto".
func (i *Inspector) engine(ctx context.Context, configured string) (string, error) {
	switch configured {
	case EngineDocker, EnginePodman:
		return configured, nil
	case "", EngineAuto:
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "unknown container engine"), "engine", configured)
	}

	for _, candidate := range []string{EngineDocker, EnginePodman} {
		if _, err := i.runner.Run(ctx, domain.Command{Name: candidate, Args: []string{"version"}}); err == nil {
			i.logger.Debug("Using container engine " + candidate)
			return candidate, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", domain.ErrContainerEngineNotFound
}

// ParseFreeze reads `pip freeze` output.
func ParseFreeze(out []byte) map[string]string {
	packages := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") || strings.Contains(line, "@") {
			continue
		}
		name, version, ok := strings.Cut(line, "==")
		if !ok {
			continue
		}
		version = strings.TrimPrefix(version, "=")
		packages[domain.CanonicalName(strings.TrimSpace(name))] = strings.TrimSpace(version)
	}
	return packages
}
