// Package poetry builds base wheels with the poetry executable.
package poetry

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder implements ports.WheelBuilder by running `poetry build --format wheel`.
type Builder struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(runner ports.CommandRunner, logger ports.Logger) *Builder {
	return &Builder{runner: runner, logger: logger}
}

// Build runs poetry in root and returns the path of the wheel it produced.
func (b *Builder) Build(ctx context.Context, root string, settings domain.Settings) (string, error) {
	defaults := domain.DefaultSettings()
	poetry := settings.Poetry
	if poetry == "" {
		poetry = defaults.Poetry
	}
	dist := settings.Dist
	if dist == "" {
		dist = defaults.Dist
	}
	if !filepath.IsAbs(dist) {
		dist = filepath.Join(root, dist)
	}

	out, err := b.runner.Run(ctx, domain.Command{
		Name: poetry,
		Args: []string{"build", "--format", "wheel"},
		Dir:  root,
	})
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrWheelBuildFailed.Error())
	}

	if name := builtWheel(out); name != "" {
		path := filepath.Join(dist, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			b.logger.Debug("Base wheel " + path)
			return path, nil
		}
	}

	path, err := newestWheel(dist)
	if err != nil {
		return "", err
	}
	b.logger.Debug("Base wheel " + path)
	return path, nil
}

// builtWheel finds the wheel file name in poetry's "- Built <file>" output line.
func builtWheel(out []byte) string {
	var name string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "- ")
		rest, ok := strings.CutPrefix(line, "Built ")
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if strings.HasSuffix(rest, ".whl") {
			name = filepath.Base(rest)
		}
	}
	return name
}

func newestWheel(dist string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dist, "*.whl"))
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrWheelBuildFailed.Error())
	}

	var newest string
	var newestInfo os.FileInfo
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if newestInfo == nil || info.ModTime().After(newestInfo.ModTime()) {
			newest, newestInfo = m, info
		}
	}
	if newest == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrWheelBuildFailed, "poetry build produced no wheel"), "dist", dist)
	}
	return newest, nil
}
