// Package pyenv inspects the Python environment dependencies are resolved for.
package pyenv

import (
	"context"
	"encoding/json"
	"runtime"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

// inspectScript prints the PEP 508 marker values of the interpreter and its installed
// distributions as one JSON document.
const inspectScript = `import json, os, platform, sys
try:
    from importlib import metadata
except ImportError:
    metadata = None
impl = sys.implementation
iv = impl.version
iver = "%d.%d.%d" % (iv.major, iv.minor, iv.micro)
if iv.releaselevel != "final":
    iver += iv.releaselevel[0] + str(iv.serial)
markers = {
    "implementation_name": impl.name,
    "implementation_version": iver,
    "os_name": os.name,
    "platform_machine": platform.machine(),
    "platform_python_implementation": platform.python_implementation(),
    "platform_release": platform.release(),
    "platform_system": platform.system(),
    "platform_version": platform.version(),
    "python_full_version": platform.python_version(),
    "python_version": ".".join(platform.python_version_tuple()[:2]),
    "sys_platform": sys.platform,
}
packages = {}
if metadata is not None:
    for dist in metadata.distributions():
        name = dist.metadata["Name"]
        if name:
            packages[name] = dist.version
print(json.dumps({"markers": markers, "packages": packages}))
`

type report struct {
	Markers  map[string]string `json:"markers"`
	Packages map[string]string `json:"packages"`
}

// Inspector implements ports.EnvironmentInspector by running a Python interpreter.
type Inspector struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewInspector creates a new Inspector.
func NewInspector(runner ports.CommandRunner, logger ports.Logger) *Inspector {
	return &Inspector{runner: runner, logger: logger}
}

// Inspect runs python and reports its marker values and installed distributions.
// When the interpreter cannot be run, markers derived from the host platform are
// returned with no installed distributions.
func (i *Inspector) Inspect(ctx context.Context, python string) (*domain.InstalledEnvironment, error) {
	if python == "" {
		python = domain.DefaultSettings().Python
	}

	out, err := i.runner.Run(ctx, domain.Command{Name: python, Args: []string{"-c", inspectScript}})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		i.logger.Warn("Could not inspect " + python + ", evaluating markers for the host platform")
		i.logger.Debug(err.Error())
		return HostEnvironment(), nil
	}

	env, err := ParseReport(out)
	if err != nil {
		return nil, zerr.With(err, "python", python)
	}
	return env, nil
}

// ParseReport decodes the interpreter's JSON report.
func ParseReport(data []byte) (*domain.InstalledEnvironment, error) {
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, zerr.Wrap(err, "failed to parse python environment report")
	}
	if r.Markers["python_version"] == "" {
		return nil, zerr.New("python environment report has no python_version")
	}

	env := &domain.InstalledEnvironment{
		Markers:  r.Markers,
		Packages: make(map[string]string, len(r.Packages)),
	}
	for name, version := range r.Packages {
		env.Packages[domain.CanonicalName(name)] = version
	}
	return env, nil
}

// HostEnvironment returns the platform markers of the running process. Python version
// markers are left unset so that they hold for every interpreter.
func HostEnvironment() *domain.InstalledEnvironment {
	return &domain.InstalledEnvironment{
		Markers:  hostMarkers(runtime.GOOS, runtime.GOARCH),
		Packages: map[string]string{},
	}
}

func hostMarkers(goos, goarch string) map[string]string {
	m := map[string]string{
		"os_name":         "posix",
		"sys_platform":    goos,
		"platform_system": goos,
	}
	switch goos {
	case "windows":
		m["os_name"] = "nt"
		m["sys_platform"] = "win32"
		m["platform_system"] = "Windows"
	case "linux":
		m["platform_system"] = "Linux"
	case "darwin":
		m["platform_system"] = "Darwin"
	case "freebsd":
		m["sys_platform"] = "freebsd"
		m["platform_system"] = "FreeBSD"
	}
	switch goarch {
	case "amd64":
		m["platform_machine"] = "x86_64"
	case "arm64":
		if goos == "darwin" {
			m["platform_machine"] = "arm64"
		} else {
			m["platform_machine"] = "aarch64"
		}
	case "386":
		m["platform_machine"] = "i686"
	default:
		m["platform_machine"] = goarch
	}
	return m
}
