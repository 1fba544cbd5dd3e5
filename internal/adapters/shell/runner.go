// Package shell provides the command runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/blix/internal/core/ports"
	"go.trai.ch/zerr"
)

// stderrTail is the number of trailing stderr lines attached to a failure.
const stderrTail = 20

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes the command and returns its standard output.
//
// The environment is the process environment with cmd.Env applied on top.
// Standard error is streamed line by line to the logger at debug level.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) ([]byte, error) {
	if cmd.Name == "" {
		return nil, zerr.New("empty command")
	}

	env := resolveEnvironment(os.Environ(), cmd.Env)

	executable := cmd.Name
	if !filepath.IsAbs(cmd.Name) {
		if lp, err := lookPath(cmd.Name, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // commands come from settings
	// exec.CommandContext sets Args[0] to the resolved path; keep the name as invoked.
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Name
	}
	c.Dir = cmd.Dir
	c.Env = env

	var stdout bytes.Buffer
	stderr := &logWriter{logger: r.logger}
	c.Stdout = &stdout
	c.Stderr = stderr

	r.logger.Debug("Running " + cmd.String())
	err := c.Run()
	stderr.Flush()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "command", cmd.String())
		wrapped = zerr.With(wrapped, "exit_code", exitCode)
		if tail := stderr.Tail(); tail != "" {
			wrapped = zerr.With(wrapped, "stderr", tail)
		}
		return stdout.Bytes(), wrapped
	}

	return stdout.Bytes(), nil
}

// logWriter forwards complete lines to the logger and keeps the last few for errors.
type logWriter struct {
	logger ports.Logger
	mu     sync.Mutex
	buf    []byte
	tail   []string
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush emits a trailing line that was not newline terminated.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

// Tail returns the last stderr lines joined by newlines.
func (w *logWriter) Tail() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.tail, "\n")
}

func (w *logWriter) emit(line string) {
	line = strings.TrimSuffix(line, "\r")
	w.logger.Debug(line)
	w.tail = append(w.tail, line)
	if len(w.tail) > stderrTail {
		w.tail = w.tail[len(w.tail)-stderrTail:]
	}
}

// resolveEnvironment applies the "KEY=VALUE" overrides on top of the system environment.
func resolveEnvironment(sysEnv, overrides []string) []string {
	envMap := make(map[string]string)
	var order []string
	for _, list := range [][]string{sysEnv, overrides} {
		for _, entry := range list {
			k, v, ok := strings.Cut(entry, "=")
			if !ok {
				continue
			}
			if _, seen := envMap[k]; !seen {
				order = append(order, k)
			}
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
