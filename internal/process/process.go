// Package process runs external tools with captured output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/guppyc/internal/logfields"
)

// ErrToolNotFound is wrapped by SpawnError when the executable cannot be located.
var ErrToolNotFound = errors.New("tool not found")

// Result is the captured outcome of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner abstracts process execution so tool wrappers can be tested without
// the real binaries installed.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte) (*Result, error)
}

// ExitError reports a process that ran and exited with a nonzero status.
type ExitError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Name, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// SpawnError reports a process that could not be started.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExecRunner runs binaries with os/exec. Stdout and stderr are fully
// buffered; the call blocks until the process exits or ctx is cancelled.
type ExecRunner struct {
	Dir string
	Env []string
}

func (r *ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte) (*Result, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, &SpawnError{Name: name, Err: fmt.Errorf("%w: %w", ErrToolNotFound, err)}
	}

	// #nosec G204 -- tool paths come from configuration, not remote input
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running external tool", logfields.Tool(name), slog.Any("args", args))
	start := time.Now()
	err = cmd.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if stderr.Len() > 0 {
		slog.Debug("Tool stderr", logfields.Tool(name), slog.String("stderr", stderr.String()))
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &SpawnError{Name: name, Err: ctxErr}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, &ExitError{Name: name, Args: args, ExitCode: res.ExitCode, Stderr: stderr.String()}
		}
		return nil, &SpawnError{Name: name, Err: err}
	}

	slog.Debug("External tool finished", logfields.Tool(name), logfields.Duration(time.Since(start)))
	return res, nil
}
