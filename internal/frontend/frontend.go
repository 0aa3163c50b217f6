package frontend

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/guppyc/internal/config"
	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/logfields"
	"git.home.luguber.info/inful/guppyc/internal/process"
)

// Frontend compiles a source program into serialized HUGR text.
type Frontend interface {
	Invoke(ctx context.Context, locator, path string) (string, error)
}

// UVFrontend runs the provisioned script with `uv run`, letting uv resolve
// the frontend package at the requested locator.
type UVFrontend struct {
	UV      string
	Python  string
	Package string
	Script  string
	Runner  process.Runner
}

// NewUVFrontend builds a frontend from configuration around a provisioned script.
func NewUVFrontend(cfg config.FrontendConfig, script string) *UVFrontend {
	return &UVFrontend{
		UV:      cfg.UV,
		Python:  cfg.Python,
		Package: cfg.Package,
		Script:  script,
		Runner:  &process.ExecRunner{},
	}
}

// Args returns the uv command line for compiling path.
func (f *UVFrontend) Args(locator, path string) []string {
	return []string{
		"run",
		"--with", f.Package + locator,
		f.Python, "-I", f.Script,
		path,
	}
}

// Invoke runs the frontend and returns its standard output. A process that
// cannot start or exits nonzero yields a frontend error carrying stderr; a
// result that is not valid UTF-8 yields a frontend output error.
func (f *UVFrontend) Invoke(ctx context.Context, locator, path string) (string, error) {
	slog.Debug("Invoking frontend",
		logfields.Tool(f.UV),
		logfields.Locator(f.Package+locator),
		logfields.Path(path))

	res, err := f.Runner.Run(ctx, f.UV, f.Args(locator, path), nil)
	if err != nil {
		b := ferrors.FrontendError("frontend failed to compile the program").
			WithCause(err).
			WithContext("path", path).
			WithContext("requirement", f.Package+locator)
		var exitErr *process.ExitError
		if errors.As(err, &exitErr) {
			b = b.WithContext("exit_code", exitErr.ExitCode).
				WithContext("stderr", strings.TrimRight(exitErr.Stderr, "\n"))
		}
		return "", b.Build()
	}

	if !utf8.Valid(res.Stdout) {
		return "", ferrors.FrontendOutputError("frontend output is not valid UTF-8").
			WithContext("path", path).
			Build()
	}
	return string(res.Stdout), nil
}
