package llvm

import (
	"context"
	"errors"
	"strings"

	"git.home.luguber.info/inful/guppyc/internal/config"
	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/process"
)

// DefaultPasses is the optimization pipeline run at every level above O0.
// Levels O1 to O3 share it.
var DefaultPasses = []string{
	"mem2reg",
	"sroa",
	"simplifycfg",
	"aggressive-instcombine",
	"adce",
}

// Toolchain wraps the LLVM command line tools.
type Toolchain struct {
	Opt    string
	LLVMAs string
	Runner process.Runner
}

// NewToolchain returns a toolchain using the configured tool paths.
func NewToolchain(cfg config.LLVMConfig) *Toolchain {
	return &Toolchain{Opt: cfg.Opt, LLVMAs: cfg.LLVMAs, Runner: &process.ExecRunner{}}
}

// Optimize runs passes over textual IR and returns the optimized text.
func (t *Toolchain) Optimize(ctx context.Context, text string, passes []string) (string, error) {
	args := []string{"-S", "-passes=" + strings.Join(passes, ","), "-o", "-", "-"}
	res, err := t.Runner.Run(ctx, t.Opt, args, []byte(text))
	if err != nil {
		return "", toolError("LLVM optimizer failed", t.Opt, err)
	}
	return string(res.Stdout), nil
}

// Assemble converts textual IR to bitcode.
func (t *Toolchain) Assemble(ctx context.Context, text string) ([]byte, error) {
	res, err := t.Runner.Run(ctx, t.LLVMAs, []string{"-o", "-", "-"}, []byte(text))
	if err != nil {
		return nil, toolError("LLVM assembler failed", t.LLVMAs, err)
	}
	return res.Stdout, nil
}

func toolError(msg, tool string, err error) error {
	b := ferrors.BackendError(msg).
		WithCause(err).
		WithContext("tool", tool)
	var exitErr *process.ExitError
	if errors.As(err, &exitErr) {
		b = b.WithContext("exit_code", exitErr.ExitCode).
			WithContext("stderr", strings.TrimRight(exitErr.Stderr, "\n"))
	}
	return b.Build()
}
