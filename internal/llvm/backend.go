package llvm

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/guppyc/internal/config"
	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/hugr"
	"git.home.luguber.info/inful/guppyc/internal/logfields"
)

// EmitOptions controls a single Emit call.
type EmitOptions struct {
	OptLevel config.OptLevel
	// Text requests the textual IR alongside the bitcode.
	Text bool
}

// Module is an emitted LLVM module.
type Module struct {
	Bitcode []byte
	Text    *string
}

// Backend turns a monomorphic HUGR module into an LLVM module.
type Backend interface {
	Emit(ctx context.Context, h *hugr.Hugr, entry *hugr.Node, opts EmitOptions) (*Module, error)
}

// Compiler is the Backend built on Lower and the LLVM tools.
type Compiler struct {
	Namer     Namer
	Toolchain *Toolchain
}

// NewCompiler returns a compiler using the default namer.
func NewCompiler(tc *Toolchain) *Compiler {
	return &Compiler{Namer: DefaultNamer(), Toolchain: tc}
}

func (c *Compiler) Emit(ctx context.Context, h *hugr.Hugr, entry *hugr.Node, opts EmitOptions) (*Module, error) {
	lowered, err := Lower(h, c.Namer)
	if err != nil {
		return nil, ferrors.BackendError("failed to lower HUGR to LLVM").WithCause(err).Build()
	}
	if entry != nil {
		if _, ok := lowered.Funcs[*entry]; !ok {
			return nil, ferrors.BackendError("entrypoint was not lowered").
				WithContext("node", int(*entry)).
				Build()
		}
	}

	text := lowered.Module.String()
	if opts.OptLevel.Optimises() {
		start := time.Now()
		text, err = c.Toolchain.Optimize(ctx, text, DefaultPasses)
		if err != nil {
			return nil, err
		}
		slog.Debug("Optimized LLVM module",
			logfields.OptLevel(int(opts.OptLevel)),
			logfields.Duration(time.Since(start)))
	}

	bitcode, err := c.Toolchain.Assemble(ctx, text)
	if err != nil {
		return nil, err
	}

	mod := &Module{Bitcode: bitcode}
	if opts.Text {
		mod.Text = &text
	}
	return mod, nil
}
