package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/guppyc/internal/config"
	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/hugr"
	"git.home.luguber.info/inful/guppyc/internal/llvm"
	"git.home.luguber.info/inful/guppyc/internal/metrics"
)

type stubFrontend struct {
	calls   int
	locator string
	path    string
	out     string
	err     error
}

func (f *stubFrontend) Invoke(_ context.Context, locator, path string) (string, error) {
	f.calls++
	f.locator, f.path = locator, path
	return f.out, f.err
}

type countingBackend struct {
	calls  int
	module *hugr.Hugr
	entry  *hugr.Node
	opts   llvm.EmitOptions
}

func (b *countingBackend) Emit(_ context.Context, h *hugr.Hugr, entry *hugr.Node, opts llvm.EmitOptions) (*llvm.Module, error) {
	b.calls++
	b.module, b.entry, b.opts = h, entry, opts
	mod := &llvm.Module{Bitcode: []byte("BC\xc0\xde")}
	if opts.Text {
		text := "; ModuleID = 'guppy_llvm'\n"
		mod.Text = &text
	}
	return mod, nil
}

type countingRecorder struct {
	metrics.NoopRecorder
	stages    map[string]map[metrics.ResultLabel]int
	outcomes  map[metrics.ResultLabel]int
	artifacts map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		stages:    map[string]map[metrics.ResultLabel]int{},
		outcomes:  map[metrics.ResultLabel]int{},
		artifacts: map[string]int{},
	}
}

func (r *countingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	if r.stages[stage] == nil {
		r.stages[stage] = map[metrics.ResultLabel]int{}
	}
	r.stages[stage][result]++
}
func (r *countingRecorder) IncRunOutcome(o metrics.ResultLabel) { r.outcomes[o]++ }
func (r *countingRecorder) IncArtifactStored(kind string)     { r.artifacts[kind]++ }

// programJSON is a package with an unused helper and main() -> int64.
func programJSON(t *testing.T) string {
	t.Helper()
	h := hugr.New()
	unused := h.DefineFunc("unused", hugr.PolyFuncType{Body: hugr.FuncType{Output: []hugr.Type{hugr.Bool()}}})
	unused.Return(unused.Const(hugr.BoolValue(false)))
	main := h.DefineFunc("main", hugr.PolyFuncType{Body: hugr.FuncType{Output: []hugr.Type{hugr.Int(64)}}})
	main.Return(main.Const(hugr.IntValue(64, 42)))

	data, err := hugr.NewPackage(h).JSON()
	require.NoError(t, err)
	return string(data)
}

type fixture struct {
	dir      string
	cfg      *config.Config
	frontend *stubFrontend
	backend  *countingBackend
	recorder *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.py")
	require.NoError(t, os.WriteFile(src, []byte("# guppy program\n"), 0o600))

	cfg := config.New()
	cfg.Source = src
	return &fixture{
		dir:      dir,
		cfg:      cfg,
		frontend: &stubFrontend{out: programJSON(t)},
		backend:  &countingBackend{},
		recorder: newCountingRecorder(),
	}
}

func (f *fixture) driver() *Driver {
	return NewDriver(f.cfg,
		WithFrontend(f.frontend),
		WithBackend(f.backend),
		WithRecorder(f.recorder),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (f *fixture) out(name string) string { return filepath.Join(f.dir, "out", name) }

func TestDriverMermaidOnlyStopsAtHugr(t *testing.T) {
	f := newFixture(t)
	f.cfg.Output.Mermaid = f.out("prog.mmd")

	art, err := f.driver().run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StageHugr, art.Stage())

	assert.Equal(t, 1, f.frontend.calls)
	assert.Equal(t, 0, f.backend.calls)

	data, err := os.ReadFile(f.cfg.Output.Mermaid)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "graph LR\n"))

	entries, err := os.ReadDir(filepath.Dir(f.cfg.Output.Mermaid))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no low-level outputs may be written")
	assert.Equal(t, 1, f.recorder.artifacts["mermaid"])
}

func TestDriverWithoutOutputsNeverTransitions(t *testing.T) {
	f := newFixture(t)

	art, err := f.driver().run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StageSource, art.Stage())
	assert.Equal(t, 0, f.frontend.calls)
	assert.Equal(t, 0, f.backend.calls)
	assert.Equal(t, 1, f.recorder.outcomes[metrics.ResultSuccess])
}

func TestDriverPassesLocatorToFrontend(t *testing.T) {
	f := newFixture(t)
	f.cfg.Guppy = config.FrontendVersion{Version: "0.14.0"}
	f.cfg.Output.Hugr = f.out("prog.json")

	require.NoError(t, f.driver().Run(context.Background()))
	assert.Equal(t, "==0.14.0", f.frontend.locator)
	assert.Equal(t, f.cfg.Source, f.frontend.path)

	pkg, err := hugr.ReadPackageFile(f.cfg.Output.Hugr)
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "unused"}, pkg.Modules[0].FuncNames())
}

func TestDriverLLVMWithEntrypoint(t *testing.T) {
	f := newFixture(t)
	f.cfg.Entrypoint = "main"
	f.cfg.OptLevel = config.O0
	f.cfg.Output.LLVM = f.out("prog.ll")
	f.cfg.Output.Bitcode = f.out("prog.bc")
	f.cfg.Output.Sexpr = f.out("prog.sexpr")

	art, err := f.driver().run(context.Background())
	require.NoError(t, err)

	llvmArt, ok := art.(*LLVMArtifact)
	require.True(t, ok)
	require.NotNil(t, llvmArt.EntrypointSymbol)
	assert.Equal(t, "_hl.main.6", *llvmArt.EntrypointSymbol)

	assert.Equal(t, 1, f.frontend.calls)
	assert.Equal(t, 1, f.backend.calls)
	require.NotNil(t, f.backend.entry)
	assert.Equal(t, hugr.Node(6), *f.backend.entry)
	assert.Equal(t, config.O0, f.backend.opts.OptLevel)
	assert.True(t, f.backend.opts.Text)
	assert.Equal(t, []string{"main"}, f.backend.module.FuncNames(), "unreachable functions are pruned")

	for _, p := range []string{f.cfg.Output.LLVM, f.cfg.Output.Bitcode, f.cfg.Output.Sexpr} {
		assert.FileExists(t, p)
	}
	bc, err := os.ReadFile(f.cfg.Output.Bitcode)
	require.NoError(t, err)
	assert.Equal(t, []byte("BC\xc0\xde"), bc)
	assert.Equal(t, 1, f.recorder.stages["llvm"][metrics.ResultSuccess])
}

func TestDriverWithoutEntrypointKeepsAllFunctions(t *testing.T) {
	f := newFixture(t)
	f.cfg.Output.Bitcode = f.out("prog.bc")

	art, err := f.driver().run(context.Background())
	require.NoError(t, err)

	assert.Nil(t, art.(*LLVMArtifact).EntrypointSymbol)
	assert.Nil(t, f.backend.entry)
	assert.False(t, f.backend.opts.Text, "text is only rendered when requested")
	assert.Equal(t, []string{"main", "unused"}, f.backend.module.FuncNames())
}

func TestDriverMissingEntrypoint(t *testing.T) {
	f := newFixture(t)
	f.cfg.Entrypoint = "nope"
	f.cfg.Output.Bitcode = f.out("prog.bc")

	err := f.driver().Run(context.Background())
	require.Error(t, err)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryEntrypoint, ce.Category())
	available, _ := ce.Context().GetStrings("available")
	assert.Equal(t, []string{"main", "unused"}, available)

	var missing *hugr.MissingFunctionError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, 0, f.backend.calls)
	assert.NoFileExists(t, f.cfg.Output.Bitcode)
	assert.Equal(t, 1, f.recorder.outcomes[metrics.ResultFailed])
}

func TestDriverConfigErrorBeforeAnyWork(t *testing.T) {
	f := newFixture(t)
	f.cfg.Guppy = config.FrontendVersion{Version: "0.14.0", Ref: "main"}
	f.cfg.Output.Mermaid = f.out("prog.mmd")

	err := f.driver().Run(context.Background())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, 0, f.frontend.calls)
}

func TestDriverFrontendFailures(t *testing.T) {
	t.Run("invocation", func(t *testing.T) {
		f := newFixture(t)
		f.frontend.err = errors.New("uv: command not found")
		f.cfg.Output.Hugr = f.out("prog.json")

		err := f.driver().Run(context.Background())
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFrontend))
		assert.Equal(t, 1, f.recorder.stages["hugr"][metrics.ResultFailed])
	})

	t.Run("output", func(t *testing.T) {
		f := newFixture(t)
		f.frontend.out = "Traceback (most recent call last):"
		f.cfg.Output.Hugr = f.out("prog.json")

		err := f.driver().Run(context.Background())
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFrontendOutput))
		assert.ErrorIs(t, err, hugr.ErrInvalidHugr)
	})
}

func TestDriverHugrInputSkipsFrontend(t *testing.T) {
	f := newFixture(t)
	input := filepath.Join(f.dir, "prog.hugr.json")
	require.NoError(t, os.WriteFile(input, []byte(programJSON(t)), 0o600))
	f.cfg.Source = ""
	f.cfg.HugrInput = input
	f.cfg.Output.Sexpr = f.out("prog.sexpr")

	require.NoError(t, f.driver().Run(context.Background()))
	assert.Equal(t, 0, f.frontend.calls)

	data, err := os.ReadFile(f.cfg.Output.Sexpr)
	require.NoError(t, err)
	assert.Contains(t, string(data), `(define-func 6 "main"`)
}

func TestDriverInvalidHugrInput(t *testing.T) {
	f := newFixture(t)
	input := filepath.Join(f.dir, "bad.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"modules": []}`), 0o600))
	f.cfg.Source = ""
	f.cfg.HugrInput = input

	err := f.driver().Run(context.Background())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFrontendOutput))
}

func TestDriverOutputWriteFailure(t *testing.T) {
	f := newFixture(t)
	blocker := filepath.Join(f.dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	f.cfg.Output.Mermaid = filepath.Join(blocker, "prog.mmd")

	err := f.driver().Run(context.Background())
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryFileSystem, ce.Category())
	artifact, _ := ce.Context().GetString("artifact")
	assert.Equal(t, "mermaid", artifact)
}

func TestAdvancePastLLVMIsTerminal(t *testing.T) {
	f := newFixture(t)
	d := f.driver()
	st := &runState{log: d.logger}

	_, err := d.advance(context.Background(), st, &LLVMArtifact{})
	assert.ErrorIs(t, err, ErrTerminalStage)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPipeline))
}

func TestDriverCancelled(t *testing.T) {
	f := newFixture(t)
	f.cfg.Output.Hugr = f.out("prog.json")
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	err := f.driver().Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, f.frontend.calls)
	assert.Equal(t, 1, f.recorder.outcomes[metrics.ResultCanceled])
}
