package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/guppyc/internal/config"
	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/frontend"
	"git.home.luguber.info/inful/guppyc/internal/hugr"
	"git.home.luguber.info/inful/guppyc/internal/llvm"
	"git.home.luguber.info/inful/guppyc/internal/logfields"
	"git.home.luguber.info/inful/guppyc/internal/metrics"
)

// Driver runs a configured compilation. A Driver may be run repeatedly, but
// runs must not overlap.
type Driver struct {
	cfg      *config.Config
	frontend frontend.Frontend
	backend  llvm.Backend
	namer    llvm.Namer
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithFrontend replaces the uv based frontend. When unset, the driver
// provisions the frontend script on first use within each run.
func WithFrontend(f frontend.Frontend) Option {
	return func(d *Driver) { d.frontend = f }
}

// WithBackend replaces the default LLVM backend.
func WithBackend(b llvm.Backend) Option {
	return func(d *Driver) { d.backend = b }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(d *Driver) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithLogger sets the logger runs are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver creates a driver for cfg.
func NewDriver(cfg *config.Config, opts ...Option) *Driver {
	d := &Driver{
		cfg:      cfg,
		namer:    llvm.DefaultNamer(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.backend == nil {
		d.backend = llvm.NewCompiler(llvm.NewToolchain(cfg.LLVM))
	}
	return d
}

// runState is what a single run owns.
type runState struct {
	log      *slog.Logger
	cleanups []func() error
}

func (s *runState) close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		if err := s.cleanups[i](); err != nil {
			s.log.Warn("Cleanup failed", logfields.Error(err))
		}
	}
}

// Run validates the configuration and drives the compilation up to the
// stage the requested outputs need, writing outputs along the way.
func (d *Driver) Run(ctx context.Context) error {
	_, err := d.run(ctx)
	return err
}

func (d *Driver) run(ctx context.Context) (art Artifact, err error) {
	start := time.Now()
	st := &runState{log: d.logger.With(logfields.RunID(uuid.NewString()))}
	defer st.close()
	defer func() {
		d.recorder.ObserveRunDuration(time.Since(start))
		d.recorder.IncRunOutcome(resultLabel(ctx, err))
	}()

	if err = d.cfg.Validate(); err != nil {
		return nil, err
	}

	target := RequiredStage(d.cfg.Output)
	art, err = d.initial()
	if err != nil {
		return nil, err
	}
	st.log.Info("Starting compilation",
		logfields.Stage(art.Stage().String()),
		logfields.Target(target.String()))

	if err = d.store(st, art); err != nil {
		return nil, err
	}
	for art.Stage() < target {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if art, err = d.advance(ctx, st, art); err != nil {
			return nil, err
		}
		if err = d.store(st, art); err != nil {
			return nil, err
		}
	}

	st.log.Info("Compilation complete",
		logfields.Stage(art.Stage().String()),
		logfields.Duration(time.Since(start)))
	return art, nil
}

func (d *Driver) initial() (Artifact, error) {
	if d.cfg.HugrInput == "" {
		return &SourceArtifact{Locator: d.cfg.Guppy.Locator(), Path: d.cfg.Source}, nil
	}
	pkg, err := hugr.ReadPackageFile(d.cfg.HugrInput)
	if err != nil {
		if ferrors.IsClassified(err) {
			return nil, err
		}
		if isInvalidHugr(err) {
			return nil, ferrors.FrontendOutputError("invalid HUGR input").
				WithCause(err).
				WithContext("path", d.cfg.HugrInput).
				Build()
		}
		return nil, ferrors.FileSystemError("failed to read HUGR input").
			WithCause(err).
			WithContext("path", d.cfg.HugrInput).
			Build()
	}
	return &HugrArtifact{Package: pkg}, nil
}

// advance performs the single transition out of art's stage.
func (d *Driver) advance(ctx context.Context, st *runState, art Artifact) (Artifact, error) {
	next := art.Stage() + 1
	log := st.log.With(logfields.Stage(next.String()))
	log.Debug("Starting stage transition")
	start := time.Now()

	var out Artifact
	var err error
	switch a := art.(type) {
	case *SourceArtifact:
		out, err = d.compileSource(ctx, st, a)
	case *HugrArtifact:
		out, err = d.compileHugr(ctx, st, a)
	case *LLVMArtifact:
		err = terminalStageError(a.Stage())
	}

	elapsed := time.Since(start)
	d.recorder.ObserveStageDuration(next.String(), elapsed)
	d.recorder.IncStageResult(next.String(), resultLabel(ctx, err))
	if err != nil {
		return nil, err
	}
	log.Info("Stage complete", logfields.Duration(elapsed))
	return out, nil
}

func (d *Driver) compileSource(ctx context.Context, st *runState, a *SourceArtifact) (Artifact, error) {
	fe := d.frontend
	if fe == nil {
		script, cleanup, err := frontend.ProvisionScript("")
		if err != nil {
			return nil, ferrors.FileSystemError("failed to provision frontend script").WithCause(err).Build()
		}
		st.cleanups = append(st.cleanups, cleanup)
		fe = frontend.NewUVFrontend(d.cfg.Frontend, script)
	}

	st.log.Debug("Compiling Guppy program to HUGR", logfields.Path(a.Path), logfields.Locator(a.Locator))
	out, err := fe.Invoke(ctx, a.Locator, a.Path)
	if err != nil {
		if ferrors.IsClassified(err) {
			return nil, err
		}
		return nil, ferrors.FrontendError("frontend failed to compile the program").
			WithCause(err).
			WithContext("path", a.Path).
			Build()
	}

	pkg, err := hugr.ParsePackage([]byte(out))
	if err != nil {
		return nil, ferrors.FrontendOutputError("frontend produced an invalid HUGR package").
			WithCause(err).
			WithContext("path", a.Path).
			Build()
	}
	return &HugrArtifact{Package: pkg}, nil
}

func (d *Driver) compileHugr(ctx context.Context, st *runState, a *HugrArtifact) (Artifact, error) {
	module, err := a.Package.Module()
	if err != nil {
		return nil, ferrors.FrontendOutputError("HUGR package has no module").WithCause(err).Build()
	}

	entry, err := d.resolveEntrypoint(module)
	if err != nil {
		return nil, err
	}
	a.Entrypoint = entry

	if err := hugr.Monomorphize(module); err != nil {
		return nil, ferrors.BackendError("monomorphization failed").WithCause(err).Build()
	}
	if entry != nil {
		if err := hugr.RemoveDeadFuncs(module, *entry); err != nil {
			return nil, ferrors.BackendError("dead function removal failed").WithCause(err).Build()
		}
	}
	// The module is handed to the backend; the package is not used again.
	a.Package = nil

	st.log.Debug("Compiling HUGR to LLVM", logfields.OptLevel(int(d.cfg.OptLevel)))
	mod, err := d.backend.Emit(ctx, module, entry, llvm.EmitOptions{
		OptLevel: d.cfg.OptLevel,
		Text:     d.cfg.Output.LLVM != "",
	})
	if err != nil {
		if ferrors.IsClassified(err) {
			return nil, err
		}
		return nil, ferrors.BackendError("LLVM code generation failed").WithCause(err).Build()
	}

	out := &LLVMArtifact{Bitcode: mod.Bitcode, Text: mod.Text}
	if entry != nil {
		symbol := d.namer.NameFunc(module.Nodes[*entry].Name, *entry)
		out.EntrypointSymbol = &symbol
		st.log.Info("Resolved entrypoint", logfields.Symbol(symbol))
	}
	return out, nil
}

// resolveEntrypoint returns nil when no entrypoint is configured.
func (d *Driver) resolveEntrypoint(module *hugr.Hugr) (*hugr.Node, error) {
	name, ok := d.cfg.EntrypointSpec()
	if !ok {
		return nil, nil
	}
	n, err := module.FindFuncDefn(name)
	if err != nil {
		return nil, entrypointError(err)
	}
	return &n, nil
}

func resultLabel(ctx context.Context, err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case ctx.Err() != nil:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}
