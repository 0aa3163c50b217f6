package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/guppyc/internal/config"
	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/logfields"
	"git.home.luguber.info/inful/guppyc/internal/metrics"
	"git.home.luguber.info/inful/guppyc/internal/pipeline"
	"git.home.luguber.info/inful/guppyc/internal/watch"
)

// CompileCmd implements the 'compile' command.
type CompileCmd struct {
	Input      string `arg:"" optional:"" type:"path" help:"Guppy program to compile"`
	HugrInput  string `name:"hugr-input" type:"path" help:"Start from a serialized HUGR package instead of a Guppy program" placeholder:"FILE"`
	Entrypoint string `short:"e" help:"Entrypoint function; unreachable functions are removed" placeholder:"NAME"`
	OptLevel   string `short:"O" name:"opt-level" help:"Optimisation level 0-3 (default 2)" placeholder:"LEVEL"`

	Hugr    string `name:"hugr" type:"path" help:"Write the HUGR package as JSON" placeholder:"FILE"`
	Sexpr   string `name:"sexpr" type:"path" help:"Write the HUGR module as an S-expression" placeholder:"FILE"`
	Mermaid string `short:"m" type:"path" help:"Write the HUGR module as a mermaid diagram" placeholder:"FILE"`
	LLVM    string `short:"l" name:"llvm" type:"path" help:"Write LLVM IR text" placeholder:"FILE"`
	Bitcode string `short:"b" type:"path" help:"Write LLVM bitcode" placeholder:"FILE"`

	VersionFlags `embed:""`

	Watch       bool   `help:"Recompile whenever the input changes"`
	MetricsFile string `name:"metrics-file" type:"path" help:"Write run metrics in Prometheus text format" placeholder:"FILE"`
}

func (c *CompileCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if err := c.applyTo(cfg); err != nil {
		return err
	}
	if cfg.Output.Empty() {
		slog.Warn("No outputs requested; only the input is checked")
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if cfg.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	driver := pipeline.NewDriver(cfg,
		pipeline.WithRecorder(recorder),
		pipeline.WithLogger(slog.Default()))

	run := driver.Run
	if prom != nil {
		run = func(ctx context.Context) error {
			runErr := driver.Run(ctx)
			if err := prom.WriteTextfile(cfg.MetricsFile); err != nil {
				slog.Warn("Failed to write metrics file", logfields.Path(cfg.MetricsFile), logfields.Error(err))
			}
			return runErr
		}
	}

	if !c.Watch {
		return run(g.Context)
	}
	input := cfg.Source
	if input == "" {
		input = cfg.HugrInput
	}
	w, err := watch.New(input, run)
	if err != nil {
		return ferrors.FileSystemError("failed to start watching").WithCause(err).WithContext("path", input).Build()
	}
	return w.Run(g.Context)
}

// applyTo layers the command line over the loaded configuration.
func (c *CompileCmd) applyTo(cfg *config.Config) error {
	cfg.Source = c.Input
	cfg.HugrInput = c.HugrInput
	cfg.Entrypoint = c.Entrypoint
	if c.OptLevel != "" {
		if err := cfg.OptLevel.UnmarshalText([]byte(c.OptLevel)); err != nil {
			return ferrors.ValidationError("invalid --opt-level").
				WithCause(err).
				WithContext("opt_level", c.OptLevel).
				Build()
		}
	}
	cfg.Output = config.OutputRequest{
		Hugr:    c.Hugr,
		Sexpr:   c.Sexpr,
		Mermaid: c.Mermaid,
		LLVM:    c.LLVM,
		Bitcode: c.Bitcode,
	}
	if c.MetricsFile != "" {
		cfg.MetricsFile = c.MetricsFile
	}
	c.VersionFlags.applyTo(cfg)
	return nil
}
