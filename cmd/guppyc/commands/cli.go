package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/guppyc/internal/config"
)

// Global is shared state bound into every command's Run.
type Global struct {
	Context context.Context
	Stdout  io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (optional)" type:"path"`
	Verbose bool             `short:"v" help:"Enable debug logging" xor:"verbosity"`
	Quiet   bool             `short:"q" help:"Only log errors" xor:"verbosity"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Compile    CompileCmd `cmd:"" default:"withargs" help:"Compile a Guppy program through HUGR to LLVM"`
	Locate     LocateCmd  `cmd:"" help:"Print the guppylang requirement the frontend would use"`
	Init       InitCmd    `cmd:"" help:"Write an example configuration file"`
	VersionCmd VersionCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel(c.Verbose, c.Quiet),
	}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the optional configuration file named by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.Config)
}

// VersionFlags select the frontend release. They are shared by compile and
// locate.
type VersionFlags struct {
	GuppyVersion string `name:"guppy-version" help:"Exact guppylang release to use (e.g. 0.14.0)" placeholder:"VERSION"`
	GuppyGit     string `name:"guppy-git" help:"Git repository to install guppylang from" placeholder:"URL"`
	GuppyRef     string `name:"guppy-ref" help:"Git branch, tag or commit to install guppylang from" placeholder:"REF"`
}

// applyTo overrides the configured frontend version when any flag is given.
// Flags replace the configured locator as a whole so a configured version
// does not conflict with a git override on the command line.
func (f VersionFlags) applyTo(cfg *config.Config) {
	if f.GuppyVersion == "" && f.GuppyGit == "" && f.GuppyRef == "" {
		return
	}
	cfg.Guppy = config.FrontendVersion{Version: f.GuppyVersion, Git: f.GuppyGit, Ref: f.GuppyRef}
}
