package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/guppyc/cmd/guppyc/commands"
	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("guppyc"),
		kong.Description("Compile Guppy programs through HUGR to LLVM."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := parser.Run(&commands.Global{Context: ctx, Stdout: os.Stdout}, &cli)
	if code := ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err); code != 0 {
		stop()
		os.Exit(code)
	}
}
