package commands

import (
	"fmt"

	"git.home.luguber.info/inful/guppyc/internal/frontend"
)

// LocateCmd implements the 'locate' command.
type LocateCmd struct {
	VersionFlags `embed:""`

	Pin bool `help:"Resolve a git branch or tag to the commit it currently points at"`
}

func (l *LocateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	l.VersionFlags.applyTo(cfg)

	v := cfg.Guppy
	if err := v.Validate(); err != nil {
		return err
	}
	if l.Pin {
		if v, err = frontend.PinRef(g.Context, v, nil); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(g.Stdout, v.Requirement(cfg.Frontend.Package))
	return err
}
