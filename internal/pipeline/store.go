package pipeline

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/guppyc/internal/config"
	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/logfields"
)

// store writes every output requested for art's stage. Each destination is
// independent; the first failure aborts the run.
func (d *Driver) store(st *runState, art Artifact) error {
	req := d.cfg.Output
	switch a := art.(type) {
	case *SourceArtifact:
		return nil

	case *HugrArtifact:
		if !req.WantsHugr() {
			return nil
		}
		module, err := a.Package.Module()
		if err != nil {
			return ferrors.FrontendOutputError("HUGR package has no module").WithCause(err).Build()
		}
		if err := d.write(st, req, config.ArtifactHugr, a.Package.WriteJSON); err != nil {
			return err
		}
		if err := d.write(st, req, config.ArtifactSexpr, writeString(module.SExpr)); err != nil {
			return err
		}
		return d.write(st, req, config.ArtifactMermaid, writeString(module.Mermaid))

	case *LLVMArtifact:
		if req.LLVM != "" && a.Text == nil {
			return ferrors.InternalError("LLVM text output requested but not rendered").Build()
		}
		if err := d.write(st, req, config.ArtifactLLVM, func(w io.Writer) error {
			_, err := io.WriteString(w, *a.Text)
			return err
		}); err != nil {
			return err
		}
		return d.write(st, req, config.ArtifactBitcode, func(w io.Writer) error {
			_, err := w.Write(a.Bitcode)
			return err
		})
	}
	return nil
}

func writeString(render func() string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, render())
		return err
	}
}

// write renders kind into its destination when one was requested, creating
// parent directories as needed.
func (d *Driver) write(st *runState, req config.OutputRequest, kind config.ArtifactKind, render func(io.Writer) error) error {
	path, ok := req.Destination(kind)
	if !ok {
		return nil
	}
	fail := func(msg string, err error) error {
		return ferrors.FileSystemError(msg).
			WithCause(err).
			WithContext("path", path).
			WithContext("artifact", string(kind)).
			Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fail("failed to create output directory", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fail("failed to create output file", err)
	}
	w := bufio.NewWriter(f)
	if err := render(w); err != nil {
		_ = f.Close()
		return fail("failed to write output", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fail("failed to write output", err)
	}
	if err := f.Close(); err != nil {
		return fail("failed to close output file", err)
	}

	d.recorder.IncArtifactStored(string(kind))
	st.log.Debug("Stored output", logfields.Artifact(string(kind)), logfields.Path(path))
	return nil
}
