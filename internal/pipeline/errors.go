package pipeline

import (
	"errors"

	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
	"git.home.luguber.info/inful/guppyc/internal/hugr"
)

// ErrTerminalStage is returned when a transition is requested past the last stage.
var ErrTerminalStage = errors.New("no stage after llvm")

func terminalStageError(s Stage) error {
	return ferrors.PipelineError("cannot transition past the final stage").
		WithCause(ErrTerminalStage).
		WithContext("stage", s.String()).
		Build()
}

func isInvalidHugr(err error) bool {
	return errors.Is(err, hugr.ErrInvalidHugr)
}

// entrypointError classifies a failed entrypoint lookup.
func entrypointError(err error) error {
	var missing *hugr.MissingFunctionError
	if errors.As(err, &missing) {
		return ferrors.EntrypointError("entrypoint function not found").
			WithCause(err).
			WithContext("function", missing.Name).
			WithContext("available", missing.Available).
			Build()
	}
	var multiple *hugr.MultipleFunctionsError
	if errors.As(err, &multiple) {
		return ferrors.EntrypointError("entrypoint function is ambiguous").
			WithCause(err).
			WithContext("function", multiple.Name).
			Build()
	}
	return ferrors.EntrypointError("failed to resolve entrypoint").WithCause(err).Build()
}
