// Package errors provides the classified error primitives used across guppyc.
//
// Every failure of the compilation pipeline is a ClassifiedError carrying a
// category (config, frontend, entrypoint, pipeline, backend, filesystem, ...),
// a severity, and structured context such as captured process output or the
// list of functions available in a program. The CLI adapter turns these into
// a diagnostic message and an exit code.
//
// Example usage:
//
//	err := errors.EntrypointError("function not found").
//		WithContext("function", name).
//		WithContext("available", names).
//		WithCause(cause).
//		Build()
package errors
