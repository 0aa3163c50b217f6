// Package frontend runs the Guppy frontend, which turns a Guppy program into
// a serialized HUGR package.
//
// The frontend is an external Python process started through uv with the
// guppylang requirement pinned by a version locator. A small driver script
// is embedded in the binary and written to a temporary directory for each
// run (ProvisionScript). PinRef resolves a git branch or tag to a commit so
// a locator can be made reproducible.
package frontend
