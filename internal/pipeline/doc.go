// Package pipeline drives a compilation through its stages.
//
// A run starts from the artifact of the input stage (a Guppy program, or a
// HUGR package given directly) and transitions one stage at a time until it
// reaches the lowest stage any requested output needs. After every stage the
// outputs requested for it are written. Stages past the target are never
// computed, so requesting only a HUGR rendering never invokes the backend.
package pipeline
