package pipeline

import "git.home.luguber.info/inful/guppyc/internal/hugr"

// Artifact is the data a run holds at one stage. The set of implementations
// is closed: SourceArtifact, HugrArtifact and LLVMArtifact.
type Artifact interface {
	Stage() Stage
	artifact()
}

// SourceArtifact is a program still to be run through the frontend.
type SourceArtifact struct {
	Locator string // frontend version locator
	Path    string
}

// HugrArtifact holds a parsed HUGR package. Entrypoint is set once the
// configured entrypoint has been resolved against module 0.
type HugrArtifact struct {
	Package    *hugr.Package
	Entrypoint *hugr.Node
}

// LLVMArtifact is an emitted LLVM module. Text is only present when a text
// output was requested; EntrypointSymbol only when an entrypoint was given.
type LLVMArtifact struct {
	Bitcode          []byte
	Text             *string
	EntrypointSymbol *string
}

func (*SourceArtifact) Stage() Stage { return StageSource }
func (*HugrArtifact) Stage() Stage   { return StageHugr }
func (*LLVMArtifact) Stage() Stage   { return StageLLVM }

func (*SourceArtifact) artifact() {}
func (*HugrArtifact) artifact()   {}
func (*LLVMArtifact) artifact()   {}
