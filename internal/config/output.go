package config

// ArtifactKind names a side-artifact a run may persist.
type ArtifactKind string

const (
	ArtifactHugr    ArtifactKind = "hugr"
	ArtifactSexpr   ArtifactKind = "sexpr"
	ArtifactMermaid ArtifactKind = "mermaid"
	ArtifactLLVM    ArtifactKind = "llvm"
	ArtifactBitcode ArtifactKind = "bitcode"
)

// OutputRequest maps each artifact kind to its destination path. An empty
// path means the artifact is not requested.
type OutputRequest struct {
	Hugr    string // HUGR package as JSON
	Sexpr   string // HUGR module as S-expression
	Mermaid string // HUGR module as mermaid diagram
	LLVM    string // LLVM IR text
	Bitcode string // LLVM bitcode
}

// Destination returns the path requested for kind.
func (o OutputRequest) Destination(kind ArtifactKind) (string, bool) {
	var p string
	switch kind {
	case ArtifactHugr:
		p = o.Hugr
	case ArtifactSexpr:
		p = o.Sexpr
	case ArtifactMermaid:
		p = o.Mermaid
	case ArtifactLLVM:
		p = o.LLVM
	case ArtifactBitcode:
		p = o.Bitcode
	}
	return p, p != ""
}

// WantsHugr reports whether any HUGR rendering is requested.
func (o OutputRequest) WantsHugr() bool {
	return o.Hugr != "" || o.Sexpr != "" || o.Mermaid != ""
}

// WantsLLVM reports whether any LLVM artifact is requested.
func (o OutputRequest) WantsLLVM() bool {
	return o.LLVM != "" || o.Bitcode != ""
}

// Empty reports whether no artifact is requested at all.
func (o OutputRequest) Empty() bool {
	return !o.WantsHugr() && !o.WantsLLVM()
}
