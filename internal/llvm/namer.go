package llvm

import (
	"strconv"

	"git.home.luguber.info/inful/guppyc/internal/hugr"
)

// Namer derives LLVM symbol names for HUGR functions.
type Namer struct {
	Prefix           string
	PostfixNodeIndex bool
}

// DefaultNamer names functions `_hl.<name>.<node index>`.
func DefaultNamer() Namer {
	return Namer{Prefix: "_hl.", PostfixNodeIndex: true}
}

func (n Namer) NameFunc(name string, node hugr.Node) string {
	s := n.Prefix + name
	if n.PostfixNodeIndex {
		s += "." + strconv.Itoa(int(node))
	}
	return s
}
