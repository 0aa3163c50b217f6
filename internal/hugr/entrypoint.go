package hugr

import (
	"fmt"
	"slices"
)

// MissingFunctionError reports that no top-level function has the requested
// name. Available lists every top-level function name, sorted.
type MissingFunctionError struct {
	Name      string
	Available []string
}

func (e *MissingFunctionError) Error() string {
	return fmt.Sprintf("cannot find function %s in the Hugr package. Available functions: %q", e.Name, e.Available)
}

// MultipleFunctionsError reports that more than one top-level function has
// the requested name.
type MultipleFunctionsError struct {
	Name string
}

func (e *MultipleFunctionsError) Error() string {
	return fmt.Sprintf("multiple functions with the name %s found in the Hugr package", e.Name)
}

// FuncDefns returns the FuncDefn children of the root in index order.
func (h *Hugr) FuncDefns() []Node {
	var out []Node
	for _, c := range h.Children(h.Root()) {
		if h.Nodes[c].Op == OpFuncDefn {
			out = append(out, c)
		}
	}
	return out
}

// FuncNames returns the names of all top-level function definitions, sorted.
func (h *Hugr) FuncNames() []string {
	names := []string{}
	for _, n := range h.FuncDefns() {
		names = append(names, h.Nodes[n].Name)
	}
	slices.Sort(names)
	return names
}

// FindFuncDefn resolves name to the unique top-level function definition
// declaring it.
func (h *Hugr) FindFuncDefn(name string) (Node, error) {
	var matches []Node
	for _, n := range h.FuncDefns() {
		if h.Nodes[n].Name == name {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return 0, &MissingFunctionError{Name: name, Available: h.FuncNames()}
	case 1:
		return matches[0], nil
	default:
		return 0, &MultipleFunctionsError{Name: name}
	}
}
