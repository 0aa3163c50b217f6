package hugr

import (
	"fmt"
	"strings"
)

// Monomorphize replaces every call of a polymorphic function with a call of
// a specialized copy instantiated at the call's concrete type arguments.
// Copies are shared between calls with equal arguments and are added as new
// top-level functions named $<name>$<args>. The polymorphic originals stay
// in place; RemoveDeadFuncs drops them once unreferenced.
func Monomorphize(h *Hugr) error {
	m := &monomorphizer{h: h, cache: make(map[string]Node)}
	for i := range h.Nodes {
		m.enqueue(Node(i))
	}
	for len(m.work) > 0 {
		call := m.work[0]
		m.work = m.work[1:]
		if err := m.rewrite(call); err != nil {
			return err
		}
	}
	return nil
}

type monomorphizer struct {
	h     *Hugr
	cache map[string]Node
	work  []Node
}

// enqueue schedules n when it instantiates a polymorphic definition at
// concrete types.
func (m *monomorphizer) enqueue(n Node) {
	d := m.h.Get(n)
	if d == nil || (d.Op != OpCall && d.Op != OpLoadFunction) {
		return
	}
	if len(d.TypeArgs) == 0 || !allConcrete(d.TypeArgs) {
		return
	}
	callee, ok := m.h.StaticSource(n)
	if !ok || m.h.Nodes[callee].Op != OpFuncDefn || !m.h.Nodes[callee].Signature.IsPolymorphic() {
		return
	}
	m.work = append(m.work, n)
}

func (m *monomorphizer) rewrite(call Node) error {
	h := m.h
	callee, ok := h.StaticSource(call)
	if !ok {
		return fmt.Errorf("%w: call %d has no static source", ErrInvalidHugr, call)
	}
	def := h.Nodes[callee]
	args := h.Nodes[call].TypeArgs
	if got, want := len(args), len(def.Signature.Params); got != want {
		return fmt.Errorf("%w: call %d passes %d type arguments to %q, expected %d",
			ErrInvalidHugr, call, got, def.Name, want)
	}

	key := mangle(def.Name, args)
	spec, ok := m.cache[key]
	if !ok {
		spec = m.specialize(callee, key, args)
		m.cache[key] = spec
	}
	for i, e := range h.Edges {
		if e.Dst.Node == call && e.Src.Node == callee {
			h.Edges[i].Src.Node = spec
		}
	}
	h.Nodes[call].TypeArgs = nil
	return nil
}

// specialize copies the definition at callee under the root with args
// substituted for its type parameters.
func (m *monomorphizer) specialize(callee Node, name string, args []Type) Node {
	h := m.h
	subtree := h.Descendants(callee)
	remap := make(map[Node]Node, len(subtree))
	for _, n := range subtree {
		remap[n] = Node(len(h.Nodes))
		h.Nodes = append(h.Nodes, nil)
	}

	for _, n := range subtree {
		d := h.Nodes[n].clone()
		if n == callee {
			d.Parent = h.Root()
			d.Name = name
			d.Signature = d.Signature.instantiate(args)
		} else {
			d.Parent = remap[d.Parent]
			if d.Signature != nil {
				d.Signature.Body.Input = substAll(d.Signature.Body.Input, args)
				d.Signature.Body.Output = substAll(d.Signature.Body.Output, args)
			}
		}
		d.Types = substAll(d.Types, args)
		d.TypeArgs = substAll(d.TypeArgs, args)
		h.Nodes[remap[n]] = d
	}

	// Edges inside the body are copied. Edges entering it from outside keep
	// their source, as do recursive calls: those still name the polymorphic
	// definition and are specialized through the worklist.
	for _, e := range append([]Edge(nil), h.Edges...) {
		dst, inside := remap[e.Dst.Node]
		if !inside || e.Dst.Node == callee {
			continue
		}
		src := e.Src.Node
		if s, ok := remap[src]; ok && src != callee {
			src = s
		}
		h.Connect(Port{Node: src, Offset: e.Src.Offset}, Port{Node: dst, Offset: e.Dst.Offset})
	}

	for _, n := range subtree {
		m.enqueue(remap[n])
	}
	return remap[callee]
}

func mangle(name string, args []Type) string {
	var b strings.Builder
	b.WriteString("$" + name)
	for _, a := range args {
		b.WriteString("$" + a.String())
	}
	return b.String()
}
