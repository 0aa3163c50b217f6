package hugr

// FuncBuilder appends the body of a function definition.
type FuncBuilder struct {
	h      *Hugr
	Node   Node
	Input  Node
	Output Node
}

// DefineFunc adds a FuncDefn under the root together with its Input and
// Output nodes.
func (h *Hugr) DefineFunc(name string, sig PolyFuncType) *FuncBuilder {
	fn := h.AddNode(h.Root(), NodeData{Op: OpFuncDefn, Name: name, Signature: &sig})
	in := h.AddNode(fn, NodeData{Op: OpInput, Types: sig.Body.Input})
	out := h.AddNode(fn, NodeData{Op: OpOutput, Types: sig.Body.Output})
	return &FuncBuilder{h: h, Node: fn, Input: in, Output: out}
}

// DeclareFunc adds an external function declaration under the root.
func (h *Hugr) DeclareFunc(name string, sig PolyFuncType) Node {
	return h.AddNode(h.Root(), NodeData{Op: OpFuncDecl, Name: name, Signature: &sig})
}

// Param returns the output port of the Input node for parameter i.
func (f *FuncBuilder) Param(i int) Port {
	return Out(f.Input, i)
}

// Const adds a constant and the LoadConstant reading it, returning the loaded value.
func (f *FuncBuilder) Const(v *Value) Port {
	c := f.h.AddNode(f.Node, NodeData{Op: OpConst, Value: v})
	load := f.h.AddNode(f.Node, NodeData{Op: OpLoadConstant})
	f.h.Connect(Out(c, 0), Port{Node: load, Offset: 0})
	return Out(load, 0)
}

// Call adds a call to callee with the given type arguments and value inputs.
func (f *FuncBuilder) Call(callee Node, typeArgs []Type, args ...Port) Node {
	call := f.h.AddNode(f.Node, NodeData{Op: OpCall, TypeArgs: typeArgs})
	for i, a := range args {
		f.h.Connect(a, Port{Node: call, Offset: i})
	}
	f.h.Connect(Out(callee, 0), Port{Node: call, Offset: len(args)})
	return call
}

// Ext adds an extension operation.
func (f *FuncBuilder) Ext(extension, name string, sig FuncType, args ...Port) Node {
	n := f.h.AddNode(f.Node, NodeData{
		Op:        OpExtension,
		Extension: extension,
		Name:      name,
		Signature: &PolyFuncType{Body: sig},
	})
	for i, a := range args {
		f.h.Connect(a, Port{Node: n, Offset: i})
	}
	return n
}

// Return connects results to the Output node.
func (f *FuncBuilder) Return(results ...Port) {
	for i, r := range results {
		f.h.Connect(r, Port{Node: f.Output, Offset: i})
	}
}
