package hugr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func funcsNamed(h *Hugr, name string) []Node {
	var out []Node
	for _, n := range h.Children(h.Root()) {
		if h.Nodes[n].Op.IsFunction() && h.Nodes[n].Name == name {
			out = append(out, n)
		}
	}
	return out
}

func TestMonomorphizeSpecializesCall(t *testing.T) {
	s := newSample()
	require.NoError(t, Monomorphize(s.h))

	copies := funcsNamed(s.h, "$id$int64")
	require.Len(t, copies, 1)
	spec := copies[0]

	callee, ok := s.h.StaticSource(s.call)
	require.True(t, ok)
	assert.Equal(t, spec, callee)
	assert.Empty(t, s.h.Nodes[s.call].TypeArgs)

	sig := s.h.Nodes[spec].Signature
	assert.False(t, sig.IsPolymorphic())
	assert.Equal(t, []Type{Int(64)}, sig.Body.Input)
	assert.Equal(t, []Type{Int(64)}, sig.Body.Output)

	in, out, err := s.h.IOChildren(spec)
	require.NoError(t, err)
	assert.Equal(t, []Type{Int(64)}, s.h.Nodes[in].Types)
	require.Len(t, s.h.InEdges(out), 1)
	assert.Equal(t, in, s.h.InEdges(out)[0].Src.Node)

	// The polymorphic original is untouched.
	assert.True(t, s.h.Nodes[s.id].Signature.IsPolymorphic())
	require.NoError(t, s.h.Validate())
}

func TestMonomorphizeSharesCopies(t *testing.T) {
	s := newSample()
	f := &FuncBuilder{h: s.h, Node: s.main}
	f.Call(s.id, []Type{Int(64)}, f.Const(IntValue(64, 1)))
	f.Call(s.id, []Type{Bool()}, f.Const(BoolValue(false)))

	require.NoError(t, Monomorphize(s.h))
	assert.Len(t, funcsNamed(s.h, "$id$int64"), 1)
	assert.Len(t, funcsNamed(s.h, "$id$bool"), 1)
}

func TestMonomorphizeRecursiveCall(t *testing.T) {
	h := New()
	sig := PolyFuncType{
		Params: []string{"T"},
		Body:   FuncType{Input: []Type{Var(0)}, Output: []Type{Var(0)}},
	}
	loop := h.DefineFunc("loop", sig)
	self := loop.Call(loop.Node, []Type{Var(0)}, loop.Param(0))
	loop.Return(Out(self, 0))

	main := h.DefineFunc("main", PolyFuncType{Body: FuncType{Output: []Type{Float()}}})
	call := main.Call(loop.Node, []Type{Float()}, main.Const(FloatValue(1.5)))
	main.Return(Out(call, 0))

	require.NoError(t, Monomorphize(h))

	copies := funcsNamed(h, "$loop$float64")
	require.Len(t, copies, 1)
	spec := copies[0]

	for _, n := range h.Descendants(spec) {
		if h.Nodes[n].Op != OpCall {
			continue
		}
		callee, ok := h.StaticSource(n)
		require.True(t, ok)
		assert.Equal(t, spec, callee)
	}

	// The original's own recursive call is left generic.
	callee, ok := h.StaticSource(self)
	require.True(t, ok)
	assert.Equal(t, loop.Node, callee)
}

func TestMonomorphizeRejectsArityMismatch(t *testing.T) {
	s := newSample()
	s.h.Nodes[s.call].TypeArgs = []Type{Int(64), Bool()}

	err := Monomorphize(s.h)
	assert.ErrorIs(t, err, ErrInvalidHugr)
}

func TestRemoveDeadFuncsAfterMonomorphize(t *testing.T) {
	s := newSample()
	require.NoError(t, Monomorphize(s.h))
	require.NoError(t, RemoveDeadFuncs(s.h, s.main))

	var names []string
	for _, n := range s.h.Children(s.h.Root()) {
		names = append(names, s.h.Nodes[n].Name)
	}
	assert.ElementsMatch(t, []string{"main", "$id$int64"}, names)
	require.NoError(t, s.h.Validate())

	// Serialization renumbers around the removed nodes.
	pkg, err := ParsePackage(mustJSON(t, NewPackage(s.h)))
	require.NoError(t, err)
	assert.Equal(t, []string{"$id$int64", "main"}, pkg.Modules[0].FuncNames())
}

func TestRemoveDeadFuncsKeepsDeclarationsInUse(t *testing.T) {
	h := New()
	ext := h.DeclareFunc("ext", PolyFuncType{})
	h.DeclareFunc("other", PolyFuncType{})
	main := h.DefineFunc("main", PolyFuncType{})
	main.Call(ext, nil)
	main.Return()

	require.NoError(t, RemoveDeadFuncs(h, main.Node))
	assert.True(t, h.Contains(ext))
	assert.Len(t, funcsNamed(h, "other"), 0)
}

func TestRemoveDeadFuncsRejectsNonFunctionEntry(t *testing.T) {
	s := newSample()
	err := RemoveDeadFuncs(s.h, s.call)
	assert.ErrorIs(t, err, ErrInvalidHugr)
}

func mustJSON(t *testing.T, pkg *Package) []byte {
	t.Helper()
	data, err := pkg.JSON()
	require.NoError(t, err)
	return data
}
