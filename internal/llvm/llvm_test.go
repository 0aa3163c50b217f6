package llvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/guppyc/internal/hugr"
)

type program struct {
	h    *hugr.Hugr
	add  hugr.Node
	pair hugr.Node
	main hugr.Node
}

// newProgram builds add(a, b) = a + b, pair(x) = (x, x < 10) and a main
// returning add(40, 2).
func newProgram() program {
	h := hugr.New()
	i64 := hugr.Int(64)

	add := h.DefineFunc("add", hugr.PolyFuncType{Body: hugr.FuncType{
		Input: []hugr.Type{i64, i64}, Output: []hugr.Type{i64},
	}})
	sum := add.Ext("arithmetic.int", "iadd",
		hugr.FuncType{Input: []hugr.Type{i64, i64}, Output: []hugr.Type{i64}},
		add.Param(0), add.Param(1))
	add.Return(hugr.Out(sum, 0))

	pair := h.DefineFunc("pair", hugr.PolyFuncType{Body: hugr.FuncType{
		Input: []hugr.Type{i64}, Output: []hugr.Type{i64, hugr.Bool()},
	}})
	lt := pair.Ext("arithmetic.int", "ilt_s",
		hugr.FuncType{Input: []hugr.Type{i64, i64}, Output: []hugr.Type{hugr.Bool()}},
		pair.Param(0), pair.Const(hugr.IntValue(64, 10)))
	pair.Return(pair.Param(0), hugr.Out(lt, 0))

	main := h.DefineFunc("main", hugr.PolyFuncType{Body: hugr.FuncType{Output: []hugr.Type{i64}}})
	call := main.Call(add.Node, nil, main.Const(hugr.IntValue(64, 40)), main.Const(hugr.IntValue(64, 2)))
	p := main.Call(pair.Node, nil, hugr.Out(call, 0))
	main.Return(hugr.Out(p, 0))

	return program{h: h, add: add.Node, pair: pair.Node, main: main.Node}
}

func TestNamer(t *testing.T) {
	assert.Equal(t, "_hl.main.5", DefaultNamer().NameFunc("main", 5))
	assert.Equal(t, "main", Namer{}.NameFunc("main", 5))
	assert.Equal(t, "x.main", Namer{Prefix: "x."}.NameFunc("main", 5))
}

func TestLower(t *testing.T) {
	p := newProgram()

	lowered, err := Lower(p.h, DefaultNamer())
	require.NoError(t, err)
	require.Len(t, lowered.Funcs, 3)
	assert.Equal(t, "_hl.main.11", lowered.Funcs[p.main].Name())

	text := lowered.Module.String()
	assert.Contains(t, text, `source_filename = "guppy_llvm"`)
	assert.Contains(t, text, "define i64 @_hl.add.1(i64 %a0, i64 %a1)")
	assert.Contains(t, text, "add i64 %a0, %a1")
	assert.Contains(t, text, "define { i64, i1 } @_hl.pair.5(i64 %a0)")
	assert.Contains(t, text, "icmp slt i64 %a0, 10")
	assert.Contains(t, text, "insertvalue { i64, i1 } undef, i64 %a0, 0")
	assert.Contains(t, text, "call i64 @_hl.add.1(i64 40, i64 2)")
	assert.Contains(t, text, "extractvalue { i64, i1 }")
}

func TestLowerSkipsPolymorphicDefinitions(t *testing.T) {
	h := hugr.New()
	id := h.DefineFunc("id", hugr.PolyFuncType{
		Params: []string{"T"},
		Body:   hugr.FuncType{Input: []hugr.Type{hugr.Var(0)}, Output: []hugr.Type{hugr.Var(0)}},
	})
	id.Return(id.Param(0))

	lowered, err := Lower(h, DefaultNamer())
	require.NoError(t, err)
	assert.Empty(t, lowered.Funcs)

	main := h.DefineFunc("main", hugr.PolyFuncType{Body: hugr.FuncType{Output: []hugr.Type{hugr.Bool()}}})
	call := main.Call(id.Node, []hugr.Type{hugr.Bool()}, main.Const(hugr.BoolValue(true)))
	main.Return(hugr.Out(call, 0))

	_, err = Lower(h, DefaultNamer())
	assert.ErrorIs(t, err, ErrUnsupported)

	require.NoError(t, hugr.Monomorphize(h))
	lowered, err = Lower(h, DefaultNamer())
	require.NoError(t, err)
	assert.Len(t, lowered.Funcs, 2)
}

func TestLowerDeclarationsKeepTheirName(t *testing.T) {
	h := hugr.New()
	ext := h.DeclareFunc("puts", hugr.PolyFuncType{Body: hugr.FuncType{Input: []hugr.Type{hugr.Int(32)}}})
	main := h.DefineFunc("main", hugr.PolyFuncType{})
	main.Call(ext, nil, main.Const(hugr.IntValue(32, 7)))
	main.Return()

	lowered, err := Lower(h, DefaultNamer())
	require.NoError(t, err)
	text := lowered.Module.String()
	assert.Contains(t, text, "declare void @puts(i32 %a0)")
	assert.Contains(t, text, "call void @puts(i32 7)")
	assert.Contains(t, text, "ret void")
}

func TestLowerRejectsUnsupportedOps(t *testing.T) {
	h := hugr.New()
	main := h.DefineFunc("main", hugr.PolyFuncType{})
	h.AddNode(main.Node, hugr.NodeData{Op: hugr.OpDFG})
	main.Return()

	_, err := Lower(h, DefaultNamer())
	assert.ErrorIs(t, err, ErrUnsupported)

	h = hugr.New()
	main = h.DefineFunc("main", hugr.PolyFuncType{Body: hugr.FuncType{Output: []hugr.Type{hugr.Int(64)}}})
	op := main.Ext("arithmetic.int", "ipow",
		hugr.FuncType{Input: []hugr.Type{hugr.Int(64)}, Output: []hugr.Type{hugr.Int(64)}},
		main.Const(hugr.IntValue(64, 2)))
	main.Return(hugr.Out(op, 0))

	_, err = Lower(h, DefaultNamer())
	assert.ErrorIs(t, err, ErrUnsupported)
}
