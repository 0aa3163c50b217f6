package llvm

import (
	"errors"
	"fmt"
	"slices"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"git.home.luguber.info/inful/guppyc/internal/hugr"
)

// ErrUnsupported is wrapped when a module uses an operation or type the
// lowering does not handle.
var ErrUnsupported = errors.New("unsupported by LLVM lowering")

// SourceFilename is recorded in every emitted module.
const SourceFilename = "guppy_llvm"

// Lowered is the result of lowering a HUGR module.
type Lowered struct {
	Module *ir.Module
	Funcs  map[hugr.Node]*ir.Func
}

// Lower translates the top-level functions of h into an LLVM module.
// Polymorphic definitions are skipped; monomorphize first to lower calls to
// them. Every function body becomes a single basic block.
func Lower(h *hugr.Hugr, namer Namer) (*Lowered, error) {
	l := &lowerer{
		h:     h,
		namer: namer,
		out: &Lowered{
			Module: ir.NewModule(),
			Funcs:  make(map[hugr.Node]*ir.Func),
		},
	}
	l.out.Module.SourceFilename = SourceFilename

	var bodies []hugr.Node
	for _, n := range h.Children(h.Root()) {
		d := h.Nodes[n]
		if !d.Op.IsFunction() || d.Signature.IsPolymorphic() {
			continue
		}
		if err := l.declare(n); err != nil {
			return nil, err
		}
		if d.Op == hugr.OpFuncDefn {
			bodies = append(bodies, n)
		}
	}
	for _, n := range bodies {
		if err := l.body(n); err != nil {
			return nil, fmt.Errorf("function %q: %w", h.Nodes[n].Name, err)
		}
	}
	return l.out, nil
}

type lowerer struct {
	h     *hugr.Hugr
	namer Namer
	out   *Lowered
}

func (l *lowerer) declare(n hugr.Node) error {
	d := l.h.Nodes[n]
	if d.Signature == nil {
		return fmt.Errorf("%w: function %q has no signature", hugr.ErrInvalidHugr, d.Name)
	}
	ret, err := convResult(d.Signature.Body.Output)
	if err != nil {
		return err
	}
	params := make([]*ir.Param, len(d.Signature.Body.Input))
	for i, t := range d.Signature.Body.Input {
		pt, err := convType(t)
		if err != nil {
			return err
		}
		params[i] = ir.NewParam(fmt.Sprintf("a%d", i), pt)
	}

	name := d.Name
	if d.Op == hugr.OpFuncDefn {
		name = l.namer.NameFunc(d.Name, n)
	}
	l.out.Funcs[n] = l.out.Module.NewFunc(name, ret, params...)
	return nil
}

func (l *lowerer) body(fn hugr.Node) error {
	order, err := l.schedule(fn)
	if err != nil {
		return err
	}

	f := l.out.Funcs[fn]
	block := f.NewBlock("entry")
	values := make(map[hugr.Port]value.Value)

	input := func(n hugr.Node) ([]value.Value, error) {
		edges := l.h.ValueInputs(n)
		args := make([]value.Value, len(edges))
		for i, e := range edges {
			v, ok := values[e.Src]
			if !ok {
				return nil, fmt.Errorf("%w: node %d reads an unavailable value from %d:%d",
					hugr.ErrInvalidHugr, n, e.Src.Node, e.Src.Offset)
			}
			args[i] = v
		}
		return args, nil
	}

	returned := false
	for _, n := range order {
		d := l.h.Nodes[n]
		switch d.Op {
		case hugr.OpInput:
			for i, p := range f.Params {
				values[hugr.Out(n, i)] = p
			}

		case hugr.OpConst:
			// Materialized by the LoadConstant nodes reading it.

		case hugr.OpLoadConstant:
			src, ok := l.h.StaticSource(n)
			if !ok {
				return fmt.Errorf("%w: LoadConstant %d has no constant", hugr.ErrInvalidHugr, n)
			}
			c, err := convConst(l.h.Nodes[src].Value)
			if err != nil {
				return err
			}
			values[hugr.Out(n, 0)] = c

		case hugr.OpLoadFunction:
			callee, err := l.callee(n)
			if err != nil {
				return err
			}
			values[hugr.Out(n, 0)] = callee

		case hugr.OpCall:
			callee, err := l.callee(n)
			if err != nil {
				return err
			}
			args, err := input(n)
			if err != nil {
				return err
			}
			call := block.NewCall(callee, args...)
			if st, multi := callee.Sig.RetType.(*types.StructType); multi {
				for i := range st.Fields {
					values[hugr.Out(n, i)] = block.NewExtractValue(call, uint64(i))
				}
			} else if !callee.Sig.RetType.Equal(types.Void) {
				values[hugr.Out(n, 0)] = call
			}

		case hugr.OpExtension:
			args, err := input(n)
			if err != nil {
				return err
			}
			op, err := lookupExtOp(d.Extension, d.Name, len(args))
			if err != nil {
				return err
			}
			values[hugr.Out(n, 0)] = op.emit(block, args)

		case hugr.OpOutput:
			results, err := input(n)
			if err != nil {
				return err
			}
			emitReturn(block, f.Sig.RetType, results)
			returned = true

		default:
			return fmt.Errorf("%w: %s node %d", ErrUnsupported, d.Op, n)
		}
	}
	if !returned {
		return fmt.Errorf("%w: function has no Output node", hugr.ErrInvalidHugr)
	}
	return nil
}

func (l *lowerer) callee(n hugr.Node) (*ir.Func, error) {
	src, ok := l.h.StaticSource(n)
	if !ok {
		return nil, fmt.Errorf("%w: node %d has no callee", hugr.ErrInvalidHugr, n)
	}
	f, ok := l.out.Funcs[src]
	if !ok {
		return nil, fmt.Errorf("%w: call to polymorphic function %q", ErrUnsupported, l.h.Nodes[src].Name)
	}
	return f, nil
}

func emitReturn(block *ir.Block, ret types.Type, results []value.Value) {
	switch len(results) {
	case 0:
		block.NewRet(nil)
	case 1:
		block.NewRet(results[0])
	default:
		var agg value.Value = constant.NewUndef(ret)
		for i, r := range results {
			agg = block.NewInsertValue(agg, r, uint64(i))
		}
		block.NewRet(agg)
	}
}

func convConst(v *hugr.Value) (value.Value, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: constant without value", hugr.ErrInvalidHugr)
	}
	switch v.Kind {
	case hugr.ValueInt:
		return constant.NewInt(types.NewInt(uint64(hugr.Int(v.Width).BitWidth())), v.Int), nil
	case hugr.ValueFloat:
		return constant.NewFloat(types.Double, v.Float), nil
	case hugr.ValueBool:
		return constant.NewBool(v.Bool), nil
	default:
		return nil, fmt.Errorf("%w: constant kind %q", ErrUnsupported, v.Kind)
	}
}

// schedule orders the children of fn so every node follows the nodes whose
// outputs it consumes. Ties are broken by node index and the Output node
// always comes last.
func (l *lowerer) schedule(fn hugr.Node) ([]hugr.Node, error) {
	children := l.h.Children(fn)
	local := make(map[hugr.Node]bool, len(children))
	for _, c := range children {
		local[c] = true
	}

	pending := make(map[hugr.Node]int, len(children))
	users := make(map[hugr.Node][]hugr.Node)
	for _, c := range children {
		for _, e := range l.h.InEdges(c) {
			if local[e.Src.Node] {
				pending[c]++
				users[e.Src.Node] = append(users[e.Src.Node], c)
			}
		}
	}

	var ready, order []hugr.Node
	for _, c := range children {
		if pending[c] == 0 {
			ready = append(ready, c)
		}
	}
	for len(ready) > 0 {
		slices.Sort(ready)
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, u := range users[n] {
			pending[u]--
			if pending[u] == 0 {
				ready = append(ready, u)
			}
		}
	}
	if len(order) != len(children) {
		return nil, fmt.Errorf("%w: dataflow cycle in function body", hugr.ErrInvalidHugr)
	}
	if i := slices.IndexFunc(order, func(n hugr.Node) bool { return l.h.Nodes[n].Op == hugr.OpOutput }); i >= 0 {
		out := order[i]
		order = append(slices.Delete(order, i, i+1), out)
	}
	return order, nil
}
