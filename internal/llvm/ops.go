package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// extOp lowers one extension operation to a single instruction.
type extOp struct {
	arity int
	emit  func(b *ir.Block, args []value.Value) value.Value
}

func binary(f func(b *ir.Block, x, y value.Value) value.Value) extOp {
	return extOp{arity: 2, emit: func(b *ir.Block, args []value.Value) value.Value {
		return f(b, args[0], args[1])
	}}
}

func icmp(pred enum.IPred) extOp {
	return binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewICmp(pred, x, y) })
}

func fcmp(pred enum.FPred) extOp {
	return binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewFCmp(pred, x, y) })
}

// extOps is keyed by "<extension>.<op name>".
var extOps = map[string]extOp{
	"arithmetic.int.iadd":   binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewAdd(x, y) }),
	"arithmetic.int.isub":   binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewSub(x, y) }),
	"arithmetic.int.imul":   binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewMul(x, y) }),
	"arithmetic.int.idiv_s": binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewSDiv(x, y) }),
	"arithmetic.int.imod_s": binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewSRem(x, y) }),
	"arithmetic.int.ieq":    icmp(enum.IPredEQ),
	"arithmetic.int.ine":    icmp(enum.IPredNE),
	"arithmetic.int.ilt_s":  icmp(enum.IPredSLT),
	"arithmetic.int.ile_s":  icmp(enum.IPredSLE),
	"arithmetic.int.igt_s":  icmp(enum.IPredSGT),
	"arithmetic.int.ige_s":  icmp(enum.IPredSGE),

	"arithmetic.float.fadd": binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewFAdd(x, y) }),
	"arithmetic.float.fsub": binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewFSub(x, y) }),
	"arithmetic.float.fmul": binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewFMul(x, y) }),
	"arithmetic.float.fdiv": binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewFDiv(x, y) }),
	"arithmetic.float.feq":  fcmp(enum.FPredOEQ),
	"arithmetic.float.flt":  fcmp(enum.FPredOLT),
	"arithmetic.float.fgt":  fcmp(enum.FPredOGT),

	"logic.And": binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewAnd(x, y) }),
	"logic.Or":  binary(func(b *ir.Block, x, y value.Value) value.Value { return b.NewOr(x, y) }),
	"logic.Eq":  icmp(enum.IPredEQ),
	"logic.Not": {arity: 1, emit: func(b *ir.Block, args []value.Value) value.Value {
		return b.NewXor(args[0], constant.NewBool(true))
	}},
}

func lookupExtOp(extension, name string, args int) (extOp, error) {
	op, ok := extOps[extension+"."+name]
	if !ok {
		return extOp{}, fmt.Errorf("%w: extension op %s.%s", ErrUnsupported, extension, name)
	}
	if op.arity != args {
		return extOp{}, fmt.Errorf("%w: %s.%s takes %d inputs, got %d", ErrUnsupported, extension, name, op.arity, args)
	}
	return op, nil
}
