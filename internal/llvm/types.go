package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir/types"

	"git.home.luguber.info/inful/guppyc/internal/hugr"
)

func convType(t hugr.Type) (types.Type, error) {
	switch t.Kind {
	case hugr.KindInt:
		return types.NewInt(uint64(t.BitWidth())), nil
	case hugr.KindFloat:
		return types.Double, nil
	case hugr.KindBool:
		return types.I1, nil
	default:
		return nil, fmt.Errorf("%w: type %s", ErrUnsupported, t)
	}
}

// convResult maps a row of outputs to a return type: void, the single type,
// or an anonymous struct.
func convResult(ts []hugr.Type) (types.Type, error) {
	switch len(ts) {
	case 0:
		return types.Void, nil
	case 1:
		return convType(ts[0])
	}
	fields := make([]types.Type, len(ts))
	for i, t := range ts {
		ft, err := convType(t)
		if err != nil {
			return nil, err
		}
		fields[i] = ft
	}
	return types.NewStruct(fields...), nil
}
