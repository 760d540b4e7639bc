package dispatch

import (
	"math"
	"math/big"

	"strata/internal/types"
)

// fitsDeclared reports whether a boxed integer fits the declared fixed-width
// primitive. Booleans are the 1-bit unsigned member of the family.
func fitsDeclared(n *big.Int, decl *types.Class) bool {
	switch decl.Kind {
	case types.KindBool:
		return n.Sign() >= 0 && n.Cmp(big.NewInt(1)) <= 0
	case types.KindInt:
		if !n.IsInt64() {
			return false
		}
		return checkSignedWidth(n.Int64(), decl.Width)
	case types.KindUint:
		if n.Sign() < 0 || !n.IsUint64() {
			return false
		}
		return checkUnsignedWidth(n.Uint64(), decl.Width)
	default:
		return false
	}
}

func checkSignedWidth(value int64, width types.Width) bool {
	if width == types.WidthAny {
		return true
	}
	minVal, maxVal, ok := intRangeForWidth(width)
	if !ok {
		return true
	}
	return value >= minVal && value <= maxVal
}

func checkUnsignedWidth(value uint64, width types.Width) bool {
	if width == types.WidthAny {
		return true
	}
	maxVal, ok := uintMaxForWidth(width)
	if !ok {
		return true
	}
	return value <= maxVal
}

func intRangeForWidth(width types.Width) (int64, int64, bool) {
	switch width {
	case types.Width8:
		return math.MinInt8, math.MaxInt8, true
	case types.Width16:
		return math.MinInt16, math.MaxInt16, true
	case types.Width32:
		return math.MinInt32, math.MaxInt32, true
	case types.Width64:
		return math.MinInt64, math.MaxInt64, true
	default:
		return 0, 0, false
	}
}

func uintMaxForWidth(width types.Width) (uint64, bool) {
	switch width {
	case types.Width8:
		return math.MaxUint8, true
	case types.Width16:
		return math.MaxUint16, true
	case types.Width32:
		return math.MaxUint32, true
	case types.Width64:
		return math.MaxUint64, true
	default:
		return 0, false
	}
}
