package safe_math

import (
	"fmt"
	"math/big"
	"math/bits"

	"lukechampine.com/uint128"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

func AddU64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, overflow("add", U64)
	}
	return sum, nil
}

func SubU64(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: sub underflow", shared.ErrMathOverflow)
	}
	return diff, nil
}

func MulU64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, overflow("mul", U64)
	}
	return lo, nil
}

// MulDivU64 computes x*y/denominator through a 128-bit intermediate and
// narrows the rounded quotient back to u64.
func MulDivU64(x, y, denominator uint64, rounding shared.Rounding) (uint64, error) {
	if denominator == 0 {
		return 0, fmt.Errorf("%w: division by zero", shared.ErrMathOverflow)
	}
	prod := uint128.From64(x).Mul64(y)
	q, r := prod.QuoRem64(denominator)
	switch rounding {
	case shared.RoundingUp:
		if r != 0 {
			q = q.Add64(1)
		}
	case shared.RoundingDown:
	default:
		return 0, fmt.Errorf("%w: rounding %d", shared.ErrInvalidInput, rounding)
	}
	if q.Hi != 0 {
		return 0, fmt.Errorf("%w: u64", shared.ErrTypeCastFailed)
	}
	return q.Lo, nil
}

// ToUint128 narrows v to u128.
func ToUint128(v *big.Int) (*big.Int, error) {
	return Cast(v, U128)
}
