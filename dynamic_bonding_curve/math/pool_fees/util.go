package pool_fees

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/safe_math"
	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

func u64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// oneMinusBps returns 1 - bps/10_000 in Q64.
func oneMinusBps(bps uint64) (*big.Int, error) {
	reduction, err := safe_math.ShlDiv(u64(bps), big.NewInt(dbc.MaxBasisPoint), dbc.Resolution, dbc.RoundingDown, safe_math.U128)
	if err != nil {
		return nil, err
	}
	return safe_math.Sub(dbc.OneQ64, reduction)
}

// pow raises a Q64 base to exp, flooring after every multiplication.
// Bases at or above one are inverted first. Every product must fit u128.
func pow(base *big.Int, exp uint64) (*big.Int, error) {
	if exp == 0 {
		return new(big.Int).Set(dbc.OneQ64), nil
	}
	if exp >= dbc.MaxExponential {
		return nil, fmt.Errorf("%w: pow exponent %d", dbc.ErrMathOverflow, exp)
	}

	invert := false
	squared := new(big.Int).Set(base)
	if squared.Cmp(dbc.OneQ64) >= 0 {
		var err error
		if squared, err = safe_math.Div(dbc.U128Max, squared); err != nil {
			return nil, err
		}
		invert = true
	}

	result := new(big.Int).Set(dbc.OneQ64)
	for exp > 0 {
		if exp&1 == 1 {
			r, err := safe_math.Mul(result, squared, safe_math.U128)
			if err != nil {
				return nil, err
			}
			result = safe_math.Shr(r, dbc.Resolution)
		}
		exp >>= 1
		if exp > 0 {
			s, err := safe_math.Mul(squared, squared, safe_math.U128)
			if err != nil {
				return nil, err
			}
			squared = safe_math.Shr(s, dbc.Resolution)
		}
	}

	if result.Sign() == 0 {
		return nil, fmt.Errorf("%w: pow underflow", dbc.ErrMathOverflow)
	}
	if invert {
		return safe_math.Div(dbc.U128Max, result)
	}
	return result, nil
}
