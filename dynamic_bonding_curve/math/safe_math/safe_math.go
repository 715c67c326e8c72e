// Package safe_math implements checked arithmetic over math/big values that
// stand in for fixed-width unsigned integers. Every operation takes the width
// of the type it emulates and fails with shared.ErrMathOverflow instead of
// wrapping. Operands are never modified.
package safe_math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

// Bits is the width of the emulated unsigned integer type.
type Bits uint

const (
	U64  Bits = 64
	U128 Bits = 128
	U256 Bits = 256
	U512 Bits = 512
)

func overflow(op string, bits Bits) error {
	return fmt.Errorf("%w: %s u%d", shared.ErrMathOverflow, op, bits)
}

func fits(v *big.Int, bits Bits) bool {
	return v.Sign() >= 0 && uint(v.BitLen()) <= uint(bits)
}

func Add(a, b *big.Int, bits Bits) (*big.Int, error) {
	out := new(big.Int).Add(a, b)
	if !fits(out, bits) {
		return nil, overflow("add", bits)
	}
	return out, nil
}

func Sub(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, fmt.Errorf("%w: sub underflow", shared.ErrMathOverflow)
	}
	return new(big.Int).Sub(a, b), nil
}

func Mul(a, b *big.Int, bits Bits) (*big.Int, error) {
	out := new(big.Int).Mul(a, b)
	if !fits(out, bits) {
		return nil, overflow("mul", bits)
	}
	return out, nil
}

// Div is floor division.
func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, fmt.Errorf("%w: division by zero", shared.ErrMathOverflow)
	}
	return new(big.Int).Quo(a, b), nil
}

// DivCeil is ceiling division.
func DivCeil(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, fmt.Errorf("%w: division by zero", shared.ErrMathOverflow)
	}
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q, nil
}

func Shl(a *big.Int, n uint, bits Bits) (*big.Int, error) {
	if n >= uint(bits) {
		return nil, overflow("shl", bits)
	}
	out := new(big.Int).Lsh(a, n)
	if !fits(out, bits) {
		return nil, overflow("shl", bits)
	}
	return out, nil
}

func Shr(a *big.Int, n uint) *big.Int {
	return new(big.Int).Rsh(a, n)
}

// Cast narrows v to the given width.
func Cast(v *big.Int, bits Bits) (*big.Int, error) {
	if !fits(v, bits) {
		return nil, fmt.Errorf("%w: u%d", shared.ErrTypeCastFailed, bits)
	}
	return v, nil
}

func ToUint64(v *big.Int) (uint64, error) {
	if !fits(v, U64) {
		return 0, fmt.Errorf("%w: u64", shared.ErrTypeCastFailed)
	}
	return v.Uint64(), nil
}

// MulDiv computes x*y/denominator with a u512 intermediate and narrows the
// rounded result to bits.
func MulDiv(x, y, denominator *big.Int, rounding shared.Rounding, bits Bits) (*big.Int, error) {
	prod, err := Mul(x, y, U512)
	if err != nil {
		return nil, err
	}
	var out *big.Int
	switch rounding {
	case shared.RoundingUp:
		out, err = DivCeil(prod, denominator)
	case shared.RoundingDown:
		out, err = Div(prod, denominator)
	default:
		return nil, fmt.Errorf("%w: rounding %d", shared.ErrInvalidInput, rounding)
	}
	if err != nil {
		return nil, err
	}
	return Cast(out, bits)
}

// MulShr computes (x*y) >> offset, rounding down.
func MulShr(x, y *big.Int, offset uint, bits Bits) (*big.Int, error) {
	prod, err := Mul(x, y, U256)
	if err != nil {
		return nil, err
	}
	return Cast(Shr(prod, offset), bits)
}

// ShlDiv computes (x << offset) / y.
func ShlDiv(x, y *big.Int, offset uint, rounding shared.Rounding, bits Bits) (*big.Int, error) {
	scaled, err := Shl(x, offset, U256)
	if err != nil {
		return nil, err
	}
	return MulDiv(scaled, big.NewInt(1), y, rounding, bits)
}
