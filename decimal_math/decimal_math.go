package decimal_math

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

var ErrNegativeSqrt = errors.New("cannot sqrt negative value")

// Lsh shifts the integer part of x left by n bits.
func Lsh(x decimal.Decimal, n uint) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Lsh(x.BigInt(), n), 0)
}

// Rsh shifts the integer part of x right by n bits.
func Rsh(x decimal.Decimal, n uint) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Rsh(x.BigInt(), n), 0)
}

func Pow10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}

// Sqrt evaluates the square root at 256 bits of binary precision.
func Sqrt(d decimal.Decimal) (decimal.Decimal, error) {
	if d.Sign() < 0 {
		return decimal.Zero, ErrNegativeSqrt
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	f, ok := new(big.Float).SetPrec(256).SetString(d.String())
	if !ok {
		return decimal.Zero, errors.New("failed to parse decimal for sqrt")
	}
	return decimal.NewFromString(new(big.Float).SetPrec(256).Sqrt(f).Text('f', -1))
}

// ToQ64 converts a real number into Q64.64, truncating the fraction.
func ToQ64(d decimal.Decimal) *big.Int {
	return d.Mul(Lsh(decimal.NewFromInt(1), 64)).Truncate(0).BigInt()
}

// FromQ64 converts a Q64.64 integer back into a real number.
func FromQ64(v *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(v, 0).Div(Lsh(decimal.NewFromInt(1), 64))
}
