package helpers

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/meteora-dbc-go/decimal_math"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

// GetSqrtPriceFromPrice converts a UI price, quote per base, into a Q64.64
// sqrt price of raw token units.
func GetSqrtPriceFromPrice(price string, baseDecimal, quoteDecimal int32) (*big.Int, error) {
	decimalPrice, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q", shared.ErrInvalidInput, price)
	}
	if decimalPrice.Sign() <= 0 {
		return nil, fmt.Errorf("%w: price %q must be positive", shared.ErrInvalidInput, price)
	}
	adjusted := decimalPrice.DivRound(decimal_math.Pow10(baseDecimal-quoteDecimal), 25)

	sqrtValue, err := decimal_math.Sqrt(adjusted)
	if err != nil {
		return nil, err
	}
	sqrtPrice := decimal_math.ToQ64(sqrtValue)
	if sqrtPrice.Cmp(shared.MinSqrtPrice) < 0 || sqrtPrice.Cmp(shared.MaxSqrtPrice) > 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidPriceRange, sqrtPrice)
	}
	return sqrtPrice, nil
}

// GetPriceFromSqrtPrice is the inverse of GetSqrtPriceFromPrice.
func GetPriceFromSqrtPrice(sqrtPrice *big.Int, baseDecimal, quoteDecimal int32) decimal.Decimal {
	sqrtValue := decimal_math.FromQ64(sqrtPrice)
	return sqrtValue.Mul(sqrtValue).Mul(decimal_math.Pow10(baseDecimal - quoteDecimal))
}

// ConvertToLamports scales a UI amount to raw token units, truncating dust.
func ConvertToLamports(amount string, tokenDecimal int32) (uint64, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", shared.ErrInvalidInput, amount)
	}
	raw := value.Shift(tokenDecimal).Truncate(0)
	if raw.Sign() < 0 {
		return 0, fmt.Errorf("%w: amount %q is negative", shared.ErrInvalidInput, amount)
	}
	return bigIntToU64(raw.BigInt())
}

// ConvertFromLamports scales raw token units to a UI amount.
func ConvertFromLamports(amount uint64, tokenDecimal int32) decimal.Decimal {
	return decimal.NewFromUint64(amount).Shift(-tokenDecimal)
}

func bigIntToU64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 {
		return 0, errors.New("value must be non-negative")
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s overflows uint64", shared.ErrTypeCastFailed, v)
	}
	return v.Uint64(), nil
}

func bigIntToU32(v *big.Int) (uint32, error) {
	if v.Sign() < 0 || v.BitLen() > 32 {
		return 0, fmt.Errorf("%w: %s overflows uint32", shared.ErrTypeCastFailed, v)
	}
	return uint32(v.Uint64()), nil
}
