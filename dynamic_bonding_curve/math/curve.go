package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/safe_math"
	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

// GetInitializeAmounts returns the base and quote reserves needed to back
// liquidity over [sqrtMinPrice, sqrtMaxPrice] at sqrtPrice. Both round up.
func GetInitializeAmounts(sqrtMinPrice, sqrtMaxPrice, sqrtPrice, liquidity *big.Int) (uint64, uint64, error) {
	baseAmount, err := GetDeltaAmountBaseUnsigned(sqrtPrice, sqrtMaxPrice, liquidity, dbc.RoundingUp)
	if err != nil {
		return 0, 0, err
	}
	quoteAmount, err := GetDeltaAmountQuoteUnsigned(sqrtMinPrice, sqrtPrice, liquidity, dbc.RoundingUp)
	if err != nil {
		return 0, 0, err
	}
	return baseAmount, quoteAmount, nil
}

// L = Δa * √P * √P_max / (√P_max - √P), rounded down.
func GetInitialLiquidityFromDeltaBase(baseAmount uint64, sqrtMaxPrice, sqrtPrice *big.Int) (*big.Int, error) {
	priceDelta, err := safe_math.Sub(sqrtMaxPrice, sqrtPrice)
	if err != nil {
		return nil, err
	}
	prod, err := safe_math.Mul(new(big.Int).SetUint64(baseAmount), sqrtPrice, safe_math.U512)
	if err != nil {
		return nil, err
	}
	if prod, err = safe_math.Mul(prod, sqrtMaxPrice, safe_math.U512); err != nil {
		return nil, err
	}
	liquidity, err := safe_math.Div(prod, priceDelta)
	if err != nil {
		return nil, err
	}
	return safe_math.ToUint128(liquidity)
}

// L = Δb << 128 / (√P - √P_min), rounded down.
func GetInitialLiquidityFromDeltaQuote(quoteAmount uint64, sqrtMinPrice, sqrtPrice *big.Int) (*big.Int, error) {
	priceDelta, err := safe_math.Sub(sqrtPrice, sqrtMinPrice)
	if err != nil {
		return nil, err
	}
	shifted, err := safe_math.Shl(new(big.Int).SetUint64(quoteAmount), dbc.Resolution*2, safe_math.U256)
	if err != nil {
		return nil, err
	}
	liquidity, err := safe_math.Div(shifted, priceDelta)
	if err != nil {
		return nil, err
	}
	return safe_math.ToUint128(liquidity)
}

func GetDeltaAmountBaseUnsigned(lowerSqrtPrice, upperSqrtPrice, liquidity *big.Int, round dbc.Rounding) (uint64, error) {
	result, err := GetDeltaAmountBaseUnsigned256(lowerSqrtPrice, upperSqrtPrice, liquidity, round)
	if err != nil {
		return 0, err
	}
	return checkedU64(result)
}

// GetDeltaAmountBaseUnsigned256 computes L * (√P_upper - √P_lower) / (√P_upper * √P_lower).
func GetDeltaAmountBaseUnsigned256(lowerSqrtPrice, upperSqrtPrice, liquidity *big.Int, round dbc.Rounding) (*big.Int, error) {
	numerator, err := safe_math.Sub(upperSqrtPrice, lowerSqrtPrice)
	if err != nil {
		return nil, err
	}
	denominator, err := safe_math.Mul(lowerSqrtPrice, upperSqrtPrice, safe_math.U256)
	if err != nil {
		return nil, err
	}
	if denominator.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero sqrt price", dbc.ErrMathOverflow)
	}
	return safe_math.MulDiv(liquidity, numerator, denominator, round, safe_math.U256)
}

func GetDeltaAmountQuoteUnsigned(lowerSqrtPrice, upperSqrtPrice, liquidity *big.Int, round dbc.Rounding) (uint64, error) {
	result, err := GetDeltaAmountQuoteUnsigned256(lowerSqrtPrice, upperSqrtPrice, liquidity, round)
	if err != nil {
		return 0, err
	}
	return checkedU64(result)
}

// GetDeltaAmountQuoteUnsigned256 computes L * (√P_upper - √P_lower) >> 128.
func GetDeltaAmountQuoteUnsigned256(lowerSqrtPrice, upperSqrtPrice, liquidity *big.Int, round dbc.Rounding) (*big.Int, error) {
	deltaSqrtPrice, err := safe_math.Sub(upperSqrtPrice, lowerSqrtPrice)
	if err != nil {
		return nil, err
	}
	prod, err := safe_math.Mul(liquidity, deltaSqrtPrice, safe_math.U256)
	if err != nil {
		return nil, err
	}
	switch round {
	case dbc.RoundingUp:
		return safe_math.DivCeil(prod, q128)
	case dbc.RoundingDown:
		return safe_math.Shr(prod, dbc.Resolution*2), nil
	default:
		return nil, fmt.Errorf("%w: rounding %d", dbc.ErrInvalidInput, round)
	}
}

// GetNextSqrtPriceFromInput moves the price by an exact input amount. Base
// input lowers the price, quote input raises it.
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity *big.Int, amountIn uint64, baseForQuote bool) (*big.Int, error) {
	if sqrtPrice.Sign() == 0 {
		return nil, fmt.Errorf("%w: sqrt price is zero", dbc.ErrMathOverflow)
	}
	if liquidity.Sign() == 0 {
		return nil, fmt.Errorf("%w: liquidity is zero", dbc.ErrMathOverflow)
	}
	if amountIn == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	if baseForQuote {
		return GetNextSqrtPriceFromAmountBaseRoundingUp(sqrtPrice, liquidity, amountIn)
	}
	return GetNextSqrtPriceFromAmountQuoteRoundingDown(sqrtPrice, liquidity, amountIn)
}

// √P' = √P * L / (L + Δx * √P)
func GetNextSqrtPriceFromAmountBaseRoundingUp(sqrtPrice, liquidity *big.Int, amount uint64) (*big.Int, error) {
	if amount == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	product, err := safe_math.Mul(new(big.Int).SetUint64(amount), sqrtPrice, safe_math.U256)
	if err != nil {
		return nil, err
	}
	denominator, err := safe_math.Add(liquidity, product, safe_math.U256)
	if err != nil {
		return nil, err
	}
	result, err := safe_math.MulDiv(liquidity, sqrtPrice, denominator, dbc.RoundingUp, safe_math.U256)
	if err != nil {
		return nil, err
	}
	return safe_math.ToUint128(result)
}

// √P' = √P + (Δy << 128) / L
func GetNextSqrtPriceFromAmountQuoteRoundingDown(sqrtPrice, liquidity *big.Int, amount uint64) (*big.Int, error) {
	shifted, err := safe_math.Shl(new(big.Int).SetUint64(amount), dbc.Resolution*2, safe_math.U256)
	if err != nil {
		return nil, err
	}
	quotient, err := safe_math.Div(shifted, liquidity)
	if err != nil {
		return nil, err
	}
	result, err := safe_math.Add(sqrtPrice, quotient, safe_math.U256)
	if err != nil {
		return nil, err
	}
	return safe_math.ToUint128(result)
}

var q128 = new(big.Int).Lsh(big.NewInt(1), dbc.Resolution*2)

func checkedU64(v *big.Int) (uint64, error) {
	if v.Cmp(dbc.U64Max) > 0 {
		return 0, fmt.Errorf("%w: amount exceeds u64", dbc.ErrMathOverflow)
	}
	return safe_math.ToUint64(v)
}
