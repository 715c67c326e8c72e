package math

import (
	"fmt"
	"math/big"

	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

// GetSwapResult prices an exact input swap against the pool's single
// liquidity range. The pool and tracker are read, never written.
func GetSwapResult(virtualPool *dbc.VirtualPool, config *dbc.PoolConfig, amountIn uint64, feeMode dbc.FeeMode, tradeDirection dbc.TradeDirection, currentPoint, activationPoint uint64, volatilityTracker dbc.VolatilityTracker) (dbc.SwapResult, error) {
	tradeFeeNumerator, err := GetTotalFeeNumerator(config.PoolFees, volatilityTracker, currentPoint, activationPoint)
	if err != nil {
		return dbc.SwapResult{}, err
	}

	var fees dbc.FeeOnAmountResult
	actualAmountIn := amountIn
	if feeMode.FeesOnInput {
		if fees, err = GetFeeOnAmount(amountIn, tradeFeeNumerator, config.PoolFees, feeMode.HasReferral); err != nil {
			return dbc.SwapResult{}, err
		}
		actualAmountIn = fees.Amount
	}

	var swapAmount dbc.SwapAmount
	switch tradeDirection {
	case dbc.TradeDirectionBaseToQuote:
		swapAmount, err = GetSwapAmountFromBaseToQuote(virtualPool, config, actualAmountIn)
	case dbc.TradeDirectionQuoteToBase:
		swapAmount, err = GetSwapAmountFromQuoteToBase(virtualPool, config, actualAmountIn)
	default:
		return dbc.SwapResult{}, fmt.Errorf("%w: trade direction %d", dbc.ErrInvalidInput, tradeDirection)
	}
	if err != nil {
		return dbc.SwapResult{}, err
	}

	actualAmountOut := swapAmount.OutputAmount.Uint64()
	if !feeMode.FeesOnInput {
		if fees, err = GetFeeOnAmount(actualAmountOut, tradeFeeNumerator, config.PoolFees, feeMode.HasReferral); err != nil {
			return dbc.SwapResult{}, err
		}
		actualAmountOut = fees.Amount
	}

	return dbc.SwapResult{
		ActualInputAmount: actualAmountIn,
		OutputAmount:      actualAmountOut,
		TotalFee:          fees.TotalFee,
		ProtocolFee:       fees.ProtocolFee,
		ReferralFee:       fees.ReferralFee,
		TradingFee:        fees.TradingFee,
		NextSqrtPrice:     swapAmount.NextSqrtPrice,
		NextLiquidity:     U128ToBig(virtualPool.Liquidity),
	}, nil
}

// GetSwapAmountFromBaseToQuote sells base into the curve, moving the price
// down toward SqrtMinPrice.
func GetSwapAmountFromBaseToQuote(virtualPool *dbc.VirtualPool, config *dbc.PoolConfig, amountIn uint64) (dbc.SwapAmount, error) {
	currentSqrtPrice := U128ToBig(virtualPool.SqrtPrice)
	liquidity := U128ToBig(virtualPool.Liquidity)

	nextSqrtPrice, err := GetNextSqrtPriceFromInput(currentSqrtPrice, liquidity, amountIn, true)
	if err != nil {
		return dbc.SwapAmount{}, err
	}
	if nextSqrtPrice.Cmp(U128ToBig(config.SqrtMinPrice)) < 0 {
		return dbc.SwapAmount{}, fmt.Errorf("%w: price would fall below sqrt min price", dbc.ErrNotEnoughLiquidity)
	}
	outputAmount, err := GetDeltaAmountQuoteUnsigned(nextSqrtPrice, currentSqrtPrice, liquidity, dbc.RoundingDown)
	if err != nil {
		return dbc.SwapAmount{}, err
	}
	return dbc.SwapAmount{OutputAmount: new(big.Int).SetUint64(outputAmount), NextSqrtPrice: nextSqrtPrice}, nil
}

// GetSwapAmountFromQuoteToBase buys base from the curve, moving the price up
// toward SqrtMaxPrice.
func GetSwapAmountFromQuoteToBase(virtualPool *dbc.VirtualPool, config *dbc.PoolConfig, amountIn uint64) (dbc.SwapAmount, error) {
	currentSqrtPrice := U128ToBig(virtualPool.SqrtPrice)
	liquidity := U128ToBig(virtualPool.Liquidity)

	nextSqrtPrice, err := GetNextSqrtPriceFromInput(currentSqrtPrice, liquidity, amountIn, false)
	if err != nil {
		return dbc.SwapAmount{}, err
	}
	if nextSqrtPrice.Cmp(U128ToBig(config.SqrtMaxPrice)) > 0 {
		return dbc.SwapAmount{}, fmt.Errorf("%w: price would exceed sqrt max price", dbc.ErrNotEnoughLiquidity)
	}
	outputAmount, err := GetDeltaAmountBaseUnsigned(currentSqrtPrice, nextSqrtPrice, liquidity, dbc.RoundingDown)
	if err != nil {
		return dbc.SwapAmount{}, err
	}
	return dbc.SwapAmount{OutputAmount: new(big.Int).SetUint64(outputAmount), NextSqrtPrice: nextSqrtPrice}, nil
}
