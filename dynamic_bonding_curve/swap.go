package dynamic_bonding_curve

import (
	"fmt"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/pool_fees"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/safe_math"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
	"github.com/krazyTry/meteora-dbc-go/u128"
)

// Swap executes an exact input swap and writes the new price, reserves,
// accrued fees and volatility tracker into virtualPool. On error the pool is
// left as it was.
func Swap(virtualPool *VirtualPool, config *PoolConfig, swapBaseForQuote bool, currentTimestamp, currentSlot, amountIn uint64, hasReferral bool) (SwapResult, error) {
	sc, err := prepareSwap(virtualPool, config, swapBaseForQuote, currentTimestamp, currentSlot, amountIn, hasReferral)
	if err != nil {
		return SwapResult{}, err
	}
	result, err := math.GetSwapResult(virtualPool, config, amountIn, sc.feeMode, sc.tradeDirection, sc.currentPoint, virtualPool.ActivationPoint, sc.volatilityTracker)
	if err != nil {
		return SwapResult{}, err
	}

	next := *virtualPool
	next.VolatilityTracker = sc.volatilityTracker
	if err := applySwapResult(&next, config, result, sc, currentTimestamp); err != nil {
		return SwapResult{}, err
	}
	*virtualPool = next
	return result, nil
}

func applySwapResult(pool *VirtualPool, config *PoolConfig, result SwapResult, sc swapContext, currentTimestamp uint64) error {
	sqrtPrice, err := u128.FromBig(result.NextSqrtPrice)
	if err != nil {
		return fmt.Errorf("%w: next sqrt price", shared.ErrTypeCastFailed)
	}
	pool.SqrtPrice = sqrtPrice

	var feeOnPool uint64
	if !sc.feeMode.FeesOnInput {
		feeOnPool = result.TotalFee
	}
	outflow, err := safe_math.AddU64(result.OutputAmount, feeOnPool)
	if err != nil {
		return err
	}

	switch sc.tradeDirection {
	case TradeDirectionBaseToQuote:
		if pool.BaseReserve, err = safe_math.AddU64(pool.BaseReserve, result.ActualInputAmount); err != nil {
			return err
		}
		if pool.QuoteReserve, err = safe_math.SubU64(pool.QuoteReserve, outflow); err != nil {
			return fmt.Errorf("quote reserve: %w", err)
		}
	case TradeDirectionQuoteToBase:
		if pool.QuoteReserve, err = safe_math.AddU64(pool.QuoteReserve, result.ActualInputAmount); err != nil {
			return err
		}
		if pool.BaseReserve, err = safe_math.SubU64(pool.BaseReserve, outflow); err != nil {
			return fmt.Errorf("base reserve: %w", err)
		}
	}

	if sc.feeMode.FeesOnBaseToken {
		if pool.TradingBaseFee, err = safe_math.AddU64(pool.TradingBaseFee, result.TradingFee); err != nil {
			return err
		}
		if pool.ProtocolBaseFee, err = safe_math.AddU64(pool.ProtocolBaseFee, result.ProtocolFee); err != nil {
			return err
		}
	} else {
		if pool.TradingQuoteFee, err = safe_math.AddU64(pool.TradingQuoteFee, result.TradingFee); err != nil {
			return err
		}
		if pool.ProtocolQuoteFee, err = safe_math.AddU64(pool.ProtocolQuoteFee, result.ProtocolFee); err != nil {
			return err
		}
	}

	if config.PoolFees.IsDynamicFeeEnabled() {
		if err := pool_fees.UpdateVolatilityAccumulator(&pool.VolatilityTracker, config.PoolFees.DynamicFee, result.NextSqrtPrice); err != nil {
			return fmt.Errorf("update volatility accumulator: %w", err)
		}
		pool.VolatilityTracker.LastUpdateTimestamp = currentTimestamp
	}
	return nil
}
