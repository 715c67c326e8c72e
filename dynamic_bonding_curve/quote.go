package dynamic_bonding_curve

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/pool_fees"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/safe_math"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

// CurrentPoint picks the clock the pool's schedule is measured in.
func CurrentPoint(activationType ActivationType, currentTimestamp, currentSlot uint64) (uint64, error) {
	switch activationType {
	case ActivationTypeSlot:
		return currentSlot, nil
	case ActivationTypeTimestamp:
		return currentTimestamp, nil
	default:
		return 0, fmt.Errorf("%w: %d", shared.ErrInvalidActivationType, activationType)
	}
}

type swapContext struct {
	tradeDirection    TradeDirection
	feeMode           FeeMode
	currentPoint      uint64
	volatilityTracker VolatilityTracker
}

// prepareSwap checks preconditions and reconciles the references of a
// private copy of the pool's volatility tracker. The accumulator is left as
// the last swap stored it; it only moves when a swap commits.
func prepareSwap(virtualPool *VirtualPool, config *PoolConfig, swapBaseForQuote bool, currentTimestamp, currentSlot, amountIn uint64, hasReferral bool) (swapContext, error) {
	if virtualPool.IsCurveComplete(config.MigrationQuoteThreshold) {
		return swapContext{}, shared.ErrCurveCompleted
	}
	if amountIn == 0 {
		return swapContext{}, shared.ErrZeroAmount
	}

	volatilityTracker := virtualPool.VolatilityTracker
	if config.PoolFees.IsDynamicFeeEnabled() {
		err := pool_fees.UpdateReferences(&volatilityTracker, config.PoolFees.DynamicFee, math.U128ToBig(virtualPool.SqrtPrice), currentTimestamp)
		if err != nil {
			return swapContext{}, fmt.Errorf("update volatility references: %w", err)
		}
	}

	currentPoint, err := CurrentPoint(config.ActivationType, currentTimestamp, currentSlot)
	if err != nil {
		return swapContext{}, err
	}

	tradeDirection := shared.TradeDirectionOf(swapBaseForQuote)
	feeMode, err := math.GetFeeMode(config.CollectFeeMode, tradeDirection, hasReferral)
	if err != nil {
		return swapContext{}, err
	}

	return swapContext{
		tradeDirection:    tradeDirection,
		feeMode:           feeMode,
		currentPoint:      currentPoint,
		volatilityTracker: volatilityTracker,
	}, nil
}

// QuoteExactIn prices an exact input swap. amountIn must already exclude any
// token transfer fee. The pool is not modified.
func QuoteExactIn(virtualPool *VirtualPool, config *PoolConfig, swapBaseForQuote bool, currentTimestamp, currentSlot, amountIn uint64, hasReferral bool) (SwapResult, error) {
	sc, err := prepareSwap(virtualPool, config, swapBaseForQuote, currentTimestamp, currentSlot, amountIn, hasReferral)
	if err != nil {
		return SwapResult{}, err
	}
	return math.GetSwapResult(virtualPool, config, amountIn, sc.feeMode, sc.tradeDirection, sc.currentPoint, virtualPool.ActivationPoint, sc.volatilityTracker)
}

// SwapQuote is QuoteExactIn plus the minimum output a caller should accept
// under slippageBps.
func SwapQuote(virtualPool *VirtualPool, config *PoolConfig, swapBaseForQuote bool, currentTimestamp, currentSlot, amountIn uint64, slippageBps uint16, hasReferral bool) (SwapQuoteResult, error) {
	if slippageBps > shared.MaxBasisPoint {
		return SwapQuoteResult{}, fmt.Errorf("%w: slippage %d bps", shared.ErrInvalidInput, slippageBps)
	}
	result, err := QuoteExactIn(virtualPool, config, swapBaseForQuote, currentTimestamp, currentSlot, amountIn, hasReferral)
	if err != nil {
		return SwapQuoteResult{}, err
	}
	minimumAmountOut, err := safe_math.MulDivU64(result.OutputAmount, uint64(shared.MaxBasisPoint-slippageBps), shared.MaxBasisPoint, shared.RoundingDown)
	if err != nil {
		return SwapQuoteResult{}, err
	}
	return SwapQuoteResult{SwapResult: result, MinimumAmountOut: minimumAmountOut}, nil
}

// GetFeeMint returns the mint the swap fee is charged in.
func GetFeeMint(config *PoolConfig, virtualPool *VirtualPool, swapBaseForQuote bool, hasReferral bool) (solanago.PublicKey, error) {
	feeMode, err := math.GetFeeMode(config.CollectFeeMode, shared.TradeDirectionOf(swapBaseForQuote), hasReferral)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("fee mode: %w", err)
	}
	if feeMode.FeesOnBaseToken {
		return virtualPool.BaseMint, nil
	}
	return config.QuoteMint, nil
}
