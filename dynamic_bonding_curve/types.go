package dynamic_bonding_curve

import (
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

type PoolConfig = shared.PoolConfig

type VirtualPool = shared.VirtualPool

type VolatilityTracker = shared.VolatilityTracker

type PoolFeesConfig = shared.PoolFeesConfig

type BaseFeeConfig = shared.BaseFeeConfig

type DynamicFeeConfig = shared.DynamicFeeConfig

type PoolFeeParameters = shared.PoolFeeParameters

type BaseFeeParameters = shared.BaseFeeParameters

type DynamicFeeParameters = shared.DynamicFeeParameters

type FeeMode = shared.FeeMode

type SwapResult = shared.SwapResult

// SwapQuoteResult is a quote with the slippage-adjusted minimum output.
type SwapQuoteResult struct {
	SwapResult
	MinimumAmountOut uint64
}

// Enums.

type ActivationType = shared.ActivationType

const (
	ActivationTypeSlot      = shared.ActivationTypeSlot
	ActivationTypeTimestamp = shared.ActivationTypeTimestamp
)

type CollectFeeMode = shared.CollectFeeMode

const (
	CollectFeeModeQuoteToken  = shared.CollectFeeModeQuoteToken
	CollectFeeModeOutputToken = shared.CollectFeeModeOutputToken
)

type FeeSchedulerMode = shared.FeeSchedulerMode

const (
	FeeSchedulerModeLinear      = shared.FeeSchedulerModeLinear
	FeeSchedulerModeExponential = shared.FeeSchedulerModeExponential
)

type TradeDirection = shared.TradeDirection

const (
	TradeDirectionBaseToQuote = shared.TradeDirectionBaseToQuote
	TradeDirectionQuoteToBase = shared.TradeDirectionQuoteToBase
)
