package shared

import (
	"fmt"
	"math/big"
)

const (
	Offset     = 64
	Resolution = 64

	FeeDenominator = 1_000_000_000
	MaxBasisPoint  = 10_000

	U16Max = 65_535
	U24Max = 16_777_215

	MinFeeBps = 1
	MaxFeeBps = 9900

	MinFeeNumerator = 100_000
	MaxFeeNumerator = 990_000_000

	// MaxExponential bounds the exponent accepted by the Q64 pow.
	MaxExponential = 0x80000

	DynamicFeeFilterPeriodDefault    = 10
	DynamicFeeDecayPeriodDefault     = 120
	DynamicFeeReductionFactorDefault = 5000
	BinStepBpsDefault                = 1
	MaxPriceChangeBpsDefault         = 1500

	ProtocolFeePercent = 20
	HostFeePercent     = 20
)

type ActivationType uint8

const (
	ActivationTypeSlot      ActivationType = 0
	ActivationTypeTimestamp ActivationType = 1
)

func (a ActivationType) String() string {
	switch a {
	case ActivationTypeSlot:
		return "slot"
	case ActivationTypeTimestamp:
		return "timestamp"
	}
	return fmt.Sprintf("ActivationType(%d)", uint8(a))
}

type CollectFeeMode uint8

const (
	CollectFeeModeQuoteToken  CollectFeeMode = 0
	CollectFeeModeOutputToken CollectFeeMode = 1
)

func (c CollectFeeMode) String() string {
	switch c {
	case CollectFeeModeQuoteToken:
		return "quote_token"
	case CollectFeeModeOutputToken:
		return "output_token"
	}
	return fmt.Sprintf("CollectFeeMode(%d)", uint8(c))
}

type FeeSchedulerMode uint8

const (
	FeeSchedulerModeLinear      FeeSchedulerMode = 0
	FeeSchedulerModeExponential FeeSchedulerMode = 1
)

func (m FeeSchedulerMode) String() string {
	switch m {
	case FeeSchedulerModeLinear:
		return "linear"
	case FeeSchedulerModeExponential:
		return "exponential"
	}
	return fmt.Sprintf("FeeSchedulerMode(%d)", uint8(m))
}

type TradeDirection uint8

const (
	TradeDirectionBaseToQuote TradeDirection = 0
	TradeDirectionQuoteToBase TradeDirection = 1
)

func (d TradeDirection) String() string {
	switch d {
	case TradeDirectionBaseToQuote:
		return "base_to_quote"
	case TradeDirectionQuoteToBase:
		return "quote_to_base"
	}
	return fmt.Sprintf("TradeDirection(%d)", uint8(d))
}

// TradeDirectionOf maps the swap_base_for_quote flag onto a direction.
func TradeDirectionOf(swapBaseForQuote bool) TradeDirection {
	if swapBaseForQuote {
		return TradeDirectionBaseToQuote
	}
	return TradeDirectionQuoteToBase
}

type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

type TokenDecimal uint8

const (
	TokenDecimalSix   TokenDecimal = 6
	TokenDecimalSeven TokenDecimal = 7
	TokenDecimalEight TokenDecimal = 8
	TokenDecimalNine  TokenDecimal = 9
)

var (
	OneQ64 = new(big.Int).Lsh(big.NewInt(1), Resolution)

	U64Max  = new(big.Int).SetUint64(^uint64(0))
	U128Max = bigIntFromString("340282366920938463463374607431768211455")

	MinSqrtPrice = bigIntFromString("4295048016")
	MaxSqrtPrice = bigIntFromString("79226673521066979257578248091")

	DynamicFeeScalingFactor  = bigIntFromString("100000000000")
	DynamicFeeRoundingOffset = bigIntFromString("99999999999")

	BinStepBpsU128Default = bigIntFromString("1844674407370955")
)

func bigIntFromString(v string) *big.Int {
	out, ok := new(big.Int).SetString(v, 10)
	if !ok {
		panic("invalid big integer literal")
	}
	return out
}
