package shared

import (
	"math/big"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
)

// BaseFeeConfig describes the time-stepped base fee of a pool config.
type BaseFeeConfig struct {
	CliffFeeNumerator uint64
	NumberOfPeriod    uint16
	PeriodFrequency   uint64
	ReductionFactor   uint64
	FeeSchedulerMode  FeeSchedulerMode
}

// DynamicFeeConfig describes the volatility driven fee. A nil
// *DynamicFeeConfig means the dynamic fee is disabled.
type DynamicFeeConfig struct {
	BinStep                  uint16
	BinStepU128              bin.Uint128
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	MaxVolatilityAccumulator uint32
	VariableFeeControl       uint32
}

type PoolFeesConfig struct {
	BaseFee            BaseFeeConfig
	DynamicFee         *DynamicFeeConfig
	ProtocolFeePercent uint8
	ReferralFeePercent uint8
}

func (p PoolFeesConfig) IsDynamicFeeEnabled() bool {
	return p.DynamicFee != nil
}

type BaseFeeParameters struct {
	CliffFeeNumerator uint64
	NumberOfPeriod    uint16
	PeriodFrequency   uint64
	ReductionFactor   uint64
	FeeSchedulerMode  FeeSchedulerMode
}

type DynamicFeeParameters struct {
	BinStep                  uint16
	BinStepU128              bin.Uint128
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	MaxVolatilityAccumulator uint32
	VariableFeeControl       uint32
}

// PoolFeeParameters is what a partner submits when creating a config.
type PoolFeeParameters struct {
	BaseFee    BaseFeeParameters
	DynamicFee *DynamicFeeParameters
}

// PoolConfig holds the immutable parameters shared by every pool created
// from it. The curve is a single range [SqrtMinPrice, SqrtMaxPrice].
type PoolConfig struct {
	QuoteMint               solanago.PublicKey
	CollectFeeMode          CollectFeeMode
	ActivationType          ActivationType
	PoolFees                PoolFeesConfig
	SqrtMinPrice            bin.Uint128
	SqrtMaxPrice            bin.Uint128
	MigrationQuoteThreshold uint64
}

type VolatilityTracker struct {
	LastUpdateTimestamp   uint64
	SqrtPriceReference    bin.Uint128
	VolatilityAccumulator bin.Uint128
	VolatilityReference   bin.Uint128
}

type VirtualPool struct {
	Config            solanago.PublicKey
	BaseMint          solanago.PublicKey
	SqrtPrice         bin.Uint128
	Liquidity         bin.Uint128
	BaseReserve       uint64
	QuoteReserve      uint64
	ActivationPoint   uint64
	VolatilityTracker VolatilityTracker

	ProtocolBaseFee  uint64
	ProtocolQuoteFee uint64
	TradingBaseFee   uint64
	TradingQuoteFee  uint64
}

func (p *VirtualPool) IsCurveComplete(migrationQuoteThreshold uint64) bool {
	return p.QuoteReserve >= migrationQuoteThreshold
}

type FeeMode struct {
	FeesOnInput     bool
	FeesOnBaseToken bool
	HasReferral     bool
}

type FeeOnAmountResult struct {
	Amount      uint64
	TotalFee    uint64
	ProtocolFee uint64
	TradingFee  uint64
	ReferralFee uint64
}

type SwapResult struct {
	ActualInputAmount uint64
	OutputAmount      uint64
	TotalFee          uint64
	ProtocolFee       uint64
	ReferralFee       uint64
	TradingFee        uint64
	NextSqrtPrice     *big.Int
	NextLiquidity     *big.Int
}

type SwapAmount struct {
	OutputAmount  *big.Int
	NextSqrtPrice *big.Int
}
