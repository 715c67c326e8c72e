package helpers

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/meteora-dbc-go/decimal_math"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/pool_fees"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/safe_math"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
	"github.com/krazyTry/meteora-dbc-go/u128"
)

// MaxDynamicFeePercent caps the dynamic fee at this share of the base fee.
const MaxDynamicFeePercent = 20

func BpsToFeeNumerator(bps uint64) (uint64, error) {
	return safe_math.MulDivU64(bps, shared.FeeDenominator, shared.MaxBasisPoint, shared.RoundingDown)
}

func FeeNumeratorToBps(feeNumerator uint64) (uint64, error) {
	return pool_fees.ToBps(feeNumerator, shared.FeeDenominator)
}

// GetFeeSchedulerParams builds a base fee that falls from startingBaseFeeBps
// to endingBaseFeeBps over numberOfPeriod steps spread across totalDuration
// points. Equal start and end produce a flat fee.
func GetFeeSchedulerParams(
	startingBaseFeeBps uint16,
	endingBaseFeeBps uint16,
	feeSchedulerMode shared.FeeSchedulerMode,
	numberOfPeriod uint16,
	totalDuration uint64,
) (shared.BaseFeeParameters, error) {
	if startingBaseFeeBps == endingBaseFeeBps {
		if numberOfPeriod != 0 || totalDuration != 0 {
			return shared.BaseFeeParameters{}, fmt.Errorf("%w: numberOfPeriod and totalDuration must both be zero", shared.ErrInvalidInput)
		}
		cliffFeeNumerator, err := BpsToFeeNumerator(uint64(startingBaseFeeBps))
		if err != nil {
			return shared.BaseFeeParameters{}, err
		}
		return shared.BaseFeeParameters{
			CliffFeeNumerator: cliffFeeNumerator,
			FeeSchedulerMode:  shared.FeeSchedulerModeLinear,
		}, nil
	}

	if numberOfPeriod == 0 {
		return shared.BaseFeeParameters{}, fmt.Errorf("%w: numberOfPeriod must be greater than zero", shared.ErrInvalidInput)
	}
	if startingBaseFeeBps > shared.MaxFeeBps {
		return shared.BaseFeeParameters{}, fmt.Errorf("%w: startingBaseFeeBps %d exceeds %d", shared.ErrExceedMaxFeeBps, startingBaseFeeBps, shared.MaxFeeBps)
	}
	if endingBaseFeeBps < shared.MinFeeBps {
		return shared.BaseFeeParameters{}, fmt.Errorf("%w: endingBaseFeeBps %d below %d", shared.ErrExceedMaxFeeBps, endingBaseFeeBps, shared.MinFeeBps)
	}
	if endingBaseFeeBps > startingBaseFeeBps {
		return shared.BaseFeeParameters{}, fmt.Errorf("%w: endingBaseFeeBps must be <= startingBaseFeeBps", shared.ErrInvalidInput)
	}
	if totalDuration == 0 {
		return shared.BaseFeeParameters{}, fmt.Errorf("%w: totalDuration must be greater than zero", shared.ErrInvalidInput)
	}

	maxBaseFeeNumerator, err := BpsToFeeNumerator(uint64(startingBaseFeeBps))
	if err != nil {
		return shared.BaseFeeParameters{}, err
	}
	minBaseFeeNumerator, err := BpsToFeeNumerator(uint64(endingBaseFeeBps))
	if err != nil {
		return shared.BaseFeeParameters{}, err
	}

	var reductionFactor uint64
	switch feeSchedulerMode {
	case shared.FeeSchedulerModeLinear:
		reductionFactor = (maxBaseFeeNumerator - minBaseFeeNumerator) / uint64(numberOfPeriod)
	case shared.FeeSchedulerModeExponential:
		ratio := decimal.NewFromUint64(minBaseFeeNumerator).Div(decimal.NewFromUint64(maxBaseFeeNumerator))
		decayBase := ratio.Pow(decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(numberOfPeriod))))
		reductionFactor = uint64(decimal.NewFromInt(shared.MaxBasisPoint).
			Mul(decimal.NewFromInt(1).Sub(decayBase)).
			IntPart())
	default:
		return shared.BaseFeeParameters{}, fmt.Errorf("%w: %d", shared.ErrInvalidFeeSchedulerMode, feeSchedulerMode)
	}

	params := shared.BaseFeeParameters{
		CliffFeeNumerator: maxBaseFeeNumerator,
		NumberOfPeriod:    numberOfPeriod,
		PeriodFrequency:   totalDuration / uint64(numberOfPeriod),
		ReductionFactor:   reductionFactor,
		FeeSchedulerMode:  feeSchedulerMode,
	}
	if err := pool_fees.ValidateBaseFee(shared.BaseFeeConfig(params)); err != nil {
		return shared.BaseFeeParameters{}, err
	}
	return params, nil
}

// GetDynamicFeeParams sizes the dynamic fee so that a price move of
// maxPriceChangeBps saturates the volatility accumulator at
// MaxDynamicFeePercent of the base fee.
func GetDynamicFeeParams(baseFeeBps uint16, maxPriceChangeBps uint16) (*shared.DynamicFeeParameters, error) {
	if maxPriceChangeBps == 0 || maxPriceChangeBps > shared.MaxPriceChangeBpsDefault {
		return nil, fmt.Errorf("%w: maxPriceChangeBps %d must be in (0, %d]", shared.ErrInvalidDynamicFee, maxPriceChangeBps, shared.MaxPriceChangeBpsDefault)
	}

	priceRatio := decimal.NewFromInt(int64(maxPriceChangeBps)).
		Div(decimal.NewFromInt(shared.MaxBasisPoint)).
		Add(decimal.NewFromInt(1))
	sqrtPriceRatio, err := decimal_math.Sqrt(priceRatio)
	if err != nil {
		return nil, err
	}
	sqrtPriceRatioQ64 := decimal_math.ToQ64(sqrtPriceRatio)

	deltaBinID := new(big.Int).Sub(sqrtPriceRatioQ64, shared.OneQ64)
	deltaBinID.Div(deltaBinID, shared.BinStepBpsU128Default)
	deltaBinID.Mul(deltaBinID, big.NewInt(2))

	maxVolatilityAccumulator := new(big.Int).Mul(deltaBinID, big.NewInt(shared.MaxBasisPoint))

	squareVfaBin := new(big.Int).Mul(maxVolatilityAccumulator, big.NewInt(shared.BinStepBpsDefault))
	squareVfaBin.Mul(squareVfaBin, squareVfaBin)
	if squareVfaBin.Sign() == 0 {
		return nil, fmt.Errorf("%w: price change too small for one bin", shared.ErrInvalidDynamicFee)
	}

	baseFeeNumerator, err := BpsToFeeNumerator(uint64(baseFeeBps))
	if err != nil {
		return nil, err
	}
	maxDynamicFeeNumerator := new(big.Int).SetUint64(baseFeeNumerator)
	maxDynamicFeeNumerator.Mul(maxDynamicFeeNumerator, big.NewInt(MaxDynamicFeePercent))
	maxDynamicFeeNumerator.Div(maxDynamicFeeNumerator, big.NewInt(100))

	vFee := new(big.Int).Mul(maxDynamicFeeNumerator, shared.DynamicFeeScalingFactor)
	vFee.Sub(vFee, shared.DynamicFeeRoundingOffset)
	if vFee.Sign() < 0 {
		vFee.SetInt64(0)
	}
	variableFeeControl := new(big.Int).Div(vFee, squareVfaBin)

	maxVolatilityAccumulatorU32, err := bigIntToU32(maxVolatilityAccumulator)
	if err != nil {
		return nil, err
	}
	variableFeeControlU32, err := bigIntToU32(variableFeeControl)
	if err != nil {
		return nil, err
	}
	binStepU128, err := u128.FromBig(shared.BinStepBpsU128Default)
	if err != nil {
		return nil, err
	}

	params := &shared.DynamicFeeParameters{
		BinStep:                  shared.BinStepBpsDefault,
		BinStepU128:              binStepU128,
		FilterPeriod:             shared.DynamicFeeFilterPeriodDefault,
		DecayPeriod:              shared.DynamicFeeDecayPeriodDefault,
		ReductionFactor:          shared.DynamicFeeReductionFactorDefault,
		MaxVolatilityAccumulator: maxVolatilityAccumulatorU32,
		VariableFeeControl:       variableFeeControlU32,
	}
	cfg := shared.DynamicFeeConfig(*params)
	if err := pool_fees.ValidateDynamicFee(&cfg); err != nil {
		return nil, err
	}
	return params, nil
}
