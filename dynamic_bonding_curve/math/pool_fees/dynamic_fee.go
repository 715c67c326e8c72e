package pool_fees

import (
	"math/big"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/safe_math"
	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
	"github.com/krazyTry/meteora-dbc-go/u128"
)

// UpdateReferences decays the volatility reference according to the time
// elapsed since the tracker was last written. A nil cfg leaves the tracker
// untouched.
func UpdateReferences(tracker *dbc.VolatilityTracker, cfg *dbc.DynamicFeeConfig, sqrtPrice *big.Int, currentTimestamp uint64) error {
	if cfg == nil {
		return nil
	}
	elapsed, err := safe_math.SubU64(currentTimestamp, tracker.LastUpdateTimestamp)
	if err != nil {
		return err
	}
	if elapsed < uint64(cfg.FilterPeriod) {
		return nil
	}

	reference, err := u128.FromBig(sqrtPrice)
	if err != nil {
		return err
	}
	tracker.SqrtPriceReference = reference

	if elapsed >= uint64(cfg.DecayPeriod) {
		tracker.VolatilityReference = u128.FromUint64(0)
		return nil
	}
	decayed, err := safe_math.Mul(u128.ToBig(tracker.VolatilityAccumulator), big.NewInt(int64(cfg.ReductionFactor)), safe_math.U128)
	if err != nil {
		return err
	}
	decayed, err = safe_math.Div(decayed, big.NewInt(dbc.MaxBasisPoint))
	if err != nil {
		return err
	}
	tracker.VolatilityReference, err = u128.FromBig(decayed)
	return err
}

// UpdateVolatilityAccumulator adds the price movement since the reference
// price, in bin steps, to the decayed reference.
func UpdateVolatilityAccumulator(tracker *dbc.VolatilityTracker, cfg *dbc.DynamicFeeConfig, sqrtPrice *big.Int) error {
	if cfg == nil {
		return nil
	}
	deltaBin, err := GetDeltaBinID(u128.ToBig(cfg.BinStepU128), sqrtPrice, u128.ToBig(tracker.SqrtPriceReference))
	if err != nil {
		return err
	}
	deltaBin, err = safe_math.Mul(deltaBin, big.NewInt(dbc.MaxBasisPoint), safe_math.U128)
	if err != nil {
		return err
	}
	acc, err := safe_math.Add(u128.ToBig(tracker.VolatilityReference), deltaBin, safe_math.U128)
	if err != nil {
		return err
	}
	if maxAcc := new(big.Int).SetUint64(uint64(cfg.MaxVolatilityAccumulator)); acc.Cmp(maxAcc) > 0 {
		acc = maxAcc
	}
	tracker.VolatilityAccumulator, err = u128.FromBig(acc)
	return err
}

// GetDeltaBinID returns twice the number of bin steps between two prices.
func GetDeltaBinID(binStepU128, sqrtPriceA, sqrtPriceB *big.Int) (*big.Int, error) {
	upper, lower := sqrtPriceA, sqrtPriceB
	if sqrtPriceA.Cmp(sqrtPriceB) <= 0 {
		upper, lower = sqrtPriceB, sqrtPriceA
	}
	ratio, err := safe_math.ShlDiv(upper, lower, dbc.Resolution, dbc.RoundingDown, safe_math.U128)
	if err != nil {
		return nil, err
	}
	ratio, err = safe_math.Sub(ratio, dbc.OneQ64)
	if err != nil {
		return nil, err
	}
	deltaBin, err := safe_math.Div(ratio, binStepU128)
	if err != nil {
		return nil, err
	}
	return safe_math.Mul(deltaBin, big.NewInt(2), safe_math.U128)
}

// GetVariableFeeNumerator returns ceil((acc*binStep)^2 * variableFeeControl / 1e11).
func GetVariableFeeNumerator(cfg *dbc.DynamicFeeConfig, tracker dbc.VolatilityTracker) (*big.Int, error) {
	if cfg == nil {
		return big.NewInt(0), nil
	}
	volatilityTimesBinStep, err := safe_math.Mul(u128.ToBig(tracker.VolatilityAccumulator), big.NewInt(int64(cfg.BinStep)), safe_math.U128)
	if err != nil {
		return nil, err
	}
	square, err := safe_math.Mul(volatilityTimesBinStep, volatilityTimesBinStep, safe_math.U128)
	if err != nil {
		return nil, err
	}
	vFee, err := safe_math.Mul(square, new(big.Int).SetUint64(uint64(cfg.VariableFeeControl)), safe_math.U128)
	if err != nil {
		return nil, err
	}
	vFee, err = safe_math.Add(vFee, dbc.DynamicFeeRoundingOffset, safe_math.U128)
	if err != nil {
		return nil, err
	}
	return safe_math.Div(vFee, dbc.DynamicFeeScalingFactor)
}
