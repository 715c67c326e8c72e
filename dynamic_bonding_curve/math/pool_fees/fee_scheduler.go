package pool_fees

import (
	"fmt"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/safe_math"
	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

func GetMaxBaseFeeNumerator(cfg dbc.BaseFeeConfig) uint64 {
	return cfg.CliffFeeNumerator
}

func GetMinBaseFeeNumerator(cfg dbc.BaseFeeConfig) (uint64, error) {
	return GetBaseFeeNumeratorByPeriod(cfg, uint64(cfg.NumberOfPeriod))
}

// GetBaseFeeNumeratorByPeriod returns the scheduled fee after period
// reductions. Periods beyond NumberOfPeriod are clamped.
func GetBaseFeeNumeratorByPeriod(cfg dbc.BaseFeeConfig, period uint64) (uint64, error) {
	period = min(period, uint64(cfg.NumberOfPeriod))

	switch cfg.FeeSchedulerMode {
	case dbc.FeeSchedulerModeLinear:
		reduction, err := safe_math.MulU64(period, cfg.ReductionFactor)
		if err != nil {
			return 0, err
		}
		return safe_math.SubU64(cfg.CliffFeeNumerator, reduction)
	case dbc.FeeSchedulerModeExponential:
		return getFeeNumeratorOnExponentialFeeScheduler(cfg.CliffFeeNumerator, cfg.ReductionFactor, period)
	default:
		return 0, fmt.Errorf("%w: %d", dbc.ErrInvalidFeeSchedulerMode, cfg.FeeSchedulerMode)
	}
}

// cliff * (1 - reductionFactor/10_000)^period
func getFeeNumeratorOnExponentialFeeScheduler(cliffFeeNumerator, reductionFactor, period uint64) (uint64, error) {
	switch period {
	case 0:
		return cliffFeeNumerator, nil
	case 1:
		if reductionFactor > dbc.MaxBasisPoint {
			return 0, fmt.Errorf("%w: reduction factor %d", dbc.ErrMathOverflow, reductionFactor)
		}
		return safe_math.MulDivU64(cliffFeeNumerator, dbc.MaxBasisPoint-reductionFactor, dbc.MaxBasisPoint, dbc.RoundingDown)
	}

	base, err := oneMinusBps(reductionFactor)
	if err != nil {
		return 0, err
	}
	factor, err := pow(base, period)
	if err != nil {
		return 0, err
	}
	fee, err := safe_math.MulShr(factor, u64(cliffFeeNumerator), dbc.Resolution, safe_math.U64)
	if err != nil {
		return 0, err
	}
	return fee.Uint64(), nil
}

// GetCurrentBaseFeeNumerator evaluates the schedule at currentPoint. Trades
// before activation pay the minimum fee.
func GetCurrentBaseFeeNumerator(cfg dbc.BaseFeeConfig, currentPoint, activationPoint uint64) (uint64, error) {
	if cfg.PeriodFrequency == 0 {
		return cfg.CliffFeeNumerator, nil
	}

	var period uint64
	if currentPoint < activationPoint {
		period = uint64(cfg.NumberOfPeriod)
	} else {
		period = (currentPoint - activationPoint) / cfg.PeriodFrequency
	}
	return GetBaseFeeNumeratorByPeriod(cfg, period)
}
