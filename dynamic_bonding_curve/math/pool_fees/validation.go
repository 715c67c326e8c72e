package pool_fees

import (
	"fmt"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/safe_math"
	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
	"github.com/krazyTry/meteora-dbc-go/u128"
)

func ValidateFeeFraction(numerator, denominator uint64) error {
	if denominator == 0 || numerator >= denominator {
		return fmt.Errorf("%w: %d/%d", dbc.ErrInvalidFee, numerator, denominator)
	}
	return nil
}

// ToBps converts a fee fraction to basis points, rounding down.
func ToBps(numerator, denominator uint64) (uint64, error) {
	return safe_math.MulDivU64(numerator, dbc.MaxBasisPoint, denominator, dbc.RoundingDown)
}

func ValidateBaseFee(cfg dbc.BaseFeeConfig) error {
	minFee, err := GetMinBaseFeeNumerator(cfg)
	if err != nil {
		return err
	}
	maxFee := GetMaxBaseFeeNumerator(cfg)
	if err := ValidateFeeFraction(minFee, dbc.FeeDenominator); err != nil {
		return err
	}
	if err := ValidateFeeFraction(maxFee, dbc.FeeDenominator); err != nil {
		return err
	}
	if minFee < dbc.MinFeeNumerator || maxFee > dbc.MaxFeeNumerator {
		return fmt.Errorf("%w: min %d max %d", dbc.ErrExceedMaxFeeBps, minFee, maxFee)
	}
	return nil
}

func ValidateDynamicFee(cfg *dbc.DynamicFeeConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.BinStep != dbc.BinStepBpsDefault {
		return fmt.Errorf("%w: bin step %d", dbc.ErrInvalidDynamicFee, cfg.BinStep)
	}
	if u128.ToBig(cfg.BinStepU128).Cmp(dbc.BinStepBpsU128Default) != 0 {
		return fmt.Errorf("%w: bin step u128 %s", dbc.ErrInvalidDynamicFee, u128.ToBig(cfg.BinStepU128))
	}
	if cfg.FilterPeriod >= cfg.DecayPeriod {
		return fmt.Errorf("%w: filter period %d not below decay period %d", dbc.ErrInvalidDynamicFee, cfg.FilterPeriod, cfg.DecayPeriod)
	}
	if cfg.ReductionFactor > dbc.MaxBasisPoint {
		return fmt.Errorf("%w: reduction factor %d", dbc.ErrInvalidDynamicFee, cfg.ReductionFactor)
	}
	if cfg.VariableFeeControl > dbc.U24Max {
		return fmt.Errorf("%w: variable fee control %d", dbc.ErrInvalidDynamicFee, cfg.VariableFeeControl)
	}
	if cfg.MaxVolatilityAccumulator > dbc.U24Max {
		return fmt.Errorf("%w: max volatility accumulator %d", dbc.ErrInvalidDynamicFee, cfg.MaxVolatilityAccumulator)
	}
	return nil
}

func ValidatePoolFees(cfg dbc.PoolFeesConfig) error {
	if err := ValidateBaseFee(cfg.BaseFee); err != nil {
		return err
	}
	if err := ValidateDynamicFee(cfg.DynamicFee); err != nil {
		return err
	}
	if cfg.ProtocolFeePercent > 100 || cfg.ReferralFeePercent > 100 {
		return fmt.Errorf("%w: fee split %d/%d", dbc.ErrInvalidFee, cfg.ProtocolFeePercent, cfg.ReferralFeePercent)
	}
	return nil
}

// NewPoolFeesConfig validates partner parameters and fixes the protocol and
// referral split.
func NewPoolFeesConfig(params dbc.PoolFeeParameters) (dbc.PoolFeesConfig, error) {
	cfg := dbc.PoolFeesConfig{
		BaseFee:            dbc.BaseFeeConfig(params.BaseFee),
		ProtocolFeePercent: dbc.ProtocolFeePercent,
		ReferralFeePercent: dbc.HostFeePercent,
	}
	if params.DynamicFee != nil {
		dynamicFee := dbc.DynamicFeeConfig(*params.DynamicFee)
		cfg.DynamicFee = &dynamicFee
	}
	if err := ValidatePoolFees(cfg); err != nil {
		return dbc.PoolFeesConfig{}, err
	}
	return cfg, nil
}
