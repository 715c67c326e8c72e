package dynamic_bonding_curve

import (
	"fmt"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/pool_fees"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

// ValidateConfig checks a pool config before any pool is priced against it.
func ValidateConfig(config *PoolConfig) error {
	switch config.ActivationType {
	case ActivationTypeSlot, ActivationTypeTimestamp:
	default:
		return fmt.Errorf("%w: %d", shared.ErrInvalidActivationType, config.ActivationType)
	}
	switch config.CollectFeeMode {
	case CollectFeeModeQuoteToken, CollectFeeModeOutputToken:
	default:
		return fmt.Errorf("%w: %d", shared.ErrInvalidCollectFeeMode, config.CollectFeeMode)
	}

	sqrtMinPrice := math.U128ToBig(config.SqrtMinPrice)
	sqrtMaxPrice := math.U128ToBig(config.SqrtMaxPrice)
	if sqrtMinPrice.Cmp(shared.MinSqrtPrice) < 0 || sqrtMaxPrice.Cmp(shared.MaxSqrtPrice) > 0 || sqrtMinPrice.Cmp(sqrtMaxPrice) >= 0 {
		return fmt.Errorf("%w: [%s, %s]", shared.ErrInvalidPriceRange, sqrtMinPrice, sqrtMaxPrice)
	}

	if err := pool_fees.ValidatePoolFees(config.PoolFees); err != nil {
		return fmt.Errorf("pool fees: %w", err)
	}
	return nil
}

// NewPoolConfig builds a validated config from partner fee parameters.
func NewPoolConfig(config PoolConfig, fees PoolFeeParameters) (*PoolConfig, error) {
	poolFees, err := pool_fees.NewPoolFeesConfig(fees)
	if err != nil {
		return nil, fmt.Errorf("pool fees: %w", err)
	}
	config.PoolFees = poolFees
	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
