package dynamic_bonding_curve

import (
	"math/big"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/pool_fees"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
	"github.com/krazyTry/meteora-dbc-go/u128"
)

var (
	testQuoteMint = solanago.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	testBaseMint  = solanago.MustPublicKeyFromBase58("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
)

const testTimestamp = 1_700_000_000

func testConfig(t *testing.T, dynamic bool) *PoolConfig {
	sqrtMin := new(big.Int).Div(shared.OneQ64, big.NewInt(100))
	sqrtMax := new(big.Int).Mul(shared.OneQ64, big.NewInt(10))
	sqrtMinU128, err := u128.FromBig(sqrtMin)
	require.NoError(t, err)
	sqrtMaxU128, err := u128.FromBig(sqrtMax)
	require.NoError(t, err)

	config := &PoolConfig{
		QuoteMint:      testQuoteMint,
		CollectFeeMode: CollectFeeModeQuoteToken,
		ActivationType: ActivationTypeTimestamp,
		PoolFees: PoolFeesConfig{
			BaseFee:            BaseFeeConfig{CliffFeeNumerator: 2_500_000},
			ProtocolFeePercent: shared.ProtocolFeePercent,
			ReferralFeePercent: shared.HostFeePercent,
		},
		SqrtMinPrice:            sqrtMinU128,
		SqrtMaxPrice:            sqrtMaxU128,
		MigrationQuoteThreshold: 85_000_000_000_000,
	}
	if dynamic {
		config.PoolFees.DynamicFee = &DynamicFeeConfig{
			BinStep:                  shared.BinStepBpsDefault,
			BinStepU128:              u128.GenUint128FromString(shared.BinStepBpsU128Default.String()),
			FilterPeriod:             shared.DynamicFeeFilterPeriodDefault,
			DecayPeriod:              shared.DynamicFeeDecayPeriodDefault,
			ReductionFactor:          shared.DynamicFeeReductionFactorDefault,
			MaxVolatilityAccumulator: 14_460_000,
			VariableFeeControl:       100_000,
		}
	}
	require.NoError(t, ValidateConfig(config))
	return config
}

// testPool returns a pool that has been bought into with 1e12 quote units.
func testPool(t *testing.T, config *PoolConfig) *VirtualPool {
	sqrtMin := math.U128ToBig(config.SqrtMinPrice)
	sqrtMax := math.U128ToBig(config.SqrtMaxPrice)
	liquidity, err := math.GetInitialLiquidityFromDeltaBase(1_000_000_000_000_000, sqrtMax, sqrtMin)
	require.NoError(t, err)
	sqrtPrice, err := math.GetNextSqrtPriceFromInput(sqrtMin, liquidity, 1_000_000_000_000, false)
	require.NoError(t, err)
	baseReserve, quoteReserve, err := math.GetInitializeAmounts(sqrtMin, sqrtMax, sqrtPrice, liquidity)
	require.NoError(t, err)

	sqrtPriceU128, err := u128.FromBig(sqrtPrice)
	require.NoError(t, err)
	liquidityU128, err := u128.FromBig(liquidity)
	require.NoError(t, err)
	return &VirtualPool{
		BaseMint:        testBaseMint,
		SqrtPrice:       sqrtPriceU128,
		Liquidity:       liquidityU128,
		BaseReserve:     baseReserve,
		QuoteReserve:    quoteReserve,
		ActivationPoint: testTimestamp - 3600,
		VolatilityTracker: VolatilityTracker{
			LastUpdateTimestamp:   testTimestamp,
			SqrtPriceReference:    sqrtPriceU128,
			VolatilityAccumulator: u128.FromUint64(1_000_000),
			VolatilityReference:   u128.FromUint64(1_000_000),
		},
	}
}

// quoteUpdateOnCopy copies the whole pool, reconciles the copy's tracker
// references in place and prices against the copy.
func quoteUpdateOnCopy(virtualPool *VirtualPool, config *PoolConfig, swapBaseForQuote bool, currentTimestamp, currentSlot, amountIn uint64, hasReferral bool) (SwapResult, error) {
	pool := *virtualPool
	if config.PoolFees.IsDynamicFeeEnabled() {
		if err := pool_fees.UpdateReferences(&pool.VolatilityTracker, config.PoolFees.DynamicFee, math.U128ToBig(pool.SqrtPrice), currentTimestamp); err != nil {
			return SwapResult{}, err
		}
	}
	return quoteWithTracker(&pool, config, swapBaseForQuote, currentTimestamp, currentSlot, amountIn, hasReferral, pool.VolatilityTracker)
}

// quoteStoredTracker prices against the tracker exactly as it is stored.
func quoteStoredTracker(virtualPool *VirtualPool, config *PoolConfig, swapBaseForQuote bool, currentTimestamp, currentSlot, amountIn uint64, hasReferral bool) (SwapResult, error) {
	return quoteWithTracker(virtualPool, config, swapBaseForQuote, currentTimestamp, currentSlot, amountIn, hasReferral, virtualPool.VolatilityTracker)
}

func quoteWithTracker(pool *VirtualPool, config *PoolConfig, swapBaseForQuote bool, currentTimestamp, currentSlot, amountIn uint64, hasReferral bool, tracker VolatilityTracker) (SwapResult, error) {
	currentPoint, err := CurrentPoint(config.ActivationType, currentTimestamp, currentSlot)
	if err != nil {
		return SwapResult{}, err
	}
	tradeDirection := shared.TradeDirectionOf(swapBaseForQuote)
	feeMode, err := math.GetFeeMode(config.CollectFeeMode, tradeDirection, hasReferral)
	if err != nil {
		return SwapResult{}, err
	}
	return math.GetSwapResult(pool, config, amountIn, feeMode, tradeDirection, currentPoint, pool.ActivationPoint, tracker)
}

func assertSameResult(t *testing.T, want, got SwapResult) {
	t.Helper()
	assert.Equal(t, want.ActualInputAmount, got.ActualInputAmount)
	assert.Equal(t, want.OutputAmount, got.OutputAmount)
	assert.Equal(t, want.TotalFee, got.TotalFee)
	assert.Equal(t, want.ProtocolFee, got.ProtocolFee)
	assert.Equal(t, want.ReferralFee, got.ReferralFee)
	assert.Equal(t, want.TradingFee, got.TradingFee)
	assert.Zero(t, want.NextSqrtPrice.Cmp(got.NextSqrtPrice))
	assert.Zero(t, want.NextLiquidity.Cmp(got.NextLiquidity))
}

func TestCurrentPoint(t *testing.T) {
	p, err := CurrentPoint(ActivationTypeSlot, 100, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), p)

	p, err = CurrentPoint(ActivationTypeTimestamp, 100, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), p)

	_, err = CurrentPoint(9, 100, 7)
	assert.ErrorIs(t, err, shared.ErrInvalidActivationType)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestQuoteExactInPreconditions(t *testing.T) {
	config := testConfig(t, false)
	pool := testPool(t, config)

	_, err := QuoteExactIn(pool, config, false, testTimestamp, 0, 0, false)
	assert.ErrorIs(t, err, shared.ErrZeroAmount)

	pool.QuoteReserve = config.MigrationQuoteThreshold
	_, err = QuoteExactIn(pool, config, false, testTimestamp, 0, 0, false)
	assert.ErrorIs(t, err, shared.ErrCurveCompleted)
	_, err = QuoteExactIn(pool, config, true, testTimestamp, 0, 1_000, false)
	assert.ErrorIs(t, err, shared.ErrCurveCompleted)
}

func TestQuoteExactInInvalidEnums(t *testing.T) {
	config := testConfig(t, false)
	pool := testPool(t, config)

	config.ActivationType = 5
	_, err := QuoteExactIn(pool, config, false, testTimestamp, 0, 1_000, false)
	assert.ErrorIs(t, err, shared.ErrInvalidActivationType)

	config.ActivationType = ActivationTypeSlot
	config.CollectFeeMode = 3
	_, err = QuoteExactIn(pool, config, false, testTimestamp, 0, 1_000, false)
	assert.ErrorIs(t, err, shared.ErrInvalidCollectFeeMode)
}

func TestQuoteExactInDoesNotMutatePool(t *testing.T) {
	config := testConfig(t, true)
	pool := testPool(t, config)
	before := *pool

	for _, baseForQuote := range []bool{true, false} {
		_, err := QuoteExactIn(pool, config, baseForQuote, testTimestamp+60, 0, 1_000_000_000, true)
		require.NoError(t, err)
	}
	assert.Equal(t, before, *pool)
}

func TestSnapshotVariantsAgree(t *testing.T) {
	for _, dynamic := range []bool{false, true} {
		config := testConfig(t, dynamic)
		pool := testPool(t, config)
		for _, elapsed := range []uint64{0, 5, 10, 60, 119, 120, 10_000} {
			for _, baseForQuote := range []bool{true, false} {
				for _, amount := range []uint64{1, 1_000, 1_000_000_000, 100_000_000_000} {
					ts := testTimestamp + elapsed
					want, err := QuoteExactIn(pool, config, baseForQuote, ts, 0, amount, true)
					require.NoError(t, err)
					got, err := quoteUpdateOnCopy(pool, config, baseForQuote, ts, 0, amount, true)
					require.NoError(t, err)
					assertSameResult(t, want, got)
					stored, err := quoteStoredTracker(pool, config, baseForQuote, ts, 0, amount, true)
					require.NoError(t, err)
					assertSameResult(t, want, stored)
				}
			}
		}
	}
}

// The variable fee is priced from the stored accumulator whatever the
// elapsed time; decay only shows up once a swap commits.
func TestDynamicFeeWindows(t *testing.T) {
	config := testConfig(t, true)
	pool := testPool(t, config)

	tests := []struct {
		name     string
		elapsed  uint64
		totalFee uint64
	}{
		{"inside filter period", 5, 3_500_000},
		{"decaying", 60, 3_500_000},
		{"decayed", uint64(config.PoolFees.DynamicFee.DecayPeriod), 3_500_000},
		{"long idle", 10_000, 3_500_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := QuoteExactIn(pool, config, false, testTimestamp+tt.elapsed, 0, 1_000_000_000, false)
			require.NoError(t, err)
			assert.Equal(t, tt.totalFee, result.TotalFee)
			assert.Equal(t, 1_000_000_000-tt.totalFee, result.ActualInputAmount)
		})
	}

	static := testConfig(t, false)
	result, err := QuoteExactIn(pool, static, false, testTimestamp+5, 0, 1_000_000_000, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_500_000), result.TotalFee)
}

func TestGetFeeMint(t *testing.T) {
	config := testConfig(t, false)
	pool := testPool(t, config)

	for _, baseForQuote := range []bool{true, false} {
		mint, err := GetFeeMint(config, pool, baseForQuote, false)
		require.NoError(t, err)
		assert.Equal(t, testQuoteMint, mint)
	}

	config.CollectFeeMode = CollectFeeModeOutputToken
	mint, err := GetFeeMint(config, pool, false, true)
	require.NoError(t, err)
	assert.Equal(t, testBaseMint, mint)
	mint, err = GetFeeMint(config, pool, true, true)
	require.NoError(t, err)
	assert.Equal(t, testQuoteMint, mint)

	config.CollectFeeMode = 4
	_, err = GetFeeMint(config, pool, true, false)
	assert.ErrorIs(t, err, shared.ErrInvalidCollectFeeMode)
}

func TestSwapQuoteSlippage(t *testing.T) {
	config := testConfig(t, false)
	pool := testPool(t, config)

	quote, err := SwapQuote(pool, config, false, testTimestamp, 0, 1_000_000_000, 100, false)
	require.NoError(t, err)
	assert.Equal(t, quote.OutputAmount*9900/10000, quote.MinimumAmountOut)

	_, err = SwapQuote(pool, config, false, testTimestamp, 0, 1_000_000_000, 10_001, false)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestValidateConfig(t *testing.T) {
	config := testConfig(t, true)

	bad := *config
	bad.SqrtMinPrice, bad.SqrtMaxPrice = config.SqrtMaxPrice, config.SqrtMinPrice
	assert.ErrorIs(t, ValidateConfig(&bad), shared.ErrInvalidPriceRange)

	bad = *config
	bad.SqrtMinPrice = u128.FromUint64(1)
	assert.ErrorIs(t, ValidateConfig(&bad), shared.ErrInvalidPriceRange)

	bad = *config
	bad.CollectFeeMode = 2
	assert.ErrorIs(t, ValidateConfig(&bad), shared.ErrInvalidCollectFeeMode)

	bad = *config
	bad.PoolFees.BaseFee.CliffFeeNumerator = shared.FeeDenominator
	assert.ErrorIs(t, ValidateConfig(&bad), shared.ErrInvalidInput)
}

func TestNewPoolConfig(t *testing.T) {
	template := *testConfig(t, false)
	template.PoolFees = PoolFeesConfig{}

	config, err := NewPoolConfig(template, PoolFeeParameters{
		BaseFee: BaseFeeParameters{
			CliffFeeNumerator: 500_000_000,
			NumberOfPeriod:    10,
			PeriodFrequency:   60,
			ReductionFactor:   40_000_000,
			FeeSchedulerMode:  FeeSchedulerModeLinear,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, uint8(shared.ProtocolFeePercent), config.PoolFees.ProtocolFeePercent)
	assert.Equal(t, uint64(500_000_000), config.PoolFees.BaseFee.CliffFeeNumerator)

	_, err = NewPoolConfig(template, PoolFeeParameters{BaseFee: BaseFeeParameters{CliffFeeNumerator: 1}})
	assert.ErrorIs(t, err, shared.ErrExceedMaxFeeBps)
}
