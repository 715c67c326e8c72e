package math

import (
	"math/big"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
	"github.com/krazyTry/meteora-dbc-go/u128"
)

var (
	testSqrtMinPrice = new(big.Int).Div(dbc.OneQ64, big.NewInt(100))
	testSqrtMaxPrice = new(big.Int).Mul(dbc.OneQ64, big.NewInt(10))
)

func testLiquidity(t *testing.T) *big.Int {
	l, err := GetInitialLiquidityFromDeltaBase(1_000_000_000_000_000, testSqrtMaxPrice, testSqrtMinPrice)
	require.NoError(t, err)
	return l
}

func mustU128(t *testing.T, v *big.Int) bin.Uint128 {
	out, err := u128.FromBig(v)
	require.NoError(t, err)
	return out
}

func testPool(t *testing.T, sqrtPrice *big.Int) (*dbc.VirtualPool, *dbc.PoolConfig) {
	config := &dbc.PoolConfig{
		CollectFeeMode: dbc.CollectFeeModeQuoteToken,
		ActivationType: dbc.ActivationTypeTimestamp,
		PoolFees: dbc.PoolFeesConfig{
			BaseFee:            dbc.BaseFeeConfig{CliffFeeNumerator: 2_500_000},
			ProtocolFeePercent: dbc.ProtocolFeePercent,
			ReferralFeePercent: dbc.HostFeePercent,
		},
		SqrtMinPrice:            mustU128(t, testSqrtMinPrice),
		SqrtMaxPrice:            mustU128(t, testSqrtMaxPrice),
		MigrationQuoteThreshold: 85_000_000_000,
	}
	pool := &dbc.VirtualPool{
		SqrtPrice: mustU128(t, sqrtPrice),
		Liquidity: mustU128(t, testLiquidity(t)),
	}
	return pool, config
}

func TestInitializeAmountsRoundTrip(t *testing.T) {
	liquidity := testLiquidity(t)
	prices := []*big.Int{
		new(big.Int).Mul(testSqrtMinPrice, big.NewInt(3)),
		dbc.OneQ64,
		new(big.Int).Mul(dbc.OneQ64, big.NewInt(5)),
	}
	for _, sqrtPrice := range prices {
		base, quote, err := GetInitializeAmounts(testSqrtMinPrice, testSqrtMaxPrice, sqrtPrice, liquidity)
		require.NoError(t, err)

		fromBase, err := GetInitialLiquidityFromDeltaBase(base, testSqrtMaxPrice, sqrtPrice)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, fromBase.Cmp(liquidity), 0)
		again, err := GetDeltaAmountBaseUnsigned(sqrtPrice, testSqrtMaxPrice, fromBase, dbc.RoundingUp)
		require.NoError(t, err)
		assert.InDelta(t, base, again, 1)

		fromQuote, err := GetInitialLiquidityFromDeltaQuote(quote, testSqrtMinPrice, sqrtPrice)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, fromQuote.Cmp(liquidity), 0)
		again, err = GetDeltaAmountQuoteUnsigned(testSqrtMinPrice, sqrtPrice, fromQuote, dbc.RoundingUp)
		require.NoError(t, err)
		assert.InDelta(t, quote, again, 1)
	}
}

func TestInitializeAmountsAtMinPrice(t *testing.T) {
	base, quote, err := GetInitializeAmounts(testSqrtMinPrice, testSqrtMaxPrice, testSqrtMinPrice, testLiquidity(t))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000_000), base)
	assert.Zero(t, quote)

	_, err = GetInitialLiquidityFromDeltaQuote(1, testSqrtMinPrice, testSqrtMinPrice)
	assert.ErrorIs(t, err, dbc.ErrMathOverflow)
}

func TestDeltaAmountOverflow(t *testing.T) {
	_, err := GetDeltaAmountQuoteUnsigned(testSqrtMinPrice, testSqrtMaxPrice, dbc.U128Max, dbc.RoundingDown)
	assert.ErrorIs(t, err, dbc.ErrMathOverflow)

	wide, err := GetDeltaAmountQuoteUnsigned256(testSqrtMinPrice, testSqrtMaxPrice, dbc.U128Max, dbc.RoundingDown)
	require.NoError(t, err)
	assert.Greater(t, wide.BitLen(), 64)

	_, err = GetDeltaAmountBaseUnsigned(big.NewInt(0), testSqrtMaxPrice, dbc.OneQ64, dbc.RoundingDown)
	assert.ErrorIs(t, err, dbc.ErrMathOverflow)
}

func TestNextSqrtPriceRejectsZeroState(t *testing.T) {
	_, err := GetNextSqrtPriceFromInput(big.NewInt(0), dbc.OneQ64, 1, true)
	assert.ErrorIs(t, err, dbc.ErrMathOverflow)
	_, err = GetNextSqrtPriceFromInput(dbc.OneQ64, big.NewInt(0), 1, false)
	assert.ErrorIs(t, err, dbc.ErrMathOverflow)

	same, err := GetNextSqrtPriceFromInput(dbc.OneQ64, dbc.OneQ64, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 0, same.Cmp(dbc.OneQ64))
}

func ratOf(v *big.Int) *big.Rat {
	return new(big.Rat).SetInt(v)
}

func TestNextSqrtPriceRounding(t *testing.T) {
	liquidity := testLiquidity(t)
	sqrtPrice := dbc.OneQ64
	one := big.NewRat(1, 1)

	for _, amount := range []uint64{1, 7, 1_000_003, 123_456_789_012} {
		amt := new(big.Int).SetUint64(amount)

		// √P * L / (L + Δx * √P)
		den := new(big.Int).Add(liquidity, new(big.Int).Mul(amt, sqrtPrice))
		exact := new(big.Rat).SetFrac(new(big.Int).Mul(liquidity, sqrtPrice), den)
		got, err := GetNextSqrtPriceFromAmountBaseRoundingUp(sqrtPrice, liquidity, amount)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ratOf(got).Cmp(exact), 0)
		assert.Negative(t, new(big.Rat).Sub(ratOf(got), exact).Cmp(one))

		// √P + Δy * 2^128 / L
		exact = new(big.Rat).SetFrac(new(big.Int).Lsh(amt, 128), liquidity)
		exact.Add(exact, ratOf(sqrtPrice))
		got, err = GetNextSqrtPriceFromAmountQuoteRoundingDown(sqrtPrice, liquidity, amount)
		require.NoError(t, err)
		assert.LessOrEqual(t, ratOf(got).Cmp(exact), 0)
		assert.Negative(t, new(big.Rat).Sub(exact, ratOf(got)).Cmp(one))
	}
}

func TestGetFeeMode(t *testing.T) {
	tests := []struct {
		mode        dbc.CollectFeeMode
		direction   dbc.TradeDirection
		onInput     bool
		onBaseToken bool
	}{
		{dbc.CollectFeeModeQuoteToken, dbc.TradeDirectionBaseToQuote, false, false},
		{dbc.CollectFeeModeQuoteToken, dbc.TradeDirectionQuoteToBase, true, false},
		{dbc.CollectFeeModeOutputToken, dbc.TradeDirectionBaseToQuote, false, false},
		{dbc.CollectFeeModeOutputToken, dbc.TradeDirectionQuoteToBase, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.direction.String(), func(t *testing.T) {
			for _, referral := range []bool{false, true} {
				mode, err := GetFeeMode(tt.mode, tt.direction, referral)
				require.NoError(t, err)
				assert.Equal(t, dbc.FeeMode{FeesOnInput: tt.onInput, FeesOnBaseToken: tt.onBaseToken, HasReferral: referral}, mode)
			}
		})
	}

	_, err := GetFeeMode(2, dbc.TradeDirectionBaseToQuote, false)
	assert.ErrorIs(t, err, dbc.ErrInvalidCollectFeeMode)
	assert.ErrorIs(t, err, dbc.ErrInvalidInput)
}

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name                   string
		amount, num, den, want uint64
	}{
		{"zero numerator", 1_000_000, 0, dbc.FeeDenominator, 0},
		{"zero amount", 0, dbc.MaxFeeNumerator, dbc.FeeDenominator, 0},
		{"minimum fee", 1, 1, dbc.FeeDenominator, 1},
		{"max fee on one unit", 1, dbc.MaxFeeNumerator, dbc.FeeDenominator, 1},
		{"floor", 1_000_001, 2_500_000, dbc.FeeDenominator, 2500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := CalculateFee(tt.amount, tt.num, tt.den)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fee)
		})
	}

	_, err := CalculateFee(1, 1, 0)
	assert.ErrorIs(t, err, dbc.ErrMathOverflow)
}

func TestSplitFees(t *testing.T) {
	poolFees := dbc.PoolFeesConfig{ProtocolFeePercent: 20, ReferralFeePercent: 20}
	trading, protocol, referral, err := SplitFees(poolFees, 1000, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(800), trading)
	assert.Equal(t, uint64(160), protocol)
	assert.Equal(t, uint64(40), referral)

	trading, protocol, referral, err = SplitFees(poolFees, 1000, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(800), trading)
	assert.Equal(t, uint64(200), protocol)
	assert.Zero(t, referral)
}

func TestSplitFeesConservation(t *testing.T) {
	for protocolPct := 0; protocolPct <= 100; protocolPct += 7 {
		for referralPct := 0; referralPct <= 100; referralPct += 9 {
			poolFees := dbc.PoolFeesConfig{ProtocolFeePercent: uint8(protocolPct), ReferralFeePercent: uint8(referralPct)}
			for _, fee := range []uint64{0, 1, 3, 99, 1001, 987_654_321} {
				trading, protocol, referral, err := SplitFees(poolFees, fee, true)
				require.NoError(t, err)
				assert.Equal(t, fee, trading+protocol+referral)
			}
		}
	}
}

func TestGetTotalFeeNumeratorCapped(t *testing.T) {
	poolFees := dbc.PoolFeesConfig{
		BaseFee: dbc.BaseFeeConfig{CliffFeeNumerator: 900_000_000},
		DynamicFee: &dbc.DynamicFeeConfig{
			BinStep:            1,
			VariableFeeControl: 100_000,
		},
	}
	tracker := dbc.VolatilityTracker{VolatilityAccumulator: u128.FromUint64(10_000_000)}
	fee, err := GetTotalFeeNumerator(poolFees, tracker, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(dbc.MaxFeeNumerator), fee)

	poolFees.DynamicFee = nil
	fee, err = GetTotalFeeNumerator(poolFees, tracker, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(900_000_000), fee)
}

func TestSwapOneUnitAtMaxFee(t *testing.T) {
	pool, config := testPool(t, testSqrtMinPrice)
	config.PoolFees.BaseFee.CliffFeeNumerator = dbc.MaxFeeNumerator

	feeMode, err := GetFeeMode(config.CollectFeeMode, dbc.TradeDirectionQuoteToBase, false)
	require.NoError(t, err)
	result, err := GetSwapResult(pool, config, 1, feeMode, dbc.TradeDirectionQuoteToBase, 0, 0, pool.VolatilityTracker)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.TotalFee)
	assert.Zero(t, result.ActualInputAmount)
	assert.Zero(t, result.OutputAmount)
	assert.Equal(t, 0, result.NextSqrtPrice.Cmp(testSqrtMinPrice))
}

func TestSwapMonotonic(t *testing.T) {
	start := new(big.Int).Mul(testSqrtMinPrice, big.NewInt(4))
	for _, direction := range []dbc.TradeDirection{dbc.TradeDirectionBaseToQuote, dbc.TradeDirectionQuoteToBase} {
		pool, config := testPool(t, start)
		feeMode, err := GetFeeMode(config.CollectFeeMode, direction, true)
		require.NoError(t, err)

		var prevOut uint64
		prevMove := big.NewInt(0)
		for _, amount := range []uint64{1, 10, 1_000, 100_000, 10_000_000, 1_000_000_000, 50_000_000_000} {
			result, err := GetSwapResult(pool, config, amount, feeMode, direction, 0, 0, pool.VolatilityTracker)
			require.NoError(t, err, "%s %d", direction, amount)

			move := new(big.Int).Sub(result.NextSqrtPrice, start)
			move.Abs(move)
			assert.GreaterOrEqual(t, result.OutputAmount, prevOut)
			assert.GreaterOrEqual(t, move.Cmp(prevMove), 0)
			assert.Equal(t, result.TotalFee, result.ProtocolFee+result.ReferralFee+result.TradingFee)
			assert.Equal(t, 0, result.NextLiquidity.Cmp(testLiquidity(t)))
			prevOut, prevMove = result.OutputAmount, move
		}
	}
}

func TestSwapOutOfRange(t *testing.T) {
	pool, config := testPool(t, testSqrtMinPrice)
	feeMode := dbc.FeeMode{}

	_, err := GetSwapResult(pool, config, 1_000, feeMode, dbc.TradeDirectionBaseToQuote, 0, 0, pool.VolatilityTracker)
	assert.ErrorIs(t, err, dbc.ErrNotEnoughLiquidity)

	_, err = GetSwapResult(pool, config, 1_000_000_000_000_000_000, feeMode, dbc.TradeDirectionQuoteToBase, 0, 0, pool.VolatilityTracker)
	assert.ErrorIs(t, err, dbc.ErrNotEnoughLiquidity)
}

func TestSellCrossCheck(t *testing.T) {
	liquidity := testLiquidity(t)

	// Buy first so there is room to sell back toward the floor.
	current, err := GetNextSqrtPriceFromInput(testSqrtMinPrice, liquidity, 1_000_000_000_000, false)
	require.NoError(t, err)
	pool, config := testPool(t, current)
	config.PoolFees.BaseFee.CliffFeeNumerator = 0

	const sold = 5_000_000_000_000
	result, err := GetSwapResult(pool, config, sold, dbc.FeeMode{}, dbc.TradeDirectionBaseToQuote, 0, 0, pool.VolatilityTracker)
	require.NoError(t, err)
	assert.Zero(t, result.TotalFee)

	quote, err := GetDeltaAmountQuoteUnsigned(result.NextSqrtPrice, current, liquidity, dbc.RoundingDown)
	require.NoError(t, err)
	assert.Equal(t, quote, result.OutputAmount)

	// The rounded-up price must not credit more base than was sold.
	baseDown, err := GetDeltaAmountBaseUnsigned(result.NextSqrtPrice, current, liquidity, dbc.RoundingDown)
	require.NoError(t, err)
	assert.LessOrEqual(t, baseDown, uint64(sold))
	lower := new(big.Int).Sub(result.NextSqrtPrice, big.NewInt(1))
	baseUp, err := GetDeltaAmountBaseUnsigned(lower, current, liquidity, dbc.RoundingUp)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, baseUp, uint64(sold))
}

func TestSwapFeesOnOutput(t *testing.T) {
	start := new(big.Int).Mul(testSqrtMinPrice, big.NewInt(4))
	pool, config := testPool(t, start)
	config.CollectFeeMode = dbc.CollectFeeModeOutputToken

	feeMode, err := GetFeeMode(config.CollectFeeMode, dbc.TradeDirectionQuoteToBase, false)
	require.NoError(t, err)
	result, err := GetSwapResult(pool, config, 1_000_000_000, feeMode, dbc.TradeDirectionQuoteToBase, 0, 0, pool.VolatilityTracker)
	require.NoError(t, err)

	gross, err := GetSwapAmountFromQuoteToBase(pool, config, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), result.ActualInputAmount)
	assert.Equal(t, gross.OutputAmount.Uint64(), result.OutputAmount+result.TotalFee)
	assert.Equal(t, 0, gross.NextSqrtPrice.Cmp(result.NextSqrtPrice))
	assert.Positive(t, result.TotalFee)
}
