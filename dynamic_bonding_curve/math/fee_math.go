package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/pool_fees"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math/safe_math"
	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

// GetFeeMode resolves which side of a swap pays the fee.
//
//	QuoteToken  + BaseToQuote: fee on output (quote)
//	QuoteToken  + QuoteToBase: fee on input (quote)
//	OutputToken + BaseToQuote: fee on output (quote)
//	OutputToken + QuoteToBase: fee on output (base)
func GetFeeMode(collectFeeMode dbc.CollectFeeMode, tradeDirection dbc.TradeDirection, hasReferral bool) (dbc.FeeMode, error) {
	var feesOnInput, feesOnBaseToken bool

	switch collectFeeMode {
	case dbc.CollectFeeModeQuoteToken:
		feesOnInput = tradeDirection == dbc.TradeDirectionQuoteToBase
	case dbc.CollectFeeModeOutputToken:
		feesOnBaseToken = tradeDirection == dbc.TradeDirectionQuoteToBase
	default:
		return dbc.FeeMode{}, fmt.Errorf("%w: %d", dbc.ErrInvalidCollectFeeMode, collectFeeMode)
	}

	return dbc.FeeMode{FeesOnInput: feesOnInput, FeesOnBaseToken: feesOnBaseToken, HasReferral: hasReferral}, nil
}

// GetTotalFeeNumerator adds the variable fee to the scheduled base fee and
// caps the sum at MaxFeeNumerator.
func GetTotalFeeNumerator(poolFees dbc.PoolFeesConfig, volatilityTracker dbc.VolatilityTracker, currentPoint, activationPoint uint64) (uint64, error) {
	baseFeeNumerator, err := pool_fees.GetCurrentBaseFeeNumerator(poolFees.BaseFee, currentPoint, activationPoint)
	if err != nil {
		return 0, err
	}
	variableFeeNumerator, err := pool_fees.GetVariableFeeNumerator(poolFees.DynamicFee, volatilityTracker)
	if err != nil {
		return 0, err
	}
	total, err := safe_math.Add(variableFeeNumerator, new(big.Int).SetUint64(baseFeeNumerator), safe_math.U128)
	if err != nil {
		return 0, err
	}
	if total.Cmp(big.NewInt(dbc.MaxFeeNumerator)) > 0 {
		return dbc.MaxFeeNumerator, nil
	}
	return total.Uint64(), nil
}

// CalculateFee charges at least one unit whenever both amount and numerator
// are nonzero.
func CalculateFee(amount, feeNumerator, feeDenominator uint64) (uint64, error) {
	if feeNumerator == 0 || amount == 0 {
		return 0, nil
	}
	fee, err := safe_math.MulDivU64(amount, feeNumerator, feeDenominator, dbc.RoundingDown)
	if err != nil {
		return 0, err
	}
	if fee == 0 {
		return 1, nil
	}
	return fee, nil
}

// GetFeeOnAmount takes the trade fee out of amount and splits it.
func GetFeeOnAmount(amount, tradeFeeNumerator uint64, poolFees dbc.PoolFeesConfig, hasReferral bool) (dbc.FeeOnAmountResult, error) {
	totalFee, err := CalculateFee(amount, tradeFeeNumerator, dbc.FeeDenominator)
	if err != nil {
		return dbc.FeeOnAmountResult{}, err
	}
	amountAfterFee, err := safe_math.SubU64(amount, totalFee)
	if err != nil {
		return dbc.FeeOnAmountResult{}, err
	}
	tradingFee, protocolFee, referralFee, err := SplitFees(poolFees, totalFee, hasReferral)
	if err != nil {
		return dbc.FeeOnAmountResult{}, err
	}
	return dbc.FeeOnAmountResult{
		Amount:      amountAfterFee,
		TotalFee:    totalFee,
		ProtocolFee: protocolFee,
		TradingFee:  tradingFee,
		ReferralFee: referralFee,
	}, nil
}

// SplitFees returns (trading, protocol, referral). The referral share is cut
// from the protocol share; remainders stay with trading.
func SplitFees(poolFees dbc.PoolFeesConfig, feeAmount uint64, hasReferral bool) (uint64, uint64, uint64, error) {
	protocolFee, err := safe_math.MulDivU64(feeAmount, uint64(poolFees.ProtocolFeePercent), 100, dbc.RoundingDown)
	if err != nil {
		return 0, 0, 0, err
	}
	tradingFee, err := safe_math.SubU64(feeAmount, protocolFee)
	if err != nil {
		return 0, 0, 0, err
	}
	var referralFee uint64
	if hasReferral {
		if referralFee, err = safe_math.MulDivU64(protocolFee, uint64(poolFees.ReferralFeePercent), 100, dbc.RoundingDown); err != nil {
			return 0, 0, 0, err
		}
	}
	protocolAfterReferral, err := safe_math.SubU64(protocolFee, referralFee)
	if err != nil {
		return 0, 0, 0, err
	}
	return tradingFee, protocolAfterReferral, referralFee, nil
}
