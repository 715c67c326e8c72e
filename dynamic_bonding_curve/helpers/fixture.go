package helpers

import (
	"fmt"
	"math"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
	"github.com/krazyTry/meteora-dbc-go/u128"
)

// LoadSnapshot decodes a JSON snapshot holding a "config" and a "pool"
// object. u128 fields are decimal strings and keys are base58. A null or
// missing "config.poolFees.dynamicFee" disables the dynamic fee.
func LoadSnapshot(data []byte) (*shared.VirtualPool, *shared.PoolConfig, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("%w: snapshot is not valid JSON", shared.ErrInvalidInput)
	}
	root := gjson.ParseBytes(data)

	config, err := parseConfig(root.Get("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	pool, err := parsePool(root.Get("pool"))
	if err != nil {
		return nil, nil, fmt.Errorf("pool: %w", err)
	}
	return pool, config, nil
}

type fieldReader struct {
	obj gjson.Result
	err error
}

func (r *fieldReader) get(path string) gjson.Result {
	v := r.obj.Get(path)
	if !v.Exists() && r.err == nil {
		r.err = fmt.Errorf("%w: missing field %q", shared.ErrInvalidInput, path)
	}
	return v
}

func (r *fieldReader) uint(path string) uint64 {
	return r.get(path).Uint()
}

func (r *fieldReader) bounded(path string, max uint64) uint64 {
	v := r.uint(path)
	if v > max && r.err == nil {
		r.err = fmt.Errorf("%w: %s = %d exceeds %d", shared.ErrInvalidInput, path, v, max)
	}
	return v
}

func (r *fieldReader) uint8(path string) uint8 {
	return uint8(r.bounded(path, math.MaxUint8))
}

func (r *fieldReader) uint16(path string) uint16 {
	return uint16(r.bounded(path, math.MaxUint16))
}

func (r *fieldReader) uint32(path string) uint32 {
	return uint32(r.bounded(path, math.MaxUint32))
}

func (r *fieldReader) u128(path string) bin.Uint128 {
	v := r.get(path)
	if r.err != nil {
		return bin.Uint128{}
	}
	out, err := u128.Parse(v.String())
	if err != nil {
		r.err = fmt.Errorf("%w: %s: %v", shared.ErrInvalidInput, path, err)
	}
	return out
}

func (r *fieldReader) key(path string) solanago.PublicKey {
	v := r.get(path)
	if r.err != nil {
		return solanago.PublicKey{}
	}
	out, err := solanago.PublicKeyFromBase58(v.String())
	if err != nil {
		r.err = fmt.Errorf("%w: %s: %v", shared.ErrInvalidInput, path, err)
	}
	return out
}

func parseConfig(obj gjson.Result) (*shared.PoolConfig, error) {
	if !obj.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", shared.ErrInvalidInput)
	}
	r := &fieldReader{obj: obj}
	config := &shared.PoolConfig{
		QuoteMint:      r.key("quoteMint"),
		CollectFeeMode: shared.CollectFeeMode(r.uint8("collectFeeMode")),
		ActivationType: shared.ActivationType(r.uint8("activationType")),
		PoolFees: shared.PoolFeesConfig{
			BaseFee: shared.BaseFeeConfig{
				CliffFeeNumerator: r.uint("poolFees.baseFee.cliffFeeNumerator"),
				NumberOfPeriod:    r.uint16("poolFees.baseFee.numberOfPeriod"),
				PeriodFrequency:   r.uint("poolFees.baseFee.periodFrequency"),
				ReductionFactor:   r.uint("poolFees.baseFee.reductionFactor"),
				FeeSchedulerMode:  shared.FeeSchedulerMode(r.uint8("poolFees.baseFee.feeSchedulerMode")),
			},
			ProtocolFeePercent: r.uint8("poolFees.protocolFeePercent"),
			ReferralFeePercent: r.uint8("poolFees.referralFeePercent"),
		},
		SqrtMinPrice:            r.u128("sqrtMinPrice"),
		SqrtMaxPrice:            r.u128("sqrtMaxPrice"),
		MigrationQuoteThreshold: r.uint("migrationQuoteThreshold"),
	}
	if dyn := obj.Get("poolFees.dynamicFee"); dyn.IsObject() {
		d := &fieldReader{obj: dyn}
		config.PoolFees.DynamicFee = &shared.DynamicFeeConfig{
			BinStep:                  d.uint16("binStep"),
			BinStepU128:              d.u128("binStepU128"),
			FilterPeriod:             d.uint16("filterPeriod"),
			DecayPeriod:              d.uint16("decayPeriod"),
			ReductionFactor:          d.uint16("reductionFactor"),
			MaxVolatilityAccumulator: d.uint32("maxVolatilityAccumulator"),
			VariableFeeControl:       d.uint32("variableFeeControl"),
		}
		if d.err != nil {
			return nil, fmt.Errorf("dynamic fee: %w", d.err)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return config, nil
}

func parsePool(obj gjson.Result) (*shared.VirtualPool, error) {
	if !obj.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", shared.ErrInvalidInput)
	}
	r := &fieldReader{obj: obj}
	pool := &shared.VirtualPool{
		Config:          r.key("config"),
		BaseMint:        r.key("baseMint"),
		SqrtPrice:       r.u128("sqrtPrice"),
		Liquidity:       r.u128("liquidity"),
		BaseReserve:     r.uint("baseReserve"),
		QuoteReserve:    r.uint("quoteReserve"),
		ActivationPoint: r.uint("activationPoint"),
		VolatilityTracker: shared.VolatilityTracker{
			LastUpdateTimestamp:   r.uint("volatilityTracker.lastUpdateTimestamp"),
			SqrtPriceReference:    r.u128("volatilityTracker.sqrtPriceReference"),
			VolatilityAccumulator: r.u128("volatilityTracker.volatilityAccumulator"),
			VolatilityReference:   r.u128("volatilityTracker.volatilityReference"),
		},
	}
	// Accrued fees are optional in snapshots.
	pool.ProtocolBaseFee = obj.Get("protocolBaseFee").Uint()
	pool.ProtocolQuoteFee = obj.Get("protocolQuoteFee").Uint()
	pool.TradingBaseFee = obj.Get("tradingBaseFee").Uint()
	pool.TradingQuoteFee = obj.Get("tradingQuoteFee").Uint()
	if r.err != nil {
		return nil, r.err
	}
	return pool, nil
}
