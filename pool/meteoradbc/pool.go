package meteoradbc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/shared"
)

var ErrUnknownMint = errors.New("mint is not traded by this pool")

// Clock reports the chain time a quote is priced at.
type Clock interface {
	Now() (timestamp, slot uint64)
}

// StaticClock always reports the same point.
type StaticClock struct {
	Timestamp uint64
	Slot      uint64
}

func (c StaticClock) Now() (uint64, uint64) {
	return c.Timestamp, c.Slot
}

// MeteoraDBCPool wraps one virtual pool snapshot for a router. Quotes may
// run concurrently with each other; Swap serializes against them.
type MeteoraDBCPool struct {
	PoolId      solana.PublicKey
	HasReferral bool

	mu     sync.RWMutex
	state  *dbc.VirtualPool
	config *dbc.PoolConfig
	clock  Clock
}

func NewMeteoraDBCPool(poolID solana.PublicKey, state *dbc.VirtualPool, config *dbc.PoolConfig, clock Clock) (*MeteoraDBCPool, error) {
	if err := dbc.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("pool %s: %w", poolID, err)
	}
	if clock == nil {
		return nil, fmt.Errorf("%w: nil clock", shared.ErrInvalidInput)
	}
	return &MeteoraDBCPool{PoolId: poolID, state: state, config: config, clock: clock}, nil
}

func (p *MeteoraDBCPool) ProtocolName() string {
	return ProtocolName
}

func (p *MeteoraDBCPool) GetProgramID() solana.PublicKey {
	return MeteoraDBCProgramID
}

func (p *MeteoraDBCPool) GetID() string {
	return p.PoolId.String()
}

func (p *MeteoraDBCPool) GetTokens() (baseMint, quoteMint string) {
	return p.state.BaseMint.String(), p.config.QuoteMint.String()
}

// State returns a copy of the current pool state.
func (p *MeteoraDBCPool) State() dbc.VirtualPool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return *p.state
}

func (p *MeteoraDBCPool) direction(inputMint string) (bool, error) {
	switch inputMint {
	case p.state.BaseMint.String():
		return true, nil
	case p.config.QuoteMint.String():
		return false, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownMint, inputMint)
}

func toAmount(amount cosmath.Int) (uint64, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return 0, shared.ErrZeroAmount
	}
	if !amount.IsUint64() {
		return 0, fmt.Errorf("%w: amount %s", shared.ErrTypeCastFailed, amount)
	}
	return amount.Uint64(), nil
}

// Quote returns the output amount for an exact input of inputMint.
func (p *MeteoraDBCPool) Quote(ctx context.Context, inputMint string, inputAmount cosmath.Int) (cosmath.Int, error) {
	result, err := p.QuoteWithSlippage(ctx, inputMint, inputAmount, 0)
	if err != nil {
		return cosmath.ZeroInt(), err
	}
	return cosmath.NewIntFromUint64(result.OutputAmount), nil
}

// QuoteWithSlippage returns the full quote including the minimum output.
func (p *MeteoraDBCPool) QuoteWithSlippage(ctx context.Context, inputMint string, inputAmount cosmath.Int, slippageBps uint16) (dbc.SwapQuoteResult, error) {
	if err := ctx.Err(); err != nil {
		return dbc.SwapQuoteResult{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	swapBaseForQuote, err := p.direction(inputMint)
	if err != nil {
		return dbc.SwapQuoteResult{}, err
	}
	amountIn, err := toAmount(inputAmount)
	if err != nil {
		return dbc.SwapQuoteResult{}, err
	}
	timestamp, slot := p.clock.Now()
	return dbc.SwapQuote(p.state, p.config, swapBaseForQuote, timestamp, slot, amountIn, slippageBps, p.HasReferral)
}

// Swap applies an exact input swap to the wrapped state.
func (p *MeteoraDBCPool) Swap(ctx context.Context, inputMint string, inputAmount cosmath.Int) (cosmath.Int, error) {
	if err := ctx.Err(); err != nil {
		return cosmath.ZeroInt(), err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	swapBaseForQuote, err := p.direction(inputMint)
	if err != nil {
		return cosmath.ZeroInt(), err
	}
	amountIn, err := toAmount(inputAmount)
	if err != nil {
		return cosmath.ZeroInt(), err
	}
	timestamp, slot := p.clock.Now()
	result, err := dbc.Swap(p.state, p.config, swapBaseForQuote, timestamp, slot, amountIn, p.HasReferral)
	if err != nil {
		return cosmath.ZeroInt(), err
	}
	return cosmath.NewIntFromUint64(result.OutputAmount), nil
}
