package meteora

import (
	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve"
	"github.com/krazyTry/meteora-dbc-go/pool/meteoradbc"
)

// QuoteExactIn prices an exact input swap against a virtual pool without
// modifying it.
//
// Example:
//
// result, _ := QuoteExactIn(pool, config, false, uint64(time.Now().Unix()), slot, 1_000_000_000, false)
var QuoteExactIn = dbc.QuoteExactIn

// SwapQuote is QuoteExactIn with a slippage-adjusted minimum output.
var SwapQuote = dbc.SwapQuote

// Swap executes an exact input swap and writes the result into the pool.
var Swap = dbc.Swap

// GetFeeMint returns the mint a swap's fee is charged in.
var GetFeeMint = dbc.GetFeeMint

// NewMeteoraDBCPool wraps a pool snapshot for use by a router.
//
// Example:
//
// pool, _ := NewMeteoraDBCPool(poolID, state, config, meteoradbc.StaticClock{Timestamp: now})
//
// out, _ := pool.Quote(ctx, solana.WrappedSol.String(), cosmath.NewInt(1_000_000_000))
var NewMeteoraDBCPool = meteoradbc.NewMeteoraDBCPool
