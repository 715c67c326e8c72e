// Command dbc-quote prices a swap against a virtual pool snapshot and prints
// the quote as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"

	dbc "github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/helpers"
	"github.com/krazyTry/meteora-dbc-go/dynamic_bonding_curve/math"
	"github.com/krazyTry/meteora-dbc-go/pool/meteoradbc"
)

type QuoteResponse struct {
	PoolID           string `json:"poolId"`
	InputMint        string `json:"inputMint"`
	OutputMint       string `json:"outputMint"`
	FeeMint          string `json:"feeMint"`
	InAmount         string `json:"inAmount"`
	OutAmount        string `json:"outAmount"`
	MinimumAmountOut string `json:"minimumAmountOut"`
	SlippageBps      uint16 `json:"slippageBps"`
	TotalFee         uint64 `json:"totalFee"`
	TradingFee       uint64 `json:"tradingFee"`
	ProtocolFee      uint64 `json:"protocolFee"`
	ReferralFee      uint64 `json:"referralFee"`
	PriceBefore      string `json:"priceBefore"`
	PriceAfter       string `json:"priceAfter"`
}

type QuoteError struct {
	Error string `json:"error"`
}

type options struct {
	fixture       string
	poolID        string
	inputMint     string
	amount        string
	slippageBps   uint
	referral      bool
	timestamp     uint64
	slot          uint64
	baseDecimals  int
	quoteDecimals int
	debug         bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("dbc-quote", flag.ContinueOnError)
	fs.StringVar(&o.fixture, "fixture", envOr("DBC_FIXTURE", ""), "Pool snapshot JSON file (env DBC_FIXTURE)")
	fs.StringVar(&o.poolID, "pool", envOr("DBC_POOL", solana.PublicKey{}.String()), "Pool address reported in the output (env DBC_POOL)")
	fs.StringVar(&o.inputMint, "input", "", "Input token mint address (required)")
	fs.StringVar(&o.amount, "amount", "", "Input amount in smallest units (required)")
	fs.UintVar(&o.slippageBps, "slippage", 50, "Slippage tolerance in basis points")
	fs.BoolVar(&o.referral, "referral", false, "Quote with a referral account")
	fs.Uint64Var(&o.timestamp, "timestamp", uint64(time.Now().Unix()), "Unix timestamp to price at")
	fs.Uint64Var(&o.slot, "slot", 0, "Slot to price at for slot-activated pools")
	fs.IntVar(&o.baseDecimals, "base-decimals", 6, "Base token decimals for display prices")
	fs.IntVar(&o.quoteDecimals, "quote-decimals", 9, "Quote token decimals for display prices")
	fs.BoolVar(&o.debug, "debug", false, "Development logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.fixture == "" || o.inputMint == "" || o.amount == "" {
		return options{}, fmt.Errorf("-fixture, -input and -amount are required")
	}
	if o.slippageBps > 10_000 {
		return options{}, fmt.Errorf("-slippage %d exceeds 10000", o.slippageBps)
	}
	return o, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func run(ctx context.Context, o options, logger *zap.Logger) (*QuoteResponse, error) {
	data, err := os.ReadFile(o.fixture)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	state, config, err := helpers.LoadSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	poolID, err := solana.PublicKeyFromBase58(o.poolID)
	if err != nil {
		return nil, fmt.Errorf("invalid pool address: %w", err)
	}
	amountIn, ok := cosmath.NewIntFromString(o.amount)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", o.amount)
	}

	pool, err := meteoradbc.NewMeteoraDBCPool(poolID, state, config, meteoradbc.StaticClock{Timestamp: o.timestamp, Slot: o.slot})
	if err != nil {
		return nil, err
	}
	pool.HasReferral = o.referral

	baseMint, quoteMint := pool.GetTokens()
	outputMint := baseMint
	if o.inputMint == baseMint {
		outputMint = quoteMint
	}
	logger.Debug("loaded pool",
		zap.String("pool", pool.GetID()),
		zap.String("base_mint", baseMint),
		zap.String("quote_mint", quoteMint),
		zap.Uint64("base_reserve", state.BaseReserve),
		zap.Uint64("quote_reserve", state.QuoteReserve),
		zap.Bool("dynamic_fee", config.PoolFees.IsDynamicFeeEnabled()),
	)

	quote, err := pool.QuoteWithSlippage(ctx, o.inputMint, amountIn, uint16(o.slippageBps))
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	feeMint, err := dbc.GetFeeMint(config, state, o.inputMint == baseMint, o.referral)
	if err != nil {
		return nil, err
	}

	priceBefore := helpers.GetPriceFromSqrtPrice(math.U128ToBig(state.SqrtPrice), int32(o.baseDecimals), int32(o.quoteDecimals))
	priceAfter := helpers.GetPriceFromSqrtPrice(quote.NextSqrtPrice, int32(o.baseDecimals), int32(o.quoteDecimals))
	logger.Info("quoted swap",
		zap.String("input_mint", o.inputMint),
		zap.String("amount_in", amountIn.String()),
		zap.Uint64("amount_out", quote.OutputAmount),
		zap.Uint64("minimum_amount_out", quote.MinimumAmountOut),
		zap.Uint64("total_fee", quote.TotalFee),
	)

	return &QuoteResponse{
		PoolID:           pool.GetID(),
		InputMint:        o.inputMint,
		OutputMint:       outputMint,
		FeeMint:          feeMint.String(),
		InAmount:         amountIn.String(),
		OutAmount:        fmt.Sprint(quote.OutputAmount),
		MinimumAmountOut: fmt.Sprint(quote.MinimumAmountOut),
		SlippageBps:      uint16(o.slippageBps),
		TotalFee:         quote.TotalFee,
		TradingFee:       quote.TradingFee,
		ProtocolFee:      quote.ProtocolFee,
		ReferralFee:      quote.ReferralFee,
		PriceBefore:      priceBefore.String(),
		PriceAfter:       priceAfter.String(),
	}, nil
}

func outputJSON(v any) {
	data, err := sonnet.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func main() {
	if err := loadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	o, err := parseFlags(os.Args[1:])
	if err != nil {
		outputJSON(QuoteError{Error: err.Error()})
		os.Exit(2)
	}

	logger, err := newLogger(o.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	response, err := run(context.Background(), o, logger)
	if err != nil {
		logger.Error("quote failed", zap.Error(err))
		outputJSON(QuoteError{Error: err.Error()})
		os.Exit(1)
	}
	outputJSON(response)
}
