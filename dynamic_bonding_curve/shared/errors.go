package shared

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the engine matches one of these
// with errors.Is.
var (
	ErrMathOverflow   = errors.New("math overflow")
	ErrTypeCastFailed = errors.New("type cast failed")
	ErrInvalidInput   = errors.New("invalid input")

	ErrCurveCompleted     = errors.New("virtual pool is completed")
	ErrZeroAmount         = errors.New("amount is zero")
	ErrNotEnoughLiquidity = errors.New("not enough liquidity")
)

var (
	ErrInvalidActivationType   = fmt.Errorf("%w: activation type", ErrInvalidInput)
	ErrInvalidCollectFeeMode   = fmt.Errorf("%w: collect fee mode", ErrInvalidInput)
	ErrInvalidFeeSchedulerMode = fmt.Errorf("%w: fee scheduler mode", ErrInvalidInput)
	ErrInvalidFee              = fmt.Errorf("%w: fee fraction", ErrInvalidInput)
	ErrExceedMaxFeeBps         = fmt.Errorf("%w: fee numerator out of range", ErrInvalidInput)
	ErrInvalidDynamicFee       = fmt.Errorf("%w: dynamic fee", ErrInvalidInput)
	ErrInvalidPriceRange       = fmt.Errorf("%w: sqrt price range", ErrInvalidInput)
)
