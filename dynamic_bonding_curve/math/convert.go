package math

import (
	"math/big"

	bin "github.com/gagliardetto/binary"

	"github.com/krazyTry/meteora-dbc-go/u128"
)

func U128ToBig(v bin.Uint128) *big.Int {
	return u128.ToBig(v)
}
