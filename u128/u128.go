package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
)

var (
	ErrNegative = errors.New("value cannot be negative")
	ErrOverflow = errors.New("value overflows Uint128")
)

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	}
	v, err := FromBig(i)
	if err != nil {
		return err
	}
	u.Lo, u.Hi, u.Endianness = v.Lo, v.Hi, v.Endianness
	return nil
}

// Parse reads a base-10 string into a little-endian Uint128.
func Parse(num string) (binary.Uint128, error) {
	u128 := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u128)); err != nil {
		return binary.Uint128{}, fmt.Errorf("parse u128 %q: %w", num, err)
	}
	return *u128, nil
}

// GenUint128FromString is Parse for literals known to be valid.
func GenUint128FromString(num string) binary.Uint128 {
	v, err := Parse(num)
	if err != nil {
		panic(err)
	}
	return v
}

func FromUint64(v uint64) binary.Uint128 {
	u128 := binary.NewUint128LittleEndian()
	u128.Lo = v
	return *u128
}

func FromBig(v *big.Int) (binary.Uint128, error) {
	if v.Sign() < 0 {
		return binary.Uint128{}, ErrNegative
	}
	if v.BitLen() > 128 {
		return binary.Uint128{}, ErrOverflow
	}
	u128 := binary.NewUint128LittleEndian()
	u128.Lo = new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0))).Uint64()
	u128.Hi = new(big.Int).Rsh(v, 64).Uint64()
	return *u128, nil
}

func ToBig(v binary.Uint128) *big.Int {
	out := new(big.Int).SetUint64(v.Hi)
	out.Lsh(out, 64)
	return out.Or(out, new(big.Int).SetUint64(v.Lo))
}
