package stellar

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/amount"
	"github.com/stellar/go/xdr"
)

var (
	ErrInvalidAmount   = errors.New("stellar: invalid amount")
	ErrAmountPrecision = errors.New("stellar: amount has too many decimal places")
	ErrAmountRange     = errors.New("stellar: amount out of range")
)

var maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

// PaymentAmount checks that s is a positive amount representable in the
// ledger's 7 decimal places and returns it in the canonical form txnbuild
// expects.
func PaymentAmount(s string) (string, error) {
	d, err := parsePositive(s)
	if err != nil {
		return "", err
	}
	if !d.Shift(PaymentScale).IsInteger() {
		return "", ErrAmountPrecision
	}

	stroops, err := amount.ParseInt64(d.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAmountRange, err)
	}
	return amount.StringFromInt64(stroops), nil
}

// ContractAmount scales s by 10^scale into the contract's i128 representation.
// The conversion is exact or it fails.
func ContractAmount(s string, scale int32) (xdr.Int128Parts, error) {
	d, err := parsePositive(s)
	if err != nil {
		return xdr.Int128Parts{}, err
	}

	shifted := d.Shift(scale)
	if !shifted.IsInteger() {
		return xdr.Int128Parts{}, ErrAmountPrecision
	}

	n := shifted.BigInt()
	if n.Cmp(maxI128) > 0 {
		return xdr.Int128Parts{}, ErrAmountRange
	}

	lo := new(big.Int).And(n, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(n, 64)
	return xdr.Int128Parts{
		Hi: xdr.Int64(hi.Int64()),
		Lo: xdr.Uint64(lo.Uint64()),
	}, nil
}

// Int128 reassembles a non-negative i128 into a big.Int.
func Int128(p xdr.Int128Parts) *big.Int {
	n := new(big.Int).Lsh(big.NewInt(int64(p.Hi)), 64)
	return n.Or(n, new(big.Int).SetUint64(uint64(p.Lo)))
}

func parsePositive(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: must be greater than 0", ErrInvalidAmount)
	}
	return d, nil
}
