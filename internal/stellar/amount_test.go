package stellar

import (
	"testing"

	"github.com/stellar/go/amount"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		stroops int64
		err     error
	}{
		{name: "decimal", in: "10.5", stroops: 105_000_000},
		{name: "whole", in: "3", stroops: 30_000_000},
		{name: "smallest unit", in: "0.0000001", stroops: 1},
		{name: "too precise", in: "0.00000001", err: ErrAmountPrecision},
		{name: "zero", in: "0", err: ErrInvalidAmount},
		{name: "negative", in: "-1", err: ErrInvalidAmount},
		{name: "empty", in: "", err: ErrInvalidAmount},
		{name: "garbage", in: "ten", err: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PaymentAmount(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			stroops, err := amount.ParseInt64(got)
			require.NoError(t, err)
			assert.Equal(t, tt.stroops, stroops)
		})
	}
}

func TestContractAmount(t *testing.T) {
	t.Run("one unit at scale 7", func(t *testing.T) {
		p, err := ContractAmount("1.0", 7)
		require.NoError(t, err)
		assert.Equal(t, xdr.Int128Parts{Hi: 0, Lo: 10_000_000}, p)
	})

	t.Run("larger scale keeps scales apart", func(t *testing.T) {
		p, err := ContractAmount("1.5", 18)
		require.NoError(t, err)
		assert.Equal(t, "1500000000000000000", Int128(p).String())
	})

	t.Run("above 64 bits", func(t *testing.T) {
		p, err := ContractAmount("10000000000000", 7)
		require.NoError(t, err)
		assert.Equal(t, xdr.Int64(5), p.Hi)
		assert.Equal(t, "100000000000000000000", Int128(p).String())
	})

	t.Run("precision loss is rejected", func(t *testing.T) {
		_, err := ContractAmount("0.00000001", 7)
		assert.ErrorIs(t, err, ErrAmountPrecision)
	})

	t.Run("non positive", func(t *testing.T) {
		_, err := ContractAmount("0", 7)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}
