package stellar

import (
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomContract(t *testing.T) string {
	t.Helper()
	raw := keypair.MustRandom().Address()
	pub, err := strkey.Decode(strkey.VersionByteAccountID, raw)
	require.NoError(t, err)
	c, err := strkey.Encode(strkey.VersionByteContract, pub)
	require.NoError(t, err)
	return c
}

func TestAddressVal(t *testing.T) {
	t.Run("account", func(t *testing.T) {
		addr := keypair.MustRandom().Address()
		v, err := AddressVal(addr)
		require.NoError(t, err)
		require.Equal(t, xdr.ScValTypeScvAddress, v.Type)
		require.Equal(t, xdr.ScAddressTypeScAddressTypeAccount, v.Address.Type)
		assert.Equal(t, addr, v.Address.AccountId.Address())
	})

	t.Run("contract", func(t *testing.T) {
		c := randomContract(t)
		v, err := AddressVal(c)
		require.NoError(t, err)
		require.Equal(t, xdr.ScAddressTypeScAddressTypeContract, v.Address.Type)
		got, err := strkey.Encode(strkey.VersionByteContract, v.Address.ContractId[:])
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := AddressVal("GNOTANADDRESS")
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress(keypair.MustRandom().Address()))
	assert.True(t, ValidAddress(randomContract(t)))
	assert.False(t, ValidAddress(""))
	assert.False(t, ValidAddress("hello"))
	assert.False(t, ValidAddress(keypair.MustRandom().Seed()))
}

func TestStructValSortsKeys(t *testing.T) {
	v := StructVal(map[string]xdr.ScVal{
		"image_hash":   StringVal("abc"),
		"description":  StringVal("Clean water"),
		"external_url": StringVal(""),
	})

	require.Equal(t, xdr.ScValTypeScvMap, v.Type)
	m := **v.Map
	require.Len(t, m, 3)
	keys := make([]string, 0, len(m))
	for _, e := range m {
		keys = append(keys, string(*e.Key.Sym))
	}
	assert.Equal(t, []string{"description", "external_url", "image_hash"}, keys)
	assert.Equal(t, "Clean water", string(*m[0].Val.Str))
}

func TestDecodeU64(t *testing.T) {
	id, err := DecodeU64(U64Val(42))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = DecodeU64(BoolVal(true))
	assert.ErrorIs(t, err, ErrUnexpectedType)
}
