package stellar

import (
	"errors"
	"fmt"
	"sort"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

var (
	ErrInvalidAddress = errors.New("stellar: invalid address")
	ErrUnexpectedType = errors.New("stellar: unexpected contract value type")
)

func ValidAccountAddress(s string) bool {
	return strkey.IsValidEd25519PublicKey(s)
}

func ValidContractAddress(s string) bool {
	_, err := strkey.Decode(strkey.VersionByteContract, s)
	return err == nil
}

// ValidAddress accepts either an account (G...) or a contract (C...).
func ValidAddress(s string) bool {
	return ValidAccountAddress(s) || ValidContractAddress(s)
}

// ScAddress encodes an account or contract strkey.
func ScAddress(s string) (xdr.ScAddress, error) {
	if ValidAccountAddress(s) {
		var id xdr.AccountId
		if err := id.SetAddress(s); err != nil {
			return xdr.ScAddress{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		}
		return xdr.ScAddress{
			Type:      xdr.ScAddressTypeScAddressTypeAccount,
			AccountId: &id,
		}, nil
	}

	raw, err := strkey.Decode(strkey.VersionByteContract, s)
	if err != nil {
		return xdr.ScAddress{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	var h xdr.ContractId
	copy(h[:], raw)
	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &h,
	}, nil
}

func AddressVal(s string) (xdr.ScVal, error) {
	addr, err := ScAddress(s)
	if err != nil {
		return xdr.ScVal{}, err
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}

func U64Val(v uint64) xdr.ScVal {
	u := xdr.Uint64(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvU64, U64: &u}
}

func I128Val(p xdr.Int128Parts) xdr.ScVal {
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &p}
}

func BoolVal(b bool) xdr.ScVal {
	return xdr.ScVal{Type: xdr.ScValTypeScvBool, B: &b}
}

func StringVal(s string) xdr.ScVal {
	str := xdr.ScString(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvString, Str: &str}
}

func SymbolVal(s string) xdr.ScVal {
	sym := xdr.ScSymbol(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym}
}

// VoidVal is how an Option::None argument is passed.
func VoidVal() xdr.ScVal {
	return xdr.ScVal{Type: xdr.ScValTypeScvVoid}
}

// StructVal encodes a contract struct: a map keyed by field symbols. Soroban
// requires map keys in ascending order.
func StructVal(fields map[string]xdr.ScVal) xdr.ScVal {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	m := make(xdr.ScMap, 0, len(names))
	for _, name := range names {
		m = append(m, xdr.ScMapEntry{Key: SymbolVal(name), Val: fields[name]})
	}
	mp := &m
	return xdr.ScVal{Type: xdr.ScValTypeScvMap, Map: &mp}
}

// DecodeU64 reads a u64 return value, such as a new pool id.
func DecodeU64(v xdr.ScVal) (uint64, error) {
	u, ok := v.GetU64()
	if !ok {
		return 0, fmt.Errorf("%w: want u64, got %s", ErrUnexpectedType, v.Type)
	}
	return uint64(u), nil
}
