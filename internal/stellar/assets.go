package stellar

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"gopkg.in/yaml.v3"
)

const NativeCode = "XLM"

var ErrUnknownAsset = errors.New("stellar: unknown asset")

// Asset is a donatable asset. Classic payments use Code and Issuer; contract
// calls use the asset's Stellar Asset Contract address.
type Asset struct {
	Code     string `yaml:"code"`
	Issuer   string `yaml:"issuer,omitempty"`
	Contract string `yaml:"contract"`
}

func (a Asset) IsNative() bool {
	return a.Issuer == ""
}

func (a Asset) classic() txnbuild.Asset {
	if a.IsNative() {
		return txnbuild.NativeAsset{}
	}
	return txnbuild.CreditAsset{Code: a.Code, Issuer: a.Issuer}
}

// Registry maps an asset code to its definition.
type Registry map[string]Asset

// DefaultRegistry returns the XLM and USDC definitions for the network with
// the given passphrase. Other networks have no defaults and need ASSETS_FILE.
func DefaultRegistry(passphrase string) (Registry, error) {
	switch passphrase {
	case network.PublicNetworkPassphrase:
		return Registry{
			NativeCode: {
				Code:     NativeCode,
				Contract: "CAS3J7GYLGXMF6TDJBBYYSE3HQ6BBSMLNUQ34T6TZMYMW2EVH34XOWMA",
			},
			"USDC": {
				Code:     "USDC",
				Issuer:   "GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN",
				Contract: "CCW67TSZV3SSS2HXMBQ5JFGCKJNXKZM7UQUWUZPUTHXSTZLEO7SJMI75",
			},
		}, nil
	case network.TestNetworkPassphrase:
		return Registry{
			NativeCode: {
				Code:     NativeCode,
				Contract: "CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC",
			},
			"USDC": {
				Code:     "USDC",
				Issuer:   "GBBD47IF6LWK7P7MDEVSCWR7DPUWV3NY3DTQEVFL4NAT4AQH3ZLLFLA5",
				Contract: "CBIELTK6YBZJU5UP2WWQEUCYKLPU6AUNZ2BQ4WWFEIE3USCIHMXQDAMA",
			},
		}, nil
	}
	return nil, fmt.Errorf("stellar: no default assets for network %q, set ASSETS_FILE", passphrase)
}

// LoadRegistry reads a YAML list of assets, for example:
//
//	- code: XLM
//	  contract: CDLZ...
//	- code: USDC
//	  issuer: GA5Z...
//	  contract: CBIE...
func LoadRegistry(r io.Reader) (Registry, error) {
	var list []Asset
	if err := yaml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("stellar: decode asset registry: %w", err)
	}

	reg := make(Registry, len(list))
	for _, a := range list {
		a.Code = strings.ToUpper(strings.TrimSpace(a.Code))
		if a.Code == "" {
			return nil, errors.New("stellar: asset registry entry without code")
		}
		if a.Issuer != "" && !ValidAccountAddress(a.Issuer) {
			return nil, fmt.Errorf("stellar: asset %s has invalid issuer", a.Code)
		}
		if a.Contract != "" && !ValidContractAddress(a.Contract) {
			return nil, fmt.Errorf("stellar: asset %s has invalid contract", a.Code)
		}
		reg[a.Code] = a
	}
	if _, ok := reg[NativeCode]; !ok {
		return nil, errors.New("stellar: asset registry must include XLM")
	}
	return reg, nil
}

func (r Registry) Lookup(code string) (Asset, error) {
	a, ok := r[strings.ToUpper(code)]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnknownAsset, code)
	}
	return a, nil
}

// Issued returns the first non-native asset, which is the one the wallet
// widget shows next to XLM.
func (r Registry) Issued() (Asset, bool) {
	if a, ok := r["USDC"]; ok {
		return a, true
	}
	for _, a := range r {
		if !a.IsNative() {
			return a, true
		}
	}
	return Asset{}, false
}
