package stellar

import (
	"strings"
	"testing"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFromEnv(t *testing.T) {
	contract := randomContract(t)

	t.Run("public defaults", func(t *testing.T) {
		cfg, err := ConfigFromEnv(env(map[string]string{"POOL_CONTRACT_ID": contract}))
		require.NoError(t, err)
		assert.Equal(t, network.PublicNetworkPassphrase, cfg.NetworkPassphrase)
		assert.Equal(t, "https://horizon.stellar.org", cfg.HorizonURL)
		assert.Equal(t, DefaultContractScale, cfg.ContractScale)
		assert.Equal(t, 180*time.Second, cfg.PaymentTimeout)
		assert.Equal(t, 300*time.Second, cfg.ContributeTimeout)
		assert.Equal(t, 1800*time.Second, cfg.RegisterTimeout)
		assert.Equal(t, 2*time.Second, cfg.PollInterval)
		assert.Equal(t, 30, cfg.PollMaxAttempts)
		assert.Equal(t, "https://stellar.expert/explorer/public/tx/abc", cfg.ExplorerURL("abc"))
	})

	t.Run("testnet", func(t *testing.T) {
		cfg, err := ConfigFromEnv(env(map[string]string{
			"POOL_CONTRACT_ID": contract,
			"STELLAR_NETWORK":  "testnet",
			"CONTRACT_SCALE":   "9",
		}))
		require.NoError(t, err)
		assert.Equal(t, network.TestNetworkPassphrase, cfg.NetworkPassphrase)
		assert.Equal(t, int32(9), cfg.ContractScale)
		assert.Equal(t, "https://stellar.expert/explorer/testnet/tx/abc", cfg.ExplorerURL("abc"))
	})

	t.Run("missing contract", func(t *testing.T) {
		_, err := ConfigFromEnv(env(nil))
		assert.ErrorIs(t, err, ErrMissingContract)
	})

	t.Run("account instead of contract", func(t *testing.T) {
		_, err := ConfigFromEnv(env(map[string]string{"POOL_CONTRACT_ID": keypair.MustRandom().Address()}))
		assert.Error(t, err)
	})
}

func TestLoadRegistry(t *testing.T) {
	issuer := keypair.MustRandom().Address()
	xlm, usdc := randomContract(t), randomContract(t)

	reg, err := LoadRegistry(strings.NewReader(`
- code: xlm
  contract: ` + xlm + `
- code: USDC
  issuer: ` + issuer + `
  contract: ` + usdc + `
`))
	require.NoError(t, err)

	native, err := reg.Lookup("XLM")
	require.NoError(t, err)
	assert.True(t, native.IsNative())
	assert.Equal(t, xlm, native.Contract)

	issued, ok := reg.Issued()
	require.True(t, ok)
	assert.Equal(t, Asset{Code: "USDC", Issuer: issuer, Contract: usdc}, issued)

	_, err = reg.Lookup("EURC")
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestLoadRegistryRequiresNative(t *testing.T) {
	_, err := LoadRegistry(strings.NewReader("- code: USDC\n  issuer: " + keypair.MustRandom().Address() + "\n"))
	assert.Error(t, err)
}

func TestDefaultRegistryFollowsNetwork(t *testing.T) {
	cfg, err := ConfigFromEnv(env(map[string]string{
		"POOL_CONTRACT_ID": randomContract(t),
		"STELLAR_NETWORK":  "testnet",
	}))
	require.NoError(t, err)

	reg, err := DefaultRegistry(cfg.NetworkPassphrase)
	require.NoError(t, err)
	native, err := reg.Lookup(NativeCode)
	require.NoError(t, err)
	assert.Equal(t, "CDLZFC3SYJYDZT7K67VZ75HPJVIEUVNIXF47ZG2FB2RMQQVU2HHGCYSC", native.Contract)
	usdc, ok := reg.Issued()
	require.True(t, ok)
	assert.Equal(t, "CBIELTK6YBZJU5UP2WWQEUCYKLPU6AUNZ2BQ4WWFEIE3USCIHMXQDAMA", usdc.Contract)
	assert.Equal(t, "GBBD47IF6LWK7P7MDEVSCWR7DPUWV3NY3DTQEVFL4NAT4AQH3ZLLFLA5", usdc.Issuer)

	public, err := DefaultRegistry(network.PublicNetworkPassphrase)
	require.NoError(t, err)
	assert.NotEqual(t, native.Contract, public[NativeCode].Contract)
	assert.NotEqual(t, usdc.Issuer, public["USDC"].Issuer)

	for _, reg := range []Registry{reg, public} {
		for code, a := range reg {
			assert.True(t, ValidContractAddress(a.Contract), code)
			if !a.IsNative() {
				assert.True(t, ValidAccountAddress(a.Issuer), code)
			}
		}
	}

	_, err = DefaultRegistry("Standalone Network ; February 2017")
	assert.Error(t, err)
}
