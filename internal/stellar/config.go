package stellar

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/stellar/go/network"
)

const (
	// PaymentScale is the number of decimal places a classic asset amount
	// carries on the ledger (stroops for XLM).
	PaymentScale int32 = 7

	// DefaultContractScale is the fixed-point scale the pool contract expects
	// for i128 amounts unless CONTRACT_SCALE says otherwise.
	DefaultContractScale int32 = 7
)

var ErrMissingContract = errors.New("stellar: missing POOL_CONTRACT_ID")

type Config struct {
	NetworkPassphrase string
	HorizonURL        string
	RPCURL            string
	// ContractID is the pool contract's C... address.
	ContractID string
	// ExplorerNetwork is the stellar.expert path segment: public or testnet.
	ExplorerNetwork string

	ContractScale int32

	PaymentTimeout    time.Duration
	ContributeTimeout time.Duration
	RegisterTimeout   time.Duration

	PollInterval    time.Duration
	PollMaxAttempts int
}

// ConfigFromEnv reads the network settings, defaulting to the public network.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		NetworkPassphrase: getenv("STELLAR_NETWORK_PASSPHRASE"),
		HorizonURL:        getenv("HORIZON_URL"),
		RPCURL:            getenv("SOROBAN_RPC_URL"),
		ContractID:        getenv("POOL_CONTRACT_ID"),
		ExplorerNetwork:   "public",
		ContractScale:     DefaultContractScale,
		PaymentTimeout:    180 * time.Second,
		ContributeTimeout: 300 * time.Second,
		RegisterTimeout:   1800 * time.Second,
		PollInterval:      2 * time.Second,
		PollMaxAttempts:   30,
	}

	switch getenv("STELLAR_NETWORK") {
	case "testnet":
		if cfg.NetworkPassphrase == "" {
			cfg.NetworkPassphrase = network.TestNetworkPassphrase
		}
		if cfg.HorizonURL == "" {
			cfg.HorizonURL = "https://horizon-testnet.stellar.org"
		}
		if cfg.RPCURL == "" {
			cfg.RPCURL = "https://soroban-testnet.stellar.org"
		}
		cfg.ExplorerNetwork = "testnet"
	case "", "public":
	default:
		return Config{}, fmt.Errorf("stellar: unknown STELLAR_NETWORK %q", getenv("STELLAR_NETWORK"))
	}

	if cfg.NetworkPassphrase == "" {
		cfg.NetworkPassphrase = network.PublicNetworkPassphrase
	}
	if cfg.HorizonURL == "" {
		cfg.HorizonURL = "https://horizon.stellar.org"
	}
	if cfg.RPCURL == "" {
		cfg.RPCURL = "https://soroban-rpc.mainnet.stellar.org"
	}

	if v := getenv("CONTRACT_SCALE"); v != "" {
		scale, err := strconv.ParseInt(v, 10, 32)
		if err != nil || scale < 0 || scale > 18 {
			return Config{}, fmt.Errorf("stellar: invalid CONTRACT_SCALE %q", v)
		}
		cfg.ContractScale = int32(scale)
	}

	if cfg.ContractID == "" {
		return Config{}, ErrMissingContract
	}
	if !ValidContractAddress(cfg.ContractID) {
		return Config{}, fmt.Errorf("stellar: invalid POOL_CONTRACT_ID %q", cfg.ContractID)
	}

	return cfg, nil
}

// ExplorerURL links a transaction hash on stellar.expert.
func (c Config) ExplorerURL(hash string) string {
	return "https://stellar.expert/explorer/" + c.ExplorerNetwork + "/tx/" + hash
}
