package wallet

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nevofinance/nevo/internal/natstest"
	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := NewSessions(natstest.Bucket(t, natstest.Conn(t), "wallets"))
	addr := keypair.MustRandom().Address()

	_, ok, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok)

	c, err := s.Connect(ctx, "sid", addr)
	require.NoError(t, err)
	assert.Equal(t, addr, c.Address)

	got, ok, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, addr, got.Address)

	_, ok, err = s.Get(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok, "connections are per session")

	require.NoError(t, s.Disconnect(ctx, "sid"))
	_, ok, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Disconnect(ctx, "never-connected"))
}

func TestSessionsRejectInvalidAddress(t *testing.T) {
	s := NewSessions(natstest.Bucket(t, natstest.Conn(t), "wallets"))
	for _, addr := range []string{"", "GABC", keypair.MustRandom().Seed()} {
		_, err := s.Connect(context.Background(), "sid", addr)
		assert.ErrorIs(t, err, ErrInvalidAddress, addr)
	}
}

func horizonServer(t *testing.T, handler http.HandlerFunc) *horizonclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &horizonclient.Client{HorizonURL: srv.URL, HTTP: srv.Client()}
}

func TestBalancesFetch(t *testing.T) {
	addr := keypair.MustRandom().Address()
	usdc := stellar.Asset{Code: "USDC", Issuer: keypair.MustRandom().Address()}
	other := keypair.MustRandom().Address()

	client := horizonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/accounts/"+addr))
		w.Header().Set("Content-Type", "application/hal+json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":         addr,
			"account_id": addr,
			"sequence":   "1234",
			"balances": []map[string]any{
				{"balance": "12.3456789", "asset_type": "credit_alphanum4", "asset_code": "USDC", "asset_issuer": usdc.Issuer},
				{"balance": "1.0000000", "asset_type": "credit_alphanum4", "asset_code": "USDC", "asset_issuer": other},
				{"balance": "9.9999999", "asset_type": "credit_alphanum4", "asset_code": "EURC", "asset_issuer": usdc.Issuer},
				{"balance": "100.5000000", "asset_type": "native"},
			},
		})
	})

	b := &Balances{Horizon: client, Issued: usdc, Logger: discard}
	got, err := b.Fetch(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, []Balance{
		{Code: "XLM", Amount: "100.5000"},
		{Code: "USDC", Amount: "12.3457"},
	}, got)
}

func TestBalancesUnfundedAccount(t *testing.T) {
	client := horizonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"type":   "https://stellar.org/horizon-errors/not_found",
			"title":  "Resource Missing",
			"status": 404,
		})
	})

	b := &Balances{Horizon: client, Logger: discard}
	got, err := b.Fetch(context.Background(), keypair.MustRandom().Address())
	require.NoError(t, err)
	assert.Equal(t, []Balance{{Code: "XLM", Amount: "0.0000"}}, got)
}

func TestBalancesHorizonDown(t *testing.T) {
	client := horizonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"type":   "https://stellar.org/horizon-errors/server_error",
			"title":  "Internal Server Error",
			"status": 503,
		})
	})

	b := &Balances{Horizon: client, Logger: discard}
	_, err := b.Fetch(context.Background(), keypair.MustRandom().Address())
	assert.ErrorIs(t, err, ErrBalanceUnavailable)
}

// prompts collects sign requests pushed to the browser.
type prompts struct {
	mu  sync.Mutex
	ch  chan SignRequest
	err error
}

func newPrompts() *prompts {
	return &prompts{ch: make(chan SignRequest, 1)}
}

func (p *prompts) prompt(req SignRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.ch <- req
	return nil
}

type signResult struct {
	xdr string
	err error
}

func sign(ctx context.Context, b *BridgeSigner) <-chan signResult {
	out := make(chan signResult, 1)
	go func() {
		xdr, err := b.SignTransaction(ctx, "UNSIGNED", stellar.SignOptions{
			NetworkPassphrase: network.TestNetworkPassphrase,
			Address:           "GADDR",
		})
		out <- signResult{xdr, err}
	}()
	return out
}

func TestBridgeSigner(t *testing.T) {
	nc := natstest.Conn(t)
	ctx := context.Background()

	t.Run("signed", func(t *testing.T) {
		p := newPrompts()
		res := sign(ctx, &BridgeSigner{NC: nc, SID: "sid", Prompt: p.prompt, Timeout: 5 * time.Second})

		req := <-p.ch
		assert.Equal(t, "UNSIGNED", req.XDR)
		assert.Equal(t, network.TestNetworkPassphrase, req.NetworkPassphrase)
		assert.Equal(t, "GADDR", req.Address)
		assert.Len(t, req.ID, 20)

		require.NoError(t, Relay(ctx, nc, "sid", req.ID, SignReply{SignedXDR: "SIGNED"}))
		r := <-res
		require.NoError(t, r.err)
		assert.Equal(t, "SIGNED", r.xdr)
	})

	t.Run("declined", func(t *testing.T) {
		p := newPrompts()
		res := sign(ctx, &BridgeSigner{NC: nc, SID: "sid", Prompt: p.prompt, Timeout: 5 * time.Second})
		req := <-p.ch
		require.NoError(t, Relay(ctx, nc, "sid", req.ID, SignReply{Declined: true}))
		assert.ErrorIs(t, (<-res).err, stellar.ErrSignDeclined)
	})

	t.Run("wallet error", func(t *testing.T) {
		p := newPrompts()
		res := sign(ctx, &BridgeSigner{NC: nc, SID: "sid", Prompt: p.prompt, Timeout: 5 * time.Second})
		req := <-p.ch
		require.NoError(t, Relay(ctx, nc, "sid", req.ID, SignReply{Error: "wallet locked"}))
		assert.EqualError(t, (<-res).err, "wallet: wallet locked")
	})

	t.Run("reply from another session is not delivered", func(t *testing.T) {
		p := newPrompts()
		res := sign(ctx, &BridgeSigner{NC: nc, SID: "sid", Prompt: p.prompt, Timeout: 200 * time.Millisecond})
		req := <-p.ch
		assert.ErrorIs(t, Relay(ctx, nc, "intruder", req.ID, SignReply{SignedXDR: "X"}), ErrUnknownSignRequest)
		assert.ErrorIs(t, (<-res).err, ErrSignTimeout)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		p := newPrompts()
		res := sign(cctx, &BridgeSigner{NC: nc, SID: "sid", Prompt: p.prompt, Timeout: 5 * time.Second})
		<-p.ch
		cancel()
		assert.ErrorIs(t, (<-res).err, context.Canceled)
	})
}

func TestRelayUnknownRequest(t *testing.T) {
	nc := natstest.Conn(t)
	ctx := context.Background()
	assert.ErrorIs(t, Relay(ctx, nc, "sid", "nobody-waits", SignReply{}), ErrUnknownSignRequest)
	assert.ErrorIs(t, Relay(ctx, nc, "sid", "a.b", SignReply{}), ErrUnknownSignRequest)
	assert.ErrorIs(t, Relay(ctx, nc, "sid", ">", SignReply{}), ErrUnknownSignRequest)
}
