package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/nevofinance/nevo/database/gensql"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	openPool   = 7
	closedPool = 8
)

type storeFake struct {
	pools    map[int64]gensql.Pool
	inserted []gensql.InsertDonationParams
}

func (s *storeFake) GetPool(_ context.Context, id int64) (gensql.Pool, error) {
	p, ok := s.pools[id]
	if !ok {
		return gensql.Pool{}, pgx.ErrNoRows
	}
	return p, nil
}

func (s *storeFake) InsertDonation(_ context.Context, arg gensql.InsertDonationParams) error {
	s.inserted = append(s.inserted, arg)
	return nil
}

type donatorFake struct {
	out    stellar.Outcome
	reqs   []stellar.DonationRequest
	during func()
}

func (d *donatorFake) Donate(_ context.Context, _ stellar.Signer, req stellar.DonationRequest) stellar.Outcome {
	d.reqs = append(d.reqs, req)
	if d.during != nil {
		d.during()
	}
	return d.out
}

func (d *donatorFake) Assets() stellar.Registry {
	reg, _ := stellar.DefaultRegistry(network.TestNetworkPassphrase)
	return reg
}

func (d *donatorFake) Config() stellar.Config {
	return stellar.Config{ExplorerNetwork: "testnet"}
}

type feedFake struct {
	recorded []dashboard.Activity
}

func (f *feedFake) Record(_ context.Context, a dashboard.Activity) error {
	f.recorded = append(f.recorded, a)
	return nil
}

func newStore() *storeFake {
	minimum := decimal.NewFromInt(5)
	return &storeFake{pools: map[int64]gensql.Pool{
		openPool: {
			ID:              openPool,
			Name:            "Clean Water",
			Deadline:        time.Now().AddDate(0, 1, 0),
			FundingGoal:     decimal.NewFromInt(5000),
			MinContribution: &minimum,
		},
		closedPool: {
			ID:          closedPool,
			Name:        "Old Roof",
			Deadline:    time.Now().AddDate(0, 0, -1),
			FundingGoal: decimal.NewFromInt(100),
		},
	}}
}

type donateEnv struct {
	store *storeFake
	svc   *donatorFake
	feed  *feedFake
}

func newDonateEnv(out stellar.Outcome) *donateEnv {
	return &donateEnv{store: newStore(), svc: &donatorFake{out: out}, feed: &feedFake{}}
}

func (e *donateEnv) post(t *testing.T, ctx context.Context, addr string, poolID string, signals map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(signals)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(withSession(testSID, addr))
	r.Post("/pools/{id}/donate", Donate(discard, e.store, e.svc, nil, e.feed))

	req := httptest.NewRequest(http.MethodPost, "/pools/"+poolID+"/donate", strings.NewReader(string(body))).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDonateRecordsConfirmedDonation(t *testing.T) {
	env := newDonateEnv(stellar.Success{Hash: "abc", Ledger: 12})

	rec := env.post(t, context.Background(), testCreator, "7", map[string]any{"amount": "10", "asset": "XLM"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thank you! Your donation was confirmed.")
	assert.Contains(t, rec.Body.String(), `href="/receipts/abc"`)

	require.Len(t, env.svc.reqs, 1)
	req := env.svc.reqs[0]
	assert.Equal(t, testCreator, req.Donor)
	require.NotNil(t, req.PoolID)
	assert.Equal(t, uint64(openPool), *req.PoolID)
	assert.Equal(t, "10", req.Amount)

	require.Len(t, env.store.inserted, 1)
	row := env.store.inserted[0]
	assert.Equal(t, int64(openPool), *row.PoolID)
	assert.Equal(t, "abc", row.TxHash)
	assert.Equal(t, int64(12), row.Ledger)
	assert.True(t, decimal.NewFromInt(10).Equal(row.Amount))

	require.Len(t, env.feed.recorded, 1)
	act, ok := env.feed.recorded[0].(dashboard.DonationActivity)
	require.True(t, ok)
	assert.Equal(t, testCreator, act.Donor)
	assert.Equal(t, int64(openPool), act.PoolID)
}

func TestDonatePrivateHidesDonor(t *testing.T) {
	env := newDonateEnv(stellar.Success{Hash: "abc", Ledger: 12})

	env.post(t, context.Background(), testCreator, "7", map[string]any{"amount": "10", "asset": "XLM", "private": true})

	require.Len(t, env.store.inserted, 1)
	assert.True(t, env.store.inserted[0].IsPrivate)
	require.Len(t, env.feed.recorded, 1)
	assert.Empty(t, env.feed.recorded[0].(dashboard.DonationActivity).Donor)
}

func TestDonateRefusals(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		pool    string
		signals map[string]any
		msg     string
	}{
		{"no wallet", "", "7", map[string]any{"amount": "10", "asset": "XLM"}, "Connect your wallet to donate"},
		{"bad amount", testCreator, "7", map[string]any{"amount": "ten", "asset": "XLM"}, "Enter a valid amount"},
		{"missing asset", testCreator, "7", map[string]any{"amount": "10"}, "Enter a valid amount"},
		{"below minimum", testCreator, "7", map[string]any{"amount": "4.99", "asset": "XLM"}, "The minimum contribution is 5"},
		{"closed pool", testCreator, "8", map[string]any{"amount": "10", "asset": "XLM"}, "This pool is no longer accepting donations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newDonateEnv(stellar.Success{Hash: "abc"})

			rec := env.post(t, context.Background(), tt.addr, tt.pool, tt.signals)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
			assert.Empty(t, env.svc.reqs)
			assert.Empty(t, env.store.inserted)
		})
	}
}

func TestDonateUnknownPool(t *testing.T) {
	env := newDonateEnv(stellar.Success{Hash: "abc"})

	rec := env.post(t, context.Background(), testCreator, "99", map[string]any{"amount": "10", "asset": "XLM"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.svc.reqs)
}

func TestDonateFailureLinksExplorer(t *testing.T) {
	env := newDonateEnv(&stellar.Failure{Kind: stellar.KindTimeout, Message: "Transaction timeout", Hash: "h1"})

	rec := env.post(t, context.Background(), testCreator, "7", map[string]any{"amount": "10", "asset": "XLM"})

	body := rec.Body.String()
	assert.Contains(t, body, "Transaction timeout")
	assert.Contains(t, body, "https://stellar.expert/explorer/testnet/tx/h1")
	assert.Contains(t, body, "border-amber-500/50")
	assert.Empty(t, env.store.inserted)
	assert.Empty(t, env.feed.recorded)
}

func TestDonateFailureWithoutHash(t *testing.T) {
	env := newDonateEnv(&stellar.Failure{Kind: stellar.KindSimulation, Message: "Simulation failed: Error(Contract, #4)"})

	rec := env.post(t, context.Background(), testCreator, "7", map[string]any{"amount": "10", "asset": "XLM"})

	body := rec.Body.String()
	assert.Contains(t, body, "Simulation failed: Error(Contract, #4)")
	assert.Contains(t, body, "border-red-500/50")
	assert.NotContains(t, body, "stellar.expert")
}

func TestDonateVisitorLeavesBeforeConfirmation(t *testing.T) {
	env := newDonateEnv(stellar.Success{Hash: "late", Ledger: 40})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.svc.during = cancel

	rec := env.post(t, ctx, testCreator, "7", map[string]any{"amount": "10", "asset": "XLM"})

	body := rec.Body.String()
	assert.Contains(t, body, "Preparing your donation...")
	assert.NotContains(t, body, "Thank you")

	require.Len(t, env.store.inserted, 1)
	assert.Equal(t, "late", env.store.inserted[0].TxHash)
	assert.Len(t, env.feed.recorded, 1)
}

func TestPoolRefusal(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	minimum := decimal.NewFromInt(5)
	pool := gensql.Pool{Deadline: now.Add(time.Hour), MinContribution: &minimum}

	assert.Empty(t, poolRefusal(pool, decimal.NewFromInt(5), now))
	assert.Equal(t, "The minimum contribution is 5", poolRefusal(pool, decimal.RequireFromString("4.5"), now))

	pool.Deadline = now
	assert.Equal(t, "This pool is no longer accepting donations", poolRefusal(pool, decimal.NewFromInt(50), now))

	pool.Deadline, pool.MinContribution = now.Add(time.Hour), nil
	assert.Empty(t, poolRefusal(pool, decimal.RequireFromString("0.0001"), now))
}
