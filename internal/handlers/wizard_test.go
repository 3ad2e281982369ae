package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nevofinance/nevo/internal/natstest"
	"github.com/nevofinance/nevo/internal/pools"
	"github.com/nevofinance/nevo/internal/sessions"
	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/nevofinance/nevo/internal/wallet"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	testSID     = "session-one"
	testCreator = "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"
)

type registrarStub struct {
	res    pools.Registration
	err    error
	calls  int
	signer stellar.Signer
	draft  pools.Draft
	during func()
}

func withSession(sid, addr string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := sessions.WithSession(r.Context(), &sessions.Data{ID: sid})
			if addr != "" {
				ctx = sessions.WithWallet(ctx, &sessions.WalletData{Address: addr})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type wizardEnv struct {
	drafts *pools.DraftStore
	stub   *registrarStub
	router func(addr string) http.Handler
}

func newWizardEnv(t *testing.T) *wizardEnv {
	t.Helper()
	nc := natstest.Conn(t)
	env := &wizardEnv{
		drafts: pools.NewDraftStore(natstest.Bucket(t, nc, "drafts")),
		stub:   &registrarStub{},
	}
	newRegistrar := func(signer stellar.Signer) pools.Registrar {
		env.stub.signer = signer
		return registrarFunc(func(_ context.Context, creator string, d pools.Draft) (pools.Registration, error) {
			env.stub.calls++
			env.stub.draft = d
			if env.stub.during != nil {
				env.stub.during()
			}
			return env.stub.res, env.stub.err
		})
	}
	explorer := func(hash string) string { return "https://explorer.test/tx/" + hash }

	env.router = func(addr string) http.Handler {
		r := chi.NewRouter()
		r.Use(withSession(testSID, addr))
		r.Post("/dashboard/pools/new/{action}", WizardAction(discard, env.drafts, nc, newRegistrar, explorer))
		return r
	}
	return env
}

type registrarFunc func(ctx context.Context, creator string, d pools.Draft) (pools.Registration, error)

func (f registrarFunc) Register(ctx context.Context, creator string, d pools.Draft) (pools.Registration, error) {
	return f(ctx, creator, d)
}

func (e *wizardEnv) post(t *testing.T, addr, action string, signals map[string]any) string {
	t.Helper()
	return e.postContext(t, context.Background(), addr, action, signals)
}

func (e *wizardEnv) postContext(t *testing.T, ctx context.Context, addr, action string, signals map[string]any) string {
	t.Helper()
	body, err := json.Marshal(signals)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/pools/new/"+action, strings.NewReader(string(body))).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	rec := httptest.NewRecorder()
	e.router(addr).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func (e *wizardEnv) stored(t *testing.T) *pools.Wizard {
	t.Helper()
	w, _, err := e.drafts.Load(context.Background(), testSID)
	require.NoError(t, err)
	return w
}

func validSignals() map[string]any {
	return map[string]any{
		"name":              "Clean Water",
		"category":          string(pools.CategoryCommunity),
		"description":       "Wells for three villages in the region",
		"endDate":           time.Now().AddDate(0, 1, 0).Format(pools.DateLayout),
		"fundingGoal":       "5000",
		"minContribution":   "",
		"beneficiaryWallet": keypair.MustRandom().Address(),
		"visibility":        string(pools.VisibilityPublic),
		"fetching":          true,
	}
}

func TestWizardNextRefusesInvalidBasics(t *testing.T) {
	env := newWizardEnv(t)

	body := env.post(t, "", "next", map[string]any{"name": "ab"})

	assert.Contains(t, body, `id="pool-wizard"`)
	assert.Contains(t, body, pools.ValidationNotice)
	assert.Contains(t, body, "Pool name must be at least 3 characters")

	w := env.stored(t)
	assert.Equal(t, pools.StepBasics, w.Step)
	assert.Equal(t, "ab", w.Draft.Name)
	assert.True(t, w.Errors.Has(pools.FieldCategory))
}

func TestWizardEditClearsOnlyEditedField(t *testing.T) {
	env := newWizardEnv(t)
	env.post(t, "", "next", map[string]any{"name": "ab"})

	// The description is sent unchanged, so only the name counts as edited.
	env.post(t, "", "field", map[string]any{"name": "abc", "description": ""})

	w := env.stored(t)
	assert.False(t, w.Errors.Has(pools.FieldName))
	assert.True(t, w.Errors.Has(pools.FieldDescription))
	assert.Equal(t, pools.StepBasics, w.Step)
}

func TestWizardWalksToReview(t *testing.T) {
	env := newWizardEnv(t)
	sig := validSignals()

	env.post(t, "", "next", sig)
	assert.Equal(t, pools.StepFinancials, env.stored(t).Step)

	env.post(t, "", "next", sig)
	assert.Equal(t, pools.StepReview, env.stored(t).Step)

	env.post(t, "", "back", sig)
	assert.Equal(t, pools.StepFinancials, env.stored(t).Step)

	body := env.post(t, "", "goto?step=1", sig)
	assert.Equal(t, pools.StepBasics, env.stored(t).Step)
	assert.Contains(t, body, "Clean Water")
}

func TestWizardStepperLinksReachedSteps(t *testing.T) {
	env := newWizardEnv(t)
	sig := validSignals()

	body := env.post(t, "", "field", sig)
	assert.Contains(t, body, "goto?step=1")
	assert.NotContains(t, body, "goto?step=2")
	assert.NotContains(t, body, "goto?step=3")

	env.post(t, "", "next", sig)
	env.post(t, "", "next", sig)
	body = env.post(t, "", "goto?step=1", sig)
	assert.Contains(t, body, "goto?step=2")
	assert.Contains(t, body, "goto?step=3")
}

func TestWizardNumericSignals(t *testing.T) {
	env := newWizardEnv(t)
	sig := validSignals()
	sig["fundingGoal"] = 2500.5

	env.post(t, "", "field", sig)
	assert.Equal(t, "2500.5", env.stored(t).Draft.FundingGoal)
}

func reviewing(t *testing.T, env *wizardEnv) map[string]any {
	t.Helper()
	sig := validSignals()
	env.post(t, "", "next", sig)
	env.post(t, "", "next", sig)
	require.Equal(t, pools.StepReview, env.stored(t).Step)
	return sig
}

func TestWizardSubmitRequiresWallet(t *testing.T) {
	env := newWizardEnv(t)
	sig := reviewing(t, env)

	body := env.post(t, "", "submit", sig)

	assert.Contains(t, body, "Connect your wallet to create a pool")
	assert.Zero(t, env.stub.calls)
	assert.Equal(t, pools.StepReview, env.stored(t).Step)
}

func TestWizardSubmitSuccess(t *testing.T) {
	env := newWizardEnv(t)
	sig := reviewing(t, env)
	env.stub.res = pools.Registration{PoolID: 42, TxHash: "abc123", Ledger: 9}

	body := env.post(t, testCreator, "submit", sig)

	assert.Equal(t, 1, env.stub.calls)
	assert.Equal(t, "Clean Water", env.stub.draft.Name)
	assert.Contains(t, body, `href="/pools/42"`)
	assert.Contains(t, body, "https://explorer.test/tx/abc123")

	bridge, ok := env.stub.signer.(*wallet.BridgeSigner)
	require.True(t, ok)
	assert.Equal(t, testSID, bridge.SID)

	// The draft is discarded once the pool exists.
	w, rev, err := env.drafts.Load(context.Background(), testSID)
	require.NoError(t, err)
	assert.Zero(t, rev)
	assert.Equal(t, pools.StepBasics, w.Step)
}

func TestWizardSubmitOutlivesVisitor(t *testing.T) {
	env := newWizardEnv(t)
	sig := reviewing(t, env)
	env.stub.res = pools.Registration{PoolID: 43, TxHash: "late", Ledger: 10}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.stub.during = cancel

	body := env.postContext(t, ctx, testCreator, "submit", sig)

	assert.Equal(t, 1, env.stub.calls)
	assert.NotContains(t, body, `href="/pools/43"`)

	// The pool exists, so the draft is gone and cannot be submitted twice.
	w, rev, err := env.drafts.Load(context.Background(), testSID)
	require.NoError(t, err)
	assert.Zero(t, rev)
	assert.Equal(t, pools.StepBasics, w.Step)
}

func TestWizardSubmitFailureReturnsToReview(t *testing.T) {
	env := newWizardEnv(t)
	sig := reviewing(t, env)
	env.stub.err = &stellar.Failure{Kind: stellar.KindSimulation, Message: "Pool contract rejected the request"}

	body := env.post(t, testCreator, "submit", sig)

	assert.Contains(t, body, "Pool contract rejected the request")
	w := env.stored(t)
	assert.Equal(t, pools.StepReview, w.Step)
	assert.Equal(t, "Pool contract rejected the request", w.Notice)
	assert.Equal(t, "Clean Water", w.Draft.Name)
}

func TestWizardSubmitRevalidates(t *testing.T) {
	env := newWizardEnv(t)
	sig := reviewing(t, env)
	sig["description"] = "short"

	body := env.post(t, testCreator, "submit", sig)

	assert.Zero(t, env.stub.calls)
	assert.Contains(t, body, pools.ValidationNotice)
	assert.Equal(t, pools.StepBasics, env.stored(t).Step)
}

func TestWizardUnknownAction(t *testing.T) {
	env := newWizardEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/pools/new/launch", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	env.router("").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
