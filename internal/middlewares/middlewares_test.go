package middlewares

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	gsessions "github.com/gorilla/sessions"
	"github.com/nevofinance/nevo/internal/natstest"
	"github.com/nevofinance/nevo/internal/sessions"
	"github.com/nevofinance/nevo/internal/wallet"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sessions.GetSession(r.Context()).ID+"|"+sessions.Address(r.Context()))
	})
}

func TestSessionIssuesAndReusesID(t *testing.T) {
	store := gsessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	h := Session(discard, store)(echoSession())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	first := rec.Body.String()
	assert.Len(t, first, 29)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, first, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessionReplacesForgedCookie(t *testing.T) {
	store := gsessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	h := Session(discard, store)(echoSession())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestWallet(t *testing.T) {
	nc := natstest.Conn(t)
	wallets := wallet.NewSessions(natstest.Bucket(t, nc, "wallets"))
	addr := keypair.MustRandom().Address()
	_, err := wallets.Connect(context.Background(), "connected", addr)
	require.NoError(t, err)

	serve := func(sid string, required bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(sessions.WithSession(req.Context(), &sessions.Data{ID: sid}))
		rec := httptest.NewRecorder()
		Wallet(discard, wallets, required)(echoSession()).ServeHTTP(rec, req)
		return rec
	}

	rec := serve("connected", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "connected|"+addr, rec.Body.String())

	rec = serve("anonymous", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous|", rec.Body.String())

	rec = serve("anonymous", true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
