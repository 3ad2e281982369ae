package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/dchest/uniuri"
	gsessions "github.com/gorilla/sessions"
	"github.com/nevofinance/nevo/internal/sessions"
	"github.com/nevofinance/nevo/internal/wallet"
)

const (
	CookieName = "nevo"
	sidKey     = "sid"
)

// Session makes sure every request carries a browser session id. The id
// lives in a signed cookie; everything attached to it is kept in NATS KV.
func Session(logger *slog.Logger, store gsessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := store.Get(r, CookieName)
			if err != nil {
				// A cookie signed with an old key decodes to a fresh session.
				logger.LogAttrs(r.Context(), slog.LevelWarn, "discarding invalid session cookie",
					slog.String("error", err.Error()),
				)
			}

			sid, ok := s.Values[sidKey].(string)
			if !ok || sid == "" {
				sid = uniuri.NewLen(28)
				s.Values[sidKey] = sid
				if err := s.Save(r, w); err != nil {
					w.WriteHeader(http.StatusInternalServerError)
					logger.LogAttrs(r.Context(), slog.LevelError, "failed to save session",
						slog.String("error", err.Error()),
					)
					return
				}
			}

			r = r.WithContext(sessions.WithSession(r.Context(), &sessions.Data{ID: sid}))
			next.ServeHTTP(w, r)
		})
	}
}

// Wallet attaches the wallet connected to the session, if any. With
// required set, requests without a connected wallet are refused.
func Wallet(logger *slog.Logger, wallets *wallet.Sessions, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sData := sessions.GetSession(r.Context())
			if sData == nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			conn, ok, err := wallets.Get(r.Context(), sData.ID)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				logger.LogAttrs(r.Context(), slog.LevelError, "failed to load wallet session",
					slog.String("error", err.Error()),
				)
				return
			}
			if !ok {
				if required {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			r = r.WithContext(sessions.WithWallet(r.Context(), &sessions.WalletData{Address: conn.Address}))
			next.ServeHTTP(w, r)
		})
	}
}
