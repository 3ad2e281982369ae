package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/nevofinance/nevo/internal/sessions"
	"github.com/nevofinance/nevo/internal/wallet"
	"github.com/nevofinance/nevo/web/components"
	"github.com/nevofinance/nevo/web/helpers"
	datastar "github.com/starfederation/datastar/sdk/go"
)

type connectBody struct {
	WalletAddress string `json:"walletAddress" validate:"required,len=56,startswith=G"`
}

func WalletConnect(logger *slog.Logger, wallets *wallet.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sData := sessions.GetSession(r.Context())

		var body connectBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := validate.Struct(body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		_, err := wallets.Connect(r.Context(), sData.ID, body.WalletAddress)
		if errors.Is(err, wallet.ErrInvalidAddress) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to connect wallet", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func WalletDisconnect(logger *slog.Logger, wallets *wallet.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sData := sessions.GetSession(r.Context())

		if err := wallets.Disconnect(r.Context(), sData.ID); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to disconnect wallet", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// WalletWidget fills in the navbar widget with the connected address and
// its balances. A balance failure still shows the address.
func WalletWidget(balances *wallet.Balances) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := sessions.Address(r.Context())
		data := components.WalletWidgetData{Address: addr}

		if addr != "" {
			bals, err := balances.Fetch(r.Context(), addr)
			if err != nil {
				data.BalanceError = "Balances unavailable"
			}
			data.Balances = bals
		}

		sse := datastar.NewSSE(w, r)
		sse.MergeFragments(helpers.Fragment(components.WalletWidget(data)))
	}
}

// WalletSign relays the browser's answer to a pending sign request of this
// session.
func WalletSign(logger *slog.Logger, nc *nats.Conn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sData := sessions.GetSession(r.Context())

		var reply wallet.SignReply
		if err := json.NewDecoder(r.Body).Decode(&reply); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		err := wallet.Relay(r.Context(), nc, sData.ID, chi.URLParam(r, "id"), reply)
		if errors.Is(err, wallet.ErrUnknownSignRequest) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to relay signature", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
