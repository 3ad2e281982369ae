package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/shopspring/decimal"
)

// APISigner is a server-held key donating on behalf of scripted callers.
type APISigner interface {
	stellar.Signer
	Address() string
}

type apiDonationRequest struct {
	Destination string `json:"destination" validate:"required_without=PoolID,omitempty,len=56"`
	PoolID      *int64 `json:"poolId" validate:"required_without=Destination,omitempty,min=0"`
	Asset       string `json:"asset" validate:"required,alphanum,max=12"`
	Amount      string `json:"amount" validate:"required,numeric"`
	Private     bool   `json:"private"`
}

type apiDonationResponse struct {
	Status      string `json:"status"`
	Hash        string `json:"hash,omitempty"`
	Ledger      uint32 `json:"ledger,omitempty"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Message     string `json:"message,omitempty"`
}

// APIDonations donates from the configured signer. It is disabled unless both
// a token and a signer are configured.
func APIDonations(logger *slog.Logger, store DonationStore, svc Donator, signer APISigner, token string, feed dashboard.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token == "" || signer == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		given, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req apiDonationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, apiDonationResponse{
				Status:  "failed",
				Kind:    stellar.KindValidation.String(),
				Message: err.Error(),
			})
			return
		}
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		dreq := stellar.DonationRequest{
			Donor:       signer.Address(),
			Destination: req.Destination,
			Asset:       req.Asset,
			Amount:      req.Amount,
			Private:     req.Private,
		}
		rec := donationRecord{
			Donor:   signer.Address(),
			Asset:   req.Asset,
			Amount:  amount,
			Private: req.Private,
		}
		if req.PoolID != nil {
			pool, err := store.GetPool(r.Context(), *req.PoolID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				w.WriteHeader(http.StatusInternalServerError)
				logError(r, logger, "failed to load pool", err)
				return
			}
			if err != nil {
				writeJSON(w, http.StatusNotFound, apiDonationResponse{
					Status:  "failed",
					Kind:    stellar.KindValidation.String(),
					Message: "Unknown pool",
				})
				return
			}
			if msg := poolRefusal(pool, amount, time.Now()); msg != "" {
				writeJSON(w, http.StatusUnprocessableEntity, apiDonationResponse{
					Status:  "failed",
					Kind:    stellar.KindValidation.String(),
					Message: msg,
				})
				return
			}
			id := uint64(pool.ID)
			dreq.PoolID = &id
			rec.PoolID = &pool.ID
			rec.PoolName = pool.Name
		} else {
			rec.Destination = req.Destination
			rec.PoolName = dashboard.ShortAddress(req.Destination)
		}

		switch o := svc.Donate(r.Context(), signer, dreq).(type) {
		case stellar.Success:
			rec.Hash, rec.Ledger = o.Hash, o.Ledger
			recordDonation(context.WithoutCancel(r.Context()), logger, store, feed, rec)
			writeJSON(w, http.StatusOK, apiDonationResponse{
				Status:      "success",
				Hash:        o.Hash,
				Ledger:      o.Ledger,
				ExplorerURL: svc.Config().ExplorerURL(o.Hash),
			})
		case *stellar.Failure:
			rsp := apiDonationResponse{
				Status:  "failed",
				Hash:    o.Hash,
				Kind:    o.Kind.String(),
				Message: o.Message,
			}
			if o.Hash != "" {
				rsp.ExplorerURL = svc.Config().ExplorerURL(o.Hash)
			}
			writeJSON(w, failureStatus(o.Kind), rsp)
		}
	}
}

func failureStatus(k stellar.FailureKind) int {
	switch k {
	case stellar.KindValidation, stellar.KindAccount:
		return http.StatusUnprocessableEntity
	case stellar.KindBusy:
		return http.StatusConflict
	case stellar.KindTimeout:
		return http.StatusGatewayTimeout
	case stellar.KindNetwork:
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
