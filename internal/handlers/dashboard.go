package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nevofinance/nevo/database"
	"github.com/nevofinance/nevo/database/gensql"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/sessions"
	"github.com/nevofinance/nevo/web/components"
	"github.com/nevofinance/nevo/web/helpers"
	"github.com/nevofinance/nevo/web/pages"
	datastar "github.com/starfederation/datastar/sdk/go"
)

const contributionsLimit = 50

func Dashboard(logger *slog.Logger, store dashboard.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := dashboard.New(r.Context(), store, sessions.Address(r.Context()), logger)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to load dashboard", err)
			return
		}
		defer state.Close()

		render(w, http.StatusOK, pages.Dashboard(navFor(r), state.Snapshot()))
	}
}

// DashboardUpdates keeps a dashboard state for the lifetime of the stream and
// re-renders stats and feed whenever an activity is announced.
func DashboardUpdates(logger *slog.Logger, store dashboard.Store, nc *nats.Conn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := sessions.Address(r.Context())

		state, err := dashboard.New(r.Context(), store, addr, logger)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to load dashboard", err)
			return
		}
		defer state.Close()

		actChan := make(chan *nats.Msg, 16)
		sub, err := nc.ChanSubscribe(dashboard.Subject, actChan)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to subscribe to activity", err)
			return
		}
		defer sub.Unsubscribe()

		sse := datastar.NewSSE(w, r)

	loop:
		for {
			select {
			case <-actChan:
				if err := state.Refresh(r.Context()); err != nil {
					if r.Context().Err() != nil {
						break loop
					}
					logError(r, logger, "failed to refresh dashboard", err)
					continue
				}
				snap := state.Snapshot()
				sse.MergeFragments(helpers.Fragment(components.Stats(snap.Stats, addr != "")))
				sse.MergeFragments(helpers.Fragment(components.ActivityFeed(snap.Activities, snap.RefreshedAt)))
			case <-r.Context().Done():
				break loop
			}
		}
	}
}

func MyPools(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wData := sessions.GetWallet(r.Context())

		mine, err := db.Q.ListPoolsByCreator(r.Context(), wData.Address)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to list pools", err)
			return
		}

		render(w, http.StatusOK, pages.MyPools(navFor(r), mine, time.Now()))
	}
}

func Contributions(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wData := sessions.GetWallet(r.Context())

		rows, err := db.Q.ListDonationsByDonor(r.Context(), gensql.ListDonationsByDonorParams{
			Donor: wData.Address,
			Limit: contributionsLimit,
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to list donations", err)
			return
		}

		render(w, http.StatusOK, pages.Contributions(navFor(r), rows, time.Now()))
	}
}
