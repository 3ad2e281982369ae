package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nats-io/nats.go"
	"github.com/nevofinance/nevo/database"
	"github.com/nevofinance/nevo/database/gensql"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/sessions"
	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/nevofinance/nevo/internal/wallet"
	"github.com/nevofinance/nevo/web/components"
	"github.com/nevofinance/nevo/web/helpers"
	"github.com/nevofinance/nevo/web/pages"
	"github.com/shopspring/decimal"
	datastar "github.com/starfederation/datastar/sdk/go"
)

// Donator is the part of stellar.Service the donation handlers use.
type Donator interface {
	Donate(ctx context.Context, signer stellar.Signer, req stellar.DonationRequest) stellar.Outcome
	Assets() stellar.Registry
	Config() stellar.Config
}

// DonationStore is the part of the queries the donation handlers use.
type DonationStore interface {
	GetPool(ctx context.Context, id int64) (gensql.Pool, error)
	InsertDonation(ctx context.Context, arg gensql.InsertDonationParams) error
}

func Pool(logger *slog.Logger, db *database.Database, svc Donator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool, ok := loadPool(w, r, logger, db.Q)
		if !ok {
			return
		}

		sums, err := db.Q.SumPoolDonations(r.Context(), &pool.ID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to sum pool donations", err)
			return
		}
		raised := make([]dashboard.Total, 0, len(sums))
		for _, s := range sums {
			raised = append(raised, dashboard.Total{Asset: s.Asset, Amount: s.Total})
		}

		now := time.Now()
		minimum := ""
		if pool.MinContribution != nil && pool.MinContribution.IsPositive() {
			minimum = pool.MinContribution.String()
		}
		nav := navFor(r)

		render(w, http.StatusOK, pages.Pool(nav, pages.PoolData{
			Pool:   pool,
			Raised: raised,
			Now:    now,
			Form: components.DonationFormData{
				PoolID:    pool.ID,
				Assets:    contractAssets(svc.Assets()),
				Minimum:   minimum,
				Connected: nav.Connected,
				Closed:    !pool.Deadline.After(now),
			},
		}))
	}
}

type donationSignals struct {
	Amount  json.Number `json:"amount" validate:"required,numeric"`
	Asset   string      `json:"asset" validate:"required"`
	Private bool        `json:"private"`
}

// Donate runs a pool donation and streams its progress. The wallet is asked
// for a signature through the open stream.
func Donate(logger *slog.Logger, store DonationStore, svc Donator, nc *nats.Conn, feed dashboard.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool, ok := loadPool(w, r, logger, store)
		if !ok {
			return
		}
		sData := sessions.GetSession(r.Context())
		addr := sessions.Address(r.Context())

		var sig donationSignals
		sigErr := datastar.ReadSignals(r, &sig)

		sse := datastar.NewSSE(w, r)
		// Nothing is written once the visitor has gone.
		status := func(msg, tone, linkText, link string) {
			if r.Context().Err() != nil {
				return
			}
			sse.MergeFragments(helpers.Fragment(components.DonationStatus(msg, tone, linkText, link)))
		}

		if sigErr != nil || validate.Struct(sig) != nil {
			status("Enter a valid amount", "error", "", "")
			return
		}
		if addr == "" {
			status("Connect your wallet to donate", "error", "", "")
			return
		}
		amount, err := decimal.NewFromString(sig.Amount.String())
		if err != nil {
			status("Enter a valid amount", "error", "", "")
			return
		}
		if msg := poolRefusal(pool, amount, time.Now()); msg != "" {
			status(msg, "error", "", "")
			return
		}

		status("Preparing your donation...", "info", "", "")
		signer := &wallet.BridgeSigner{
			NC:  nc,
			SID: sData.ID,
			Prompt: func(req wallet.SignRequest) error {
				status("Approve the transaction in your wallet", "info", "", "")
				return promptSignature(sse, req)
			},
		}

		poolID := uint64(pool.ID)
		out := svc.Donate(r.Context(), signer, stellar.DonationRequest{
			Donor:   addr,
			PoolID:  &poolID,
			Asset:   sig.Asset,
			Amount:  sig.Amount.String(),
			Private: sig.Private,
		})

		switch o := out.(type) {
		case stellar.Success:
			recordDonation(context.WithoutCancel(r.Context()), logger, store, feed, donationRecord{
				Donor:    addr,
				PoolID:   &pool.ID,
				PoolName: pool.Name,
				Asset:    sig.Asset,
				Amount:   amount,
				Private:  sig.Private,
				Hash:     o.Hash,
				Ledger:   o.Ledger,
			})
			status("Thank you! Your donation was confirmed.", "success", "View your receipt", "/receipts/"+o.Hash)
		case *stellar.Failure:
			link := ""
			if o.Hash != "" {
				link = svc.Config().ExplorerURL(o.Hash)
			}
			status(o.Message, failureTone(o), "View on Stellar Expert", link)
		}
	}
}

// poolRefusal is the reason pool refuses a donation of amount, or "".
func poolRefusal(pool gensql.Pool, amount decimal.Decimal, now time.Time) string {
	if !pool.Deadline.After(now) {
		return "This pool is no longer accepting donations"
	}
	if pool.MinContribution != nil && amount.LessThan(*pool.MinContribution) {
		return "The minimum contribution is " + pool.MinContribution.String()
	}
	return ""
}

func failureTone(f *stellar.Failure) string {
	switch f.Kind {
	case stellar.KindTimeout, stellar.KindBusy, stellar.KindCancelled:
		return "warn"
	}
	return "error"
}

func loadPool(w http.ResponseWriter, r *http.Request, logger *slog.Logger, store DonationStore) (gensql.Pool, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 0 {
		render(w, http.StatusNotFound, pages.NotFound(navFor(r), "Pool"))
		return gensql.Pool{}, false
	}
	pool, err := store.GetPool(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		render(w, http.StatusNotFound, pages.NotFound(navFor(r), "Pool"))
		return gensql.Pool{}, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logError(r, logger, "failed to load pool", err)
		return gensql.Pool{}, false
	}
	return pool, true
}

// contractAssets lists the assets a pool can receive, native first.
func contractAssets(reg stellar.Registry) []string {
	codes := make([]string, 0, len(reg))
	for code, a := range reg {
		if a.Contract != "" {
			codes = append(codes, code)
		}
	}
	slices.SortFunc(codes, func(a, b string) int {
		switch {
		case a == stellar.NativeCode:
			return -1
		case b == stellar.NativeCode:
			return 1
		}
		return strings.Compare(a, b)
	})
	return codes
}

type donationRecord struct {
	Donor       string
	PoolID      *int64
	PoolName    string
	Destination string
	Asset       string
	Amount      decimal.Decimal
	Private     bool
	Hash        string
	Ledger      uint32
}

// recordDonation mirrors a confirmed donation into Postgres and the feed.
// The transfer already happened, so failures are logged only.
func recordDonation(ctx context.Context, logger *slog.Logger, store DonationStore, feed dashboard.Recorder, d donationRecord) {
	now := time.Now().UTC()
	params := gensql.InsertDonationParams{
		ID:        uuid.New(),
		PoolID:    d.PoolID,
		Donor:     d.Donor,
		Asset:     d.Asset,
		Amount:    d.Amount,
		IsPrivate: d.Private,
		TxHash:    d.Hash,
		Ledger:    int64(d.Ledger),
		CreatedAt: now,
	}
	if d.Destination != "" {
		params.Destination = &d.Destination
	}
	if err := store.InsertDonation(ctx, params); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to store donation",
			slog.String("hash", d.Hash),
			slog.String("error", err.Error()),
		)
	}

	act := dashboard.DonationActivity{
		ID:       uuid.New(),
		Donor:    d.Donor,
		Amount:   d.Amount,
		Asset:    d.Asset,
		PoolName: d.PoolName,
		At:       now,
	}
	if d.PoolID != nil {
		act.PoolID = *d.PoolID
	}
	if d.Private {
		act.Donor = ""
	}
	if err := feed.Record(ctx, act); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to record donation activity",
			slog.String("hash", d.Hash),
			slog.String("error", err.Error()),
		)
	}
}
