package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/nevofinance/nevo/database"
	"github.com/nevofinance/nevo/internal/receipts"
	"github.com/nevofinance/nevo/web/pages"
)

func Receipt(logger *slog.Logger, db *database.Database, explorer func(string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rcpt, ok := loadReceipt(w, r, logger, db, explorer)
		if !ok {
			return
		}

		render(w, http.StatusOK, pages.Receipt(navFor(r), rcpt))
	}
}

func ReceiptPDF(logger *slog.Logger, db *database.Database, explorer func(string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rcpt, ok := loadReceipt(w, r, logger, db, explorer)
		if !ok {
			return
		}

		// Buffered so a render failure can still become a 500.
		var buf bytes.Buffer
		if err := receipts.WritePDF(&buf, rcpt); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to render receipt pdf", err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="nevo-receipt-`+rcpt.ID.String()+`.pdf"`)
		w.Write(buf.Bytes())
	}
}

func loadReceipt(w http.ResponseWriter, r *http.Request, logger *slog.Logger, db *database.Database, explorer func(string) string) (receipts.Receipt, bool) {
	hash := chi.URLParam(r, "hash")
	if len(hash) != 64 {
		render(w, http.StatusNotFound, pages.NotFound(navFor(r), "Receipt"))
		return receipts.Receipt{}, false
	}

	row, err := db.Q.GetDonationByHash(r.Context(), hash)
	if errors.Is(err, pgx.ErrNoRows) {
		render(w, http.StatusNotFound, pages.NotFound(navFor(r), "Receipt"))
		return receipts.Receipt{}, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logError(r, logger, "failed to load donation", err)
		return receipts.Receipt{}, false
	}

	return receipts.FromDonation(row, explorer), true
}
