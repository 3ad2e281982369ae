package receipts

import (
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/nevofinance/nevo/database/gensql"
	"github.com/shopspring/decimal"
)

const Disclaimer = "This receipt records a transfer on the Stellar network. " +
	"Nevo does not provide tax advice; check with the beneficiary organization " +
	"whether your donation is deductible in your jurisdiction."

type Receipt struct {
	ID          uuid.UUID
	PoolID      *int64
	PoolName    string
	Destination string
	Donor       string
	Amount      decimal.Decimal
	Asset       string
	Hash        string
	Ledger      int64
	At          time.Time
	Private     bool
	ExplorerURL string
}

// FromDonation builds the receipt for a stored donation. explorer maps a
// transaction hash to its block explorer page.
func FromDonation(row gensql.GetDonationByHashRow, explorer func(string) string) Receipt {
	r := Receipt{
		ID:          row.ID,
		PoolID:      row.PoolID,
		Donor:       row.Donor,
		Amount:      row.Amount,
		Asset:       row.Asset,
		Hash:        row.TxHash,
		Ledger:      row.Ledger,
		At:          row.CreatedAt,
		Private:     row.IsPrivate,
		ExplorerURL: explorer(row.TxHash),
	}
	if row.PoolName != nil {
		r.PoolName = *row.PoolName
	}
	if row.Destination != nil {
		r.Destination = *row.Destination
	}
	return r
}

// Title is the pool name, or the destination for direct payments.
func (r Receipt) Title() string {
	if r.PoolName != "" {
		return r.PoolName
	}
	if r.Destination != "" {
		return "Direct donation to " + short(r.Destination)
	}
	return "Donation"
}

func (r Receipt) AmountText() string {
	return r.Amount.String() + " " + r.Asset
}

func (r Receipt) ShareText() string {
	return fmt.Sprintf("I donated %s to %s!", r.AmountText(), r.Title())
}

func (r Receipt) ShareURL() string {
	return "https://twitter.com/intent/tweet?text=" + url.QueryEscape(r.ShareText())
}

// WritePDF renders the receipt as a one page tax receipt.
func WritePDF(w io.Writer, r Receipt) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Nevo donation receipt "+r.ID.String(), false)
	pdf.SetCreator("Nevo", false)
	pdf.SetCreationDate(r.At)
	pdf.SetModificationDate(r.At)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Official Tax Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Nevo donation platform", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	donor := r.Donor
	if r.Private {
		donor = "Anonymous"
	}
	rows := [][2]string{
		{"Receipt ID", r.ID.String()},
		{"Date", r.At.UTC().Format("January 2, 2006 15:04 MST")},
		{"Pool", r.Title()},
		{"Donor", donor},
		{"Amount", r.AmountText()},
		{"Transaction", r.Hash},
		{"Ledger", fmt.Sprint(r.Ledger)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 8, row[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Courier", "", 9)
		pdf.CellFormat(0, 8, row[1], "B", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Verify on the network:", "", 1, "L", false, 0, "")
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 6, r.ExplorerURL, "", 1, "L", false, 0, r.ExplorerURL)
	pdf.SetTextColor(0, 0, 0)

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, Disclaimer, "", "L", false)

	return pdf.Output(w)
}

func short(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}
