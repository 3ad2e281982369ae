package pages

import (
	"time"

	"github.com/nevofinance/nevo/database/gensql"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/receipts"
	"github.com/nevofinance/nevo/web/components"
	"github.com/nevofinance/nevo/web/helpers"
	"github.com/nevofinance/nevo/web/layouts"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type PoolData struct {
	Pool   gensql.Pool
	Raised []dashboard.Total
	Form   components.DonationFormData
	Now    time.Time
}

func Pool(nav components.NavCfg, d PoolData) Node {
	p := d.Pool
	return layouts.Default(layouts.Props{Title: p.Name, Nav: nav},
		Div(Class("grid grid-cols-1 gap-8 lg:grid-cols-3"),
			Article(Class("flex flex-col gap-4 text-white lg:col-span-2"),
				Span(Class("w-fit rounded bg-indigo-500/20 px-2 py-0.5 text-xs text-indigo-300"), Text(p.Category)),
				H1(Class("text-3xl font-semibold"), Text(p.Name)),
				P(Class("whitespace-pre-line text-neutral-300"), Text(p.Description)),
				Dl(Class("grid grid-cols-2 gap-4 text-sm"),
					Div(
						Dt(Class("text-neutral-500"), Text("Goal")),
						Dd(Text(components.FormatDecimal(p.FundingGoal))),
					),
					Div(
						Dt(Class("text-neutral-500"), Text("Raised")),
						Dd(raised(d.Raised)),
					),
					Div(
						Dt(Class("text-neutral-500"), Text("Ends")),
						Dd(Text(p.Deadline.Format("January 2, 2006"))),
					),
					Div(
						Dt(Class("text-neutral-500"), Text("Beneficiary")),
						Dd(Class("font-mono"), Title(p.Beneficiary), Text(dashboard.ShortAddress(p.Beneficiary))),
					),
				),
				If(p.ExternalUrl != nil,
					A(Href(deref(p.ExternalUrl)), Target("_blank"), Rel("noopener noreferrer"),
						Class("flex w-fit items-center gap-1 text-indigo-400 hover:underline"),
						Text("Learn more"), helpers.RenderSVG("icons/external", "size-4"),
					),
				),
			),
			components.DonationForm(d.Form),
		),
	)
}

func raised(totals []dashboard.Total) Node {
	if len(totals) == 0 {
		return Text("Nothing yet")
	}
	s := ""
	for i, t := range totals {
		if i > 0 {
			s += ", "
		}
		s += components.FormatDecimal(t.Amount) + " " + t.Asset
	}
	return Text(s)
}

func Receipt(nav components.NavCfg, r receipts.Receipt) Node {
	donor := "Anonymous"
	if !r.Private {
		donor = r.Donor
	}
	type row struct {
		Label string
		Value string
	}
	rows := []row{
		{"Receipt", r.ID.String()},
		{"Date", r.At.UTC().Format("January 2, 2006 15:04 MST")},
		{"Donor", donor},
		{"Amount", r.AmountText()},
		{"Transaction", r.Hash},
	}

	return layouts.Default(layouts.Props{Title: "Receipt", Nav: nav},
		Div(Class("mx-auto flex w-full max-w-2xl flex-col gap-6 rounded-lg border border-neutral-800 bg-neutral-900 p-8 text-white"),
			Div(Class("flex items-center gap-3"),
				helpers.RenderSVG("icons/check", "size-8 text-emerald-400"),
				H1(Class("text-2xl font-semibold"), Text("Thank you for donating to "+r.Title())),
			),
			Dl(Class("grid grid-cols-[max-content_1fr] gap-x-6 gap-y-2 text-sm"),
				Map(rows, func(rw row) Node {
					return Group([]Node{
						Dt(Class("text-neutral-400"), Text(rw.Label)),
						Dd(Class("break-all font-mono"), Text(rw.Value)),
					})
				}),
			),
			Div(Class("flex flex-wrap gap-4 text-sm"),
				A(Href(r.ExplorerURL), Target("_blank"), Rel("noopener noreferrer"),
					Class("flex items-center gap-1 text-indigo-400 hover:underline"),
					Text("View on Stellar Expert"), helpers.RenderSVG("icons/external", "size-4"),
				),
				A(Href("/receipts/"+r.Hash+"/pdf"), Class("text-indigo-400 hover:underline"), Text("Download PDF")),
				A(Href(r.ShareURL()), Target("_blank"), Rel("noopener noreferrer"),
					Class("text-indigo-400 hover:underline"), Text("Share"),
				),
			),
			P(Class("text-xs text-neutral-500"), Text(receipts.Disclaimer)),
		),
	)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
