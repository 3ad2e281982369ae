package components

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nevofinance/nevo/database/gensql"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/shopspring/decimal"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func FormatDecimal(d decimal.Decimal) string {
	return humanize.CommafWithDigits(d.InexactFloat64(), 4)
}

func Stats(s dashboard.Stats, connected bool) Node {
	type card struct {
		Label string
		Value string
	}

	donated := "-"
	if connected {
		donated = "0"
		if len(s.Totals) > 0 {
			donated = ""
			for i, t := range s.Totals {
				if i > 0 {
					donated += " + "
				}
				donated += FormatDecimal(t.Amount) + " " + t.Asset
			}
		}
	}
	cards := []card{
		{Label: "Total Donated", Value: donated},
		{Label: "Active Pools", Value: humanize.Comma(s.ActivePools)},
		{Label: "Donations", Value: humanize.Comma(s.Donations)},
		{Label: "Pools Supported", Value: humanize.Comma(s.PoolsSupported)},
	}

	return Div(ID("dashboard-stats"), Class("grid grid-cols-1 gap-4 sm:grid-cols-2 lg:grid-cols-4"),
		Map(cards, func(c card) Node {
			return Div(Class("rounded-lg border border-neutral-800 bg-neutral-900 p-5"),
				P(Class("text-sm text-neutral-400"), Text(c.Label)),
				P(Class("mt-2 text-2xl font-semibold text-white"), Text(c.Value)),
			)
		}),
	)
}

func ActivityFeed(acts []dashboard.Activity, now time.Time) Node {
	return Section(ID("activity-feed"), Class("rounded-lg border border-neutral-800 bg-neutral-900 p-5"),
		H2(Class("text-lg font-semibold text-white"), Text("Recent Activity")),
		If(len(acts) == 0,
			P(Class("mt-4 text-sm text-neutral-500"), Text("No activity yet.")),
		),
		Ul(Class("mt-4 flex flex-col divide-y divide-neutral-800"),
			Map(acts, func(a dashboard.Activity) Node {
				return Li(Class("flex items-center justify-between gap-4 py-3 text-sm"),
					Span(Class("text-neutral-200"), Text(dashboard.Describe(a))),
					Time(Class("shrink-0 text-xs text-neutral-500"),
						DateTime(a.When().Format(time.RFC3339)),
						Text(humanize.RelTime(a.When(), now, "ago", "from now")),
					),
				)
			}),
		),
	)
}

func PoolCard(p gensql.Pool, now time.Time) Node {
	status := "Ends " + humanize.RelTime(p.Deadline, now, "ago", "from now")
	if !p.Deadline.After(now) {
		status = "Ended " + humanize.RelTime(p.Deadline, now, "ago", "from now")
	}
	return A(Href("/pools/"+strconv.FormatInt(p.ID, 10)),
		Class("flex flex-col gap-2 rounded-lg border border-neutral-800 bg-neutral-900 p-5 hover:border-indigo-500"),
		Span(Class("w-fit rounded bg-indigo-500/20 px-2 py-0.5 text-xs text-indigo-300"), Text(p.Category)),
		H3(Class("text-lg font-semibold text-white"), Text(p.Name)),
		P(Class("line-clamp-2 text-sm text-neutral-400"), Text(p.Description)),
		P(Class("mt-auto text-sm text-neutral-300"), Text("Goal "+FormatDecimal(p.FundingGoal))),
		P(Class("text-xs text-neutral-500"), Text(status)),
	)
}

func ContributionRow(d gensql.ListDonationsByDonorRow, now time.Time) Node {
	target := "Direct donation"
	if d.PoolName != nil {
		target = *d.PoolName
	}
	return Tr(Class("border-b border-neutral-800 text-sm"),
		Td(Class("py-3 text-white"), Text(target)),
		Td(Class("py-3 font-mono text-neutral-200"), Text(FormatDecimal(d.Amount)+" "+d.Asset)),
		Td(Class("py-3 text-neutral-400"), Text(humanize.RelTime(d.CreatedAt, now, "ago", "from now"))),
		Td(Class("py-3"),
			A(Class("text-indigo-400 hover:underline"), Href("/receipts/"+d.TxHash), Text("Receipt")),
		),
	)
}
