package pages

import (
	"time"

	"github.com/nevofinance/nevo/database/gensql"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/pools"
	"github.com/nevofinance/nevo/web/components"
	"github.com/nevofinance/nevo/web/layouts"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func Dashboard(nav components.NavCfg, snap dashboard.Snapshot) Node {
	nav.ActivePage = "dashboard"
	return layouts.Default(layouts.Props{Title: "Dashboard", Nav: nav},
		pageHeader("Dashboard",
			A(Href("/dashboard/pools/new"), Class("text-sm text-indigo-400 hover:underline"), Text("Create a pool")),
		),
		Div(Class("flex flex-col gap-8"), Data("on-load", "@get('/dashboard/updates')"),
			components.Stats(snap.Stats, nav.Connected),
			components.ActivityFeed(snap.Activities, snap.RefreshedAt),
		),
	)
}

func MyPools(nav components.NavCfg, mine []gensql.Pool, now time.Time) Node {
	nav.ActivePage = "my-pools"
	return layouts.Default(layouts.Props{Title: "My Pools", Nav: nav},
		pageHeader("My Pools",
			A(Href("/dashboard/pools/new"), Class("text-sm text-indigo-400 hover:underline"), Text("Create a pool")),
		),
		If(len(mine) == 0,
			P(Class("text-neutral-400"), Text("You have not created any pools yet.")),
		),
		poolGrid(mine, now),
	)
}

func Contributions(nav components.NavCfg, rows []gensql.ListDonationsByDonorRow, now time.Time) Node {
	nav.ActivePage = "contributions"
	return layouts.Default(layouts.Props{Title: "Contributions", Nav: nav},
		pageHeader("Contributions", nil),
		If(len(rows) == 0,
			P(Class("text-neutral-400"), Text("No donations from this wallet yet.")),
		),
		If(len(rows) > 0,
			Table(Class("w-full text-left"),
				THead(
					Tr(Class("border-b border-neutral-700 text-xs uppercase text-neutral-500"),
						Th(Class("py-2"), Text("Pool")),
						Th(Class("py-2"), Text("Amount")),
						Th(Class("py-2"), Text("When")),
						Th(Class("py-2")),
					),
				),
				TBody(
					Map(rows, func(d gensql.ListDonationsByDonorRow) Node {
						return components.ContributionRow(d, now)
					}),
				),
			),
		),
	)
}

func CreatePool(nav components.NavCfg, w *pools.Wizard) Node {
	nav.ActivePage = "create"
	return layouts.Default(layouts.Props{Title: "Create a pool", Nav: nav},
		pageHeader("Create a pool", nil),
		components.Wizard(w, nav.Connected),
	)
}
