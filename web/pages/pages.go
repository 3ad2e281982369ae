package pages

import (
	"time"

	"github.com/nevofinance/nevo/database/gensql"
	"github.com/nevofinance/nevo/web/components"
	"github.com/nevofinance/nevo/web/helpers"
	"github.com/nevofinance/nevo/web/layouts"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func Homepage(nav components.NavCfg, featured []gensql.Pool, now time.Time) Node {
	return layouts.Default(layouts.Props{Nav: nav},
		homepageHero(),
		homepageInfoCards(),
		homepageFeatured(featured, now),
	)
}

func homepageHero() Node {
	return Section(Class("flex flex-col items-center gap-6 py-16 text-center text-white lg:py-24"),
		helpers.RenderSVG("icons/logo", "h-16 w-auto lg:h-24"),
		H1(Class("text-3xl font-semibold lg:text-5xl"),
			Text("Giving you can verify"),
		),
		P(Class("max-w-xl text-neutral-300 lg:text-lg"),
			Text("Nevo runs donation pools on the Stellar network. Every contribution is a transaction anyone can look up."),
		),
		Div(Class("flex gap-4"),
			A(Href("/dashboard"),
				Class("flex items-center gap-2 rounded-full bg-indigo-600 px-6 py-2 font-medium text-white hover:bg-indigo-500"),
				Text("Open dashboard"),
				helpers.RenderSVG("icons/arrow-right", "size-4"),
			),
			A(Href("/dashboard/pools/new"),
				Class("rounded-full border border-white px-6 py-2 font-medium text-white"),
				Text("Start a pool"),
			),
		),
	)
}

func homepageInfoCards() Node {
	type information struct {
		Title string
		Body  string
	}
	info := []information{{
		Title: "Your wallet is your account",
		Body:  "Connect Freighter and you are ready. There is no sign-up and Nevo never holds your keys.",
	}, {
		Title: "Funds go straight to the pool",
		Body:  "Donations are contract calls on Stellar. Nevo cannot move or hold the money you give.",
	}, {
		Title: "Receipts for every gift",
		Body:  "Each donation gets a receipt linking its transaction, with a PDF you can keep for your records.",
	}}
	return Section(Class("grid grid-cols-1 gap-4 md:grid-cols-3"),
		Map(info, func(i information) Node {
			return Div(Class("flex flex-col rounded-lg border border-neutral-800 bg-neutral-900 p-6 text-white"),
				H2(Class("text-lg font-medium"), Text(i.Title)),
				P(Class("mt-2 text-sm text-neutral-400"), Text(i.Body)),
			)
		}),
	)
}

func homepageFeatured(pools []gensql.Pool, now time.Time) Node {
	if len(pools) == 0 {
		return nil
	}
	return Section(Class("flex flex-col gap-4"),
		H2(Class("text-2xl font-semibold text-white"), Text("Open pools")),
		poolGrid(pools, now),
	)
}

func poolGrid(pools []gensql.Pool, now time.Time) Node {
	return Div(Class("grid grid-cols-1 gap-4 md:grid-cols-2 lg:grid-cols-3"),
		Map(pools, func(p gensql.Pool) Node {
			return components.PoolCard(p, now)
		}),
	)
}

func pageHeader(title string, action Node) Node {
	return Div(Class("flex items-center justify-between"),
		H1(Class("text-2xl font-semibold text-white"), Text(title)),
		action,
	)
}

func NotFound(nav components.NavCfg, what string) Node {
	return layouts.Default(layouts.Props{Title: "Not found", Nav: nav},
		Div(Class("flex flex-col items-center gap-4 py-24 text-center text-white"),
			H1(Class("text-3xl font-semibold"), Text(what+" not found")),
			A(Href("/dashboard"), Class("text-indigo-400 hover:underline"), Text("Back to the dashboard")),
		),
	)
}
