package components

import (
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/wallet"
	"github.com/nevofinance/nevo/web/helpers"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type WalletWidgetData struct {
	Address  string
	Balances []wallet.Balance
	// BalanceError is shown instead of balances when they could not load.
	BalanceError string
}

// WalletWidgetShell is rendered with the page. A connected widget fills
// itself in once the page has loaded.
func WalletWidgetShell(connected bool) Node {
	if !connected {
		return connectButton()
	}
	return Div(ID("wallet-widget"), Data("on-load", "@get('/wallet/widget')"),
		Class("flex items-center gap-2 text-sm text-neutral-400"),
		helpers.RenderSVG("icons/wallet", "size-4"),
		Text("Loading balances..."),
	)
}

func WalletWidget(d WalletWidgetData) Node {
	if d.Address == "" {
		return connectButton()
	}

	var balances Node
	if d.BalanceError != "" {
		balances = Span(Class("text-amber-300"), Text(d.BalanceError))
	} else {
		balances = Group(Map(d.Balances, func(b wallet.Balance) Node {
			return Span(Class("rounded bg-neutral-800 px-2 py-0.5 font-mono"), Text(b.Amount+" "+b.Code))
		}))
	}

	return Div(ID("wallet-widget"), Class("flex items-center gap-3 text-sm text-white"),
		balances,
		Span(Class("flex items-center gap-1 rounded-full border border-neutral-700 px-3 py-1 font-mono"),
			Title(d.Address),
			helpers.RenderSVG("icons/wallet", "size-4"),
			Text(dashboard.ShortAddress(d.Address)),
		),
		Button(Class("text-neutral-400 hover:text-white"), Type("button"),
			Attr("onclick", "nevoDisconnect()"),
			Text("Disconnect"),
		),
	)
}

func connectButton() Node {
	return Div(ID("wallet-widget"),
		PrimaryButton(Type("button"), Attr("onclick", "nevoConnect()"),
			helpers.RenderSVG("icons/wallet", "size-4"),
			Text("Connect Wallet"),
		),
	)
}
