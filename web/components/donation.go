package components

import (
	"strconv"

	"github.com/nevofinance/nevo/web/helpers"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type DonationFormData struct {
	PoolID    int64
	Assets    []string
	Minimum   string
	Connected bool
	Closed    bool
}

func DonationForm(d DonationFormData) Node {
	if d.Closed {
		return Notice("donation-status", "This pool is no longer accepting donations", "info")
	}

	asset := ""
	if len(d.Assets) > 0 {
		asset = d.Assets[0]
	}
	hint := ""
	if d.Minimum != "" {
		hint = "Minimum contribution " + d.Minimum
	}

	return Form(ID("donation-form"), Class("flex flex-col gap-4 rounded-lg border border-neutral-800 bg-neutral-900 p-5"),
		Signals(map[string]any{"amount": "", "asset": asset, "private": false, "fetching": false}),
		Data("on-submit", "@post('/pools/"+strconv.FormatInt(d.PoolID, 10)+"/donate')"),
		Data("indicator-fetching", ""),
		H2(Class("text-lg font-semibold text-white"), Text("Donate")),
		Div(Class("flex gap-3"),
			FieldInput(InputCfg{
				Name:        "amount",
				Label:       "Amount",
				Type:        "number",
				Placeholder: "10",
				Hint:        hint,
				Class:       "flex-1",
			}),
			FieldSelect(SelectCfg{
				InputCfg: InputCfg{Name: "asset", Label: "Asset", Placeholder: "Asset"},
				Options:  d.Assets,
			}),
		),
		Label(Class("flex items-center gap-2 text-sm text-neutral-300"),
			Input(Type("checkbox"), Bind("private")),
			Text("Donate anonymously"),
		),
		If(!d.Connected,
			P(Class("text-sm text-amber-300"), Text("Connect your wallet to donate")),
		),
		PrimaryButton(Type("submit"),
			If(!d.Connected, Disabled()),
			Data("attr-disabled", "$fetching"),
			helpers.RenderSVG("icons/heart", "size-4"),
			Text("Donate"),
		),
		Div(ID("donation-status")),
	)
}

// DonationStatus reports progress and the final outcome of a donation. link
// is optional and rendered after the message.
func DonationStatus(message, tone, linkText, link string) Node {
	return Div(ID("donation-status"), Class("flex flex-col gap-2"),
		Notice("donation-notice", message, tone),
		If(link != "",
			A(Href(link), Class("text-sm text-indigo-400 hover:underline"), Text(linkText)),
		),
	)
}
