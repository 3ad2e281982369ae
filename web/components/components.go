package components

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/nevofinance/nevo/web/helpers"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

type NavCfg struct {
	ActivePage string
	Connected  bool
}

func Navbar(s NavCfg) Node {
	type link struct {
		Page string
		Href string
		Text string
	}
	links := []link{
		{Page: "dashboard", Href: "/dashboard", Text: "Dashboard"},
		{Page: "my-pools", Href: "/dashboard/my-pools", Text: "My Pools"},
		{Page: "contributions", Href: "/dashboard/contributions", Text: "Contributions"},
		{Page: "create", Href: "/dashboard/pools/new", Text: "Create Pool"},
	}

	return Nav(
		Class("sticky top-0 z-30 flex items-center gap-6 border-b border-neutral-800 bg-neutral-950 py-3 px-4 text-white lg:px-10"),
		Aria("label", "Main"),
		A(Href("/"), Aria("label", "Go to homepage"), Class("mr-auto"),
			helpers.RenderSVG("icons/logo", "h-8 w-auto"),
		),
		Div(Class("hidden items-center gap-5 md:flex"),
			Map(links, func(l link) Node {
				return A(
					Href(l.Href),
					Classes{
						"text-sm hover:text-indigo-300": true,
						"text-indigo-400":               l.Page == s.ActivePage,
					},
					Text(l.Text),
				)
			}),
		),
		WalletWidgetShell(s.Connected),
	)
}

func Foot() Node {
	type link struct {
		Href string
		Text string
	}
	links := []link{{
		Href: "https://stellar.org",
		Text: "Stellar",
	}, {
		Href: "https://github.com/nevofinance",
		Text: "GitHub",
	}}

	return Footer(
		Class("flex items-center gap-4 border-t border-neutral-800 py-4 px-4 text-white lg:gap-10 lg:px-16"),
		helpers.RenderSVG("icons/logo", "h-6 w-auto mr-auto"),
		Map(links, func(l link) Node {
			return A(
				Class("text-sm text-neutral-400 hover:text-white"),
				Href(l.Href),
				Rel("noopener noreferrer"),
				Target("_blank"),
				Text(l.Text),
			)
		}),
	)
}

// Signals renders a data-signals attribute from v.
func Signals(v any) Node {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Data("signals", string(b))
}

// Bind two-way binds an input to the named signal. Attribute names are
// lowercased by the browser, so camelCase signals are written in kebab case.
func Bind(signal string) Node {
	return Attr("data-bind-" + kebab(signal))
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

type InputCfg struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Error       string
	Hint        string
	Class       string
}

func FieldInput(c InputCfg) Node {
	typ := c.Type
	if typ == "" {
		typ = "text"
	}
	return Div(Class("flex flex-col gap-1 "+c.Class),
		Label(For(c.Name), Class("text-sm font-medium text-neutral-200"), Text(c.Label)),
		Input(
			ID(c.Name),
			Type(typ),
			Placeholder(c.Placeholder),
			Bind(c.Name),
			Classes{
				"w-full rounded-md border bg-neutral-900 px-3 py-2 text-white": true,
				"border-neutral-700": c.Error == "",
				"border-red-500":     c.Error != "",
			},
		),
		fieldFooter(c.Name, c.Error, c.Hint),
	)
}

func FieldTextArea(c InputCfg) Node {
	return Div(Class("flex flex-col gap-1 "+c.Class),
		Label(For(c.Name), Class("text-sm font-medium text-neutral-200"), Text(c.Label)),
		Textarea(
			ID(c.Name),
			Rows("4"),
			Placeholder(c.Placeholder),
			Bind(c.Name),
			Classes{
				"w-full rounded-md border bg-neutral-900 px-3 py-2 text-white": true,
				"border-neutral-700": c.Error == "",
				"border-red-500":     c.Error != "",
			},
		),
		fieldFooter(c.Name, c.Error, c.Hint),
	)
}

type SelectCfg struct {
	InputCfg
	Options []string
}

func FieldSelect(c SelectCfg) Node {
	return Div(Class("flex flex-col gap-1 "+c.Class),
		Label(For(c.Name), Class("text-sm font-medium text-neutral-200"), Text(c.Label)),
		Select(
			ID(c.Name),
			Bind(c.Name),
			Class("w-full rounded-md border border-neutral-700 bg-neutral-900 px-3 py-2 text-white"),
			Option(Value(""), Text(c.Placeholder)),
			Map(c.Options, func(o string) Node {
				return Option(Value(o), Text(o))
			}),
		),
		fieldFooter(c.Name, c.Error, c.Hint),
	)
}

func FieldRadios(c SelectCfg) Node {
	return FieldSet(Class("flex flex-col gap-2 "+c.Class),
		Legend(Class("text-sm font-medium text-neutral-200"), Text(c.Label)),
		Div(Class("flex gap-4"),
			Map(c.Options, func(o string) Node {
				return Label(Class("flex items-center gap-2 text-sm text-neutral-200"),
					Input(Type("radio"), Name(c.Name), Value(o), Bind(c.Name)),
					Text(o),
				)
			}),
		),
		fieldFooter(c.Name, c.Error, c.Hint),
	)
}

func fieldFooter(name, err, hint string) Node {
	if err != "" {
		return P(ID("error-"+kebab(name)), Class("text-sm text-red-400"), Text(err))
	}
	if hint != "" {
		return P(Class("text-xs text-neutral-500"), Text(hint))
	}
	return nil
}

// Notice is a banner; an empty message renders an empty placeholder so it
// can be merged later.
func Notice(id, message, tone string) Node {
	if message == "" {
		return Div(ID(id))
	}
	return Div(ID(id), Role("alert"),
		Classes{
			"rounded-md border px-4 py-3 text-sm":                      true,
			"border-red-500/50 bg-red-500/10 text-red-200":             tone == "error",
			"border-amber-500/50 bg-amber-500/10 text-amber-200":       tone == "warn",
			"border-emerald-500/50 bg-emerald-500/10 text-emerald-200": tone == "success",
			"border-indigo-500/50 bg-indigo-500/10 text-indigo-200":    tone == "info",
		},
		Text(message),
	)
}

func PrimaryButton(children ...Node) Node {
	return Button(
		Class("flex items-center justify-center gap-2 rounded-md bg-indigo-600 px-4 py-2 font-medium text-white hover:bg-indigo-500 disabled:cursor-not-allowed disabled:opacity-50"),
		Group(children),
	)
}

func SecondaryButton(children ...Node) Node {
	return Button(
		Class("rounded-md border border-neutral-600 px-4 py-2 text-neutral-200 hover:bg-neutral-800 disabled:opacity-50"),
		Group(children),
	)
}
