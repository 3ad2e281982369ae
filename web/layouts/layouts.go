package layouts

import (
	"github.com/nevofinance/nevo/internal/assets"
	"github.com/nevofinance/nevo/web/components"
	"github.com/nevofinance/nevo/web/helpers"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

const (
	datastarJS  = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v0.21.4/bundles/datastar.js"
	freighterJS = "https://cdnjs.cloudflare.com/ajax/libs/stellar-freighter-api/4.1.0/index.min.js"
)

// HotReload subscribes every page to the dev reload stream. Set once at
// startup.
var HotReload bool

type Props struct {
	Title string
	Nav   components.NavCfg
}

func Default(p Props, children ...Node) Node {
	title := "Nevo"
	if p.Title != "" {
		title = p.Title + " | Nevo"
	}

	return HTML5(HTML5Props{
		Title:       title,
		Description: "Transparent donation pools on the Stellar network.",
		Language:    "en",
		Head: []Node{
			// Opt to inline tailwind, the stylesheet is small
			StyleEl(helpers.RenderStaticToRaw("tw-output.css")),
			Script(Type("module"), Src(datastarJS)),
			Script(Src(freighterJS)),
			Script(Src(assets.GetHashedAssetPath("/assets/wallet.js")), Defer()),
		},
		Body: []Node{Class("flex min-h-screen flex-col bg-neutral-950 font-sans"),
			If(HotReload, Div(Data("on-load", "@get('/hotreload')"))),
			components.Navbar(p.Nav),
			Main(Class("mx-auto flex w-full max-w-screen-xl flex-1 flex-col gap-8 px-4 py-8 lg:px-10"),
				Group(children),
			),
			components.Foot(),
		},
	})
}
